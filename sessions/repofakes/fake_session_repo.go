package fakesessionrepo

import (
	"sort"
	"sync"

	apperrors "github.com/jrsteele09/studysphere/internal/errors"
	"github.com/jrsteele09/studysphere/sessions"
)

var _ sessions.Repo = (*FakeSessionRepo)(nil)

type FakeSessionRepo struct {
	sessions map[int64]*sessions.StudySession
	nextID   int64
	lock     sync.RWMutex
}

func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{
		sessions: make(map[int64]*sessions.StudySession),
	}
}

func (sr *FakeSessionRepo) Create(session *sessions.StudySession) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()
	sr.nextID++
	session.ID = sr.nextID
	sr.sessions[session.ID] = session.Clone()
	return nil
}

func (sr *FakeSessionRepo) Update(session *sessions.StudySession) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()
	if _, ok := sr.sessions[session.ID]; !ok {
		return apperrors.ErrNotFound
	}
	sr.sessions[session.ID] = session.Clone()
	return nil
}

func (sr *FakeSessionRepo) Delete(id int64) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()
	if _, ok := sr.sessions[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(sr.sessions, id)
	return nil
}

func (sr *FakeSessionRepo) Get(id int64) (*sessions.StudySession, error) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()
	s, ok := sr.sessions[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return s.Clone(), nil
}

func (sr *FakeSessionRepo) List() ([]*sessions.StudySession, error) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	list := make([]*sessions.StudySession, 0, len(sr.sessions))
	for _, s := range sr.sessions {
		list = append(list, s.Clone())
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].ID > list[j].ID
	})
	return list, nil
}

func (sr *FakeSessionRepo) ClearGroup(groupID int64) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()
	for _, s := range sr.sessions {
		if s.InGroup(groupID) {
			s.GroupID = nil
		}
	}
	return nil
}
