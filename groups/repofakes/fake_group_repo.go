package grouprepofakes

import (
	"sort"
	"sync"

	"github.com/jrsteele09/studysphere/groups"
	apperrors "github.com/jrsteele09/studysphere/internal/errors"
)

var _ groups.Repo = (*FakeGroupRepo)(nil)

type FakeGroupRepo struct {
	groups map[int64]*groups.Group
	nextID int64
	lock   sync.RWMutex
}

func NewFakeGroupRepo() *FakeGroupRepo {
	return &FakeGroupRepo{
		groups: make(map[int64]*groups.Group),
	}
}

func (gr *FakeGroupRepo) Create(group *groups.Group) error {
	gr.lock.Lock()
	defer gr.lock.Unlock()
	gr.nextID++
	group.ID = gr.nextID
	gr.groups[group.ID] = group.Clone()
	return nil
}

func (gr *FakeGroupRepo) Update(group *groups.Group) error {
	gr.lock.Lock()
	defer gr.lock.Unlock()
	if _, ok := gr.groups[group.ID]; !ok {
		return apperrors.ErrNotFound
	}
	gr.groups[group.ID] = group.Clone()
	return nil
}

func (gr *FakeGroupRepo) Delete(id int64) error {
	gr.lock.Lock()
	defer gr.lock.Unlock()
	if _, ok := gr.groups[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(gr.groups, id)
	return nil
}

func (gr *FakeGroupRepo) Get(id int64) (*groups.Group, error) {
	gr.lock.RLock()
	defer gr.lock.RUnlock()
	g, ok := gr.groups[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return g.Clone(), nil
}

func (gr *FakeGroupRepo) List() ([]*groups.Group, error) {
	gr.lock.RLock()
	defer gr.lock.RUnlock()

	list := make([]*groups.Group, 0, len(gr.groups))
	for _, g := range gr.groups {
		list = append(list, g.Clone())
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].ID > list[j].ID
	})
	return list, nil
}
