package fakeuserrepo

import (
	"sort"
	"strings"
	"sync"

	apperrors "github.com/jrsteele09/studysphere/internal/errors"
	"github.com/jrsteele09/studysphere/users"
)

var _ users.AccountRepo = (*FakeAccountRepo)(nil)

type FakeAccountRepo struct {
	accounts    map[int64]*users.Account
	usernameIDs map[string]int64 // lower-cased username to id
	emailIDs    map[string]int64 // lower-cased email to id
	nextID      int64
	lock        sync.RWMutex
}

func NewFakeAccountRepo() *FakeAccountRepo {
	return &FakeAccountRepo{
		accounts:    make(map[int64]*users.Account),
		usernameIDs: make(map[string]int64),
		emailIDs:    make(map[string]int64),
	}
}

func (r *FakeAccountRepo) Create(account *users.Account) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.usernameIDs[strings.ToLower(account.Username)]; ok {
		return apperrors.Wrapf(apperrors.ErrUserExists, "username %q", account.Username)
	}
	if account.Email != "" {
		if _, ok := r.emailIDs[strings.ToLower(account.Email)]; ok {
			return apperrors.Wrapf(apperrors.ErrUserExists, "email %q", account.Email)
		}
	}

	r.nextID++
	account.ID = r.nextID
	r.store(account.Clone())
	return nil
}

func (r *FakeAccountRepo) Update(account *users.Account) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	existing, ok := r.accounts[account.ID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	if !strings.EqualFold(existing.Email, account.Email) && account.Email != "" {
		if id, ok := r.emailIDs[strings.ToLower(account.Email)]; ok && id != account.ID {
			return apperrors.Wrapf(apperrors.ErrUserExists, "email %q", account.Email)
		}
	}
	delete(r.usernameIDs, strings.ToLower(existing.Username))
	delete(r.emailIDs, strings.ToLower(existing.Email))
	r.store(account.Clone())
	return nil
}

func (r *FakeAccountRepo) store(account *users.Account) {
	r.accounts[account.ID] = account
	r.usernameIDs[strings.ToLower(account.Username)] = account.ID
	if account.Email != "" {
		r.emailIDs[strings.ToLower(account.Email)] = account.ID
	}
}

func (r *FakeAccountRepo) GetByID(id int64) (*users.Account, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	a, ok := r.accounts[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return a.Clone(), nil
}

func (r *FakeAccountRepo) GetByUsername(username string) (*users.Account, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	id, ok := r.usernameIDs[strings.ToLower(username)]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return r.accounts[id].Clone(), nil
}

func (r *FakeAccountRepo) GetByEmail(email string) (*users.Account, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	id, ok := r.emailIDs[strings.ToLower(email)]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return r.accounts[id].Clone(), nil
}

func (r *FakeAccountRepo) GetByGoogleSubject(subject string) (*users.Account, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	if subject == "" {
		return nil, apperrors.ErrUserNotFound
	}
	for _, a := range r.accounts {
		if a.GoogleSubject == subject {
			return a.Clone(), nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

// List returns all accounts ordered by id.
func (r *FakeAccountRepo) List() ([]*users.Account, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	list := make([]*users.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		list = append(list, a.Clone())
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].ID < list[j].ID
	})
	return list, nil
}
