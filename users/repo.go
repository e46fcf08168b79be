package users

// AccountRepo stores accounts. Implementations return copies, so callers
// persist changes with Update.
type AccountRepo interface {
	Create(account *Account) error
	Update(account *Account) error
	GetByID(id int64) (*Account, error)
	GetByUsername(username string) (*Account, error)
	GetByEmail(email string) (*Account, error)
	GetByGoogleSubject(subject string) (*Account, error)
	List() ([]*Account, error)
}
