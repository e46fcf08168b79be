package groups

type Repo interface {
	Create(group *Group) error
	Update(group *Group) error
	Delete(id int64) error
	Get(id int64) (*Group, error)
	// List returns groups newest first.
	List() ([]*Group, error)
}
