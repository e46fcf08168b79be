package sessions

type Repo interface {
	Create(session *StudySession) error
	Update(session *StudySession) error
	Delete(id int64) error
	Get(id int64) (*StudySession, error)
	// List returns sessions newest first.
	List() ([]*StudySession, error)
	// ClearGroup detaches every session from a deleted group.
	ClearGroup(groupID int64) error
}
