package sessions

import (
	"slices"
	"time"
)

// StudySession is a scheduled study session. Date and Time are free text.
// Attendees are kept in RSVP order.
type StudySession struct {
	ID          int64
	Title       string
	CourseCode  string
	Description string
	Date        string
	Time        string
	Location    string
	HostID      int64
	GroupID     *int64
	Attendees   []int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (s *StudySession) IsAttending(userID int64) bool {
	return slices.Contains(s.Attendees, userID)
}

// AddAttendee returns false when the user had already RSVP'd.
func (s *StudySession) AddAttendee(userID int64) bool {
	if s.IsAttending(userID) {
		return false
	}
	s.Attendees = append(s.Attendees, userID)
	return true
}

// RemoveAttendee returns false when the user had not RSVP'd.
func (s *StudySession) RemoveAttendee(userID int64) bool {
	i := slices.Index(s.Attendees, userID)
	if i < 0 {
		return false
	}
	s.Attendees = slices.Delete(s.Attendees, i, i+1)
	return true
}

// InGroup reports whether the session belongs to group id.
func (s *StudySession) InGroup(id int64) bool {
	return s.GroupID != nil && *s.GroupID == id
}

// Clone returns a copy safe to mutate.
func (s *StudySession) Clone() *StudySession {
	c := *s
	c.Attendees = slices.Clone(s.Attendees)
	if s.GroupID != nil {
		id := *s.GroupID
		c.GroupID = &id
	}
	return &c
}
