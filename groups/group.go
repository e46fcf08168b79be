package groups

import (
	"slices"
	"time"
)

// Status is the moderation state of a group.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Group is a study group. Members are kept in join order.
type Group struct {
	ID          int64
	Name        string
	Subject     string
	Description string
	CreatorID   int64
	Status      Status
	Members     []int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (g *Group) IsMember(userID int64) bool {
	return slices.Contains(g.Members, userID)
}

// AddMember returns false when the user was already a member.
func (g *Group) AddMember(userID int64) bool {
	if g.IsMember(userID) {
		return false
	}
	g.Members = append(g.Members, userID)
	return true
}

// RemoveMember returns false when the user was not a member.
func (g *Group) RemoveMember(userID int64) bool {
	i := slices.Index(g.Members, userID)
	if i < 0 {
		return false
	}
	g.Members = slices.Delete(g.Members, i, i+1)
	return true
}

// Clone returns a copy safe to mutate.
func (g *Group) Clone() *Group {
	c := *g
	c.Members = slices.Clone(g.Members)
	return &c
}
