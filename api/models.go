package api

import (
	"time"

	"github.com/jrsteele09/studysphere/credentials"
	"github.com/jrsteele09/studysphere/users"
)

// AuthResponse is returned by the credential exchange endpoints.
type AuthResponse struct {
	Tokens credentials.Pair `json:"tokens"`
	User   *users.User      `json:"user"`
}

type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type GoogleLoginRequest struct {
	Credential string `json:"credential"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// ProfileUpdate is a partial update of the current user. Nil fields are
// left unchanged.
type ProfileUpdate struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Image     *string `json:"image,omitempty"`
}

// Attendee is a session attendee as rendered in lists.
type Attendee struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// StudySession is a scheduled study session. Date and Time are free text,
// e.g. "Mon, Oct 14" and "8:00 AM - 10:00 AM".
type StudySession struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	CourseCode     string     `json:"course_code"`
	Description    string     `json:"description"`
	Date           string     `json:"date"`
	Time           string     `json:"time"`
	Location       string     `json:"location"`
	Host           int64      `json:"host"`
	HostName       string     `json:"host_name"`
	HostImage      string     `json:"host_image"`
	Group          *int64     `json:"group"`
	GroupName      *string    `json:"group_name"`
	AttendeesCount int        `json:"attendees_count"`
	AttendeesList  []Attendee `json:"attendees_list"`
	IsAttending    bool       `json:"is_attending"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// SessionInput creates or updates a session.
type SessionInput struct {
	Title       string `json:"title"`
	CourseCode  string `json:"course_code"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Location    string `json:"location"`
	Group       *int64 `json:"group"`
}

type GroupStatus string

const (
	GroupPending  GroupStatus = "pending"
	GroupApproved GroupStatus = "approved"
	GroupRejected GroupStatus = "rejected"
)

type StudyGroup struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	Subject      string      `json:"subject"`
	Description  string      `json:"description"`
	Creator      int64       `json:"creator"`
	CreatorName  string      `json:"creator_name"`
	MembersCount int         `json:"members_count"`
	MemberImages []string    `json:"member_images"`
	IsMember     bool        `json:"is_member"`
	Status       GroupStatus `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// GroupInput creates or updates a group.
type GroupInput struct {
	Name        string `json:"name"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
}

// ActionResult is the body of membership and RSVP actions.
type ActionResult struct {
	Detail   string `json:"detail"`
	XPEarned int    `json:"xp_earned,omitempty"`
}

type DashboardStats struct {
	SessionsAttended int `json:"sessions_attended"`
	GroupsJoined     int `json:"groups_joined"`
	SessionsHosted   int `json:"sessions_hosted"`
	XP               int `json:"xp"`
	Level            int `json:"level"`
}

type Dashboard struct {
	UpcomingSessions []StudySession `json:"upcoming_sessions"`
	Stats            DashboardStats `json:"stats"`
}

type Period string

const (
	PeriodWeek Period = "week"
	PeriodAll  Period = "all"
)

type LeaderboardEntry struct {
	ID        int64   `json:"id"`
	Username  string  `json:"username"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Image     *string `json:"image"`
	XP        int     `json:"xp"`
	Level     int     `json:"level"`
	Badge     string  `json:"badge"`
	Rank      int     `json:"rank"`
}

type AdminStats struct {
	TotalGroups    int `json:"total_groups"`
	ApprovedGroups int `json:"approved_groups"`
	RejectedGroups int `json:"rejected_groups"`
	TotalSessions  int `json:"total_sessions"`
	ActiveSessions int `json:"active_sessions"`
}

// AdminGroups is the moderation queue.
type AdminGroups struct {
	Pending  []StudyGroup `json:"pending"`
	Approved []StudyGroup `json:"approved"`
	Rejected []StudyGroup `json:"rejected"`
	Stats    AdminStats   `json:"stats"`
}
