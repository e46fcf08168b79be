package server

import (
	"github.com/jrsteele09/studysphere/api"
	"github.com/jrsteele09/studysphere/groups"
	"github.com/jrsteele09/studysphere/sessions"
	"github.com/jrsteele09/studysphere/users"
)

const memberImagesShown = 3

// renderer turns records into API models, loading each referenced account
// and group at most once per request.
type renderer struct {
	s        *Server
	viewer   int64
	accounts map[int64]*users.Account
	groups   map[int64]*groups.Group
}

func (s *Server) renderer(viewer int64) *renderer {
	return &renderer{
		s:        s,
		viewer:   viewer,
		accounts: make(map[int64]*users.Account),
		groups:   make(map[int64]*groups.Group),
	}
}

// account returns nil for unknown ids.
func (rd *renderer) account(id int64) *users.Account {
	if a, ok := rd.accounts[id]; ok {
		return a
	}
	a, err := rd.s.repos.Accounts.GetByID(id)
	if err != nil {
		a = nil
	}
	rd.accounts[id] = a
	return a
}

func (rd *renderer) loadGroup(id int64) *groups.Group {
	if g, ok := rd.groups[id]; ok {
		return g
	}
	g, err := rd.s.repos.Groups.Get(id)
	if err != nil {
		g = nil
	}
	rd.groups[id] = g
	return g
}

func (rd *renderer) session(sess *sessions.StudySession) api.StudySession {
	out := api.StudySession{
		ID:             sess.ID,
		Title:          sess.Title,
		CourseCode:     sess.CourseCode,
		Description:    sess.Description,
		Date:           sess.Date,
		Time:           sess.Time,
		Location:       sess.Location,
		Host:           sess.HostID,
		AttendeesCount: len(sess.Attendees),
		AttendeesList:  make([]api.Attendee, 0, len(sess.Attendees)),
		IsAttending:    rd.viewer != 0 && sess.IsAttending(rd.viewer),
		CreatedAt:      sess.CreatedAt,
		UpdatedAt:      sess.UpdatedAt,
	}
	if host := rd.account(sess.HostID); host != nil {
		out.HostName = host.Username
		out.HostImage = users.AvatarURL(host.ImagePtr(), host.Username)
	}
	if sess.GroupID != nil {
		id := *sess.GroupID
		out.Group = &id
		if g := rd.loadGroup(id); g != nil {
			name := g.Name
			out.GroupName = &name
		}
	}
	for _, id := range sess.Attendees {
		a := rd.account(id)
		if a == nil {
			continue
		}
		out.AttendeesList = append(out.AttendeesList, api.Attendee{
			Name:  users.DisplayName(a.FirstName, a.LastName, a.Username),
			Image: users.AvatarURL(a.ImagePtr(), a.Username),
		})
	}
	return out
}

func (rd *renderer) sessionList(list []*sessions.StudySession) []api.StudySession {
	out := make([]api.StudySession, 0, len(list))
	for _, sess := range list {
		out = append(out, rd.session(sess))
	}
	return out
}

func (rd *renderer) group(g *groups.Group) api.StudyGroup {
	out := api.StudyGroup{
		ID:           g.ID,
		Name:         g.Name,
		Subject:      g.Subject,
		Description:  g.Description,
		Creator:      g.CreatorID,
		MembersCount: len(g.Members),
		MemberImages: make([]string, 0, memberImagesShown),
		IsMember:     rd.viewer != 0 && g.IsMember(rd.viewer),
		Status:       api.GroupStatus(g.Status),
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
	}
	if creator := rd.account(g.CreatorID); creator != nil {
		out.CreatorName = creator.Username
	}
	for _, id := range g.Members {
		if len(out.MemberImages) == memberImagesShown {
			break
		}
		if a := rd.account(id); a != nil {
			out.MemberImages = append(out.MemberImages, users.AvatarURL(a.ImagePtr(), a.Username))
		}
	}
	return out
}

func (rd *renderer) groupList(list []*groups.Group) []api.StudyGroup {
	out := make([]api.StudyGroup, 0, len(list))
	for _, g := range list {
		out = append(out, rd.group(g))
	}
	return out
}

// profile renders an account with its approved groups.
func (s *Server) profile(account *users.Account) (*users.User, error) {
	all, err := s.repos.Groups.List()
	if err != nil {
		return nil, err
	}
	var summaries []users.GroupSummary
	for _, g := range all {
		if g.Status != groups.StatusApproved || !g.IsMember(account.ID) {
			continue
		}
		summaries = append(summaries, users.GroupSummary{
			ID:           g.ID,
			Name:         g.Name,
			MembersCount: len(g.Members),
		})
	}
	return account.Profile(summaries), nil
}
