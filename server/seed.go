package server

import (
	"context"
	"fmt"
	"time"

	"github.com/jrsteele09/studysphere/groups"
	"github.com/jrsteele09/studysphere/sessions"
	"github.com/jrsteele09/studysphere/users"
	"github.com/rs/zerolog/log"
)

const demoPassword = "password123"

type demoUser struct {
	username, first, last, image string
	xp                           int
	badge                        users.Badge
}

type demoGroup struct {
	name, subject, description string
	creator                    string
	status                     groups.Status
	members                    []string
}

type demoSession struct {
	title, course, description, date, time, location string
	host                                             string
	group                                            string
	attendees                                        []string
}

var demoUsers = []demoUser{
	{"razancodes", "Muhammed", "Razan", "https://api.dicebear.com/9.x/avataaars/svg?seed=Henry", 1250,
		users.Badge{Name: "Rising Star", Icon: "Zap", Color: "text-purple-500", BgColor: "bg-purple-500/20"}},
	{"talibkhan", "Talib", "Khan", "https://api.dicebear.com/9.x/avataaars/svg?seed=james", 620,
		users.Badge{Name: "Weekend Warrior", Icon: "Target", Color: "text-red-500", BgColor: "bg-red-500/20"}},
	{"mayank", "Mayank", "Mehta", "https://api.dicebear.com/9.x/avataaars/svg?seed=Human", 890,
		users.Badge{Name: "Study Buddy", Icon: "BookOpen", Color: "text-cyan-500", BgColor: "bg-cyan-500/20"}},
	{"muzammil", "Muzammil", "Zahoor", "https://api.dicebear.com/7.x/avataaars/svg?seed=Rashford", 750,
		users.Badge{Name: "Initiator", Icon: "Zap", Color: "text-yellow-500", BgColor: "bg-yellow-500/20"}},
	{"jensen", "Jensen", "Huang", "https://api.dicebear.com/9.x/avataaars/svg?top=frizzle", 1120,
		users.Badge{Name: "Knowledge Seeker", Icon: "BookOpen", Color: "text-blue-500", BgColor: "bg-blue-500/20"}},
	{"steve", "Steve", "Jobs", "https://api.dicebear.com/7.x/avataaars/svg?seed=Punjab", 980,
		users.Badge{Name: "Team Player", Icon: "Users", Color: "text-green-500", BgColor: "bg-green-500/20"}},
}

var demoGroups = []demoGroup{
	{"Team StudySphere", "22CS3AEFWD", "Deep dive into React JS, FASTAPI and Django.",
		"razancodes", groups.StatusApproved, []string{"razancodes", "mayank", "muzammil"}},
	{"Statistics and Discrete Maths", "23MA3BSSDM", "Collaborative learning space for probability and stats concepts, problem-solving, and exam prep.",
		"talibkhan", groups.StatusApproved, []string{"talibkhan", "steve"}},
	{"Java Coding Club", "23CS3PCOOJ", "Learning to develop Java applications.",
		"razancodes", groups.StatusApproved, []string{"razancodes", "jensen", "muzammil"}},
	{"Data Structures", "23CS3PCDST", "Explore Data Structures, and How they work together.",
		"muzammil", groups.StatusApproved, []string{"muzammil", "mayank"}},
	{"Machine Learning gang", "23CS6PCMAL", "Advanced machine learning techniques, neural networks, and AI project discussions.",
		"mayank", groups.StatusApproved, []string{"mayank", "razancodes", "jensen"}},
	{"Full stack web dev club", "22CS3AEFWD", "For students interested in full stack web development",
		"muzammil", groups.StatusPending, []string{"muzammil"}},
	{"Java Study Group", "23CS3PCOOJ", "Collaborative study group for Java fundamentals",
		"mayank", groups.StatusPending, []string{"mayank"}},
}

var demoSessions = []demoSession{
	{"Full Stack Web Development", "22CS3AEFWD", "An in-depth study of React for frontend, Django for backend and FASTAPI for connecting APIs.",
		"Wednesday, October 22nd", "8:00 AM - 10:00 AM", "CSE-UG LAB2", "razancodes", "Team StudySphere",
		[]string{"razancodes", "mayank", "muzammil", "jensen"}},
	{"Probability Practice", "23MA3BSSDM", "Practice problems for probability and statistics",
		"October 23", "1:00 PM - 2:00 PM", "Reference Section, 1st Floor PJA Block", "talibkhan", "Statistics and Discrete Maths",
		[]string{"talibkhan", "steve", "razancodes"}},
	{"Java Coding Session (cie-1)", "23CS3PCOOJ", "Prepare for CIE-1 with practice coding problems",
		"October 25", "3:00 PM - 5:00 PM", "CSE Dept, Room 102", "razancodes", "Java Coding Club",
		[]string{"razancodes", "muzammil", "jensen"}},
	{"Computer Architecture Revision", "23CS3ESCOA", "Review computer architecture concepts",
		"October 26", "10:00 AM - 12:00 PM", "CSE-UG LAB1", "muzammil", "",
		[]string{"muzammil", "mayank"}},
	{"Database Queries Workshop", "23CS3PCDBM", "Practice SQL queries and database design",
		"October 28", "9:00 AM - 11:00 AM", "CSE-UG LAB3", "razancodes", "",
		[]string{"razancodes", "steve"}},
	{"Data Structures & Algorithms Bootcamp", "23CS3PCDST", "Intensive DSA practice session",
		"October 29", "11:00 AM - 1:00 PM", "Reference Section, 2nd Floor PJA Block", "muzammil", "Data Structures",
		[]string{"muzammil", "mayank", "razancodes"}},
}

// SeedDemoData fills empty repositories with a small campus of users,
// groups and sessions. Demo users sign in with "password123".
func (s *Server) SeedDemoData(ctx context.Context) error {
	existing, err := s.repos.Groups.List()
	if err != nil {
		return fmt.Errorf("failed to check for existing groups: %w", err)
	}
	if len(existing) > 0 {
		log.Info().Msg("   Demo data skipped, groups already exist")
		return nil
	}

	hash, err := users.HashPassword(demoPassword)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	now := s.now()
	ids := make(map[string]int64, len(demoUsers))
	for i, du := range demoUsers {
		badge := du.badge
		badge.ID = int64(i + 1)
		badge.EarnedAt = now
		account := &users.Account{
			Username:     du.username,
			Email:        du.username + "@example.com",
			PasswordHash: hash,
			FirstName:    du.first,
			LastName:     du.last,
			Image:        du.image,
			XP:           du.xp,
			Level:        users.LevelForXP(du.xp),
			Badges:       []users.Badge{badge},
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.repos.Accounts.Create(account); err != nil {
			return fmt.Errorf("failed to create demo user %s: %w", du.username, err)
		}
		ids[du.username] = account.ID
	}

	groupIDs := make(map[string]int64, len(demoGroups))
	for i, dg := range demoGroups {
		g := &groups.Group{
			Name:        dg.name,
			Subject:     dg.subject,
			Description: dg.description,
			CreatorID:   ids[dg.creator],
			Status:      dg.status,
			CreatedAt:   now.Add(time.Duration(i) * time.Second),
		}
		g.UpdatedAt = g.CreatedAt
		for _, m := range dg.members {
			g.AddMember(ids[m])
		}
		if err := s.repos.Groups.Create(g); err != nil {
			return fmt.Errorf("failed to create demo group %s: %w", dg.name, err)
		}
		groupIDs[dg.name] = g.ID
	}

	for i, ds := range demoSessions {
		sess := &sessions.StudySession{
			Title:       ds.title,
			CourseCode:  ds.course,
			Description: ds.description,
			Date:        ds.date,
			Time:        ds.time,
			Location:    ds.location,
			HostID:      ids[ds.host],
			CreatedAt:   now.Add(time.Duration(i) * time.Second),
		}
		sess.UpdatedAt = sess.CreatedAt
		if ds.group != "" {
			id := groupIDs[ds.group]
			sess.GroupID = &id
		}
		for _, a := range ds.attendees {
			sess.AddAttendee(ids[a])
		}
		if err := s.repos.Sessions.Create(sess); err != nil {
			return fmt.Errorf("failed to create demo session %s: %w", ds.title, err)
		}
	}

	log.Info().
		Int("users", len(demoUsers)).
		Int("groups", len(demoGroups)).
		Int("sessions", len(demoSessions)).
		Msg("   ✅ Seeded demo data")
	return nil
}
