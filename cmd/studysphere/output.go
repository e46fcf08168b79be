package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/jrsteele09/studysphere/api"
	"github.com/jrsteele09/studysphere/badges"
	"github.com/jrsteele09/studysphere/users"
)

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
}

func printUser(u *users.User) {
	fmt.Printf("%s (@%s)\n", u.DisplayName(), u.Username)
	info("Email   %s", u.Email)
	info("Level   %d", u.Level)
	info("XP      %d / %d", u.XP, u.NextLevelXP())
	if u.IsStaff {
		info("Role    staff")
	}
	if len(u.Badges) > 0 {
		names := make([]string, 0, len(u.Badges))
		for _, b := range u.Badges {
			names = append(names, b.Name)
		}
		info("Badges  %s", strings.Join(names, ", "))
	}
	for _, g := range u.Groups {
		info("Group   %s (%d members)", g.Name, g.MembersCount)
	}
}

func printSessions(list []api.StudySession) {
	if len(list) == 0 {
		info("No sessions found")
		return
	}
	tw := newTable()
	fmt.Fprintln(tw, "ID\tCOURSE\tTITLE\tWHEN\tWHERE\tGOING\t")
	for _, s := range list {
		going := fmt.Sprintf("%d", s.AttendeesCount)
		if s.IsAttending {
			going += " ✓"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s %s\t%s\t%s\t\n", s.ID, s.CourseCode, s.Title, s.Date, s.Time, s.Location, going)
	}
	tw.Flush()
}

func printSession(s *api.StudySession) {
	fmt.Printf("%s [%s]\n", s.Title, s.CourseCode)
	info("When    %s, %s", s.Date, s.Time)
	info("Where   %s", s.Location)
	info("Host    %s", s.HostName)
	if s.GroupName != nil {
		info("Group   %s", *s.GroupName)
	}
	if s.Description != "" {
		info("About   %s", s.Description)
	}
	info("Going   %d", s.AttendeesCount)
	for _, a := range s.AttendeesList {
		info("        - %s", a.Name)
	}
	if s.IsAttending {
		info("You are attending")
	}
}

func printGroups(list []api.StudyGroup) {
	if len(list) == 0 {
		info("No groups found")
		return
	}
	tw := newTable()
	fmt.Fprintln(tw, "ID\tSUBJECT\tNAME\tMEMBERS\tSTATUS\t")
	for _, g := range list {
		members := fmt.Sprintf("%d", g.MembersCount)
		if g.IsMember {
			members += " ✓"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t\n", g.ID, g.Subject, g.Name, members, g.Status)
	}
	tw.Flush()
}

func printGroup(g *api.StudyGroup) {
	fmt.Printf("%s [%s]\n", g.Name, g.Subject)
	info("Badge   %s", badges.GroupColor(g.Name))
	info("Creator %s", g.CreatorName)
	info("Members %d", g.MembersCount)
	info("Status  %s", g.Status)
	if g.Description != "" {
		info("About   %s", g.Description)
	}
	if g.IsMember {
		info("You are a member")
	}
}

func printResult(r *api.ActionResult) {
	if r.XPEarned > 0 {
		success("%s (+%d XP)", r.Detail, r.XPEarned)
		return
	}
	success("%s", r.Detail)
}
