package api

import (
	"fmt"
	"strings"
)

// SessionFilter narrows a session listing.
type SessionFilter string

const (
	FilterAll      SessionFilter = "All"
	FilterOnline   SessionFilter = "Online"
	FilterInPerson SessionFilter = "In-Person"
	FilterThisWeek SessionFilter = "This Week"
	FilterExamPrep SessionFilter = "Exam Prep"
)

// SessionFilters lists the filters in display order.
var SessionFilters = []SessionFilter{FilterAll, FilterOnline, FilterInPerson, FilterThisWeek, FilterExamPrep}

// onlineLocations are the location values that mark a remote session.
var onlineLocations = map[string]bool{
	"Discord Link": true,
	"Online":       true,
}

// ParseSessionFilter accepts a filter name in any case, with "-", "_" or
// a space between words.
func ParseSessionFilter(s string) (SessionFilter, error) {
	if s == "" {
		return FilterAll, nil
	}
	norm := func(v string) string {
		v = strings.ToLower(v)
		return strings.NewReplacer("-", "", "_", "", " ", "").Replace(v)
	}
	want := norm(s)
	for _, f := range SessionFilters {
		if norm(string(f)) == want {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown session filter %q", s)
}

// FilterGroups keeps groups whose name, subject or description contains
// query, ignoring case. An empty query keeps everything.
func FilterGroups(groups []StudyGroup, query string) []StudyGroup {
	q := strings.ToLower(query)
	out := make([]StudyGroup, 0, len(groups))
	for _, g := range groups {
		if contains(g.Name, q) || contains(g.Subject, q) || contains(g.Description, q) {
			out = append(out, g)
		}
	}
	return out
}

// FilterSessions keeps sessions whose course code, title or group name
// contains query, ignoring case, and that pass filter. "This Week" matches
// every session since dates are free text.
func FilterSessions(sessions []StudySession, query string, filter SessionFilter) []StudySession {
	q := strings.ToLower(query)
	out := make([]StudySession, 0, len(sessions))
	for _, s := range sessions {
		groupName := ""
		if s.GroupName != nil {
			groupName = *s.GroupName
		}
		if !contains(s.CourseCode, q) && !contains(s.Title, q) && !contains(groupName, q) {
			continue
		}
		if matchesFilter(s, filter) {
			out = append(out, s)
		}
	}
	return out
}

func matchesFilter(s StudySession, filter SessionFilter) bool {
	switch filter {
	case FilterOnline:
		return onlineLocations[s.Location]
	case FilterInPerson:
		return !onlineLocations[s.Location]
	case FilterExamPrep:
		return contains(s.Title, "exam")
	default:
		return true
	}
}

func contains(field, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(field), lowerQuery)
}
