package api_test

import (
	"testing"

	"github.com/jrsteele09/studysphere/api"
	"github.com/jrsteele09/studysphere/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestFilterGroups(t *testing.T) {
	groups := []api.StudyGroup{
		{ID: 1, Name: "Algorithms Club", Subject: "Computer Science", Description: "Graphs and DP"},
		{ID: 2, Name: "Bio Buddies", Subject: "Biology", Description: "Cell structure review"},
		{ID: 3, Name: "Calc Crew", Subject: "Mathematics", Description: "Integrals and limits"},
	}

	ids := func(gs []api.StudyGroup) []int64 {
		out := []int64{}
		for _, g := range gs {
			out = append(out, g.ID)
		}
		return out
	}

	require.Equal(t, []int64{1, 2, 3}, ids(api.FilterGroups(groups, "")))
	require.Equal(t, []int64{1}, ids(api.FilterGroups(groups, "ALGO")))
	require.Equal(t, []int64{2}, ids(api.FilterGroups(groups, "biology")))
	require.Equal(t, []int64{3}, ids(api.FilterGroups(groups, "integrals")))
	require.Empty(t, api.FilterGroups(groups, "chemistry"))
}

func TestFilterSessions(t *testing.T) {
	sessions := []api.StudySession{
		{ID: 1, Title: "Final Exam Prep", CourseCode: "CS101", Location: "Discord Link", GroupName: utils.Ptr("Algorithms Club")},
		{ID: 2, Title: "Lab walkthrough", CourseCode: "BIO200", Location: "Library Room 3"},
		{ID: 3, Title: "Problem set", CourseCode: "MATH150", Location: "Online", GroupName: utils.Ptr("Calc Crew")},
	}

	ids := func(ss []api.StudySession) []int64 {
		out := []int64{}
		for _, s := range ss {
			out = append(out, s.ID)
		}
		return out
	}

	tests := []struct {
		name   string
		query  string
		filter api.SessionFilter
		want   []int64
	}{
		{"all", "", api.FilterAll, []int64{1, 2, 3}},
		{"online", "", api.FilterOnline, []int64{1, 3}},
		{"in person", "", api.FilterInPerson, []int64{2}},
		{"this week keeps everything", "", api.FilterThisWeek, []int64{1, 2, 3}},
		{"exam prep", "", api.FilterExamPrep, []int64{1}},
		{"course code search", "bio", api.FilterAll, []int64{2}},
		{"group name search", "calc", api.FilterAll, []int64{3}},
		{"search and filter", "cs101", api.FilterInPerson, []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ids(api.FilterSessions(sessions, tt.query, tt.filter)))
		})
	}
}

func TestParseSessionFilter(t *testing.T) {
	f, err := api.ParseSessionFilter("in-person")
	require.NoError(t, err)
	require.Equal(t, api.FilterInPerson, f)

	f, err = api.ParseSessionFilter("exam_prep")
	require.NoError(t, err)
	require.Equal(t, api.FilterExamPrep, f)

	f, err = api.ParseSessionFilter("")
	require.NoError(t, err)
	require.Equal(t, api.FilterAll, f)

	_, err = api.ParseSessionFilter("tomorrow")
	require.Error(t, err)
}
