package auth_test

import (
	"testing"

	"github.com/jrsteele09/studysphere/auth"
	"github.com/jrsteele09/studysphere/users"
	"github.com/stretchr/testify/require"
)

func TestGuard(t *testing.T) {
	member := &users.User{Username: "alice"}
	staff := &users.User{Username: "root", IsStaff: true}

	tests := []struct {
		name  string
		state auth.State
		guard auth.Decision
		staff auth.Decision
	}{
		{"loading", auth.State{Loading: true}, auth.DecisionWait, auth.DecisionWait},
		{"loading with stale user", auth.State{Loading: true, User: member}, auth.DecisionWait, auth.DecisionWait},
		{"anonymous", auth.State{}, auth.DecisionRedirect, auth.DecisionRedirect},
		{"member", auth.State{User: member}, auth.DecisionAllow, auth.DecisionForbidden},
		{"staff", auth.State{User: staff}, auth.DecisionAllow, auth.DecisionAllow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.guard, auth.Guard(tt.state))
			require.Equal(t, tt.staff, auth.RequireStaff(tt.state))
		})
	}
	require.Equal(t, "redirect", auth.DecisionRedirect.String())
}
