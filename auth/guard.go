package auth

// Decision is what a protected page or command should do for a state.
type Decision int

const (
	// DecisionWait means the initial identity check is still running.
	DecisionWait Decision = iota
	// DecisionRedirect sends the user to the auth entry point.
	DecisionRedirect
	// DecisionForbidden means signed in but lacking staff rights.
	DecisionForbidden
	DecisionAllow
)

func (d Decision) String() string {
	switch d {
	case DecisionWait:
		return "wait"
	case DecisionRedirect:
		return "redirect"
	case DecisionForbidden:
		return "forbidden"
	case DecisionAllow:
		return "allow"
	}
	return "unknown"
}

// Guard gates pages that need a signed in user. It never redirects while
// the session is loading.
func Guard(s State) Decision {
	if s.Loading {
		return DecisionWait
	}
	if !s.IsAuthenticated() {
		return DecisionRedirect
	}
	return DecisionAllow
}

// RequireStaff gates the admin pages.
func RequireStaff(s State) Decision {
	if d := Guard(s); d != DecisionAllow {
		return d
	}
	if !s.User.IsStaff {
		return DecisionForbidden
	}
	return DecisionAllow
}
