package types

// SessionState is the authentication state of the current user.
type SessionState int

const (
	// SessionPending means the identity provider has not reported yet, or a
	// sign-in is underway.
	SessionPending SessionState = iota
	// SessionAnonymous means nobody is signed in.
	SessionAnonymous
	// SessionAuthenticated means a user is signed in.
	SessionAuthenticated
)

func (s SessionState) String() string {
	switch s {
	case SessionPending:
		return "pending"
	case SessionAnonymous:
		return "anonymous"
	case SessionAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Session is what the identity provider reports about the current user.
type Session struct {
	State       SessionState `json:"state"`
	UID         string       `json:"uid,omitempty"`
	DisplayName string       `json:"displayName,omitempty"`
}

// AnonymousSession returns a signed-out session.
func AnonymousSession() Session {
	return Session{State: SessionAnonymous}
}

// AuthenticatedSession returns a signed-in session for uid.
func AuthenticatedSession(uid, displayName string) Session {
	return Session{State: SessionAuthenticated, UID: uid, DisplayName: displayName}
}

// Authenticated reports whether a user is signed in.
func (s Session) Authenticated() bool {
	return s.State == SessionAuthenticated && s.UID != ""
}
