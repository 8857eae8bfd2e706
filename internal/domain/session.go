package domain

// Session carries request-scoped user state through the pipeline. It is an
// explicit value passed to operations that need it; components never consult
// ambient globals for the current user.
//
// UserID keys the remote record store. OneTimeCode and Selected exist for
// the interactive review flow that sits outside this service; they travel
// with the session so that flow does not need its own state channel.
type Session struct {
	UserID      string
	OneTimeCode string
	Selected    map[int]bool
}

// NewSession creates a session for the given user.
func NewSession(userID string) *Session {
	return &Session{
		UserID:   userID,
		Selected: make(map[int]bool),
	}
}
