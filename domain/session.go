package domain

// SessionState is the lifecycle stage of an edit session.
type SessionState int

const (
	SessionClosed SessionState = iota
	SessionOpen
	SessionSaved
	SessionDeleted
	SessionCancelled
)

func (s SessionState) String() string {
	switch s {
	case SessionOpen:
		return "open"
	case SessionSaved:
		return "saved"
	case SessionDeleted:
		return "deleted"
	case SessionCancelled:
		return "cancelled"
	default:
		return "closed"
	}
}

// EditSession holds the snapshot of a task taken when its edit form opened.
type EditSession struct {
	baseline Task
	state    SessionState
}

// OpenEditSession snapshots t and returns an open session.
func OpenEditSession(t Task) *EditSession {
	return &EditSession{baseline: t, state: SessionOpen}
}

// Baseline returns a copy of the snapshot.
func (s *EditSession) Baseline() Task {
	if s == nil {
		return Task{}
	}
	return s.baseline
}

// TaskID is the id save and delete act on.
func (s *EditSession) TaskID() string {
	if s == nil {
		return ""
	}
	return s.baseline.ID
}

// IsOpen reports whether the session still accepts save or delete.
func (s *EditSession) IsOpen() bool {
	return s != nil && s.state == SessionOpen
}

// State returns the current lifecycle stage.
func (s *EditSession) State() SessionState {
	if s == nil {
		return SessionClosed
	}
	return s.state
}

// Changed reports whether form differs from the snapshot in any editable field.
func (s *EditSession) Changed(form TaskFields) bool {
	if !s.IsOpen() {
		return false
	}
	return form != s.baseline.Fields()
}

// Close ends the session with the given outcome. Closing twice keeps the first outcome.
func (s *EditSession) Close(outcome SessionState) {
	if !s.IsOpen() {
		return
	}
	switch outcome {
	case SessionSaved, SessionDeleted, SessionCancelled:
		s.state = outcome
	default:
		s.state = SessionCancelled
	}
}
