package events

const (
	// KindSessionWindowExpired identifies expiry of the engine-ceiling window.
	KindSessionWindowExpired Kind = "timer.session_window_expired"
	// KindConversationWindowExpired identifies expiry of the user-inactivity window.
	KindConversationWindowExpired Kind = "timer.conversation_window_expired"
	// KindRestartDue identifies expiry of the post-terminal restart delay.
	KindRestartDue Kind = "timer.restart_due"
)

// SessionWindowExpired marks expiry of the session window.
type SessionWindowExpired struct {
	Base
	Generation uint64
}

// NewSessionWindowExpired creates a session window expiry event.
func NewSessionWindowExpired(generation uint64) SessionWindowExpired {
	return SessionWindowExpired{Base: NewBase(KindSessionWindowExpired), Generation: generation}
}

// ConversationWindowExpired marks expiry of the conversation window.
type ConversationWindowExpired struct {
	Base
	Generation uint64
}

// NewConversationWindowExpired creates a conversation window expiry event.
func NewConversationWindowExpired(generation uint64) ConversationWindowExpired {
	return ConversationWindowExpired{Base: NewBase(KindConversationWindowExpired), Generation: generation}
}

// RestartDue marks expiry of the restart delay.
type RestartDue struct {
	Base
	Generation uint64
}

// NewRestartDue creates a restart due event.
func NewRestartDue(generation uint64) RestartDue {
	return RestartDue{Base: NewBase(KindRestartDue), Generation: generation}
}
