package domain

// Phase is the lifecycle position of a voice session.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseListening
	PhaseProcessing
	PhaseSpeaking
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseListening:
		return "listening"
	case PhaseProcessing:
		return "processing"
	case PhaseSpeaking:
		return "speaking"
	default:
		return "unknown"
	}
}

// Mode gates whether a transcript is acted upon. While Inactive an utterance
// must contain the assistant's configured name before it is dispatched;
// ConversationActive dispatches every utterance until a stop phrase.
type Mode int

const (
	ModeInactive Mode = iota
	ModeConversationActive
)

func (m Mode) String() string {
	switch m {
	case ModeInactive:
		return "inactive"
	case ModeConversationActive:
		return "conversation-active"
	default:
		return "unknown"
	}
}
