package transcript

import "time"

type Role string

const (
	RoleOperator    Role = "operator"
	RoleCounterpart Role = "counterpart"
)

// Channel records how an entry was produced.
type Channel string

const (
	ChannelTyped  Channel = "typed"
	ChannelSpoken Channel = "spoken"
)

// Entry is one turn of the conversation.
type Entry struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Channel   Channel   `json:"channel"`
}

// State of the assembler for the active session.
type State int

const (
	Idle State = iota
	AwaitingGreeting
	Conversing
	ClientSpeaking
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingGreeting:
		return "awaiting_greeting"
	case Conversing:
		return "conversing"
	case ClientSpeaking:
		return "client_speaking"
	}
	return "unknown"
}
