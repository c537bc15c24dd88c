package domain

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single role-tagged message in a conversation history.
// Insertion order is the canonical chronological order; history is replayed
// verbatim as dialogue context on every completion call.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Mode selects one of the two independent conversational contexts. Each mode
// owns its history and its role instructions; nothing is shared across modes.
type Mode string

const (
	ModeQA     Mode = "qa"
	ModeNormal Mode = "normal"
)

func Modes() []Mode {
	return []Mode{ModeQA, ModeNormal}
}

func (m Mode) Valid() bool {
	switch m {
	case ModeQA, ModeNormal:
		return true
	default:
		return false
	}
}
