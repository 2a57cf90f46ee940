package model

type SessionState string

const (
	StateIdle    SessionState = "idle"
	StateSending SessionState = "sending"
)

// Snapshot is a point-in-time copy of a session handed to presentations.
// Revision grows with every mutation, so of two snapshots the one with
// the higher revision is newer.
type Snapshot struct {
	Generation uint64       `json:"generation"`
	Revision   uint64       `json:"revision"`
	State      SessionState `json:"state"`
	Messages   []Message    `json:"messages"`
}

func (s Snapshot) Sending() bool {
	return s.State == StateSending
}

// TypingCount reports how many typing placeholders the snapshot holds.
func (s Snapshot) TypingCount() int {
	n := 0
	for _, m := range s.Messages {
		if m.IsTyping() {
			n++
		}
	}
	return n
}
