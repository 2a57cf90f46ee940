package storage

import "dm-chat/internal/model"

// Transcript holds the ordered messages of one session. Implementations
// are not safe for concurrent use; the owner serializes access.
type Transcript interface {
	Append(messages ...model.Message)
	// Remove drops the message with the given ID without touching the
	// order of the others.
	Remove(id string) error
	Reset()
	List() []model.Message
	Len() int
}
