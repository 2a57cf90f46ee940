package storage

import "dm-chat/internal/model"

type MemoryTranscript struct {
	messages []model.Message
}

func NewMemoryTranscript() *MemoryTranscript {
	return &MemoryTranscript{}
}

func (t *MemoryTranscript) Append(messages ...model.Message) {
	t.messages = append(t.messages, messages...)
}

func (t *MemoryTranscript) Remove(id string) error {
	for i, msg := range t.messages {
		if msg.ID != id {
			continue
		}
		out := make([]model.Message, 0, len(t.messages)-1)
		out = append(out, t.messages[:i]...)
		t.messages = append(out, t.messages[i+1:]...)
		return nil
	}
	return ErrMessageNotFound
}

func (t *MemoryTranscript) Reset() {
	t.messages = nil
}

// List returns a copy; callers may keep it after further mutations.
func (t *MemoryTranscript) List() []model.Message {
	messages := make([]model.Message, len(t.messages))
	copy(messages, t.messages)
	return messages
}

func (t *MemoryTranscript) Len() int {
	return len(t.messages)
}
