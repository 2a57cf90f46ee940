package storage

import (
	"testing"

	"github.com/stretchr/testify/require"

	"dm-chat/internal/model"
)

func TestMemoryTranscript_AppendRemoveReset(t *testing.T) {
	tr := NewMemoryTranscript()
	user := model.NewUserMessage("Hello")
	typing := model.NewTypingPlaceholder()
	reply := model.NewAssistantMessage("Welcome")

	tr.Append(user, typing)
	require.Equal(t, 2, tr.Len())

	require.NoError(t, tr.Remove(typing.ID))
	tr.Append(reply)
	require.Equal(t, []model.Message{user, reply}, tr.List())

	require.ErrorIs(t, tr.Remove(typing.ID), ErrMessageNotFound)

	tr.Reset()
	require.Zero(t, tr.Len())
	require.Empty(t, tr.List())
}

func TestMemoryTranscript_ListIsACopy(t *testing.T) {
	tr := NewMemoryTranscript()
	first := model.NewUserMessage("one")
	tr.Append(first)

	listed := tr.List()
	tr.Append(model.NewAssistantMessage("two"))
	require.NoError(t, tr.Remove(first.ID))

	require.Len(t, listed, 1)
	require.Equal(t, first, listed[0])
}
