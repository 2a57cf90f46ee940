package session

import (
	"errors"
	"strings"

	"dm-chat/internal/model"
	"dm-chat/internal/transport"
)

var (
	ErrBusy         = errors.New("session: a request is already outstanding")
	ErrEmptyMessage = errors.New("session: message is empty")
)

const (
	// NetworkErrorMessage is shown when the DM could not be reached at all.
	NetworkErrorMessage = "The dungeon master could not be reached. Please try again."
	requestFailedText   = "Request failed"
)

// failureMessage maps a failed send onto the assistant error message that
// replaces the typing placeholder.
func failureMessage(err error) model.Message {
	var appErr *transport.ApplicationError
	if errors.As(err, &appErr) {
		msg := strings.TrimSpace(appErr.Message)
		if msg == "" {
			msg = requestFailedText
		}
		return model.NewErrorMessage(model.CauseApplication, msg)
	}
	return model.NewErrorMessage(model.CauseNetwork, NetworkErrorMessage)
}
