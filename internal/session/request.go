package session

import (
	"context"

	"dm-chat/internal/model"
)

// Request tracks one outstanding chat call.
type Request struct {
	Text string

	placeholderID string
	generation    uint64
	done          chan struct{}

	// written before done is closed
	result model.Message
	stale  bool
}

func (r *Request) Done() <-chan struct{} {
	return r.done
}

// Result reports the message appended for this request. ok is false while
// the request is outstanding or when a clear made its result stale.
func (r *Request) Result() (msg model.Message, ok bool) {
	select {
	case <-r.done:
	default:
		return model.Message{}, false
	}
	if r.stale {
		return model.Message{}, false
	}
	return r.result, true
}

// Wait blocks until the request settles or ctx is done.
func (r *Request) Wait(ctx context.Context) error {
	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
