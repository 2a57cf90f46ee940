package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"dm-chat/internal/metrics"
	"dm-chat/internal/model"
	"dm-chat/internal/storage"
	"dm-chat/internal/transport"
	"dm-chat/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Transport is the pair of DM service calls the controller depends on.
type Transport interface {
	SendMessage(ctx context.Context, text string) (string, error)
	ClearSession(ctx context.Context) error
}

// Controller owns the transcript and the request lifecycle of a single
// chat session. All mutations happen under mu and publish exactly one
// snapshot.
type Controller struct {
	transport Transport
	metrics   *metrics.Metrics

	mu         sync.Mutex
	transcript storage.Transcript
	state      model.SessionState
	generation uint64
	revision   uint64
	pending    *Request

	subs    map[uint64]chan model.Snapshot
	nextSub uint64
}

func NewController(t Transport, m *metrics.Metrics) (*Controller, error) {
	if t == nil {
		return nil, errors.New("session: transport must not be nil")
	}
	return &Controller{
		transport:  t,
		metrics:    m,
		transcript: storage.NewMemoryTranscript(),
		state:      model.StateIdle,
		subs:       make(map[uint64]chan model.Snapshot),
	}, nil
}

// Submit appends the user's message and a typing placeholder, then sends
// the trimmed text in the background. The returned Request settles once
// the DM answers or the call fails.
func (c *Controller) Submit(ctx context.Context, raw string) (*Request, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		c.metrics.Submit("empty")
		return nil, ErrEmptyMessage
	}

	c.mu.Lock()
	if c.state == model.StateSending {
		c.mu.Unlock()
		c.metrics.Submit("busy")
		return nil, ErrBusy
	}

	placeholder := model.NewTypingPlaceholder()
	req := &Request{
		Text:          text,
		placeholderID: placeholder.ID,
		generation:    c.generation,
		done:          make(chan struct{}),
	}
	c.transcript.Append(model.NewUserMessage(text), placeholder)
	c.state = model.StateSending
	c.pending = req
	c.publishLocked()
	c.mu.Unlock()

	c.metrics.Submit("accepted")
	logger.WithFields(logrus.Fields{
		"generation": req.generation,
		"length":     len(text),
	}).Debug("chat request started")

	// In-flight requests are never cancelled; a clear only makes their
	// result stale.
	go c.run(context.WithoutCancel(ctx), req)
	return req, nil
}

func (c *Controller) run(ctx context.Context, req *Request) {
	var result model.Message
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("chat transport panicked: %v", r)
			result = failureMessage(&transport.TransportFailure{Op: transport.OpChat, Err: fmt.Errorf("panic: %v", r)})
		}
		c.settle(req, result)
	}()

	reply, err := c.transport.SendMessage(ctx, req.Text)
	if err != nil {
		logger.WithFields(logrus.Fields{"generation": req.generation}).Warnf("chat request failed: %v", err)
		result = failureMessage(err)
		return
	}
	result = model.NewAssistantMessage(reply)
}

// settle swaps the placeholder for the result in one step, unless the
// transcript generation moved on while the request was in flight.
func (c *Controller) settle(req *Request, result model.Message) {
	defer close(req.done)
	c.mu.Lock()
	defer c.mu.Unlock()

	if req.generation != c.generation || c.pending != req {
		req.stale = true
		c.metrics.StaleResolution()
		logger.WithFields(logrus.Fields{
			"request_generation": req.generation,
			"generation":         c.generation,
		}).Debug("dropping stale chat resolution")
		return
	}

	if err := c.transcript.Remove(req.placeholderID); err != nil {
		logger.Warnf("typing placeholder %s missing at settlement: %v", req.placeholderID, err)
	}
	c.transcript.Append(result)
	c.state = model.StateIdle
	c.pending = nil
	req.result = result
	c.publishLocked()
}

// Clear asks the DM to forget the conversation and, only if that
// succeeds, empties the transcript. An outstanding request is not
// cancelled but its result will be discarded. On failure nothing changes.
func (c *Controller) Clear(ctx context.Context) error {
	if err := c.transport.ClearSession(ctx); err != nil {
		c.metrics.Clear("failed")
		return fmt.Errorf("session: clear: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.transcript.Reset()
	if c.pending != nil {
		logger.WithFields(logrus.Fields{"generation": c.generation}).Debug("clear superseded an outstanding chat request")
		c.pending = nil
	}
	c.state = model.StateIdle
	c.metrics.Clear("cleared")
	c.publishLocked()
	return nil
}

func (c *Controller) Snapshot() model.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) State() model.SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe returns a channel that always holds the latest snapshot,
// starting with the current one. Intermediate snapshots may be skipped by
// slow readers. The returned func unsubscribes and closes the channel.
func (c *Controller) Subscribe() (<-chan model.Snapshot, func()) {
	ch := make(chan model.Snapshot, 1)

	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	ch <- c.snapshotLocked()
	c.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			close(ch)
			c.mu.Unlock()
		})
	}
}

func (c *Controller) snapshotLocked() model.Snapshot {
	return model.Snapshot{
		Generation: c.generation,
		Revision:   c.revision,
		State:      c.state,
		Messages:   c.transcript.List(),
	}
}

// publishLocked bumps the revision and replaces whatever snapshot a
// subscriber has not read yet. Only publishers send, and they hold mu, so
// the second select never finds the buffer full.
func (c *Controller) publishLocked() {
	c.revision++
	if len(c.subs) == 0 {
		return
	}
	snap := c.snapshotLocked()
	for _, ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}
