package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"dm-chat/internal/model"
	"dm-chat/internal/session"
	"dm-chat/internal/utils"
	"dm-chat/pkg/logger"

	"github.com/gin-gonic/gin"
)

// SessionController is the part of session.Controller the browser
// presentation drives.
type SessionController interface {
	Submit(ctx context.Context, raw string) (*session.Request, error)
	Clear(ctx context.Context) error
	Snapshot() model.Snapshot
	Subscribe() (<-chan model.Snapshot, func())
}

type ChatHandler struct {
	session   SessionController
	heartbeat time.Duration
	title     string
}

func NewChatHandler(s SessionController, heartbeat time.Duration, title string) *ChatHandler {
	if heartbeat <= 0 {
		heartbeat = 15 * time.Second
	}
	if title == "" {
		title = defaultTitle
	}
	return &ChatHandler{
		session:   s,
		heartbeat: heartbeat,
		title:     title,
	}
}

func (h *ChatHandler) GetTranscript(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.Snapshot())
}

// Submit forwards a submit intent. The reply arrives later through the
// event stream; this call only reports whether the request started.
func (h *ChatHandler) Submit(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, err := h.session.Submit(c.Request.Context(), req.Message)
	switch {
	case errors.Is(err, session.ErrEmptyMessage):
		c.Status(http.StatusNoContent)
	case errors.Is(err, session.ErrBusy):
		c.JSON(http.StatusConflict, gin.H{"error": "a message is already being answered"})
	case err != nil:
		logger.Errorf("submit failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusAccepted, h.session.Snapshot())
	}
}

// Clear is best effort: a failed clear is logged and the unchanged
// transcript is returned.
func (h *ChatHandler) Clear(c *gin.Context) {
	cleared := true
	if err := h.session.Clear(c.Request.Context()); err != nil {
		logger.Warnf("clear failed, transcript kept: %v", err)
		cleared = false
	}
	c.JSON(http.StatusOK, gin.H{
		"cleared":  cleared,
		"snapshot": h.session.Snapshot(),
	})
}

// Events streams transcript snapshots as server-sent events until the
// client goes away.
func (h *ChatHandler) Events(c *gin.Context) {
	updates, cancel := h.session.Subscribe()
	defer cancel()

	sse := utils.NewSSEWriter(c.Writer)
	c.Status(http.StatusOK)

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case snap, ok := <-updates:
			if !ok {
				return
			}
			if err := sse.WriteJSON("snapshot", snap); err != nil {
				logger.Debugf("snapshot stream closed: %v", err)
				return
			}
		case <-heartbeat.C:
			if err := sse.WriteJSON("heartbeat", gin.H{"timestamp": time.Now().Unix()}); err != nil {
				logger.Debugf("snapshot stream closed: %v", err)
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
