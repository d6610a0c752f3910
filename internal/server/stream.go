package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	eventNotice    = "notice"
	eventHeartbeat = "heartbeat"
	eventReady     = "ready"
)

// handleNoticeStream forwards notices as server-sent events until the client goes away.
func (h *httpHandler) handleNoticeStream(c *gin.Context) {
	ctx := c.Request.Context()
	stream, cleanup := h.notices.Subscribe(ctx)
	defer cleanup()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	c.SSEvent(eventReady, gin.H{"timestamp": time.Now().UTC().Unix()})
	c.Writer.Flush()

	ticker := time.NewTicker(h.heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case notice, ok := <-stream:
			if !ok {
				return
			}
			c.SSEvent(eventNotice, notice)
			c.Writer.Flush()
		case tick := <-ticker.C:
			c.SSEvent(eventHeartbeat, gin.H{"timestamp": tick.UTC().Unix()})
			c.Writer.Flush()
		}
	}
}
