package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/GoSim-25-26J-441/go-optimization-backend/internal/optimization/domain"
	"github.com/GoSim-25-26J-441/go-optimization-backend/internal/optimization/synthesis"
	"github.com/gin-gonic/gin"
)

// StreamReport streams the integrated report using Server-Sent Events (SSE).
// An "update" event is sent whenever the session changes; "deleted" ends the stream.
func (h *Handler) StreamReport(c *gin.Context) {
	sessionID := c.Param("id")
	ctx := c.Request.Context()

	session, err := h.svc.GetSession(ctx, sessionID)
	if err != nil {
		writeError(c, err)
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported", "code": CodeInternal})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // nginx: disable buffering
	c.Status(http.StatusOK)

	send := func(event string, payload interface{}) {
		data, _ := json.Marshal(payload)
		fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, string(data))
		flusher.Flush()
	}

	send("initial", gin.H{"session_id": sessionID, "report": synthesis.Build(session.Captures())})

	keepAlive := time.NewTicker(h.keepAliveInterval)
	defer keepAlive.Stop()
	poll := time.NewTicker(h.pollInterval)
	defer poll.Stop()

	lastUpdatedAt := session.UpdatedAt

	for {
		select {
		case <-ctx.Done():
			return

		case <-keepAlive.C:
			fmt.Fprint(c.Writer, ": keep-alive\n\n")
			flusher.Flush()

		case <-poll.C:
			updated, err := h.svc.GetSession(ctx, sessionID)
			if err != nil {
				if errors.Is(err, domain.ErrSessionNotFound) {
					send("deleted", gin.H{"event": "deleted", "session_id": sessionID})
					return
				}
				continue
			}
			if updated.UpdatedAt.After(lastUpdatedAt) {
				lastUpdatedAt = updated.UpdatedAt
				send("update", gin.H{"session_id": sessionID, "report": synthesis.Build(updated.Captures())})
			}
		}
	}
}
