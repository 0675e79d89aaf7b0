package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"aichat/internal/common"
)

const initialSeedCount = 10

func (h *Handler) ListMessages(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.Chat.Room(id); !ok {
		common.Fail(c, http.StatusNotFound, 40401, "room not found")
		return
	}

	// First visit to a room seeds a short placeholder history, matching
	// the dashboard demo.
	msgs := h.Chat.MessagesFor(id)
	if len(msgs) == 0 {
		h.Chat.PrependMessages(id, h.History.History(id, initialSeedCount))
		msgs = h.Chat.MessagesFor(id)
	}

	common.OK(c, gin.H{
		"messages": msgs,
		"typing":   h.Chat.Typing(),
	})
}

type sendMessageReq struct {
	Content string `json:"content"`
	Image   string `json:"image"`
}

func (h *Handler) SendMessage(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.Chat.Room(id); !ok {
		common.Fail(c, http.StatusNotFound, 40401, "room not found")
		return
	}

	var req sendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10020, "invalid json")
		return
	}

	// The reply outlives this request; detach it from the request context.
	userMsg, _, sent := h.Exchange.Send(context.WithoutCancel(c.Request.Context()), id, req.Content, req.Image)
	if !sent {
		common.Fail(c, http.StatusBadRequest, 10021, "message content or image required")
		return
	}

	common.OK(c, gin.H{
		"message": userMsg,
		"typing":  true,
	})
}

type loadOlderReq struct {
	ScrollOffset int `json:"scroll_offset"`
}

// LoadOlder feeds one scroll-near-top signal into the room's pagination
// session.
func (h *Handler) LoadOlder(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.Chat.Room(id); !ok {
		common.Fail(c, http.StatusNotFound, 40401, "room not found")
		return
	}

	var req loadOlderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10022, "invalid json")
		return
	}

	p := h.paginatorFor(id)
	loaded := p.OnScroll(req.ScrollOffset)
	common.OK(c, gin.H{
		"loaded":   loaded,
		"page":     p.Page(),
		"has_more": p.HasMore(),
		"fetching": p.Fetching(),
	})
}
