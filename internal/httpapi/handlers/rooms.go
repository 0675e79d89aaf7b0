package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"aichat/internal/chat"
	"aichat/internal/common"
)

func (h *Handler) ListRooms(c *gin.Context) {
	q, present := c.GetQuery("q")
	if present {
		h.Chat.SetSearchQuery(q)
	}
	rooms := chat.FilterRooms(h.Chat.Rooms(), q)
	common.OK(c, gin.H{
		"rooms":        rooms,
		"current_room": h.Chat.CurrentRoom(),
	})
}

type createRoomReq struct {
	Name string `json:"name" binding:"required"`
}

func (h *Handler) CreateRoom(c *gin.Context) {
	var req createRoomReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10010, "room name is required")
		return
	}

	room, err := h.Chat.CreateRoom(req.Name)
	if err != nil {
		if errors.Is(err, chat.ErrEmptyRoomName) {
			common.Fail(c, http.StatusBadRequest, 10010, "room name is required")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50001, "failed to create room")
		return
	}
	common.OK(c, room)
}

// DeleteRoom is idempotent: deleting an unknown room succeeds quietly.
func (h *Handler) DeleteRoom(c *gin.Context) {
	id := c.Param("id")
	h.Chat.DeleteRoom(id)
	h.dropPaginator(id)
	common.OK(c, nil)
}

type setCurrentRoomReq struct {
	RoomID string `json:"room_id"`
}

func (h *Handler) SetCurrentRoom(c *gin.Context) {
	var req setCurrentRoomReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10011, "invalid json")
		return
	}
	if req.RoomID != "" {
		if _, ok := h.Chat.Room(req.RoomID); !ok {
			common.Fail(c, http.StatusNotFound, 40401, "room not found")
			return
		}
	}
	h.Chat.SetCurrentRoom(req.RoomID)
	common.OK(c, gin.H{"current_room": req.RoomID})
}
