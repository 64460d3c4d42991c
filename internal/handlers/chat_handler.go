package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"etugal/internal/realtime"
	"etugal/internal/services"
)

type ChatHandler struct {
	service services.ChatService
	broker  *realtime.Broker
}

func NewChatHandler(service services.ChatService, broker *realtime.Broker) *ChatHandler {
	return &ChatHandler{service: service, broker: broker}
}

// POST /chat/sessions — resolve-or-create by (task, provider, performer).
// Returns 201 only when a new session row was created, 200 otherwise.
func (h *ChatHandler) GetOrCreateSession(c *gin.Context) {
	var req struct {
		Task      int64   `json:"task" binding:"required"`
		Provider  int64   `json:"provider" binding:"required"`
		Performer int64   `json:"performer" binding:"required"`
		RoomName  *string `json:"room_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	roomName := fmt.Sprintf("task_%d_%d_%d", req.Task, req.Provider, req.Performer)
	if req.RoomName != nil && *req.RoomName != "" {
		roomName = *req.RoomName
	}

	session, created, err := h.service.GetOrCreateSession(c.Request.Context(), req.Task, req.Provider, req.Performer, roomName)
	if err != nil {
		log.Printf("[chat][session][err] task=%d: %v", req.Task, err)
		respondError(c, err, "failed to resolve chat session")
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, session)
}

// GET /chat/sessions — the caller's active conversations.
func (h *ChatHandler) ListSessions(c *gin.Context) {
	sessions, err := h.service.ListSessionsForUser(c.Request.Context(), getProfileID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list sessions"})
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// GET /chat/sessions/room/:room_name
func (h *ChatHandler) SessionByRoomName(c *gin.Context) {
	session, err := h.service.FindByRoomName(c.Request.Context(), c.Param("room_name"))
	if err != nil {
		respondError(c, err, "failed to get session")
		return
	}
	c.JSON(http.StatusOK, session)
}

// GET /chat/sessions/:id/messages — newest first.
func (h *ChatHandler) ListMessages(c *gin.Context) {
	sessionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	messages, err := h.service.ListMessages(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list messages"})
		return
	}
	c.JSON(http.StatusOK, messages)
}

// GET /chat/users/search?query=ann
func (h *ChatHandler) SearchUsers(c *gin.Context) {
	profiles, err := h.service.SearchUsers(c.Request.Context(), c.Query("query"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search users"})
		return
	}
	c.JSON(http.StatusOK, profiles)
}

// ServeWS upgrades GET /ws/chat/:room_name and attaches the socket to the
// room until the peer disconnects.
func (h *ChatHandler) ServeWS(c *gin.Context) {
	room := c.Param("room_name")
	if room == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "room_name is required"})
		return
	}

	conn, err := realtime.Upgrade(c.Writer, c.Request)
	if err != nil {
		log.Printf("[chat][ws][err] upgrade room=%q: %v", room, err)
		return
	}
	log.Printf("[chat][ws][join] room=%q", room)

	h.broker.ServeRoom(c.Request.Context(), room, conn)
	log.Printf("[chat][ws][leave] room=%q", room)
}
