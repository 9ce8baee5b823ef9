package api

import (
	"errors"
	"log"
	"net/http"

	"formaai/backend/internal/notify"
	"formaai/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatHandler serves message history over HTTP and live messaging over a
// websocket.
type ChatHandler struct {
	chatService service.ChatService
	hub         *notify.Hub
	jwtSecret   string
	upgrader    websocket.Upgrader
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService service.ChatService, hub *notify.Hub, jwtSecret string) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		hub:         hub,
		jwtSecret:   jwtSecret,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Token auth happens in the handshake; origin is not checked.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// --- Request Structs ---

// wsInbound is the frame clients send over the websocket.
type wsInbound struct {
	Type    string `json:"type"`
	To      string `json:"to"`
	Message string `json:"message"`
}

type wsError struct {
	Type  string `json:"type"` // "error"
	Error string `json:"error"`
}

// --- Handler Methods ---

// History returns the full message thread between the caller and another user.
func (h *ChatHandler) History(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	otherID, err := primitive.ObjectIDFromHex(c.Param("otherUserId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	messages, err := h.chatService.History(c.Request.Context(), userID, otherID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Server error while fetching messages")
		return
	}

	c.JSON(http.StatusOK, messages)
}

// Conversations lists the caller's chat threads, most recent first.
func (h *ChatHandler) Conversations(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	conversations, err := h.chatService.Conversations(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Server error while fetching conversations")
		return
	}

	c.JSON(http.StatusOK, conversations)
}

// ServeWS upgrades the connection to a websocket for live messaging. Browsers
// cannot set headers on websocket requests, so the JWT arrives as a query
// parameter.
func (h *ChatHandler) ServeWS(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		abortWithError(c, http.StatusUnauthorized, "Token query parameter is missing")
		return
	}

	claims, err := parseToken(tokenString, h.jwtSecret)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid token")
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid token")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		log.Printf("WARN: websocket upgrade failed for user %s: %v", claims.UserID, err)
		return
	}

	client := &notify.Client{UserID: claims.UserID, Conn: conn}
	h.hub.Register(client)
	defer h.hub.Unregister(client)

	for {
		var frame wsInbound
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WARN: websocket read error for user %s: %v", claims.UserID, err)
			}
			return
		}

		if frame.Type != "private-message" {
			continue
		}

		toID, err := primitive.ObjectIDFromHex(frame.To)
		if err != nil {
			h.hub.Publish(claims.UserID, wsError{Type: "error", Error: "invalid recipient ID"})
			continue
		}

		if _, err := h.chatService.SendMessage(c.Request.Context(), userID, toID, frame.Message); err != nil {
			msg := "could not deliver message"
			if errors.Is(err, service.ErrEmptyMessage) || errors.Is(err, service.ErrUserNotFound) {
				msg = err.Error()
			}
			h.hub.Publish(claims.UserID, wsError{Type: "error", Error: msg})
		}
	}
}
