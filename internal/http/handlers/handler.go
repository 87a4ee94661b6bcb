package handlers

import (
	"tasktracker/internal/service"
	"tasktracker/internal/ws"

	"github.com/gin-gonic/gin"
)

// Handler bundles the services the HTTP layer dispatches to. Everything is
// injected so tests can run against in-memory stores.
type Handler struct {
	Auth   *service.AuthService
	Tasks  *service.TaskService
	Tokens *service.TokenManager
	Hub    *ws.Hub
}

func NewHandler(auth *service.AuthService, tasks *service.TaskService, tokens *service.TokenManager, hub *ws.Hub) *Handler {
	return &Handler{Auth: auth, Tasks: tasks, Tokens: tokens, Hub: hub}
}

// getUserID reads the user id the auth middleware resolved from the token.
func getUserID(c *gin.Context) (int64, bool) {
	val, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	id, ok := val.(int64)
	return id, ok
}
