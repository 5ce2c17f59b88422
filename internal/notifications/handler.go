package notifications

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"careerhub-backend/internal/shared/server/middleware"
	"careerhub-backend/internal/shared/server/respond"
)

// Handler exposes a user's inbox.
type Handler struct {
	Store Store
}

// NewHandler constructs a Handler.
func NewHandler(store Store) *Handler {
	return &Handler{Store: store}
}

// RegisterRoutes attaches notification routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/users/:userId/notifications", h.list)
	rg.POST("/users/:userId/notifications/read-all", h.readAll)
}

func (h *Handler) list(c *gin.Context) {
	userID := strings.ToLower(c.Param("userId"))
	if !middleware.OwnerAllowed(c, userID) {
		respond.Error(c, http.StatusForbidden, "forbidden", "You can only view your own notifications.", nil)
		return
	}
	items, err := h.Store.List(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "storage_failed", "failed to list notifications", nil)
		return
	}
	unread := 0
	for _, n := range items {
		if !n.Read {
			unread++
		}
	}
	respond.JSON(c, http.StatusOK, gin.H{"notifications": items, "unreadCount": unread})
}

func (h *Handler) readAll(c *gin.Context) {
	userID := strings.ToLower(c.Param("userId"))
	if !middleware.OwnerAllowed(c, userID) {
		respond.Error(c, http.StatusForbidden, "forbidden", "You can only update your own notifications.", nil)
		return
	}
	changed, err := h.Store.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "storage_failed", "failed to update notifications", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"updated": changed})
}
