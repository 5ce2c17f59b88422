package applications

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"careerhub-backend/internal/shared/server/middleware"
	"careerhub-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the applications service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches application routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/users/:userId/applications", h.create)
	rg.GET("/users/:userId/applications", h.list)
	rg.PATCH("/applications/:id", h.update)
	rg.DELETE("/applications/:id", h.delete)
}

func (h *Handler) create(c *gin.Context) {
	userID, ok := pathOwner(c)
	if !ok {
		return
	}
	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid application payload.", nil)
		return
	}
	app, err := h.Svc.Create(c.Request.Context(), userID, in)
	if err != nil {
		respond.Failure(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, app)
}

func (h *Handler) list(c *gin.Context) {
	userID, ok := pathOwner(c)
	if !ok {
		return
	}
	list, err := h.Svc.ListResolved(c.Request.Context(), userID)
	if err != nil {
		respond.Failure(c, err)
		return
	}
	respond.OK(c, gin.H{"applications": list})
}

func (h *Handler) update(c *gin.Context) {
	if !h.ownsApplication(c) {
		return
	}
	var in UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid application payload.", nil)
		return
	}
	app, err := h.Svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respond.Failure(c, err)
		return
	}
	respond.OK(c, app)
}

func (h *Handler) delete(c *gin.Context) {
	if !h.ownsApplication(c) {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respond.Failure(c, err)
		return
	}
	respond.OK(c, gin.H{"message": "Application deleted successfully."})
}

func (h *Handler) ownsApplication(c *gin.Context) bool {
	app, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.Failure(c, err)
		return false
	}
	if !middleware.OwnerAllowed(c, app.UserID) {
		respond.Error(c, http.StatusForbidden, "forbidden", "You can only change your own applications.", nil)
		return false
	}
	return true
}

func pathOwner(c *gin.Context) (string, bool) {
	userID := strings.ToLower(c.Param("userId"))
	if !middleware.OwnerAllowed(c, userID) {
		respond.Error(c, http.StatusForbidden, "forbidden", "You can only access your own applications.", nil)
		return "", false
	}
	return userID, true
}
