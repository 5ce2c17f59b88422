package users

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"careerhub-backend/internal/profiles"
	"careerhub-backend/internal/shared/server/middleware"
	"careerhub-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the users service.
type Handler struct {
	Svc      *Service
	InFlight func(ownerID, resumeID string) bool
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Skills    string    `json:"skills"`
	CreatedAt time.Time `json:"createdAt"`
}

// RegisterRoutes attaches account routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/signup", h.signup)
	rg.POST("/login", h.login)
	rg.GET("/me", middleware.RequireUser(), h.me)
	rg.DELETE("/users/:userId", h.delete)
}

func (h *Handler) signup(c *gin.Context) {
	var in SignupInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid signup payload.", nil)
		return
	}
	user, err := h.Svc.Signup(c.Request.Context(), in)
	if err != nil {
		respond.Failure(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, gin.H{"message": "User created successfully.", "user": toUserResponse(user)})
}

func (h *Handler) login(c *gin.Context) {
	var in LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid email or password.", nil)
		return
	}
	session, err := h.Svc.Login(c.Request.Context(), in)
	if err != nil {
		respond.Failure(c, err)
		return
	}
	respond.OK(c, gin.H{
		"message": "Login successful.",
		"token":   session.Token,
		"user":    toUserResponse(session.User),
		"profile": profiles.ToProfileResponse(session.Profile, h.InFlight),
	})
}

func (h *Handler) me(c *gin.Context) {
	user, err := h.Svc.GetByID(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.Failure(c, err)
		return
	}
	respond.OK(c, toUserResponse(user))
}

func (h *Handler) delete(c *gin.Context) {
	userID := strings.ToLower(c.Param("userId"))
	if !middleware.OwnerAllowed(c, userID) {
		respond.Error(c, http.StatusForbidden, "forbidden", "You can only delete your own account.", nil)
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), userID); err != nil {
		respond.Failure(c, err)
		return
	}
	respond.OK(c, gin.H{"message": "User and all related data deleted successfully."})
}

func toUserResponse(u User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, Skills: u.Skills, CreatedAt: u.CreatedAt}
}
