package matching

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"careerhub-backend/internal/shared/server/middleware"
	"careerhub-backend/internal/shared/server/respond"
)

// Handler serves job listing and local search with matching.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches listing and search routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/jobs", h.list)
	rg.GET("/jobs/search", h.search)
}

func (h *Handler) list(c *gin.Context) {
	h.respondSearch(c, "", "")
}

func (h *Handler) search(c *gin.Context) {
	h.respondSearch(c, c.Query("q"), c.Query("location"))
}

func (h *Handler) respondSearch(c *gin.Context, query, location string) {
	owner, ok := middleware.OwnerHint(c)
	if !ok {
		respond.Error(c, http.StatusForbidden, "forbidden", "You can only match jobs against your own resumes.", nil)
		return
	}
	list, err := h.Svc.Search(c.Request.Context(), owner, query, location)
	if err != nil {
		respond.Failure(c, err)
		return
	}
	c.Set(middleware.JobCountKey, len(list))
	respond.OK(c, gin.H{"jobs": list})
}
