package jobs

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"careerhub-backend/internal/shared/server/middleware"
	"careerhub-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the jobs service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

type saveJobsRequest struct {
	Jobs []Job `json:"jobs" binding:"required"`
}

// RegisterRoutes attaches job collection routes. Listing and local search
// live with matching because they annotate results.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/jobs/save", h.save)
	rg.GET("/jobs/:jobId", h.get)
	rg.DELETE("/jobs/:jobId", h.delete)
}

// RegisterSearchRoutes attaches the delegated search route, which callers
// usually place behind a rate limiter.
func (h *Handler) RegisterSearchRoutes(rg *gin.RouterGroup) {
	rg.POST("/jobs/search/remote", h.searchRemote)
}

func (h *Handler) save(c *gin.Context) {
	var req saveJobsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Request body must include a jobs array.", nil)
		return
	}
	saved, err := h.Svc.Save(c.Request.Context(), req.Jobs)
	if err != nil {
		respond.Failure(c, err)
		return
	}
	c.Set(middleware.JobCountKey, len(saved))
	respond.JSON(c, http.StatusCreated, gin.H{"message": "Jobs saved successfully.", "jobs": saved})
}

func (h *Handler) get(c *gin.Context) {
	job, err := h.Svc.Get(c.Request.Context(), c.Param("jobId"))
	if err != nil {
		respond.Failure(c, err)
		return
	}
	respond.OK(c, job)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("jobId")); err != nil {
		respond.Failure(c, err)
		return
	}
	respond.OK(c, gin.H{"message": "Job deleted successfully."})
}

func (h *Handler) searchRemote(c *gin.Context) {
	var req RemoteSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid search request.", nil)
		return
	}
	if req.ProfileID != "" && !middleware.OwnerAllowed(c, req.ProfileID) {
		respond.Error(c, http.StatusForbidden, "forbidden", "You can only search with your own profile.", nil)
		return
	}
	listings, err := h.Svc.SearchRemote(c.Request.Context(), req)
	if errors.Is(err, ErrRemoteSearch) {
		respond.Error(c, http.StatusBadGateway, "remote_search_failed", "Failed to fetch jobs from the search service. Please try again later.", nil)
		return
	}
	if err != nil {
		respond.Failure(c, err)
		return
	}
	c.Set(middleware.JobCountKey, len(listings))
	respond.OK(c, gin.H{"jobs": listings})
}
