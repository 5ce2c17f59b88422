package report

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"careerhub-backend/internal/profiles"
	"careerhub-backend/internal/shared/server/middleware"
	"careerhub-backend/internal/shared/server/respond"
	"careerhub-backend/internal/shared/telemetry"
)

// ResumeFinder resolves a resume by id.
type ResumeFinder interface {
	Find(ctx context.Context, ownerHint, resumeID string) (profiles.Resume, error)
}

// Handler serves report downloads.
type Handler struct {
	Resumes ResumeFinder
	Now     func() time.Time
}

// NewHandler constructs a Handler.
func NewHandler(resumes ResumeFinder) *Handler {
	return &Handler{Resumes: resumes, Now: time.Now}
}

// RegisterRoutes attaches report routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/resumes/:resumeId/report", h.download)
}

func (h *Handler) download(c *gin.Context) {
	ownerHint, ok := middleware.OwnerHint(c)
	if !ok {
		respond.Error(c, http.StatusForbidden, "forbidden", "You can only download your own reports.", nil)
		return
	}
	resumeID := c.Param("resumeId")
	c.Set(middleware.ResumeIDKey, resumeID)

	res, err := h.Resumes.Find(c.Request.Context(), ownerHint, resumeID)
	if err != nil {
		respond.Failure(c, err)
		return
	}
	body, err := Render(res, h.Now())
	if errors.Is(err, ErrIncompleteData) {
		respond.Error(c, http.StatusConflict, "incomplete_data", "Resume has not been analyzed yet.", nil)
		return
	}
	if err != nil {
		telemetry.Error("report.render_failed", map[string]any{"resume_id": resumeID, "err": err})
		respond.Error(c, http.StatusInternalServerError, "internal", "Failed to generate report.", nil)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+strconv.Quote(Filename(res)))
	c.Data(http.StatusOK, "text/html; charset=utf-8", body)
}
