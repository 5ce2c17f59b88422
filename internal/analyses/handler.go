package analyses

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"careerhub-backend/internal/shared/apperr"
	"careerhub-backend/internal/shared/server/middleware"
	"careerhub-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// AnalysisResponse is the analyze endpoint payload.
type AnalysisResponse struct {
	OverallScore    int               `json:"overall_score"`
	CategoryScores  map[string]int    `json:"category_scores"`
	Feedback        map[string]string `json:"feedback"`
	Recommendations []string          `json:"recommendations"`
	AnalyzedAt      time.Time         `json:"analyzed_at"`
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyze-resume/:resumeId", h.analyze)
}

func (h *Handler) analyze(c *gin.Context) {
	ownerHint, ok := middleware.OwnerHint(c)
	if !ok {
		respond.Error(c, http.StatusForbidden, "forbidden", "You can only analyze your own resumes.", nil)
		return
	}
	resumeID := c.Param("resumeId")
	c.Set(middleware.ResumeIDKey, resumeID)

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	result, err := h.Svc.Analyze(ctx, ownerHint, resumeID)
	if err != nil {
		if kind := apperr.KindOf(err); kind != "" {
			c.Set(middleware.OutcomeKey, string(kind))
		}
		respond.Failure(c, err)
		return
	}
	c.Set(middleware.OutcomeKey, "analyzed")

	respond.JSON(c, http.StatusOK, AnalysisResponse{
		OverallScore:    result.OverallScore,
		CategoryScores:  result.CategoryScores,
		Feedback:        result.Feedback,
		Recommendations: result.Recommendations,
		AnalyzedAt:      result.AnalyzedAt,
	})
}
