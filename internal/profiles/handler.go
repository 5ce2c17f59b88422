package profiles

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"careerhub-backend/internal/shared/server/middleware"
	"careerhub-backend/internal/shared/server/respond"
)

const defaultMaxUploadBytes = 10 << 20

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
	// InFlight reports whether an analysis is running for the resume.
	InFlight func(ownerID, resumeID string) bool
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches profile and resume routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resume", h.upload)
	rg.GET("/users/:userId/resumes", h.list)
	rg.GET("/users/:userId/resumes/:resumeId", h.get)
	rg.GET("/users/:userId/resumes/:resumeId/file", h.file)
	rg.DELETE("/delete-resume/:resumeId", h.remove)
	rg.POST("/resumes/:resumeId/extract", h.reextract)

	rg.GET("/profile", h.profileByEmail)
	rg.GET("/users/:userId/profile", h.profile)
	rg.PUT("/users/:userId/profile", h.updateProfile)
}

func (h *Handler) upload(c *gin.Context) {
	limit := h.MaxUploadBytes
	if limit <= 0 {
		limit = defaultMaxUploadBytes
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	fileHeader, err := c.FormFile("resume")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "validation_error", "Resume file is too large.", gin.H{"limitBytes": limit})
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "No resume file uploaded.", nil)
		return
	}

	ownerID := strings.TrimSpace(c.PostForm("userId"))
	if ownerID == "" {
		ownerID = middleware.UserIDFromContext(c)
	}
	if !middleware.OwnerAllowed(c, strings.ToLower(ownerID)) {
		respond.Error(c, http.StatusForbidden, "forbidden", "You can only upload to your own profile.", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Unable to read resume file.", nil)
		return
	}
	defer file.Close()

	res, err := h.Svc.AddResume(c.Request.Context(), AddResumeInput{
		OwnerID:  ownerID,
		ResumeID: c.PostForm("resumeId"),
		FileName: fileHeader.Filename,
		Body:     file,
	})
	if err != nil {
		respond.Failure(c, err)
		return
	}
	c.Set(middleware.ResumeIDKey, res.ID)

	body := gin.H{
		"message": "Resume uploaded and processed successfully.",
		"fileUrl": res.URL,
		"resume":  ToResumeResponse(res, false),
	}
	if res.HasText() {
		body["extractedText"] = res.ExtractedText
	}
	respond.JSON(c, http.StatusCreated, body)
}

func (h *Handler) list(c *gin.Context) {
	ownerID, ok := h.pathOwner(c)
	if !ok {
		return
	}
	list, err := h.Svc.ListResumes(c.Request.Context(), ownerID)
	if err != nil {
		respond.Failure(c, err)
		return
	}
	resp := make([]ResumeResponse, 0, len(list))
	for _, r := range list {
		resp = append(resp, ToResumeResponse(r, h.inFlight(r)))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) get(c *gin.Context) {
	ownerID, ok := h.pathOwner(c)
	if !ok {
		return
	}
	c.Set(middleware.ResumeIDKey, c.Param("resumeId"))
	res, err := h.Svc.Find(c.Request.Context(), ownerID, c.Param("resumeId"))
	if err != nil {
		respond.Failure(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, ToResumeResponse(res, h.inFlight(res)))
}

func (h *Handler) file(c *gin.Context) {
	ownerID, ok := h.pathOwner(c)
	if !ok {
		return
	}
	c.Set(middleware.ResumeIDKey, c.Param("resumeId"))
	res, body, err := h.Svc.OpenFile(c.Request.Context(), ownerID, c.Param("resumeId"))
	if err != nil {
		respond.Failure(c, err)
		return
	}
	defer body.Close()

	contentType := res.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": res.Name}))
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, body)
}

func (h *Handler) remove(c *gin.Context) {
	ownerHint, ok := middleware.OwnerHint(c)
	if !ok {
		respond.Error(c, http.StatusForbidden, "forbidden", "You can only delete your own resumes.", nil)
		return
	}
	resumeID := c.Param("resumeId")
	c.Set(middleware.ResumeIDKey, resumeID)
	if err := h.Svc.RemoveResume(c.Request.Context(), ownerHint, resumeID); err != nil {
		respond.Failure(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"message": "Resume deleted successfully."})
}

func (h *Handler) reextract(c *gin.Context) {
	ownerHint, ok := middleware.OwnerHint(c)
	if !ok {
		respond.Error(c, http.StatusForbidden, "forbidden", "You can only process your own resumes.", nil)
		return
	}
	resumeID := c.Param("resumeId")
	c.Set(middleware.ResumeIDKey, resumeID)
	res, err := h.Svc.Reextract(c.Request.Context(), ownerHint, resumeID)
	if err != nil {
		respond.Failure(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, ToResumeResponse(res, h.inFlight(res)))
}

func (h *Handler) profileByEmail(c *gin.Context) {
	p, err := h.Svc.GetProfileByEmail(c.Request.Context(), c.Query("email"))
	if err != nil {
		respond.Failure(c, err)
		return
	}
	if !middleware.OwnerAllowed(c, p.UserID) {
		respond.Error(c, http.StatusForbidden, "forbidden", "You can only view your own profile.", nil)
		return
	}
	respond.JSON(c, http.StatusOK, h.toProfileResponse(p))
}

func (h *Handler) profile(c *gin.Context) {
	ownerID, ok := h.pathOwner(c)
	if !ok {
		return
	}
	p, err := h.Svc.GetProfile(c.Request.Context(), ownerID)
	if err != nil {
		respond.Failure(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, h.toProfileResponse(p))
}

func (h *Handler) updateProfile(c *gin.Context) {
	ownerID, ok := h.pathOwner(c)
	if !ok {
		return
	}
	var req ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	p, err := h.Svc.UpdateProfile(c.Request.Context(), ownerID, req)
	if err != nil {
		respond.Failure(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, h.toProfileResponse(p))
}

// pathOwner reads :userId and enforces ownership for authenticated callers.
func (h *Handler) pathOwner(c *gin.Context) (string, bool) {
	ownerID := strings.ToLower(strings.TrimSpace(c.Param("userId")))
	if !middleware.OwnerAllowed(c, ownerID) {
		respond.Error(c, http.StatusForbidden, "forbidden", "You can only access your own profile.", nil)
		return "", false
	}
	return ownerID, true
}

func (h *Handler) inFlight(r Resume) bool {
	if h.InFlight == nil {
		return false
	}
	return h.InFlight(r.OwnerID, r.ID)
}
