package report

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerhub-backend/internal/profiles"
	"careerhub-backend/internal/shared/apperr"
)

var generatedAt = time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC)

func analyzedResume() profiles.Resume {
	return profiles.Resume{
		ID:      "r1",
		OwnerID: "64b1f0c2e1a2b3c4d5e6f7a8",
		Name:    "ada_cv.pdf",
		Analysis: &profiles.ScoreResult{
			OverallScore: 74,
			CategoryScores: map[string]int{
				"skills_match": 55,
				"formatting":   92,
				"keywords":     68,
			},
			Feedback:        map[string]string{"formatting": "Consistent headings & spacing."},
			Recommendations: []string{"Quantify project impact.", "List Go <1.22> experience."},
		},
	}
}

func TestRenderIncludesScoresAndBands(t *testing.T) {
	out, err := Render(analyzedResume(), generatedAt)
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, "ada_cv.pdf")
	assert.Contains(t, html, "Thu, 02 May 2024 09:30:00 UTC")
	assert.Contains(t, html, "74/100")
	assert.Contains(t, html, "Skills Match")
	assert.Contains(t, html, `class="fill success" style="width: 92%"`)
	assert.Contains(t, html, `class="fill warning" style="width: 68%"`)
	assert.Contains(t, html, `class="fill danger" style="width: 55%"`)
	assert.Contains(t, html, "Consistent headings &amp; spacing.")
	assert.Contains(t, html, "List Go &lt;1.22&gt; experience.")
	assert.NotContains(t, html, "http://")
	assert.NotContains(t, html, "https://")

	formatting := strings.Index(html, "Formatting")
	keywords := strings.Index(html, "Keywords")
	skills := strings.Index(html, "Skills Match")
	assert.True(t, formatting < keywords && keywords < skills, "categories should be sorted by key")
}

func TestRenderIsDeterministic(t *testing.T) {
	first, err := Render(analyzedResume(), generatedAt)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Render(analyzedResume(), generatedAt)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestRenderWithoutAnalysis(t *testing.T) {
	res := analyzedResume()
	res.Analysis = nil
	_, err := Render(res, generatedAt)
	assert.ErrorIs(t, err, ErrIncompleteData)

	_, err = RenderText(res, generatedAt)
	assert.ErrorIs(t, err, ErrIncompleteData)
}

func TestRenderText(t *testing.T) {
	out, err := RenderText(analyzedResume(), generatedAt)
	require.NoError(t, err)
	assert.Contains(t, out, "Overall score: 74/100")
	assert.Contains(t, out, "- Quantify project impact.")
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "Resume_Analysis_ada_cv.html", Filename(analyzedResume()))
	assert.Equal(t, "Resume_Analysis_r9.html", Filename(profiles.Resume{ID: "r9"}))
}

func TestScoreClassBoundaries(t *testing.T) {
	assert.Equal(t, "success", scoreClass(80))
	assert.Equal(t, "warning", scoreClass(79))
	assert.Equal(t, "warning", scoreClass(60))
	assert.Equal(t, "danger", scoreClass(59))
}

func TestTitleCase(t *testing.T) {
	cases := map[string]string{
		"skills_match":      "Skills Match",
		"impact-statements": "Impact Statements",
		"éducation":         "Éducation",
		"ÉDUCATION_niveau":  "Éducation Niveau",
		"":                  "",
	}
	for in, want := range cases {
		got := titleCase(in)
		assert.Equal(t, want, got, in)
		assert.True(t, utf8.ValidString(got), in)
	}
}

type finderFunc func(ownerHint, resumeID string) (profiles.Resume, error)

func (f finderFunc) Find(_ context.Context, ownerHint, resumeID string) (profiles.Resume, error) {
	return f(ownerHint, resumeID)
}

func TestDownloadHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	pending := analyzedResume()
	pending.ID = "r2"
	pending.Analysis = nil

	h := NewHandler(finderFunc(func(ownerHint, resumeID string) (profiles.Resume, error) {
		switch resumeID {
		case "r1":
			return analyzedResume(), nil
		case "r2":
			return pending, nil
		}
		return profiles.Resume{}, apperr.NotFound("test", "Resume not found.")
	}))
	h.Now = func() time.Time { return generatedAt }
	router := gin.New()
	h.RegisterRoutes(router.Group("/api/v1"))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/resumes/r1/report", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, `attachment; filename="Resume_Analysis_ada_cv.html"`, resp.Header().Get("Content-Disposition"))
	assert.Contains(t, resp.Header().Get("Content-Type"), "text/html")

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/resumes/r2/report", nil))
	assert.Equal(t, http.StatusConflict, resp.Code)

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/resumes/r3/report", nil))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
