package jobs

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewHandler(svc)
	rg := router.Group("/api/v1")
	h.RegisterRoutes(rg)
	h.RegisterSearchRoutes(rg)
	return router
}

func TestSaveEndpoint(t *testing.T) {
	router := newTestRouter(newTestService())

	body, err := json.Marshal(map[string]any{"jobs": sampleJobs()[:2]})
	require.NoError(t, err)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/jobs/save", bytes.NewReader(body)))
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var got struct {
		Jobs []Job `json:"jobs"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	require.Len(t, got.Jobs, 2)
	assert.NotEmpty(t, got.Jobs[0].ID)

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/jobs/"+got.Jobs[1].ID, nil))
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/jobs/save", bytes.NewReader([]byte(`{}`))))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestRemoteSearchEndpointMapsFailureTo502(t *testing.T) {
	svc := newTestService()
	svc.Remote = NewRemoteSearch("", 0)
	router := newTestRouter(svc)

	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/search/remote", bytes.NewReader([]byte(`{"keyword":"go"}`)))
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusBadGateway, resp.Code)
	assert.Contains(t, resp.Body.String(), "remote_search_failed")
}
