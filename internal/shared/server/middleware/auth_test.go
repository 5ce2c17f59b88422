package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"careerhub-backend/internal/shared/auth"
)

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Auth())
	router.GET("/api/v1/users/:userId/resumes", func(c *gin.Context) {
		if !OwnerAllowed(c, c.Param("userId")) {
			c.Status(http.StatusForbidden)
			return
		}
		c.String(http.StatusOK, UserIDFromContext(c))
	})
	return router
}

func TestAuthAllowsOptionsWithoutIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Auth())
	router.OPTIONS("/api/v1/resume", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/resume", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
}

func TestAuthAnonymousPassesThrough(t *testing.T) {
	router := newAuthRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/64b1f0c2e1a2b3c4d5e6f7a8/resumes", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if resp.Body.String() != "" {
		t.Fatalf("expected empty user id, got %q", resp.Body.String())
	}
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	router := newAuthRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/abc/resumes", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestAuthEnforcesOwner(t *testing.T) {
	t.Setenv("ENV", "dev")
	t.Setenv("JWT_SECRET", "middleware-secret")
	token, err := auth.SignJWT("64b1f0c2e1a2b3c4d5e6f7a8", "ada@example.com", "Ada")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	router := newAuthRouter()

	own := httptest.NewRequest(http.MethodGet, "/api/v1/users/64b1f0c2e1a2b3c4d5e6f7a8/resumes", nil)
	own.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, own)
	if resp.Code != http.StatusOK || resp.Body.String() != "64b1f0c2e1a2b3c4d5e6f7a8" {
		t.Fatalf("expected own access, got %d %q", resp.Code, resp.Body.String())
	}

	other := httptest.NewRequest(http.MethodGet, "/api/v1/users/000000000000000000000000/resumes", nil)
	other.Header.Set("Authorization", "Bearer "+token)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, other)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
}

func TestOwnerHintPrefersTokenAndRejectsMismatch(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name   string
		caller string
		query  string
		want   string
		wantOK bool
	}{
		{name: "anonymous query", query: "64b1f0c2e1a2b3c4d5e6f7a8", want: "64b1f0c2e1a2b3c4d5e6f7a8", wantOK: true},
		{name: "anonymous empty", want: "", wantOK: true},
		{name: "token only", caller: "64b1f0c2e1a2b3c4d5e6f7a8", want: "64b1f0c2e1a2b3c4d5e6f7a8", wantOK: true},
		{name: "token matches query", caller: "64b1f0c2e1a2b3c4d5e6f7a8", query: "64B1F0C2E1A2B3C4D5E6F7A8", want: "64b1f0c2e1a2b3c4d5e6f7a8", wantOK: true},
		{name: "token mismatch", caller: "64b1f0c2e1a2b3c4d5e6f7a8", query: "000000000000000000000000", wantOK: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/delete-resume/1?userId="+tc.query, nil)
			if tc.caller != "" {
				c.Set(userIDKey, tc.caller)
			}
			got, ok := OwnerHint(c)
			if ok != tc.wantOK || got != tc.want {
				t.Fatalf("OwnerHint() = %q, %v; want %q, %v", got, ok, tc.want, tc.wantOK)
			}
		})
	}
}
