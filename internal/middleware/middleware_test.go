package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/who", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"role":       c.GetString(ContextRole),
			"cliente_id": c.GetUint(ContextClientID),
		})
	})
	return r
}

func get(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareExtractsActor(t *testing.T) {
	r := newRouter(AuthMiddleware(secret))

	clientToken, err := IssueToken(secret, RoleClient, 7, time.Hour)
	require.NoError(t, err)
	w := get(r, "Bearer "+clientToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"role":"client","cliente_id":7}`, w.Body.String())

	adminToken, err := IssueToken(secret, RoleAdmin, 0, time.Hour)
	require.NoError(t, err)
	w = get(r, "Bearer "+adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"role":"admin","cliente_id":0}`, w.Body.String())
}

func TestAuthMiddlewareRejects(t *testing.T) {
	r := newRouter(AuthMiddleware(secret))

	expired, _ := IssueToken(secret, RoleAdmin, 0, -time.Minute)
	forged, _ := IssueToken("other-secret", RoleAdmin, 0, time.Hour)
	noClient, _ := IssueToken(secret, RoleClient, 0, time.Hour)
	unknownRole, _ := IssueToken(secret, "groomer", 0, time.Hour)

	for name, header := range map[string]string{
		"missing":      "",
		"not bearer":   "Basic abc",
		"expired":      "Bearer " + expired,
		"wrong secret": "Bearer " + forged,
		"no client id": "Bearer " + noClient,
		"unknown role": "Bearer " + unknownRole,
	} {
		t.Run(name, func(t *testing.T) {
			w := get(r, header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "error_code")
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	r := newRouter(AuthMiddleware(secret), RequireAdmin())

	clientToken, _ := IssueToken(secret, RoleClient, 3, time.Hour)
	assert.Equal(t, http.StatusForbidden, get(r, "Bearer "+clientToken).Code)

	adminToken, _ := IssueToken(secret, RoleAdmin, 0, time.Hour)
	assert.Equal(t, http.StatusOK, get(r, "Bearer "+adminToken).Code)
}

func TestRateLimiter(t *testing.T) {
	r := newRouter(NewRateLimiter(2, nil).Middleware())

	assert.Equal(t, http.StatusOK, get(r, "").Code)
	assert.Equal(t, http.StatusOK, get(r, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, "").Code)
}

func TestRateLimiterDropsIdleBuckets(t *testing.T) {
	start := time.Date(2025, time.March, 10, 10, 0, 0, 0, time.UTC)
	now := start
	rl := NewRateLimiter(2, nil)
	rl.now = func() time.Time { return now }
	rl.lastSweep = start

	rl.limiter("10.0.0.1")
	rl.limiter("10.0.0.2")
	require.Len(t, rl.limiters, 2)

	now = start.Add(limiterIdleTTL / 2)
	rl.limiter("10.0.0.2")

	now = start.Add(limiterIdleTTL)
	rl.limiter("10.0.0.3")
	assert.Len(t, rl.limiters, 2)
	assert.NotContains(t, rl.limiters, "10.0.0.1")
	assert.Contains(t, rl.limiters, "10.0.0.2")
}

func TestRequestIDIsEchoedOrGenerated(t *testing.T) {
	r := newRouter(RequestID())

	w := get(r, "")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}
