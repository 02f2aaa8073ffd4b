package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)


const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter() *gin.Engine {
	r := gin.New()
	r.GET("/protected", RequireAuth(testSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c)})
	})
	r.GET("/admin", RequireAuth(testSecret), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/optional", OptionalAuth(testSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c)})
	})
	return r
}

func TestRequireAuthNoToken(t *testing.T) {
	r := newAuthRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthHTMLRedirectsToLogin(t *testing.T) {
	r := newAuthRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Accept", "text/html")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/auth/login")
}

func TestRequireAuthWithBearerToken(t *testing.T) {
	token, err := GenerateToken(42, "a@b.c", "user", testSecret, time.Hour)
	require.NoError(t, err)

	r := newAuthRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "42")
}

func TestRequireAuthWithCookie(t *testing.T) {
	token, err := GenerateToken(7, "a@b.c", "user", testSecret, time.Hour)
	require.NoError(t, err)

	r := newAuthRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuthRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken(1, "a@b.c", "user", "other-secret", time.Hour)
	require.NoError(t, err)

	r := newAuthRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdminRejectsNonAdmin(t *testing.T) {
	token, err := GenerateToken(1, "a@b.c", "user", testSecret, time.Hour)
	require.NoError(t, err)

	r := newAuthRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	token, err := GenerateToken(1, "a@b.c", "admin", testSecret, time.Hour)
	require.NoError(t, err)

	r := newAuthRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOptionalAuthAnonymous(t *testing.T) {
	r := newAuthRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/optional", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":0`)
}

func TestShouldRefresh(t *testing.T) {
	// 消耗不到一半不刷新
	fresh := &Claims{}
	fresh.IssuedAt = jwt.NewNumericDate(time.Now())
	fresh.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	assert.False(t, shouldRefresh(fresh))

	// 消耗超过一半需要刷新
	stale := &Claims{}
	stale.IssuedAt = jwt.NewNumericDate(time.Now().Add(-2 * time.Hour))
	stale.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	assert.True(t, shouldRefresh(stale))
}
