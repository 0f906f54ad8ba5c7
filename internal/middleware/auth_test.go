package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dailybrush/internal/authz"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signTestToken(t *testing.T, secret string, userID uuid.UUID, email string, ttl time.Duration) string {
	t.Helper()
	now := time.Now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newAuthRouter(m *AuthMiddleware) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.GET("/private", m.RequireAuth(), func(c *gin.Context) {
		actor := c.MustGet("actor").(authz.Actor)
		c.JSON(http.StatusOK, gin.H{"id": actor.ID.String(), "email": actor.Email})
	})
	router.GET("/public", m.OptionalAuth(), func(c *gin.Context) {
		actor := c.MustGet("actor").(authz.Actor)
		c.JSON(http.StatusOK, gin.H{"authenticated": actor.Authenticated})
	})

	return router
}

func TestRequireAuth(t *testing.T) {
	m := NewAuthMiddleware("secret")
	router := newAuthRouter(m)
	userID := uuid.New()

	// No token.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Valid token.
	token := signTestToken(t, "secret", userID, "user@example.com", time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())

	// Wrong secret.
	bad := signTestToken(t, "other-secret", userID, "user@example.com", time.Hour)
	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+bad)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Expired token.
	expired := signTestToken(t, "secret", userID, "user@example.com", -time.Minute)
	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalAuthFallsBackToAnonymous(t *testing.T) {
	m := NewAuthMiddleware("secret")
	router := newAuthRouter(m)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/public", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)

	token := signTestToken(t, "secret", uuid.New(), "user@example.com", time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), `"authenticated":true`)

	// Garbage token degrades to anonymous instead of failing.
	req = httptest.NewRequest(http.MethodGet, "/public", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)
}
