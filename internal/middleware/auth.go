package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"dailybrush/internal/authz"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type AuthMiddleware struct {
	secret string
}

func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{secret: secret}
}

// Claims carried by access tokens. The email claim feeds the administrator
// allowlist check without a user lookup per request.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// RequireAuth rejects requests without a valid bearer token and stores the
// resulting actor in the context.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := m.actorFromRequest(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		c.Set("actor", actor)
		c.Next()
	}
}

// OptionalAuth resolves the actor when a token is present and falls back to
// anonymous otherwise. Used on public reads so per-actor enrichment (has_liked)
// works for signed-in clients.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := m.actorFromRequest(c)
		if err != nil {
			actor = authz.Anonymous()
		}

		c.Set("actor", actor)
		c.Next()
	}
}

func (m *AuthMiddleware) actorFromRequest(c *gin.Context) (authz.Actor, error) {
	tokenString := ""
	authHeader := c.GetHeader("Authorization")

	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			tokenString = parts[1]
		}
	}

	if tokenString == "" {
		tokenString = c.Query("token")
	}

	if tokenString == "" {
		return authz.Anonymous(), fmt.Errorf("authorization required")
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	})
	if err != nil || !token.Valid {
		return authz.Anonymous(), fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return authz.Anonymous(), fmt.Errorf("invalid token claims")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return authz.Anonymous(), fmt.Errorf("invalid token subject")
	}

	return authz.Actor{ID: userID, Email: claims.Email, Authenticated: true}, nil
}
