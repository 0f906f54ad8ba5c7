package response

import (
	"log"
	"net/http"

	"dailybrush/internal/authz"
	"dailybrush/pkg/apperror"
	"github.com/gin-gonic/gin"
)

// GetActor retrieves the requesting actor from the context. Routes behind
// RequireAuth always have one; behind OptionalAuth it may be anonymous.
func GetActor(c *gin.Context) authz.Actor {
	if v, exists := c.Get("actor"); exists {
		if actor, ok := v.(authz.Actor); ok {
			return actor
		}
	}
	return authz.Anonymous()
}

// RequireActor is GetActor for routes that must not run anonymously.
func RequireActor(c *gin.Context) (authz.Actor, error) {
	actor := GetActor(c)
	if !actor.Authenticated {
		return authz.Anonymous(), apperror.ErrUnauthorized
	}
	return actor, nil
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	// Log internal errors
	if code == http.StatusInternalServerError {
		log.Printf("[Internal Error]: %v", err)
	}

	c.JSON(code, gin.H{"error": err.Error()})
}
