package handler

import (
	"net/http"

	"dailybrush/internal/modules/search/service"
	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	service service.SearchService
}

func NewSearchHandler(service service.SearchService) *SearchHandler {
	return &SearchHandler{service: service}
}

// GetSearchToken returns a short-lived tenant token so clients can query the
// search host directly.
func (h *SearchHandler) GetSearchToken(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search is not configured"})
		return
	}

	token, err := h.service.SearchToken()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search token unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
