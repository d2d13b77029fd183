package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/fundgraph-backend/internal/http/response"
)

const headerAPIKey = "x-api-key"

const unauthorizedAPIKeyMessage = "Unauthorized: Invalid API Key"

// RequireAPIKey admits requests whose x-api-key header equals key. An empty key rejects everything.
func RequireAPIKey(key string) gin.HandlerFunc {
	want := []byte(strings.TrimSpace(key))
	return func(c *gin.Context) {
		got := []byte(strings.TrimSpace(c.GetHeader(headerAPIKey)))
		if len(want) == 0 || len(got) == 0 || subtle.ConstantTimeCompare(got, want) != 1 {
			response.RespondMessage(c, http.StatusUnauthorized, unauthorizedAPIKeyMessage)
			c.Abort()
			return
		}
		c.Next()
	}
}
