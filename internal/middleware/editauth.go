package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// EditTokenKey is the gin context key holding the raw bearer token.
const EditTokenKey = "edit_token"

// BearerToken extracts an Authorization bearer token into the context. The
// service layer verifies the token against the target event; this middleware
// only peels it off the header so handlers stay uniform.
func BearerToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if token, found := strings.CutPrefix(header, "Bearer "); found && token != "" {
			c.Set(EditTokenKey, token)
		}
		c.Next()
	}
}

// EditToken returns the bearer token captured by BearerToken, or "".
func EditToken(c *gin.Context) string {
	return c.GetString(EditTokenKey)
}
