package middleware

import "github.com/gin-gonic/gin"

// memberIDKey is the key used to store the authenticated member's ID.
const memberIDKey = contextKey("memberID")

// GetMemberIDFromContext retrieves the authenticated member ID from the Gin
// context, checking the request context as a fallback.
func GetMemberIDFromContext(c *gin.Context) (string, bool) {
	if v, exists := c.Get(string(memberIDKey)); exists {
		if memberID, ok := v.(string); ok {
			return memberID, true
		}
		return "", false
	}
	if v := c.Request.Context().Value(memberIDKey); v != nil {
		if memberID, ok := v.(string); ok {
			return memberID, true
		}
	}
	return "", false
}
