package moderation

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Middleware rejects requests whose JSON body carries inappropriate content
// in any of the given fields. The body is restored afterwards so handlers can
// still bind it.
func Middleware(fields ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body == nil {
			c.Next()
			return
		}

		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to read request body"})
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(raw))

		var body map[string]interface{}
		if err := json.Unmarshal(raw, &body); err != nil {
			// Not JSON; let the handler's binding produce the error.
			c.Next()
			return
		}

		for _, field := range fields {
			text, ok := body[field].(string)
			if !ok || text == "" {
				continue
			}
			if res := Check(text); !res.OK {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":   "Content failed moderation",
					"reason":  res.Reason,
					"details": "The field '" + field + "' contains inappropriate content",
					"version": WordListVersion,
				})
				c.Abort()
				return
			}
		}

		c.Next()
	}
}
