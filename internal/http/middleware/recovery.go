package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/neurobridge-backend/internal/http/response"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

// Recovery converts a panic in any downstream handler into a generic 500
// response instead of crashing the process, logging the recovered value.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				if log != nil {
					log.Error("panic recovered", "path", c.FullPath(), "panic", fmt.Sprintf("%v", rec))
				}
				response.RespondError(c, http.StatusInternalServerError, "internal_error", fmt.Errorf("internal error"))
				c.Abort()
			}
		}()
		c.Next()
	}
}
