package middleware

import (
	"saaam-quantumgate/pkg/errutil"

	"github.com/gin-gonic/gin"
)

// Error renders the last handler error as a JSON payload with the HTTP
// status mapped from its CoreStatus. Rate-limit rejections carry a
// Retry-After hint since the window is one second.
func Error() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil {
			return
		}

		code := errutil.Code(last.Err)
		if code == errutil.StatusTooManyRequests {
			c.Header("Retry-After", "1")
		}

		if v, ok := last.Err.(errutil.BaseError); ok {
			c.JSON(v.Code.HTTPStatus(), v.JSON())
			return
		}

		c.JSON(code.HTTPStatus(), gin.H{
			"error": gin.H{
				"code":    code,
				"message": last.Err.Error(),
			},
		})
	}
}
