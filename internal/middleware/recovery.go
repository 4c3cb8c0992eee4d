package middleware

import (
	"fmt"
	"net/http"
	"runtime"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	apperrors "github.com/harentsoaR/hospital-api/internal/errors"
)

func Recovery(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				var stack [4096]byte
				n := runtime.Stack(stack[:], false)

				logger.Error().
					Str("request_id", RequestID(c)).
					Str("panic", fmt.Sprintf("%v", r)).
					Str("stack", string(stack[:n])).
					Msg("panic recovered")

				httpErr := apperrors.NewHTTPError(http.StatusInternalServerError, "An error occurred", fmt.Errorf("%v", r))
				c.AbortWithStatusJSON(httpErr.StatusCode, httpErr.ToErrorResponse())
			}
		}()
		c.Next()
	}
}
