package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimitInitiate throttles checkout creation per client IP. When the
// limiter is not configured the middleware is a pass-through.
func (s *Server) RateLimitInitiate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.initiateLimiter.Enabled() {
			c.Next()
			return
		}

		result, err := s.initiateLimiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			// Redis being down must not block donations.
			s.log.Warn("initiate rate limit check failed", zap.Error(err))
			c.Next()
			return
		}

		if !result.Allowed {
			if result.RetryAfter > 0 {
				c.Header("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())+1))
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errorResponse{Error: errorPayload{
				Type:    "too_many_requests",
				Message: "too many requests",
			}})
			return
		}

		c.Next()
	}
}
