package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimit throttles per client IP using an in-memory store. The rate uses
// limiter's "<count>-<period>" format, e.g. "100-M" for 100 requests a minute.
func RateLimit(rate string) gin.HandlerFunc {
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		log.Fatalf("Invalid rate limit %q: %v", rate, err)
	}

	instance := limiter.New(memory.NewStore(), parsed)
	wrapped := stdlib.NewMiddleware(instance)

	return func(c *gin.Context) {
		wrapped.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.Next()
		})).ServeHTTP(c.Writer, c.Request)

		if c.Writer.Status() == http.StatusTooManyRequests {
			c.Abort()
		}
	}
}
