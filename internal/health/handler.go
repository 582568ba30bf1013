package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler returns a gin handler serving the aggregated health report.
// DOWN reports are returned with 503 so load balancers can act on them.
func (c *Checker) Handler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		response := c.Health(ctx.Request.Context())

		status := http.StatusOK
		if response.Status == StatusDown {
			status = http.StatusServiceUnavailable
		}
		ctx.JSON(status, response)
	}
}
