package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthController struct {
	service string
	now     func() time.Time
}

func NewHealthController(r *gin.Engine, service string) *HealthController {
	hc := &HealthController{service: service, now: time.Now}

	r.GET(RouteHealth, hc.HealthHandler)

	return hc
}

func (hc *HealthController) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": hc.now().UTC().Format(time.RFC3339),
		"service":   hc.service,
	})
}
