package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/crmlink/internal/logger"
)

// BasePath prefixes every integration route.
const BasePath = "/integrations/hubspot"

// NewRouter wires gin routes and middleware.
func NewRouter(h *Handler, log *logger.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))

	hubspot := r.Group(BasePath)
	{
		hubspot.GET("/authorize", h.Authorize)
		hubspot.GET("/oauth2callback", h.Callback)
		hubspot.GET("/items", h.Items)
		hubspot.GET("/status", h.Status)
		hubspot.DELETE("/credentials", h.Disconnect)
	}

	r.GET("/healthz", h.Health)

	return r
}

// RequestLogger logs one line per request. Query strings are left out
// since callbacks carry authorization codes.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.NewSilent()
	}
	log = log.Component("http")

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := log.Info()
		if status >= 500 {
			event = log.Error()
		} else if status >= 400 {
			event = log.Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
