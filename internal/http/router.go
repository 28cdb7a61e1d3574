package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/yungbote/neurobridge-backend/internal/http/handlers"
	httpMW "github.com/yungbote/neurobridge-backend/internal/http/middleware"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

// RouterConfig wires C9's single endpoint plus ambient operability routes.
type RouterConfig struct {
	Log           *logger.Logger
	HealthHandler *httpH.HealthHandler
	InvokeHandler *httpH.InvokeHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(httpMW.Recovery(cfg.Log))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Readiness)
	}

	if cfg.InvokeHandler != nil {
		r.POST("/invoke", cfg.InvokeHandler.Invoke)
	}

	return r
}
