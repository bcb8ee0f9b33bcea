package internal

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cwl2slack/internal/constants"
	"cwl2slack/internal/metrics"
	"cwl2slack/internal/payloads"
	"cwl2slack/internal/util"
	"cwl2slack/log"
)

// LoadWebServer sets up routes and middleware and returns the server unstarted.
func LoadWebServer(server *Server) *http.Server {
	switch server.config.Env {
	case constants.PRODUCTION:
		gin.SetMode(gin.ReleaseMode)
	case constants.TEST:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.Use(LoggerMiddleware(log.Logger()))
	router.Use(gin.Recovery())

	router.POST("/invoke", ClosingMiddleware(server), func(c *gin.Context) {
		Invoke(c, server)
	})
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	router.GET("/metrics", gin.WrapH(metrics.NewMetricsHandler(server.PrometheusMetrics).PrometheusHandler()))

	return &http.Server{
		Addr:    server.config.DevServerAddr,
		Handler: router,
	}
}

// Invoke runs one subscription event, posted in the same JSON shape Lambda
// would receive, through the pipeline.
func Invoke(c *gin.Context, server *Server) {
	var event payloads.SubscriptionEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be {\"awslogs\":{\"data\":...}}", "detail": err.Error()})
		return
	}

	result, err := server.Pipeline.Run(c.Request.Context(), event.AWSLogs.Data)
	if err != nil {
		c.JSON(statusForError(err), gin.H{
			"error":  err.Error(),
			"kind":   util.CodeOf(err).Kind(),
			"result": result,
		})
		return
	}
	c.JSON(http.StatusOK, result)
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, util.ErrCodeDecode), errors.Is(err, util.ErrCodeSchema):
		return http.StatusUnprocessableEntity
	case errors.Is(err, util.ErrCodeDelivery):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
