package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yildizm/SigSum/internal/logger"
	"github.com/yildizm/SigSum/internal/signal"
)

// Route paths
const (
	AnalyzePath = "/analyze_signal/analisar_sinal"
	HealthPath  = "/health"
	MetricsPath = "/metrics"
)

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Signal Analysis API",
		"version": Version,
		"endpoints": gin.H{
			"analyze_signal": AnalyzePath,
			"health":         HealthPath,
			"metrics":        MetricsPath,
		},
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) handleAnalyze(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.config.MaxBodyBytes)

	var req signal.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		status, detail := bindingFailure(err)
		s.log.DebugWithFields("rejected request body", []logger.Field{
			logger.RequestID(c.GetString(requestIDKey)), logger.Status(status), logger.F("detail", detail),
		})
		c.JSON(status, errorBody(detail))
		return
	}

	result, err := s.analyzer.Analyze(c.Request.Context(), req.Data)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	s.metrics.ObserveAnalysis(len(req.Data), result.Trend)
	c.JSON(http.StatusOK, result)
}
