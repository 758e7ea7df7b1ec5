package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resume-screener/internal/shared/telemetry"
)

// Context keys handlers may set to enrich the request log line.
const (
	AnalysisIDKey = "analysisId"
	FileNameKey   = "fileName"
	FileFormatKey = "fileFormat"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if id, ok := c.Get(AnalysisIDKey); ok {
			fields["analysis_id"] = id
		}
		if name := c.GetString(FileNameKey); name != "" {
			fields["filename"] = name
		}
		if format := c.GetString(FileFormatKey); format != "" {
			fields["file_format"] = format
		}
		telemetry.Info("request.complete", fields)
	}
}
