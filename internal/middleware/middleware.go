package middleware

import (
	"net/http"
	"time"

	"github.com/MigraSafe/migrasafe-backend/internal/config"
	"github.com/MigraSafe/migrasafe-backend/internal/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slog"
)

// CORSMiddleware is a middleware for CORS. The Access-Control-Allow-Origin
// header carries a single value, so the request origin is echoed back when it
// is on the allow-list.
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	allowAll := false
	allowed := make(map[string]bool, len(cfg.Server.AllowedHosts))
	for _, origin := range cfg.Server.AllowedHosts {
		if origin == "*" {
			allowAll = true
		}
		allowed[origin] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case allowAll:
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		case allowed[origin]:
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Vary", "Origin")
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, Accept, Origin, Cache-Control")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// RequestIDMiddleware attaches a request ID to every request for log correlation
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			generated, err := utils.GenerateRandomString(16)
			if err == nil {
				requestID = generated
			}
		}
		c.Set("requestID", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}

// LoggingMiddleware logs each request with method, path, status, and latency
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		slog.Info("Request handled",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"requestId", c.GetString("requestID"),
		)
	}
}
