package httpx

import (
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/shopkeeper/internal/logging"
)

// NewRouter builds a gin engine with the middleware stack shared by all
// services: recovery, request IDs, structured request logging, CORS and
// gzip compression.
func NewRouter(logger logging.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.NewString()
	})))
	r.Use(RequestLogger(logger))
	r.Use(CORSMiddleware())
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	return r
}

// RequestLogger logs one line per completed request with method, path,
// status, duration and the request id.
func RequestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rlog := logger.With(
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"client_ip", c.ClientIP(),
			"request_id", requestid.Get(c),
		)

		start := time.Now()
		c.Next()
		duration := time.Since(start)

		rlog.Info(c.Request.Context(), "request completed",
			"status", c.Writer.Status(), "duration", duration)
	}
}

// CORSMiddleware mirrors the permissive browser policy of the original
// front-end integration.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Max-Age", "3600")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Origin, Authorization, Accept, Accept-Encoding")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	}
}
