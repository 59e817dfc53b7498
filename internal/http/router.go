// Package httpapi wires the HTTP transport (Gin) to the application
// services, middleware and handlers. It centralizes cross-cutting concerns
// such as tracing, correlation IDs, logging/redaction, panic recovery,
// metrics, CORS, security headers and rate limiting.
//
// Two route families share the engine:
//   - the error page embed endpoint, which negotiates CORS per project and
//     must stay frameable from any page;
//   - operational routes (health, readiness, metrics, docs) behind a
//     conventional CORS and security header posture.
package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	_ "github.com/tbourn/go-errpage-embed/docs"
	"github.com/tbourn/go-errpage-embed/internal/cache"
	"github.com/tbourn/go-errpage-embed/internal/config"
	"github.com/tbourn/go-errpage-embed/internal/dsn"
	"github.com/tbourn/go-errpage-embed/internal/http/handlers"
	"github.com/tbourn/go-errpage-embed/internal/http/middleware"
	"github.com/tbourn/go-errpage-embed/internal/services"
)

// maxBodyBytes caps request bodies. Report forms are a few KiB at most.
const maxBodyBytes = 1 << 20

// RegisterRoutes attaches all middleware and endpoints to r. kc may be nil,
// in which case project keys are always read from the database.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII and DSN scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. CORS and security headers for everything but the embed path
//
// The embed group adds its own rate limiter and frameable security headers;
// its CORS headers are written by the handler. Only the GET script is
// compressed: EmbedGuard answers failed preconditions before gzip runs, and
// OPTIONS/POST responses are empty or tiny.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, kc cache.KeyCache, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		QueryScrubbers: map[string]func(string) string{
			"dsn": dsn.Redact,
		},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit
	r.Use(limitBody(maxBodyBytes))

	// 6) Prometheus metrics
	r.Use(middleware.Metrics())

	// 7) Ops posture, skipped on the embed path
	embedPath := cfg.EmbedPath
	if embedPath == "" {
		embedPath = "/"
	}
	r.Use(except(embedPath, opsCORS(cfg.CORS)))
	r.Use(except(embedPath, middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:      cfg.Security.EnableHSTS,
		HSTSMaxAge:      cfg.Security.HSTSMaxAge,
		EnablePolicy:    true,
		ExposeRequestID: true,
	})))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Ops
	r.GET("/health", handlers.Health)
	r.GET("/readyz", handlers.Ready(readinessChecks(db, kc)...))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← repo/db/cache
	keys := services.NewKeyResolver(db, kc)
	policy := services.OriginPolicy{Global: cfg.GlobalAllowedOrigins}
	reports := services.NewReportService(db)
	h := handlers.New(keys, policy, reports)

	// Embed endpoint. Preflights are never rate limited.
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByIPAndQuery("dsn"), http.MethodOptions)
	embed := groupWithPrefix(r, embedPath)
	embed.Use(
		rl.Handler(),
		middleware.SecurityHeaders(middleware.SecurityOptions{
			EnableHSTS:   cfg.Security.EnableHSTS,
			HSTSMaxAge:   cfg.Security.HSTSMaxAge,
			NoStore:      true,
			AllowFraming: true,
		}),
	)
	{
		embed.GET("", h.EmbedGuard, gzip.Gzip(gzip.DefaultCompression), h.Embed)
		embed.POST("", h.Embed)
		embed.OPTIONS("", h.Embed)
	}
}

// opsCORS builds the CORS middleware for operational routes. With no
// configured origins every origin is allowed without credentials.
func opsCORS(cc config.CORSConfig) gin.HandlerFunc {
	base := cors.Config{
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(cc.AllowedOrigins) == 0 {
		base.AllowAllOrigins = true
	} else {
		base.AllowOrigins = cc.AllowedOrigins
	}
	return cors.New(base)
}

// readinessChecks probes the database and, when configured, the Redis key
// cache.
func readinessChecks(db *gorm.DB, kc cache.KeyCache) []handlers.ReadinessCheck {
	checks := []handlers.ReadinessCheck{{
		Name: "db",
		Ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}}
	if rc, ok := kc.(*cache.Redis); ok && rc != nil {
		checks = append(checks, handlers.ReadinessCheck{Name: "redis", Ping: rc.Ping})
	}
	return checks
}

// except runs mw for every request whose path is not under prefix. A root
// prefix matches everything, so mw never runs.
func except(prefix string, mw gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, prefix) {
			return
		}
		mw(c)
	}
}

// limitBody caps the request body size to maxBytes using
// http.MaxBytesReader. Oversized bodies make downstream reads fail.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
