// Package httpapi assembles the outreach API on a Gin engine: the global
// middleware chain, the health, metrics and docs endpoints, and the versioned
// routes for accounts, the business profile, directory lookup, contacts and
// review-request emails. Services are built here from the repo functions and
// the injected mailer and places client.
package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/review-outreach/internal/config"
	"github.com/tbourn/review-outreach/internal/http/handlers"
	"github.com/tbourn/review-outreach/internal/http/middleware"
	"github.com/tbourn/review-outreach/internal/mailer"
	"github.com/tbourn/review-outreach/internal/services"
)

// Deps are the outbound collaborators the API needs besides the database.
type Deps struct {
	Mailer mailer.Sender
	Places handlers.PlacesClient
}

// RegisterRoutes installs the global middleware chain, the operational
// endpoints and the versioned API under cfg.APIBasePath on r.
//
// Global order: tracing, request id, access log (redacting unless
// LOG_REDACT=false), recovery, body cap, metrics, CORS, security headers,
// gzip. Protected routes then run Auth, the idempotency validator and the
// per-account limiter in that order, so the validator knows the account and
// replays skip the limiter.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config, deps Deps) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging, with redaction by default
	if cfg.LogRedact {
		r.Use(middleware.RedactingLogger(middleware.RedactOptions{
			MaskHeaders: []string{middleware.HeaderIdempotencyKey},
		}))
	} else {
		r.Use(middleware.Logger())
	}

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) CORS, then security headers and compression
	r.Use(corsPolicy(cfg.CORS.AllowedOrigins)...)

	// tokens are never cached and owner data only privately
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:      cfg.Security.EnableHSTS,
		HSTSMaxAge:      cfg.Security.HSTSMaxAge,
		BrowserPolicy:   true,
		NoStorePrefixes: []string{apiPath(cfg, "/auth")},
		PrivatePrefixes: []string{
			apiPath(cfg, "/contacts"),
			apiPath(cfg, "/business-profile"),
			apiPath(cfg, "/places"),
		},
	}))

	// Compress JSON bodies; the metrics endpoint negotiates its own encoding.
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// API docs
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← repo/db/mailer
	contactSvc := services.NewContactService(db, repoFuncs{}, cfg.Outreach.ReviewBaseURL)

	outreachSvc := services.NewOutreachService(db, repoFuncs{}, deps.Mailer, cfg.Mail.From)
	outreachSvc.Concurrency = cfg.Outreach.BulkConcurrency
	outreachSvc.MaxIDs = cfg.Outreach.BulkMaxIDs

	userSvc := services.NewUserService(db, repoFuncs{}, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	h := handlers.New(handlers.Deps{
		Contacts:       contactSvc,
		Outreach:       outreachSvc,
		Users:          userSvc,
		Places:         deps.Places,
		DB:             db,
		IdempotencyTTL: cfg.IdempotencyTTL,
	})

	// Token buckets: per client IP for credential endpoints, per account after Auth
	authRL := middleware.NewRateLimiter("auth", cfg.AuthRateRPS, cfg.AuthRateBurst, middleware.KeyByIP())
	apiRL := middleware.NewRateLimiter("api", cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath) // e.g. "/api/v1"

	// Accounts (anonymous)
	authGroup := api.Group("/auth", authRL.Handler())
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}

	// Everything else requires a bearer token
	protected := api.Group("",
		middleware.Auth([]byte(cfg.Auth.JWTSecret)),
		middleware.IdempotencyValidator(middleware.IdempotencyOptions{MaxLen: 200}, handlers.IdempotencyLookup(db)),
		apiRL.Handler(),
	)
	{
		// Business profile
		protected.GET("/business-profile", h.GetBusinessProfile)
		protected.PUT("/business-profile", h.UpdateBusinessProfile)

		// Directory lookup
		protected.GET("/places/search", h.SearchPlaces)
		protected.GET("/places/photo", h.PlacePhoto)
		protected.GET("/places/:place_id", h.PlaceDetails)

		// Contacts
		protected.GET("/contacts", h.ListContacts)
		protected.POST("/contacts", h.CreateContact)
		protected.POST("/contacts/bulk-email", h.BulkEmail)
		protected.GET("/contacts/:id", h.GetContact)
		protected.PUT("/contacts/:id", h.UpdateContact)
		protected.DELETE("/contacts/:id", h.DeleteContact)

		// Outreach; POST on the contact itself is kept for older clients.
		protected.POST("/contacts/:id", h.SendReviewEmail)
		protected.POST("/contacts/:id/send", h.SendReviewEmail)
	}
}

// limitBody caps every request body at maxBytes; reads past the cap fail with
// *http.MaxBytesError.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// apiPath joins the API base path and p.
func apiPath(cfg config.Config, p string) string {
	return strings.TrimSuffix(cfg.APIBasePath, "/") + p
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
