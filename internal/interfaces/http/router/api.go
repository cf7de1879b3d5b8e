package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shopsync/backend/internal/infrastructure/logger"
	"github.com/shopsync/backend/internal/interfaces/http/handler"
	"github.com/shopsync/backend/internal/interfaces/http/middleware"
)

// DefaultMaxBodyBytes caps admin request bodies
const DefaultMaxBodyBytes int64 = 1 << 20

// Handlers are the HTTP handlers mounted by NewEngine
type Handlers struct {
	Sync         *handler.SyncHandler
	Integrations *handler.IntegrationHandler
	Providers    *handler.ProviderHandler
	Health       *handler.HealthHandler
}

// Config controls the middleware chain
type Config struct {
	Logger *zap.Logger
	// CronSecret guards POST /sync-trigger. Empty rejects every call.
	CronSecret string
	// AdminAuth guards /integrations and /providers; nil leaves them open.
	AdminAuth      gin.HandlerFunc
	CORS           middleware.CORSConfig
	MaxBodyBytes   int64
	TrustedProxies []string
	// TracingService enables otel spans when non-empty.
	TracingService string
}

// NewEngine builds the gin engine with every route under /api/v1
func NewEngine(cfg Config, h Handlers) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.Warn("Invalid trusted proxies, trusting none", zap.Error(err))
		_ = engine.SetTrustedProxies(nil)
	}

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log, "/api/v1/health"),
		logger.Recovery(log),
	)
	if cfg.TracingService != "" {
		engine.Use(middleware.Tracing(cfg.TracingService), middleware.SpanEnricher())
	}
	engine.Use(
		middleware.CORS(cfg.CORS),
		middleware.BodyLimit(cfg.MaxBodyBytes),
	)

	r := NewRouter(engine)
	r.Register(syncRoutes(cfg, h.Sync))
	r.Register(integrationRoutes(cfg, h))
	r.Register(providerRoutes(cfg, h.Providers))
	r.Register(NewDomainGroup("health", "/health").GET("", h.Health.Check))
	r.Setup()

	return engine
}

func syncRoutes(cfg Config, h *handler.SyncHandler) *DomainGroup {
	g := NewDomainGroup("sync", "/sync-trigger")
	g.Use(middleware.CronSecret(cfg.CronSecret, cfg.Logger))
	g.POST("", h.Trigger)
	return g
}

func integrationRoutes(cfg Config, h Handlers) *DomainGroup {
	g := adminGroup(cfg, "integrations", "/integrations")
	g.GET("", h.Integrations.List)
	g.POST("", h.Integrations.Upsert)
	g.POST("/bulk", h.Integrations.Bulk)
	g.GET("/health", h.Integrations.Health)
	g.POST("/products/:productId/changes", h.Integrations.ProductChanged)
	g.GET("/:id", h.Integrations.Get)
	g.POST("/:id/sync", h.Sync.SyncOne)
	return g
}

func providerRoutes(cfg Config, h *handler.ProviderHandler) *DomainGroup {
	g := adminGroup(cfg, "providers", "/providers")
	g.GET("/:type", h.List)
	g.GET("/:type/:name", h.Get)
	g.PUT("/:type/:name", h.Update)
	g.DELETE("/:type/:name", h.Delete)
	return g
}

func adminGroup(cfg Config, name, prefix string) *DomainGroup {
	g := NewDomainGroup(name, prefix)
	if cfg.AdminAuth != nil {
		g.Use(cfg.AdminAuth)
	}
	return g
}
