package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"sink-bom-backend/config"
	"sink-bom-backend/internal/bom"
	"sink-bom-backend/internal/catalog"
	"sink-bom-backend/internal/metrics"
	"sink-bom-backend/internal/mw"
)

// RouterOptions carries everything NewRouter wires together. Metrics may be nil.
type RouterOptions struct {
	Engine   *bom.Engine
	Holder   *catalog.Holder
	Reloader Reloader
	Metrics  *metrics.Registry
	Logger   *zap.Logger
	Server   config.ServerConfig
	Expose   config.MetricsConfig
}

// NewRouter creates and configures a new Gin router.
func NewRouter(opts RouterOptions) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery(), mw.RequestID())
	if opts.Server.RequestIPHeader != "" {
		r.TrustedPlatform = opts.Server.RequestIPHeader
	}
	if opts.Metrics != nil {
		r.Use(mw.Metrics(opts.Metrics))
	}
	r.Use(mw.Logger(logger))

	observer := func(name string) mw.CacheObserver {
		if opts.Metrics == nil {
			return nil
		}
		return func(hit bool) { opts.Metrics.RecordCacheLookup(name, hit) }
	}

	// Catalog reads are cached per snapshot version; resolutions per version and body.
	catalogTTL := time.Duration(opts.Server.CacheTTLSeconds) * time.Second
	catalogCache := cache.New(catalogTTL, 2*catalogTTL)
	version := func() string {
		if snap := opts.Holder.Current(); snap != nil {
			return snap.Version()
		}
		return ""
	}
	caching := mw.Cache(catalogCache, catalogTTL, version, observer("catalog"))

	var results *cache.Cache
	if opts.Server.ResultCacheSeconds > 0 {
		resultTTL := time.Duration(opts.Server.ResultCacheSeconds) * time.Second
		results = cache.New(resultTTL, 2*resultTTL)
	}
	handler := NewHandler(opts.Engine, opts.Holder, opts.Reloader, results, observer("result"), logger)

	r.GET("/healthz", handler.Healthz)
	if opts.Metrics != nil && opts.Expose.Enabled {
		r.GET(opts.Expose.Path, gin.WrapH(opts.Metrics.Handler()))
	}

	rateLimiter := mw.RateLimiter(rate.Limit(opts.Server.RateLimitPerSec), opts.Server.RateLimitBurst)

	// API group
	api := r.Group("/api")
	api.Use(rateLimiter, mw.BodyLimit(opts.Server.MaxBodyBytes))
	{
		api.POST("/bom", handler.ResolveBOM)
		api.POST("/bom/:build", handler.ResolveBuild)

		api.POST("/configurations/validate", handler.ValidateConfiguration)
		api.POST("/configurations/facts", handler.ConfigurationFacts)

		api.GET("/catalog", caching, handler.GetCatalog)
		api.GET("/catalog/parts/:id", caching, handler.GetPart)
		api.GET("/catalog/assemblies/:id", caching, handler.GetAssembly)
		api.POST("/catalog/reload", handler.ReloadCatalog)
	}

	return r
}
