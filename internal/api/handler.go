package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"sink-bom-backend/internal/bom"
	"sink-bom-backend/internal/catalog"
	"sink-bom-backend/internal/mw"
)

// Reloader rebuilds the catalog snapshot on demand.
type Reloader interface {
	ReloadOnce(ctx context.Context) (*catalog.Snapshot, error)
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	engine   *bom.Engine
	holder   *catalog.Holder
	reloader Reloader
	results  *cache.Cache
	observe  mw.CacheObserver
	logger   *zap.Logger
}

// NewHandler creates a new API handler. A nil results cache disables result caching and a
// nil reloader makes the reload endpoint return 501.
func NewHandler(engine *bom.Engine, holder *catalog.Holder, reloader Reloader, results *cache.Cache, observe mw.CacheObserver, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if observe == nil {
		observe = func(bool) {}
	}
	return &Handler{
		engine:   engine,
		holder:   holder,
		reloader: reloader,
		results:  results,
		observe:  observe,
		logger:   logger,
	}
}

// writeEngineError maps engine errors to HTTP responses.
func (h *Handler) writeEngineError(c *gin.Context, err error) {
	var invalid *bom.InvalidConfigurationError
	switch {
	case errors.As(err, &invalid):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": invalid.Error(), "validation": invalid.Validation})
	case errors.Is(err, bom.ErrUnknownBuild):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, bom.ErrNoCatalog):
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "catalog not loaded"})
	default:
		h.logger.Error("resolution failed", zap.Error(err), zap.String("request_id", mw.GetRequestID(c)))
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	}
}
