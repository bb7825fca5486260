package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sink-bom-backend/internal/catalog"
)

type catalogResponse struct {
	catalog.Stats
	LoadedAt time.Time `json:"loadedAt"`
}

// current returns the installed snapshot or writes a 503.
func (h *Handler) current(c *gin.Context) (*catalog.Snapshot, bool) {
	snap := h.holder.Current()
	if snap == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "catalog not loaded"})
		return nil, false
	}
	return snap, true
}

// GetCatalog handles GET /api/catalog.
func (h *Handler) GetCatalog(c *gin.Context) {
	snap, ok := h.current(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, catalogResponse{Stats: snap.Stats(), LoadedAt: snap.LoadedAt()})
}

// GetPart handles GET /api/catalog/parts/:id.
func (h *Handler) GetPart(c *gin.Context) {
	snap, ok := h.current(c)
	if !ok {
		return
	}
	part, err := snap.Part(c.Param("id"))
	if errors.Is(err, catalog.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "part not found"})
		return
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, part)
}

// GetAssembly handles GET /api/catalog/assemblies/:id.
func (h *Handler) GetAssembly(c *gin.Context) {
	snap, ok := h.current(c)
	if !ok {
		return
	}
	asm, err := snap.Assembly(c.Param("id"))
	if errors.Is(err, catalog.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "assembly not found"})
		return
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, asm)
}

// ReloadCatalog handles POST /api/catalog/reload. A failed rebuild leaves the current
// snapshot in place and is reported as 409 with the problem list when there is one.
func (h *Handler) ReloadCatalog(c *gin.Context) {
	if h.reloader == nil {
		c.AbortWithStatusJSON(http.StatusNotImplemented, gin.H{"error": "catalog reload is not configured"})
		return
	}
	snap, err := h.reloader.ReloadOnce(c.Request.Context())
	if err != nil {
		h.logger.Warn("manual catalog reload failed", zap.Error(err))
		var integrity *catalog.IntegrityError
		if errors.As(err, &integrity) {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "catalog integrity check failed", "problems": integrity.Problems})
			return
		}
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if h.results != nil {
		h.results.Flush()
	}
	c.JSON(http.StatusOK, catalogResponse{Stats: snap.Stats(), LoadedAt: snap.LoadedAt()})
}

// Healthz reports 200 once a catalog snapshot is installed.
func (h *Handler) Healthz(c *gin.Context) {
	snap := h.holder.Current()
	if snap == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "starting"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "catalogVersion": snap.Version()})
}
