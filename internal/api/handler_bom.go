package api

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"

	"sink-bom-backend/internal/bom"
	"sink-bom-backend/internal/order"
)

// bindConfiguration decodes the request body. It reports false after writing a 400.
func bindConfiguration(c *gin.Context) (*order.Configuration, bool) {
	var cfg order.Configuration
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return nil, false
	}
	return &cfg, true
}

// resultKey identifies a resolution by catalog version, build and the canonical encoding
// of the configuration. Map keys are sorted by encoding/json, so equal orders share a key.
func resultKey(version, build string, cfg *order.Configuration) (string, error) {
	b, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return version + "|" + build + "|" + hex.EncodeToString(sum[:]), nil
}

// ResolveBOM handles POST /api/bom.
func (h *Handler) ResolveBOM(c *gin.Context) {
	h.resolve(c, "")
}

// ResolveBuild handles POST /api/bom/:build.
func (h *Handler) ResolveBuild(c *gin.Context) {
	h.resolve(c, c.Param("build"))
}

func (h *Handler) resolve(c *gin.Context, build string) {
	cfg, ok := bindConfiguration(c)
	if !ok {
		return
	}

	var key string
	if h.results != nil {
		if snap := h.holder.Current(); snap != nil {
			key, _ = resultKey(snap.Version(), build, cfg)
		}
		if key != "" {
			if cached, found := h.results.Get(key); found {
				h.observe(true)
				c.Header("X-Cache", "HIT")
				c.JSON(http.StatusOK, cached)
				return
			}
			h.observe(false)
		}
	}

	var (
		res *bom.OrderResult
		err error
	)
	if build == "" {
		res, err = h.engine.Resolve(cfg)
	} else {
		res, err = h.engine.ResolveBuild(cfg, build)
	}
	if err != nil {
		h.writeEngineError(c, err)
		return
	}

	if key != "" {
		// Keyed by the version the engine actually resolved against.
		if k, err := resultKey(res.CatalogVersion, build, cfg); err == nil {
			h.results.Set(k, res, cache.DefaultExpiration)
		}
	}
	c.JSON(http.StatusOK, res)
}

// ValidateConfiguration handles POST /api/configurations/validate. Invalid
// configurations are a normal 200 response with isValid false.
func (h *Handler) ValidateConfiguration(c *gin.Context) {
	cfg, ok := bindConfiguration(c)
	if !ok {
		return
	}
	res, err := h.engine.Validate(cfg)
	if err != nil {
		h.writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ConfigurationFacts handles POST /api/configurations/facts.
func (h *Handler) ConfigurationFacts(c *gin.Context) {
	cfg, ok := bindConfiguration(c)
	if !ok {
		return
	}
	facts, err := h.engine.Facts(cfg)
	if err != nil {
		h.writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"builds": facts})
}
