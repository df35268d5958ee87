package mirror

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hopdb/pkg/logger"
)

type Handler struct {
	Store *Store
	Log   *logger.Logger
}

func NewHandler(store *Store, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{Store: store, Log: log.With("component", "mirror")}
}

// NewRouter returns the mirror's routes on a fresh engine.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.accessLog())
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	router.GET("/health", h.health)
	h.RegisterRoutes(router.Group("/sources"))
	return router
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list)       // GET /sources
	rg.GET("/:slug", h.read) // GET /sources/:slug
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "dir": h.Store.Dir})
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.Store.List()
	if err != nil {
		h.Log.Error("list snapshots failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": len(items), "items": items})
}

func (h *Handler) read(c *gin.Context) {
	slug := c.Param("slug")
	b, err := h.Store.Read(slug)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if err != nil {
		h.Log.Error("read snapshot failed", "slug", slug, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "read failed"})
		return
	}
	c.Data(http.StatusOK, "application/json", b)
}

func (h *Handler) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.Log.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"took", time.Since(start),
		)
	}
}
