package flags

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shotbuilder/backend/pkg/middleware"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/flags", h.List)
	rg.POST("/flags/:name", h.Toggle)
}

func (h *Handler) List(c *gin.Context) {
	all, err := h.store.All(c.Request.Context(), middleware.Subject(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load flags"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"flags": all})
}

// Toggle sets a flag on or off. Absent body defaults to enabling, matching
// the old toggle-by-URL behavior.
func (h *Handler) Toggle(c *gin.Context) {
	req := struct {
		Enabled *bool `json:"enabled"`
	}{}
	_ = c.ShouldBindJSON(&req)
	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}
	name := c.Param("name")
	if !Known(name) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown flag"})
		return
	}
	if err := h.store.Set(c.Request.Context(), middleware.Subject(c), name, enabled); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save flag"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"flag": name, "enabled": enabled})
}
