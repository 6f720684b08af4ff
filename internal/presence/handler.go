package presence

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
	rg.GET("/presence/:entity/:id", h.List)
	rg.POST("/presence/:entity/:id/heartbeat", h.Heartbeat)
	rg.DELETE("/presence/:entity/:id/:field", h.Clear)
}

func (h *Handler) List(c *gin.Context) {
	editors, err := h.store.Editors(c.Request.Context(), middleware.TenantID(c),
		c.Param("entity"), c.Param("id"), middleware.Subject(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load presence"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"editors": editors,
		"summary": FormatEditors(editors),
	})
}

func (h *Handler) Heartbeat(c *gin.Context) {
	var req struct {
		Field string `json:"field" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ed := Editor{
		UserSub:  middleware.Subject(c),
		UserName: middleware.ClaimString(c, "name"),
		Field:    req.Field,
	}
	if err := h.store.Heartbeat(c.Request.Context(), middleware.TenantID(c), c.Param("entity"), c.Param("id"), ed); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record presence"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Clear(c *gin.Context) {
	err := h.store.Clear(c.Request.Context(), middleware.TenantID(c),
		c.Param("entity"), c.Param("id"), c.Param("field"), middleware.Subject(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear presence"})
		return
	}
	c.Status(http.StatusNoContent)
}
