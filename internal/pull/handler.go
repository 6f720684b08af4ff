package pull

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shotbuilder/backend/internal/store"
	"github.com/shotbuilder/backend/internal/tokens"
	"github.com/shotbuilder/backend/pkg/middleware"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts authenticated pull routes. The public share route is
// mounted separately via RegisterPublic since it carries no session.
func (h *Handler) Register(rg, mutate *gin.RouterGroup) {
	rg.GET("/projects/:id/pulls", h.ListByProject)
	rg.GET("/projects/:id/pulls/watch", h.WatchStream)
	rg.GET("/pulls/:id", h.Get)
	mutate.POST("/pulls", h.Create)
	mutate.PATCH("/pulls/:id", h.Update)
	mutate.PUT("/pulls/:id/status", h.SetStatus)
	mutate.PUT("/pulls/:id/items/:productId/status", h.SetItemStatus)
	mutate.POST("/pulls/:id/share", h.EnableShare)
	mutate.DELETE("/pulls/:id/share", h.DisableShare)
	mutate.DELETE("/pulls/:id", h.Delete)
}

func (h *Handler) RegisterPublic(rg *gin.RouterGroup) {
	rg.GET("/share/pulls/:token", h.ResolveShare)
}

func (h *Handler) ListByProject(c *gin.Context) {
	pulls, err := h.svc.ListByProject(c.Request.Context(), middleware.TenantID(c), c.Param("id"))
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pulls": pulls})
}

func (h *Handler) Get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), middleware.TenantID(c), c.Param("id"))
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pull": p})
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.Create(c.Request.Context(), middleware.TenantID(c), middleware.Subject(c), req)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"pull": p})
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.Update(c.Request.Context(), middleware.TenantID(c), c.Param("id"), req); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
}

func (h *Handler) SetStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.SetStatus(c.Request.Context(), middleware.TenantID(c), c.Param("id"), Status(req.Status)); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "status": req.Status})
}

func (h *Handler) SetItemStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := h.svc.SetItemStatus(c.Request.Context(), middleware.TenantID(c), c.Param("id"), c.Param("productId"), req.Status)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "productId": c.Param("productId")})
}

func (h *Handler) EnableShare(c *gin.Context) {
	token, err := h.svc.EnableShare(c.Request.Context(), middleware.TenantID(c), c.Param("id"))
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shareToken": token})
}

func (h *Handler) DisableShare(c *gin.Context) {
	if err := h.svc.DisableShare(c.Request.Context(), middleware.TenantID(c), c.Param("id")); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "shareEnabled": false})
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.TenantID(c), c.Param("id")); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "deleted": true})
}

// ResolveShare serves the public read-only pull view. The token is the only
// credential; a revoked or expired token gets a 404, not a 401, so the public
// route never confirms a pull exists.
func (h *Handler) ResolveShare(c *gin.Context) {
	p, err := h.svc.ResolveShare(c.Request.Context(), c.Param("token"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "pull not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pull": p})
}

func (h *Handler) WatchStream(c *gin.Context) {
	w := h.svc.Watch(c.Request.Context(), middleware.TenantID(c), c.Param("id"))
	defer w.Close()

	c.Header("Content-Type", "application/x-ndjson")
	c.Status(http.StatusOK)
	enc := json.NewEncoder(c.Writer)
	c.Stream(func(_ io.Writer) bool {
		select {
		case snap, ok := <-w.C:
			if !ok {
				return false
			}
			if snap.Err != nil {
				_ = enc.Encode(gin.H{"error": store.Describe(snap.Err), "missingIndex": snap.MissingIndex})
				return false
			}
			_ = enc.Encode(gin.H{"pulls": snap.Docs})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func writeStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": store.Describe(err)})
	case errors.Is(err, ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
	case errors.Is(err, tokens.ErrInvalidShareToken), errors.Is(err, ErrShareRevoked):
		c.JSON(http.StatusNotFound, gin.H{"error": "pull not found"})
	case store.IsMissingIndex(err):
		c.JSON(http.StatusFailedDependency, gin.H{"error": store.Describe(err), "missingIndex": true})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": store.Describe(err)})
	}
}
