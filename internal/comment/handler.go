package comment

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shotbuilder/backend/internal/models"
	"github.com/shotbuilder/backend/internal/store"
	"github.com/shotbuilder/backend/pkg/middleware"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts comment routes. Any signed-in user can read and write
// comments, so everything goes on rg except request resolution.
func (h *Handler) Register(rg, mutate *gin.RouterGroup) {
	rg.GET("/comments/:entity/:entityId", h.List)
	rg.GET("/comments/:entity/:entityId/watch", h.WatchStream)
	rg.POST("/comments/:entity/:entityId", h.Create)
	rg.PUT("/comments/:entity/:entityId/:id", h.Edit)
	rg.DELETE("/comments/:entity/:entityId/:id", h.Delete)

	rg.GET("/shots/:id/requests", h.ListRequests)
	rg.POST("/shots/:id/requests", h.CreateRequest)
	mutate.PUT("/shot-requests/:id/resolved", h.SetRequestResolved)
}

func (h *Handler) List(c *gin.Context) {
	comments, err := h.svc.List(c.Request.Context(), middleware.TenantID(c), c.Param("entity"), c.Param("entityId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

func (h *Handler) Create(c *gin.Context) {
	var req struct {
		Body string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	author := Author{Sub: middleware.Subject(c), Name: middleware.ClaimString(c, "name")}
	cm, err := h.svc.Create(c.Request.Context(), middleware.TenantID(c), author, c.Param("entity"), c.Param("entityId"), req.Body)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": cm})
}

func (h *Handler) Edit(c *gin.Context) {
	var req struct {
		Body string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.Edit(c.Request.Context(), middleware.TenantID(c), c.Param("id"), middleware.Subject(c), req.Body); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
}

func (h *Handler) Delete(c *gin.Context) {
	role := models.Role(middleware.ClaimString(c, "role"))
	err := h.svc.Delete(c.Request.Context(), middleware.TenantID(c), c.Param("id"), middleware.Subject(c), role.CanManage())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "deleted": true})
}

func (h *Handler) WatchStream(c *gin.Context) {
	w := h.svc.Watch(c.Request.Context(), middleware.TenantID(c), c.Param("entity"), c.Param("entityId"))
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
			_ = enc.Encode(gin.H{"comments": snap.Docs})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func (h *Handler) ListRequests(c *gin.Context) {
	requests, err := h.svc.ListRequests(c.Request.Context(), middleware.TenantID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

func (h *Handler) CreateRequest(c *gin.Context) {
	var req struct {
		Body string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	author := Author{Sub: middleware.Subject(c), Name: middleware.ClaimString(c, "name")}
	id, err := h.svc.CreateRequest(c.Request.Context(), middleware.TenantID(c), author, c.Param("id"), req.Body)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *Handler) SetRequestResolved(c *gin.Context) {
	var req struct {
		Resolved bool `json:"resolved"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.SetRequestResolved(c.Request.Context(), middleware.TenantID(c), c.Param("id"), req.Resolved); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "resolved": req.Resolved})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": store.Describe(err)})
	case errors.Is(err, ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
	case errors.Is(err, ErrNotAuthor):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case store.IsMissingIndex(err):
		c.JSON(http.StatusFailedDependency, gin.H{"error": store.Describe(err), "missingIndex": true})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": store.Describe(err)})
	}
}
