package shot

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shotbuilder/backend/internal/store"
	"github.com/shotbuilder/backend/pkg/middleware"
)

// Handler exposes shot routes plus the admin-only orphan repair tool.
type Handler struct {
	svc      *Service
	migrator *Migrator
}

func NewHandler(svc *Service, migrator *Migrator) *Handler {
	return &Handler{svc: svc, migrator: migrator}
}

// Register mounts read routes on rg, mutating routes on mutate and the
// repair tool on admin.
func (h *Handler) Register(rg, mutate, admin *gin.RouterGroup) {
	rg.GET("/projects/:id/shots", h.ListByProject)
	rg.GET("/projects/:id/shots/watch", h.WatchStream)
	rg.GET("/shots/:id", h.Get)
	mutate.POST("/shots", h.Create)
	mutate.PATCH("/shots/:id", h.Update)
	mutate.DELETE("/shots/:id", h.Delete)
	mutate.POST("/shots/:id/share", h.EnableShare)
	mutate.DELETE("/shots/:id/share", h.DisableShare)
	admin.GET("/admin/orphan-shots", h.ListOrphans)
	admin.POST("/admin/orphan-shots/reassign", h.Reassign)
}

// RegisterPublic mounts the token-addressed read-only shot view. It is
// mounted separately since it carries no session.
func (h *Handler) RegisterPublic(rg *gin.RouterGroup) {
	rg.GET("/share/shots/:token", h.ResolveShare)
}

func (h *Handler) ListByProject(c *gin.Context) {
	shots, err := h.svc.ListByProject(c.Request.Context(), middleware.TenantID(c), c.Param("id"))
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shots": shots})
}

func (h *Handler) Get(c *gin.Context) {
	s, err := h.svc.Get(c.Request.Context(), middleware.TenantID(c), c.Param("id"))
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shot": s})
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, err := h.svc.Create(c.Request.Context(), middleware.TenantID(c), req)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"shot": s})
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

func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.TenantID(c), c.Param("id")); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "deleted": true})
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

// ResolveShare serves the public read-only shot view. The token is the only
// credential; a revoked or expired token gets a 404, not a 401, so the public
// route never confirms a shot exists.
func (h *Handler) ResolveShare(c *gin.Context) {
	s, err := h.svc.ResolveShare(c.Request.Context(), c.Param("token"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "shot not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"shot": s})
}

func (h *Handler) ListOrphans(c *gin.Context) {
	orphans, err := h.migrator.FindOrphans(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orphans": orphans, "count": len(orphans)})
}

// Reassign runs the best-effort migration batch. With createPlaceholder set
// the target project is created first; otherwise projectId is required.
func (h *Handler) Reassign(c *gin.Context) {
	var req struct {
		ShotIDs           []string `json:"shotIds" binding:"required"`
		ProjectID         string   `json:"projectId"`
		CreatePlaceholder bool     `json:"createPlaceholder"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var (
		report *MigrationReport
		err    error
	)
	if req.CreatePlaceholder {
		report, err = h.migrator.ReassignToPlaceholder(c.Request.Context(), middleware.TenantID(c), req.ShotIDs)
	} else {
		report, err = h.migrator.Reassign(c.Request.Context(), middleware.TenantID(c), req.ProjectID, req.ShotIDs)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report, "message": report.DescribeOutcome()})
}

// WatchStream pushes each snapshot of a project's shot list as one JSON line.
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
			_ = enc.Encode(gin.H{"shots": snap.Docs})
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
	case store.IsMissingIndex(err):
		c.JSON(http.StatusFailedDependency, gin.H{"error": store.Describe(err), "missingIndex": true})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": store.Describe(err)})
	}
}
