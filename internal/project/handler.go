package project

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shotbuilder/backend/internal/store"
	"github.com/shotbuilder/backend/pkg/middleware"
)

// Handler exposes project routes. Mutating routes are role-gated at
// registration time by the caller.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// Register mounts read routes on rg and mutating routes on mutate (the
// caller passes a role-gated group).
func (h *Handler) Register(rg, mutate *gin.RouterGroup) {
	rg.GET("/projects", h.List)
	rg.GET("/projects/watch", h.WatchStream)
	rg.GET("/projects/:id", h.Get)
	mutate.POST("/projects", h.Create)
	mutate.PATCH("/projects/:id", h.Update)
	mutate.POST("/projects/:id/status", h.SetStatus)
	mutate.DELETE("/projects/:id", h.Delete)
	mutate.POST("/projects/:id/restore", h.Restore)
}

func (h *Handler) List(c *gin.Context) {
	f := ListFilter{
		Status: c.Query("status"),
		Query:  c.Query("q"),
		SortBy: c.Query("sort"),
	}
	projects, err := h.svc.List(c.Request.Context(), middleware.TenantID(c), f)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func (h *Handler) Get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), middleware.TenantID(c), c.Param("id"))
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": p, "shootDatesLabel": FormatShootDates(p.ShootDates)})
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
	c.JSON(http.StatusCreated, gin.H{"project": p})
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

func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.TenantID(c), c.Param("id")); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "deleted": true})
}

func (h *Handler) Restore(c *gin.Context) {
	if err := h.svc.Restore(c.Request.Context(), middleware.TenantID(c), c.Param("id")); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "deleted": false})
}

// WatchStream pushes each snapshot of the tenant's project list as one
// JSON line. The watch is torn down when the client disconnects.
func (h *Handler) WatchStream(c *gin.Context) {
	w := h.svc.Watch(c.Request.Context(), middleware.TenantID(c))
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
			_ = enc.Encode(gin.H{"projects": snap.Docs})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// writeStoreError maps store-layer failures onto HTTP responses, always with
// the translated human message a toast can show.
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
