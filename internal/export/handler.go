package export

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shotbuilder/backend/pkg/middleware"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/exports", h.Start)
	rg.GET("/exports/:id", h.Get)
	rg.DELETE("/exports/:id", h.Abort)
}

func (h *Handler) Start(c *gin.Context) {
	var job Job
	if err := c.ShouldBindJSON(&job); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	jobID, err := h.svc.Start(c.Request.Context(), middleware.TenantID(c), job)
	if err != nil {
		if errors.Is(err, ErrEmptyJob) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start export"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"jobId": jobID})
}

func (h *Handler) Get(c *gin.Context) {
	pj, err := h.svc.Get(c.Request.Context(), middleware.TenantID(c), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load export"})
		return
	}
	if pj == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "export not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": pj})
}

// Abort acknowledges the request even though in-flight images may finish.
func (h *Handler) Abort(c *gin.Context) {
	if !h.svc.Abort(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "export is not running"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"jobId": c.Param("id"), "aborting": true})
}
