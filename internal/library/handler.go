package library

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shotbuilder/backend/internal/store"
	"github.com/shotbuilder/backend/pkg/middleware"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(rg, mutate *gin.RouterGroup) {
	rg.GET("/products", h.ListProducts)
	rg.GET("/products/watch", h.WatchProducts)
	rg.GET("/products/:id", h.GetProduct)
	mutate.POST("/products", h.CreateProduct)
	mutate.PUT("/products/:id", h.UpdateProduct)
	mutate.PUT("/products/:id/archive", h.ArchiveProduct)
	mutate.DELETE("/products/:id", h.DeleteProduct)

	rg.GET("/product-classifications", h.ListClassifications)
	mutate.POST("/product-classifications", h.CreateClassification)
	mutate.PUT("/product-classifications/:id", h.RenameClassification)
	mutate.DELETE("/product-classifications/:id", h.DeleteClassification)

	rg.GET("/talent", h.ListTalent)
	mutate.POST("/talent", h.CreateTalent)
	mutate.PUT("/talent/:id", h.UpdateTalent)
	mutate.DELETE("/talent/:id", h.DeleteTalent)

	rg.GET("/locations", h.ListLocations)
	mutate.POST("/locations", h.CreateLocation)
	mutate.PUT("/locations/:id", h.UpdateLocation)
	mutate.DELETE("/locations/:id", h.DeleteLocation)

	rg.GET("/crew", h.ListCrew)
	mutate.POST("/crew", h.CreateCrew)
	mutate.PUT("/crew/:id", h.UpdateCrew)
	mutate.DELETE("/crew/:id", h.DeleteCrew)
}

func (h *Handler) ListProducts(c *gin.Context) {
	includeArchived := c.Query("includeArchived") == "true"
	products, err := h.svc.ListProducts(c.Request.Context(), middleware.TenantID(c), includeArchived)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *Handler) GetProduct(c *gin.Context) {
	p, err := h.svc.GetProduct(c.Request.Context(), middleware.TenantID(c), c.Param("id"))
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": p})
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.CreateProduct(c.Request.Context(), middleware.TenantID(c), req)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": p})
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.UpdateProduct(c.Request.Context(), middleware.TenantID(c), c.Param("id"), req); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
}

func (h *Handler) ArchiveProduct(c *gin.Context) {
	var req struct {
		Archived bool `json:"archived"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.SetProductArchived(c.Request.Context(), middleware.TenantID(c), c.Param("id"), req.Archived); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "archived": req.Archived})
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	if err := h.svc.DeleteProduct(c.Request.Context(), middleware.TenantID(c), c.Param("id")); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "deleted": true})
}

func (h *Handler) WatchProducts(c *gin.Context) {
	w := h.svc.WatchProducts(c.Request.Context(), middleware.TenantID(c))
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
			_ = enc.Encode(gin.H{"products": snap.Docs})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func (h *Handler) ListClassifications(c *gin.Context) {
	families, err := h.svc.ListClassifications(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"classifications": families})
}

func (h *Handler) CreateClassification(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cl, err := h.svc.CreateClassification(c.Request.Context(), middleware.TenantID(c), req.Name)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"classification": cl})
}

func (h *Handler) RenameClassification(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.RenameClassification(c.Request.Context(), middleware.TenantID(c), c.Param("id"), req.Name); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
}

func (h *Handler) DeleteClassification(c *gin.Context) {
	if err := h.svc.DeleteClassification(c.Request.Context(), middleware.TenantID(c), c.Param("id")); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "deleted": true})
}

func (h *Handler) ListTalent(c *gin.Context) {
	talent, err := h.svc.ListTalent(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"talent": talent})
}

func (h *Handler) CreateTalent(c *gin.Context) {
	var req TalentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tal, err := h.svc.CreateTalent(c.Request.Context(), middleware.TenantID(c), req)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"talent": tal})
}

func (h *Handler) UpdateTalent(c *gin.Context) {
	var req TalentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.UpdateTalent(c.Request.Context(), middleware.TenantID(c), c.Param("id"), req); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
}

func (h *Handler) DeleteTalent(c *gin.Context) {
	if err := h.svc.DeleteTalent(c.Request.Context(), middleware.TenantID(c), c.Param("id")); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "deleted": true})
}

func (h *Handler) ListLocations(c *gin.Context) {
	locations, err := h.svc.ListLocations(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": locations})
}

func (h *Handler) CreateLocation(c *gin.Context) {
	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	loc, err := h.svc.CreateLocation(c.Request.Context(), middleware.TenantID(c), req)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"location": loc})
}

func (h *Handler) UpdateLocation(c *gin.Context) {
	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.UpdateLocation(c.Request.Context(), middleware.TenantID(c), c.Param("id"), req); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
}

func (h *Handler) DeleteLocation(c *gin.Context) {
	if err := h.svc.DeleteLocation(c.Request.Context(), middleware.TenantID(c), c.Param("id")); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "deleted": true})
}

func (h *Handler) ListCrew(c *gin.Context) {
	crew, err := h.svc.ListCrew(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"crew": crew})
}

func (h *Handler) CreateCrew(c *gin.Context) {
	var req CrewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	member, err := h.svc.CreateCrew(c.Request.Context(), middleware.TenantID(c), req)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"crew": member})
}

func (h *Handler) UpdateCrew(c *gin.Context) {
	var req CrewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.UpdateCrew(c.Request.Context(), middleware.TenantID(c), c.Param("id"), req); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
}

func (h *Handler) DeleteCrew(c *gin.Context) {
	if err := h.svc.DeleteCrew(c.Request.Context(), middleware.TenantID(c), c.Param("id")); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "deleted": true})
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
