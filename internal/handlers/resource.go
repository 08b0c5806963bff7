package handlers

import (
	"errors"
	"net/http"

	apierrors "github.com/Angelouange12/construction-site-sub001/internal/errors"
	"github.com/Angelouange12/construction-site-sub001/internal/models"
	"github.com/Angelouange12/construction-site-sub001/internal/repository"
	"github.com/Angelouange12/construction-site-sub001/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ResourceHandler exposes worker and material record management.
type ResourceHandler struct {
	resources repository.ResourceRepository
}

// NewResourceHandler creates a new ResourceHandler
func NewResourceHandler(resources repository.ResourceRepository) *ResourceHandler {
	return &ResourceHandler{resources: resources}
}

// ListWorkers returns workers with pagination
func (h *ResourceHandler) ListWorkers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	workers, total, err := h.resources.ListWorkers(params.Page, params.Limit)
	if err != nil {
		apierrors.InternalError(c, "Failed to list workers")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"workers": workers,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// CreateWorker registers a new worker
func (h *ResourceHandler) CreateWorker(c *gin.Context) {
	type CreateWorkerRequest struct {
		Name  string `json:"name" binding:"required"`
		Trade string `json:"trade"`
		Phone string `json:"phone"`
	}

	var req CreateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	worker := &models.Worker{
		Name:  req.Name,
		Trade: req.Trade,
		Phone: req.Phone,
	}

	if err := h.resources.CreateWorker(worker); err != nil {
		apierrors.InternalError(c, "Failed to create worker")
		return
	}

	c.JSON(http.StatusCreated, worker)
}

// GetWorker returns one worker
func (h *ResourceHandler) GetWorker(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	worker, err := h.resources.FindWorkerByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Worker not found")
			return
		}
		apierrors.InternalError(c, "Failed to fetch worker")
		return
	}

	c.JSON(http.StatusOK, worker)
}

// DeleteWorker removes a worker record
func (h *ResourceHandler) DeleteWorker(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.resources.DeleteWorker(id); err != nil {
		apierrors.InternalError(c, "Failed to delete worker")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Worker deleted"})
}

// ListMaterials returns materials with pagination
func (h *ResourceHandler) ListMaterials(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	materials, total, err := h.resources.ListMaterials(params.Page, params.Limit)
	if err != nil {
		apierrors.InternalError(c, "Failed to list materials")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"materials": materials,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// CreateMaterial registers a new material
func (h *ResourceHandler) CreateMaterial(c *gin.Context) {
	type CreateMaterialRequest struct {
		Name string `json:"name" binding:"required"`
		Unit string `json:"unit"`
	}

	var req CreateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	material := &models.Material{
		Name: req.Name,
		Unit: req.Unit,
	}

	if err := h.resources.CreateMaterial(material); err != nil {
		apierrors.InternalError(c, "Failed to create material")
		return
	}

	c.JSON(http.StatusCreated, material)
}

// GetMaterial returns one material
func (h *ResourceHandler) GetMaterial(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	material, err := h.resources.FindMaterialByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Material not found")
			return
		}
		apierrors.InternalError(c, "Failed to fetch material")
		return
	}

	c.JSON(http.StatusOK, material)
}

// DeleteMaterial removes a material record
func (h *ResourceHandler) DeleteMaterial(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.resources.DeleteMaterial(id); err != nil {
		apierrors.InternalError(c, "Failed to delete material")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Material deleted"})
}
