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

// SiteHandler exposes site and site-task record management.
type SiteHandler struct {
	sites repository.SiteRepository
}

// NewSiteHandler creates a new SiteHandler
func NewSiteHandler(sites repository.SiteRepository) *SiteHandler {
	return &SiteHandler{sites: sites}
}

// ListSites returns sites with pagination
func (h *SiteHandler) ListSites(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	sites, total, err := h.sites.List(params.Page, params.Limit)
	if err != nil {
		apierrors.InternalError(c, "Failed to list sites")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sites": sites,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// CreateSite creates a new site with a generated reference code
func (h *SiteHandler) CreateSite(c *gin.Context) {
	type CreateSiteRequest struct {
		Name    string `json:"name" binding:"required"`
		Address string `json:"address"`
	}

	var req CreateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	code, err := utils.GenerateSiteCode()
	if err != nil {
		apierrors.InternalError(c, "Failed to generate site code")
		return
	}

	site := &models.Site{
		Name:    req.Name,
		Code:    code,
		Address: req.Address,
		Status:  models.SiteActive,
	}

	if err := h.sites.Create(site); err != nil {
		apierrors.InternalError(c, "Failed to create site")
		return
	}

	c.JSON(http.StatusCreated, site)
}

// GetSite returns a site with its tasks
func (h *SiteHandler) GetSite(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	site, err := h.sites.FindByID(id, "Tasks")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Site not found")
			return
		}
		apierrors.InternalError(c, "Failed to fetch site")
		return
	}

	c.JSON(http.StatusOK, site)
}

// UpdateSite updates site fields
func (h *SiteHandler) UpdateSite(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	site, err := h.sites.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Site not found")
			return
		}
		apierrors.InternalError(c, "Failed to fetch site")
		return
	}

	type UpdateSiteRequest struct {
		Name    *string `json:"name"`
		Address *string `json:"address"`
		Status  *string `json:"status"`
	}

	var req UpdateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if req.Name != nil {
		site.Name = *req.Name
	}
	if req.Address != nil {
		site.Address = *req.Address
	}
	if req.Status != nil {
		site.Status = models.SiteStatus(*req.Status)
	}

	if err := h.sites.Update(site); err != nil {
		apierrors.InternalError(c, "Failed to update site")
		return
	}

	c.JSON(http.StatusOK, site)
}

// DeleteSite soft deletes a site and its tasks
func (h *SiteHandler) DeleteSite(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.sites.Delete(id); err != nil {
		apierrors.InternalError(c, "Failed to delete site")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Site deleted"})
}

// CreateSiteTask adds a task to a site
func (h *SiteHandler) CreateSiteTask(c *gin.Context) {
	siteID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if _, err := h.sites.FindByID(siteID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Site not found")
			return
		}
		apierrors.InternalError(c, "Failed to fetch site")
		return
	}

	type CreateTaskRequest struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task := &models.SiteTask{
		SiteID:      siteID,
		Name:        req.Name,
		Description: req.Description,
	}

	if err := h.sites.CreateTask(task); err != nil {
		apierrors.InternalError(c, "Failed to create task")
		return
	}

	c.JSON(http.StatusCreated, task)
}

// ListSiteTasks returns the tasks of one site
func (h *SiteHandler) ListSiteTasks(c *gin.Context) {
	siteID, ok := parseIDParam(c)
	if !ok {
		return
	}

	tasks, err := h.sites.ListTasks(siteID)
	if err != nil {
		apierrors.InternalError(c, "Failed to list tasks")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}
