package repository

import (
	"github.com/Angelouange12/construction-site-sub001/internal/database"
	"github.com/Angelouange12/construction-site-sub001/internal/models"
	"github.com/Angelouange12/construction-site-sub001/internal/utils"
	"gorm.io/gorm"
)

// GormSiteRepository is a GORM implementation of SiteRepository
type GormSiteRepository struct {
	db *gorm.DB
}

// NewSiteRepository creates a new SiteRepository
func NewSiteRepository(db *gorm.DB) SiteRepository {
	return &GormSiteRepository{db: db}
}

func (r *GormSiteRepository) Create(site *models.Site) error {
	return r.db.Create(site).Error
}

func (r *GormSiteRepository) FindByID(id uint64, preload ...string) (*models.Site, error) {
	var site models.Site
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&site, id).Error; err != nil {
		return nil, err
	}
	return &site, nil
}

func (r *GormSiteRepository) List(page, pageSize int) ([]models.Site, int64, error) {
	var sites []models.Site

	query := r.db.Model(&models.Site{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("created_at DESC")
	if page > 0 && pageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Limit:  pageSize,
			Offset: (page - 1) * pageSize,
		}))
	}

	if err := listQuery.Find(&sites).Error; err != nil {
		return nil, 0, err
	}

	return sites, total, nil
}

func (r *GormSiteRepository) Update(site *models.Site) error {
	return r.db.Save(site).Error
}

// Delete soft deletes a site and its tasks
func (r *GormSiteRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("site_id = ?", id).Delete(&models.SiteTask{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Site{}, id).Error
	})
}

func (r *GormSiteRepository) CreateTask(task *models.SiteTask) error {
	return r.db.Create(task).Error
}

func (r *GormSiteRepository) FindTaskByID(id uint64) (*models.SiteTask, error) {
	var task models.SiteTask
	if err := r.db.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *GormSiteRepository) ListTasks(siteID uint64) ([]models.SiteTask, error) {
	var tasks []models.SiteTask
	err := r.db.Where("site_id = ?", siteID).Order("created_at ASC").Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *GormSiteRepository) DeleteTask(id uint64) error {
	return r.db.Delete(&models.SiteTask{}, id).Error
}
