package repository

import (
	"github.com/Angelouange12/construction-site-sub001/internal/database"
	"github.com/Angelouange12/construction-site-sub001/internal/models"
	"github.com/Angelouange12/construction-site-sub001/internal/utils"
	"gorm.io/gorm"
)

// GormResourceRepository is a GORM implementation of ResourceRepository
type GormResourceRepository struct {
	db *gorm.DB
}

// NewResourceRepository creates a new ResourceRepository
func NewResourceRepository(db *gorm.DB) ResourceRepository {
	return &GormResourceRepository{db: db}
}

func (r *GormResourceRepository) CreateWorker(worker *models.Worker) error {
	return r.db.Create(worker).Error
}

func (r *GormResourceRepository) FindWorkerByID(id uint64) (*models.Worker, error) {
	var worker models.Worker
	if err := r.db.First(&worker, id).Error; err != nil {
		return nil, err
	}
	return &worker, nil
}

func (r *GormResourceRepository) ListWorkers(page, pageSize int) ([]models.Worker, int64, error) {
	var workers []models.Worker

	query := r.db.Model(&models.Worker{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("name ASC")
	if page > 0 && pageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Limit:  pageSize,
			Offset: (page - 1) * pageSize,
		}))
	}

	if err := listQuery.Find(&workers).Error; err != nil {
		return nil, 0, err
	}

	return workers, total, nil
}

func (r *GormResourceRepository) UpdateWorker(worker *models.Worker) error {
	return r.db.Save(worker).Error
}

func (r *GormResourceRepository) DeleteWorker(id uint64) error {
	return r.db.Delete(&models.Worker{}, id).Error
}

func (r *GormResourceRepository) CreateMaterial(material *models.Material) error {
	return r.db.Create(material).Error
}

func (r *GormResourceRepository) FindMaterialByID(id uint64) (*models.Material, error) {
	var material models.Material
	if err := r.db.First(&material, id).Error; err != nil {
		return nil, err
	}
	return &material, nil
}

func (r *GormResourceRepository) ListMaterials(page, pageSize int) ([]models.Material, int64, error) {
	var materials []models.Material

	query := r.db.Model(&models.Material{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("name ASC")
	if page > 0 && pageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Limit:  pageSize,
			Offset: (page - 1) * pageSize,
		}))
	}

	if err := listQuery.Find(&materials).Error; err != nil {
		return nil, 0, err
	}

	return materials, total, nil
}

func (r *GormResourceRepository) UpdateMaterial(material *models.Material) error {
	return r.db.Save(material).Error
}

func (r *GormResourceRepository) DeleteMaterial(id uint64) error {
	return r.db.Delete(&models.Material{}, id).Error
}
