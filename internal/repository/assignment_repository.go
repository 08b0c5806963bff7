package repository

import (
	"time"

	"github.com/Angelouange12/construction-site-sub001/internal/database"
	"github.com/Angelouange12/construction-site-sub001/internal/models"
	"github.com/Angelouange12/construction-site-sub001/internal/utils"
	"gorm.io/gorm"
)

// GormAssignmentRepository is a GORM implementation of AssignmentRepository
type GormAssignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository creates a new AssignmentRepository
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &GormAssignmentRepository{db: db}
}

// Create persists a new assignment
func (r *GormAssignmentRepository) Create(assignment *models.Assignment) error {
	return r.db.Create(assignment).Error
}

// FindByID finds an assignment by ID with optional preloading
func (r *GormAssignmentRepository) FindByID(id uint64, preload ...string) (*models.Assignment, error) {
	var assignment models.Assignment
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&assignment, id).Error; err != nil {
		return nil, err
	}

	return &assignment, nil
}

// Update saves changes to an existing assignment
func (r *GormAssignmentRepository) Update(assignment *models.Assignment) error {
	return r.db.Save(assignment).Error
}

// List retrieves assignments with filtering and pagination
func (r *GormAssignmentRepository) List(filter AssignmentFilter) ([]models.Assignment, int64, error) {
	var assignments []models.Assignment

	query := r.db.Model(&models.Assignment{})

	if filter.AssigneeType != nil {
		query = query.Where("assignee_type = ?", *filter.AssigneeType)
	}
	if filter.AssigneeID != nil {
		query = query.Where("assignee_id = ?", *filter.AssigneeID)
	}
	if filter.EntityType != nil {
		query = query.Where("entity_type = ?", *filter.EntityType)
	}
	if filter.EntityID != nil {
		query = query.Where("entity_id = ?", *filter.EntityID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("start_date ASC, id ASC")
	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Limit:  filter.PageSize,
			Offset: (filter.Page - 1) * filter.PageSize,
		}))
	}

	if err := listQuery.Find(&assignments).Error; err != nil {
		return nil, 0, err
	}

	return assignments, total, nil
}

// FindActiveByAssignee returns every active assignment of one assignee
func (r *GormAssignmentRepository) FindActiveByAssignee(assigneeType models.AssigneeType, assigneeID uint64) ([]models.Assignment, error) {
	var assignments []models.Assignment
	err := r.db.
		Where("assignee_type = ? AND assignee_id = ? AND status = ?", assigneeType, assigneeID, models.AssignmentActive).
		Order("start_date ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

// FindActiveCoveringDate returns the active assignments of one assignee whose
// window includes the given day
func (r *GormAssignmentRepository) FindActiveCoveringDate(assigneeType models.AssigneeType, assigneeID uint64, day time.Time) ([]models.Assignment, error) {
	var assignments []models.Assignment
	err := r.db.
		Where("assignee_type = ? AND assignee_id = ? AND status = ?", assigneeType, assigneeID, models.AssignmentActive).
		Where("start_date <= ?", day).
		Where("end_date IS NULL OR end_date >= ?", day).
		Order("start_date ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

// FindByAssigneeInWindow returns assignments of any status intersecting
// [start, end], ordered by start date ascending. The predicate is the SQL
// form of schedule.Overlaps: a NULL end date is an unbounded future.
func (r *GormAssignmentRepository) FindByAssigneeInWindow(assigneeType models.AssigneeType, assigneeID uint64, start, end time.Time) ([]models.Assignment, error) {
	var assignments []models.Assignment
	err := r.db.
		Where("assignee_type = ? AND assignee_id = ?", assigneeType, assigneeID).
		Where("start_date <= ?", end).
		Where("end_date IS NULL OR end_date >= ?", start).
		Order("start_date ASC, id ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

// CreateHistory appends one history entry
func (r *GormAssignmentRepository) CreateHistory(entry *models.AssignmentHistory) error {
	return r.db.Create(entry).Error
}

// ListHistory returns the history of one assignment ordered by creation time
func (r *GormAssignmentRepository) ListHistory(assignmentID uint64) ([]models.AssignmentHistory, error) {
	var entries []models.AssignmentHistory
	err := r.db.
		Where("assignment_id = ?", assignmentID).
		Order("created_at ASC, id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Transaction runs fn against a transaction-scoped repository
func (r *GormAssignmentRepository) Transaction(fn func(tx AssignmentRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormAssignmentRepository{db: tx})
	})
}
