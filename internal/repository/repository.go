package repository

import (
	"time"

	"github.com/Angelouange12/construction-site-sub001/internal/models"
)

// AssignmentRepository defines the data access contract for assignments and
// their history. Window queries mirror the inclusive overlap semantics of
// the schedule package: a nil end date extends into the unbounded future.
type AssignmentRepository interface {
	// Create persists a new assignment
	Create(assignment *models.Assignment) error

	// FindByID finds an assignment by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Assignment, error)

	// Update saves changes to an existing assignment
	Update(assignment *models.Assignment) error

	// List retrieves assignments with filtering and pagination
	List(filter AssignmentFilter) ([]models.Assignment, int64, error)

	// FindActiveByAssignee returns every active assignment of one assignee
	FindActiveByAssignee(assigneeType models.AssigneeType, assigneeID uint64) ([]models.Assignment, error)

	// FindActiveCoveringDate returns the active assignments of one assignee
	// whose window includes the given day
	FindActiveCoveringDate(assigneeType models.AssigneeType, assigneeID uint64, day time.Time) ([]models.Assignment, error)

	// FindByAssigneeInWindow returns assignments of any status whose window
	// intersects [start, end], ordered by start date ascending
	FindByAssigneeInWindow(assigneeType models.AssigneeType, assigneeID uint64, start, end time.Time) ([]models.Assignment, error)

	// CreateHistory appends one history entry
	CreateHistory(entry *models.AssignmentHistory) error

	// ListHistory returns the history of one assignment ordered by creation time
	ListHistory(assignmentID uint64) ([]models.AssignmentHistory, error)

	// Transaction runs fn against a transaction-scoped repository; the
	// transaction commits only if fn returns nil
	Transaction(fn func(tx AssignmentRepository) error) error
}

// AssignmentFilter holds filtering options for listing assignments
type AssignmentFilter struct {
	AssigneeType *models.AssigneeType
	AssigneeID   *uint64
	EntityType   *models.EntityType
	EntityID     *uint64
	Status       *models.AssignmentStatus
	Page         int
	PageSize     int
}

// SiteRepository defines the data access contract for sites and their tasks
type SiteRepository interface {
	Create(site *models.Site) error
	FindByID(id uint64, preload ...string) (*models.Site, error)
	List(page, pageSize int) ([]models.Site, int64, error)
	Update(site *models.Site) error
	Delete(id uint64) error

	CreateTask(task *models.SiteTask) error
	FindTaskByID(id uint64) (*models.SiteTask, error)
	ListTasks(siteID uint64) ([]models.SiteTask, error)
	DeleteTask(id uint64) error
}

// ResourceRepository defines the data access contract for workers and materials
type ResourceRepository interface {
	CreateWorker(worker *models.Worker) error
	FindWorkerByID(id uint64) (*models.Worker, error)
	ListWorkers(page, pageSize int) ([]models.Worker, int64, error)
	UpdateWorker(worker *models.Worker) error
	DeleteWorker(id uint64) error

	CreateMaterial(material *models.Material) error
	FindMaterialByID(id uint64) (*models.Material, error)
	ListMaterials(page, pageSize int) ([]models.Material, int64, error)
	UpdateMaterial(material *models.Material) error
	DeleteMaterial(id uint64) error
}

// UserRepository defines the data access contract for users
type UserRepository interface {
	Create(user *models.User) error
	FindByID(id uint64) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
}
