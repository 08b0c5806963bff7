package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/Angelouange12/construction-site-sub001/internal/constants"
	"github.com/Angelouange12/construction-site-sub001/internal/models"
	"github.com/Angelouange12/construction-site-sub001/internal/repository"
	"github.com/Angelouange12/construction-site-sub001/internal/schedule"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrAssignmentNotFound   = errors.New("assignment not found")
	ErrAssigneeNotFound     = errors.New("assignee does not exist")
	ErrEntityNotFound       = errors.New("assigned entity does not exist")
	ErrInvalidAssigneeType  = errors.New("assignee type must be worker or material")
	ErrInvalidEntityType    = errors.New("entity type must be site or task")
	ErrStartDateRequired    = errors.New("start date is required")
	ErrEndBeforeStart       = errors.New("end date must not be before start date")
	ErrCancelReasonRequired = errors.New("cancellation reason is required")
)

// InvalidTransitionError is returned when a status change is requested from a
// terminal state, or when a mutation is attempted on a non-active assignment.
type InvalidTransitionError struct {
	Status models.AssignmentStatus
	Action string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s assignment in status %q", e.Action, e.Status)
}

// AssignmentService owns the assignment lifecycle: conflict-checked creation,
// field updates, completion, cancellation, reassignment and absence handling.
// Status only ever changes through this service, and every transition writes
// exactly one history entry in the same transaction as the state change.
type AssignmentService struct {
	assignments repository.AssignmentRepository
	sites       repository.SiteRepository
	resources   repository.ResourceRepository
	notifier    Notifier
	locks       keyedMutex
}

// NewAssignmentService creates a new AssignmentService
func NewAssignmentService(assignments repository.AssignmentRepository, sites repository.SiteRepository, resources repository.ResourceRepository, notifier Notifier) *AssignmentService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &AssignmentService{
		assignments: assignments,
		sites:       sites,
		resources:   resources,
		notifier:    notifier,
	}
}

// CreateAssignmentInput represents a request to claim an assignee for an
// entity over a date window
type CreateAssignmentInput struct {
	AssigneeType models.AssigneeType
	AssigneeID   uint64
	EntityType   models.EntityType
	EntityID     uint64
	StartDate    time.Time
	EndDate      *time.Time
	HoursPerDay  *decimal.Decimal
	Quantity     *decimal.Decimal
	Notes        string
}

// UpdateAssignmentInput carries non-status field edits. Pointer fields are
// applied only when set; ClearEndDate turns the assignment open-ended.
type UpdateAssignmentInput struct {
	StartDate    *time.Time
	EndDate      *time.Time
	ClearEndDate bool
	HoursPerDay  *decimal.Decimal
	Quantity     *decimal.Decimal
	Notes        *string
}

// Create validates the request, runs the conflict check and commits the
// assignment as active together with its "created" history entry. The
// conflict check and the write are serialized per assignee, so two
// concurrent requests for the same worker cannot both pass the check.
func (s *AssignmentService) Create(input CreateAssignmentInput, actor uint64) (*models.Assignment, error) {
	if !input.AssigneeType.Valid() {
		return nil, ErrInvalidAssigneeType
	}
	if !input.EntityType.Valid() {
		return nil, ErrInvalidEntityType
	}
	if input.StartDate.IsZero() {
		return nil, ErrStartDateRequired
	}

	start := schedule.DateOf(input.StartDate)
	end := normalizeEnd(input.EndDate)
	if end != nil && end.Before(start) {
		return nil, ErrEndBeforeStart
	}

	if err := s.resolveAssignee(input.AssigneeType, input.AssigneeID); err != nil {
		return nil, err
	}
	if err := s.resolveEntity(input.EntityType, input.EntityID); err != nil {
		return nil, err
	}

	assignment := &models.Assignment{
		AssigneeType: input.AssigneeType,
		AssigneeID:   input.AssigneeID,
		EntityType:   input.EntityType,
		EntityID:     input.EntityID,
		StartDate:    start,
		EndDate:      end,
		Status:       models.AssignmentActive,
		Notes:        input.Notes,
		AssignedBy:   actor,
	}

	switch input.AssigneeType {
	case models.AssigneeWorker:
		if input.HoursPerDay != nil {
			assignment.HoursPerDay = *input.HoursPerDay
		} else {
			assignment.HoursPerDay = decimal.NewFromInt(constants.DefaultHoursPerDay)
		}
	case models.AssigneeMaterial:
		if input.Quantity != nil {
			assignment.Quantity = decimal.NewNullDecimal(*input.Quantity)
		}
	}

	unlock := s.locks.Lock(assigneeKey(input.AssigneeType, input.AssigneeID))
	defer unlock()

	err := s.assignments.Transaction(func(tx repository.AssignmentRepository) error {
		return s.createLocked(tx, assignment, actor)
	})
	if err != nil {
		return nil, err
	}

	return assignment, nil
}

// createLocked runs the conflict check and the paired assignment+history
// insert. Callers must already hold the assignee lock and a transaction.
func (s *AssignmentService) createLocked(tx repository.AssignmentRepository, assignment *models.Assignment, actor uint64) error {
	conflicts, err := s.checkConflicts(tx, ConflictCandidate{
		AssigneeType: assignment.AssigneeType,
		AssigneeID:   assignment.AssigneeID,
		StartDate:    assignment.StartDate,
		EndDate:      assignment.EndDate,
	})
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		return &ConflictError{Conflicts: conflicts}
	}

	if err := tx.Create(assignment); err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}

	metadata := models.Metadata{
		"assignee_type": string(assignment.AssigneeType),
		"assignee_id":   assignment.AssigneeID,
		"entity_type":   string(assignment.EntityType),
		"entity_id":     assignment.EntityID,
		"start_date":    formatDate(&assignment.StartDate),
		"end_date":      formatDate(assignment.EndDate),
	}
	if assignment.ReassignedFrom != nil {
		metadata["reassigned_from"] = *assignment.ReassignedFrom
	}

	return s.recordHistory(tx, assignment.ID, models.ActionCreated, nil, assignment.Status, actor, nil, metadata)
}

// Update applies non-status field edits to an active assignment. Date changes
// re-trigger the conflict check (excluding the assignment itself), and the
// "updated" history entry lists only the fields that actually changed. An
// update that changes nothing is a no-op and writes no history.
func (s *AssignmentService) Update(id uint64, input UpdateAssignmentInput, actor uint64) (*models.Assignment, error) {
	assignment, unlock, err := s.lockActive(id, "update")
	if err != nil {
		return nil, err
	}
	defer unlock()

	changed := models.Metadata{}
	windowChanged := false

	if input.StartDate != nil {
		start := schedule.DateOf(*input.StartDate)
		if !start.Equal(assignment.StartDate) {
			changed["start_date"] = changeOf(formatDate(&assignment.StartDate), formatDate(&start))
			assignment.StartDate = start
			windowChanged = true
		}
	}
	if input.ClearEndDate {
		if assignment.EndDate != nil {
			changed["end_date"] = changeOf(formatDate(assignment.EndDate), nil)
			assignment.EndDate = nil
			windowChanged = true
		}
	} else if input.EndDate != nil {
		end := schedule.DateOf(*input.EndDate)
		if assignment.EndDate == nil || !end.Equal(*assignment.EndDate) {
			changed["end_date"] = changeOf(formatDate(assignment.EndDate), formatDate(&end))
			assignment.EndDate = &end
			windowChanged = true
		}
	}
	if assignment.EndDate != nil && assignment.EndDate.Before(assignment.StartDate) {
		return nil, ErrEndBeforeStart
	}

	if input.HoursPerDay != nil && assignment.AssigneeType == models.AssigneeWorker && !input.HoursPerDay.Equal(assignment.HoursPerDay) {
		changed["hours_per_day"] = changeOf(assignment.HoursPerDay.String(), input.HoursPerDay.String())
		assignment.HoursPerDay = *input.HoursPerDay
	}
	if input.Quantity != nil && assignment.AssigneeType == models.AssigneeMaterial {
		if !assignment.Quantity.Valid || !assignment.Quantity.Decimal.Equal(*input.Quantity) {
			var from any
			if assignment.Quantity.Valid {
				from = assignment.Quantity.Decimal.String()
			}
			changed["quantity"] = changeOf(from, input.Quantity.String())
			assignment.Quantity = decimal.NewNullDecimal(*input.Quantity)
		}
	}
	if input.Notes != nil && *input.Notes != assignment.Notes {
		changed["notes"] = changeOf(assignment.Notes, *input.Notes)
		assignment.Notes = *input.Notes
	}

	if len(changed) == 0 {
		return assignment, nil
	}

	err = s.assignments.Transaction(func(tx repository.AssignmentRepository) error {
		if windowChanged {
			conflicts, err := s.checkConflicts(tx, ConflictCandidate{
				AssigneeType:        assignment.AssigneeType,
				AssigneeID:          assignment.AssigneeID,
				StartDate:           assignment.StartDate,
				EndDate:             assignment.EndDate,
				ExcludeAssignmentID: assignment.ID,
			})
			if err != nil {
				return err
			}
			if len(conflicts) > 0 {
				return &ConflictError{Conflicts: conflicts}
			}
		}

		if err := tx.Update(assignment); err != nil {
			return fmt.Errorf("failed to update assignment: %w", err)
		}

		active := models.AssignmentActive
		return s.recordHistory(tx, assignment.ID, models.ActionUpdated, &active, active, actor, nil, changed)
	})
	if err != nil {
		return nil, err
	}

	return assignment, nil
}

// Complete marks an active assignment as completed. When the assignment was
// open-ended, the completion day becomes its end date.
func (s *AssignmentService) Complete(id uint64, actor uint64) (*models.Assignment, error) {
	assignment, unlock, err := s.lockActive(id, "complete")
	if err != nil {
		return nil, err
	}
	defer unlock()

	var metadata models.Metadata
	if assignment.EndDate == nil {
		today := schedule.DateOf(time.Now())
		assignment.EndDate = &today
		metadata = models.Metadata{"end_date": formatDate(&today)}
	}

	err = s.assignments.Transaction(func(tx repository.AssignmentRepository) error {
		return s.transition(tx, assignment, models.AssignmentCompleted, models.ActionCompleted, actor, nil, metadata)
	})
	if err != nil {
		return nil, err
	}

	return assignment, nil
}

// Cancel marks an active assignment as cancelled. A reason is mandatory.
func (s *AssignmentService) Cancel(id uint64, actor uint64, reason string) (*models.Assignment, error) {
	if reason == "" {
		return nil, ErrCancelReasonRequired
	}

	assignment, unlock, err := s.lockActive(id, "cancel")
	if err != nil {
		return nil, err
	}
	defer unlock()

	err = s.assignments.Transaction(func(tx repository.AssignmentRepository) error {
		return s.transition(tx, assignment, models.AssignmentCancelled, models.ActionCancelled, actor, &reason, nil)
	})
	if err != nil {
		return nil, err
	}

	return assignment, nil
}

// Get returns an assignment with its predecessor preloaded
func (s *AssignmentService) Get(id uint64) (*models.Assignment, error) {
	assignment, err := s.assignments.FindByID(id, "Predecessor")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to find assignment: %w", err)
	}
	return assignment, nil
}

// List returns assignments matching the filter
func (s *AssignmentService) List(filter repository.AssignmentFilter) ([]models.Assignment, int64, error) {
	assignments, total, err := s.assignments.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list assignments: %w", err)
	}
	return assignments, total, nil
}

// transition moves an assignment from active into a terminal state and writes
// the paired history entry. Callers check the current status first; this is
// the only place statuses are written.
func (s *AssignmentService) transition(tx repository.AssignmentRepository, assignment *models.Assignment, to models.AssignmentStatus, action models.HistoryAction, actor uint64, reason *string, metadata models.Metadata) error {
	previous := assignment.Status
	assignment.Status = to

	if err := tx.Update(assignment); err != nil {
		assignment.Status = previous
		return fmt.Errorf("failed to update assignment status: %w", err)
	}

	return s.recordHistory(tx, assignment.ID, action, &previous, to, actor, reason, metadata)
}

func (s *AssignmentService) recordHistory(tx repository.AssignmentRepository, assignmentID uint64, action models.HistoryAction, previous *models.AssignmentStatus, next models.AssignmentStatus, actor uint64, reason *string, metadata models.Metadata) error {
	entry := &models.AssignmentHistory{
		AssignmentID:   assignmentID,
		Action:         action,
		PreviousStatus: previous,
		NewStatus:      &next,
		ChangedBy:      actor,
		Reason:         reason,
		Metadata:       metadata,
	}
	if err := tx.CreateHistory(entry); err != nil {
		return fmt.Errorf("failed to record assignment history: %w", err)
	}
	return nil
}

// lockActive acquires the assignee lock for the assignment and re-reads it
// under the lock before verifying it is still active. The status guard must
// not run on a pre-lock snapshot: two concurrent transitions could otherwise
// both see "active" and both commit. Callers own the returned unlock.
func (s *AssignmentService) lockActive(id uint64, action string) (*models.Assignment, func(), error) {
	assignment, err := s.loadAssignment(id)
	if err != nil {
		return nil, nil, err
	}

	unlock := s.locks.Lock(assigneeKey(assignment.AssigneeType, assignment.AssigneeID))

	assignment, err = s.loadAssignment(id)
	if err != nil {
		unlock()
		return nil, nil, err
	}
	if assignment.Status != models.AssignmentActive {
		unlock()
		return nil, nil, &InvalidTransitionError{Status: assignment.Status, Action: action}
	}

	return assignment, unlock, nil
}

func (s *AssignmentService) loadAssignment(id uint64) (*models.Assignment, error) {
	assignment, err := s.assignments.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to find assignment: %w", err)
	}
	return assignment, nil
}

func (s *AssignmentService) resolveAssignee(assigneeType models.AssigneeType, assigneeID uint64) error {
	var err error
	switch assigneeType {
	case models.AssigneeWorker:
		_, err = s.resources.FindWorkerByID(assigneeID)
	case models.AssigneeMaterial:
		_, err = s.resources.FindMaterialByID(assigneeID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssigneeNotFound
		}
		return fmt.Errorf("failed to resolve assignee: %w", err)
	}
	return nil
}

func (s *AssignmentService) resolveEntity(entityType models.EntityType, entityID uint64) error {
	var err error
	switch entityType {
	case models.EntitySite:
		_, err = s.sites.FindByID(entityID)
	case models.EntityTask:
		_, err = s.sites.FindTaskByID(entityID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEntityNotFound
		}
		return fmt.Errorf("failed to resolve entity: %w", err)
	}
	return nil
}

func assigneeKey(assigneeType models.AssigneeType, assigneeID uint64) string {
	return fmt.Sprintf("%s:%d", assigneeType, assigneeID)
}

func normalizeEnd(end *time.Time) *time.Time {
	if end == nil {
		return nil
	}
	d := schedule.DateOf(*end)
	return &d
}

func formatDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(constants.DateLayout)
}

func changeOf(from, to any) map[string]any {
	return map[string]any{"from": from, "to": to}
}
