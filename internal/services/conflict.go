package services

import (
	"fmt"
	"time"

	"github.com/Angelouange12/construction-site-sub001/internal/models"
	"github.com/Angelouange12/construction-site-sub001/internal/repository"
	"github.com/Angelouange12/construction-site-sub001/internal/schedule"
)

// ConflictDescriptor identifies one active assignment whose window overlaps
// a proposed assignment for the same assignee.
type ConflictDescriptor struct {
	Type                    string            `json:"type"`
	ConflictingAssignmentID uint64            `json:"conflicting_assignment_id"`
	ConflictingEntityType   models.EntityType `json:"conflicting_entity_type"`
	ConflictingEntityID     uint64            `json:"conflicting_entity_id"`
}

// ConflictError is returned when committing a candidate would violate the
// one-active-assignment-per-window invariant. It carries every conflict and
// is never retried automatically.
type ConflictError struct {
	Conflicts []ConflictDescriptor
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("schedule conflict with %d active assignment(s)", len(e.Conflicts))
}

// ConflictCandidate describes a proposed (not yet persisted) claim on an
// assignee's schedule. ExcludeAssignmentID lets updates skip the row being
// edited.
type ConflictCandidate struct {
	AssigneeType        models.AssigneeType
	AssigneeID          uint64
	StartDate           time.Time
	EndDate             *time.Time
	ExcludeAssignmentID uint64
}

// CheckConflicts returns every active assignment of the candidate's assignee
// whose window overlaps the candidate's. An empty result means the candidate
// can be committed as active without violating the overlap invariant.
//
// Only workers are overlap-checked. Material assignments are not mutually
// exclusive: several sites or tasks may draw from the same material pool, so
// a material candidate never conflicts.
func (s *AssignmentService) CheckConflicts(candidate ConflictCandidate) ([]ConflictDescriptor, error) {
	return s.checkConflicts(s.assignments, candidate)
}

func (s *AssignmentService) checkConflicts(repo repository.AssignmentRepository, candidate ConflictCandidate) ([]ConflictDescriptor, error) {
	if candidate.AssigneeType != models.AssigneeWorker {
		return nil, nil
	}

	active, err := repo.FindActiveByAssignee(candidate.AssigneeType, candidate.AssigneeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active assignments: %w", err)
	}

	var conflicts []ConflictDescriptor
	for _, a := range active {
		if a.ID == candidate.ExcludeAssignmentID {
			continue
		}
		if !schedule.Overlaps(a.StartDate, a.EndDate, candidate.StartDate, candidate.EndDate) {
			continue
		}
		conflicts = append(conflicts, ConflictDescriptor{
			Type:                    "overlap",
			ConflictingAssignmentID: a.ID,
			ConflictingEntityType:   a.EntityType,
			ConflictingEntityID:     a.EntityID,
		})
	}

	return conflicts, nil
}
