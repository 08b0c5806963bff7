package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Angelouange12/construction-site-sub001/internal/constants"
	"github.com/Angelouange12/construction-site-sub001/internal/models"
	"github.com/Angelouange12/construction-site-sub001/internal/repository"
	"github.com/Angelouange12/construction-site-sub001/internal/schedule"
)

// Reassign retires an active assignment and commits a replacement for the new
// assignee in a single transaction: the old record becomes "reassigned", the
// new one starts "active" with ReassignedFrom pointing back at it. If the
// replacement fails the conflict check (or any write fails), the transaction
// rolls back and the old assignment stays active.
func (s *AssignmentService) Reassign(id uint64, newAssigneeID uint64, actor uint64, reason string) (*models.Assignment, error) {
	assignment, err := s.loadAssignment(id)
	if err != nil {
		return nil, err
	}
	if assignment.Status != models.AssignmentActive {
		return nil, &InvalidTransitionError{Status: assignment.Status, Action: "reassign"}
	}

	if err := s.resolveAssignee(assignment.AssigneeType, newAssigneeID); err != nil {
		return nil, err
	}

	// both schedules change hands; locks are taken in sorted key order so
	// two crossing reassignments cannot deadlock
	oldKey := assigneeKey(assignment.AssigneeType, assignment.AssigneeID)
	newKey := assigneeKey(assignment.AssigneeType, newAssigneeID)
	keys := []string{oldKey}
	if newKey != oldKey {
		keys = append(keys, newKey)
		sort.Strings(keys)
	}
	for _, key := range keys {
		unlock := s.locks.Lock(key)
		defer unlock()
	}

	// re-read under the locks; the status guard above ran on a pre-lock
	// snapshot that a concurrent transition may have invalidated
	assignment, err = s.loadAssignment(id)
	if err != nil {
		return nil, err
	}
	if assignment.Status != models.AssignmentActive {
		return nil, &InvalidTransitionError{Status: assignment.Status, Action: "reassign"}
	}

	replacement := &models.Assignment{
		AssigneeType:   assignment.AssigneeType,
		AssigneeID:     newAssigneeID,
		EntityType:     assignment.EntityType,
		EntityID:       assignment.EntityID,
		StartDate:      assignment.StartDate,
		EndDate:        assignment.EndDate,
		Status:         models.AssignmentActive,
		HoursPerDay:    assignment.HoursPerDay,
		Quantity:       assignment.Quantity,
		Notes:          assignment.Notes,
		AssignedBy:     actor,
		ReassignedFrom: &assignment.ID,
	}

	var reasonPtr *string
	if reason != "" {
		reasonPtr = &reason
	}

	err = s.assignments.Transaction(func(tx repository.AssignmentRepository) error {
		metadata := models.Metadata{"reassigned_to": newAssigneeID}
		if err := s.transition(tx, assignment, models.AssignmentReassigned, models.ActionReassigned, actor, reasonPtr, metadata); err != nil {
			return err
		}
		return s.createLocked(tx, replacement, actor)
	})
	if err != nil {
		// the transaction rolled back; undo the in-memory transition too
		assignment.Status = models.AssignmentActive
		return nil, err
	}

	s.notifier.ReassignmentCompleted(assignment, replacement)

	return replacement, nil
}

// AbsenceReassignment is one successfully covered assignment.
type AbsenceReassignment struct {
	OriginalID  uint64             `json:"original_assignment_id"`
	Replacement *models.Assignment `json:"replacement"`
}

// AbsenceUnresolved is one assignment that could not be covered. This is a
// reportable outcome, not an error: the assignment stays as-is.
type AbsenceUnresolved struct {
	AssignmentID uint64 `json:"assignment_id"`
	Reason       string `json:"reason"`
}

// AbsenceOutcome reports per-assignment results of absence handling.
type AbsenceOutcome struct {
	Reassigned []AbsenceReassignment `json:"reassigned"`
	Unresolved []AbsenceUnresolved   `json:"unresolved"`
}

// HandleAbsence finds every active assignment of the worker covering the
// absent day and tries to move each to the first candidate that is free on
// that day. The pool order is the caller's priority and is honored as given;
// the search is greedy first-fit with no backtracking. Each reassignment is
// its own atomic unit: one failure never rolls back earlier successes, and
// uncovered assignments are reported in the outcome instead of failing the
// batch.
func (s *AssignmentService) HandleAbsence(workerID uint64, absentDate time.Time, candidatePool []uint64, actor uint64) (*AbsenceOutcome, error) {
	if err := s.resolveAssignee(models.AssigneeWorker, workerID); err != nil {
		return nil, err
	}

	day := schedule.DateOf(absentDate)

	assignments, err := s.assignments.FindActiveCoveringDate(models.AssigneeWorker, workerID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignments for absent worker: %w", err)
	}

	outcome := &AbsenceOutcome{
		Reassigned: []AbsenceReassignment{},
		Unresolved: []AbsenceUnresolved{},
	}
	reason := fmt.Sprintf("absence of worker %d on %s", workerID, day.Format(constants.DateLayout))

	for i := range assignments {
		assignment := assignments[i]
		replacement, failure := s.coverAbsence(&assignment, day, candidatePool, actor, reason)
		if replacement != nil {
			outcome.Reassigned = append(outcome.Reassigned, AbsenceReassignment{
				OriginalID:  assignment.ID,
				Replacement: replacement,
			})
			continue
		}

		outcome.Unresolved = append(outcome.Unresolved, AbsenceUnresolved{
			AssignmentID: assignment.ID,
			Reason:       failure,
		})
		s.notifier.AbsenceUnresolved(&assignment, day)
	}

	return outcome, nil
}

// coverAbsence walks the candidate pool in order and reassigns to the first
// candidate free on the absent day. Candidates are pre-screened against that
// single day; Reassign then re-validates the full window, so a candidate that
// is free on the day but clashes elsewhere in the window is skipped as well.
func (s *AssignmentService) coverAbsence(assignment *models.Assignment, day time.Time, candidatePool []uint64, actor uint64, reason string) (*models.Assignment, string) {
	for _, candidateID := range candidatePool {
		if candidateID == assignment.AssigneeID {
			continue
		}

		busy, err := s.busyOn(candidateID, day)
		if err != nil {
			return nil, fmt.Sprintf("conflict check failed: %v", err)
		}
		if busy {
			continue
		}

		replacement, err := s.Reassign(assignment.ID, candidateID, actor, reason)
		if err != nil {
			var conflictErr *ConflictError
			if errors.As(err, &conflictErr) || errors.Is(err, ErrAssigneeNotFound) {
				continue
			}
			return nil, fmt.Sprintf("reassignment failed: %v", err)
		}
		return replacement, ""
	}

	return nil, "no conflict-free candidate in pool"
}

// busyOn reports whether the worker has any active assignment covering day.
func (s *AssignmentService) busyOn(workerID uint64, day time.Time) (bool, error) {
	active, err := s.assignments.FindActiveByAssignee(models.AssigneeWorker, workerID)
	if err != nil {
		return false, fmt.Errorf("failed to load active assignments: %w", err)
	}
	for _, a := range active {
		if schedule.Covers(a.StartDate, a.EndDate, day) {
			return true, nil
		}
	}
	return false, nil
}
