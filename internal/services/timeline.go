package services

import (
	"fmt"
	"time"

	"github.com/Angelouange12/construction-site-sub001/internal/models"
	"github.com/Angelouange12/construction-site-sub001/internal/schedule"
)

// Timeline merges one assignee's assignments across a date window into a
// chronological read-only view. Assignments of every status are included as
// long as their window intersects [start, end]; open-ended assignments count
// as extending into the unbounded future. Used for reporting and candidate
// selection, never for conflict enforcement.
func (s *AssignmentService) Timeline(assigneeType models.AssigneeType, assigneeID uint64, start, end time.Time) ([]models.Assignment, error) {
	if !assigneeType.Valid() {
		return nil, ErrInvalidAssigneeType
	}

	from := schedule.DateOf(start)
	to := schedule.DateOf(end)
	if to.Before(from) {
		return nil, ErrEndBeforeStart
	}

	assignments, err := s.assignments.FindByAssigneeInWindow(assigneeType, assigneeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to project timeline: %w", err)
	}

	return assignments, nil
}

// History returns the ordered lifecycle log of one assignment.
func (s *AssignmentService) History(assignmentID uint64) ([]models.AssignmentHistory, error) {
	if _, err := s.loadAssignment(assignmentID); err != nil {
		return nil, err
	}

	entries, err := s.assignments.ListHistory(assignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignment history: %w", err)
	}

	return entries, nil
}
