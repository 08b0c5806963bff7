package services

import (
	"time"

	"github.com/Angelouange12/construction-site-sub001/internal/constants"
	"github.com/Angelouange12/construction-site-sub001/internal/models"
	"github.com/sirupsen/logrus"
)

// Notifier receives fire-and-forget scheduling events. Delivery and
// formatting live outside this service; failures here never affect the
// operation that raised the event.
type Notifier interface {
	// ReassignmentCompleted fires after an assignment has been retired and
	// its replacement committed
	ReassignmentCompleted(retired, replacement *models.Assignment)

	// AbsenceUnresolved fires when absence handling found no conflict-free
	// candidate for an assignment on the given day
	AbsenceUnresolved(assignment *models.Assignment, day time.Time)
}

// LogNotifier writes scheduling events to the application log.
type LogNotifier struct {
	log *logrus.Logger
}

// NewLogNotifier creates a Notifier backed by the given logger.
func NewLogNotifier(log *logrus.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) ReassignmentCompleted(retired, replacement *models.Assignment) {
	n.log.WithFields(logrus.Fields{
		"retired_assignment": retired.ID,
		"new_assignment":     replacement.ID,
		"assignee_id":        replacement.AssigneeID,
	}).Info("assignment reassigned")
}

func (n *LogNotifier) AbsenceUnresolved(assignment *models.Assignment, day time.Time) {
	n.log.WithFields(logrus.Fields{
		"assignment_id": assignment.ID,
		"assignee_id":   assignment.AssigneeID,
		"date":          day.Format(constants.DateLayout),
	}).Warn("no conflict-free replacement found for absence")
}

// NopNotifier discards all events.
type NopNotifier struct{}

func (NopNotifier) ReassignmentCompleted(_, _ *models.Assignment)        {}
func (NopNotifier) AbsenceUnresolved(_ *models.Assignment, _ time.Time) {}
