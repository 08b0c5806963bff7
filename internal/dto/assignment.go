package dto

import (
	"time"

	"github.com/Angelouange12/construction-site-sub001/internal/constants"
	"github.com/Angelouange12/construction-site-sub001/internal/models"
	"github.com/Angelouange12/construction-site-sub001/internal/services"
	"github.com/shopspring/decimal"
)

// AssignmentDTO represents an assignment in API responses. Dates are plain
// calendar days; a null end_date means the assignment is open-ended.
type AssignmentDTO struct {
	ID             uint64                  `json:"id"`
	AssigneeType   models.AssigneeType     `json:"assignee_type"`
	AssigneeID     uint64                  `json:"assignee_id"`
	EntityType     models.EntityType       `json:"entity_type"`
	EntityID       uint64                  `json:"entity_id"`
	StartDate      string                  `json:"start_date"`
	EndDate        *string                 `json:"end_date"`
	Status         models.AssignmentStatus `json:"status"`
	HoursPerDay    decimal.Decimal         `json:"hours_per_day"`
	Quantity       *decimal.Decimal        `json:"quantity,omitempty"`
	Notes          string                  `json:"notes,omitempty"`
	AssignedBy     uint64                  `json:"assigned_by"`
	ReassignedFrom *uint64                 `json:"reassigned_from,omitempty"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

// AssignmentHistoryDTO represents one lifecycle log entry in API responses
type AssignmentHistoryDTO struct {
	ID             uint64                   `json:"id"`
	AssignmentID   uint64                   `json:"assignment_id"`
	Action         models.HistoryAction     `json:"action"`
	PreviousStatus *models.AssignmentStatus `json:"previous_status"`
	NewStatus      *models.AssignmentStatus `json:"new_status"`
	ChangedBy      uint64                   `json:"changed_by"`
	Reason         *string                  `json:"reason"`
	Metadata       models.Metadata          `json:"metadata"`
	CreatedAt      time.Time                `json:"created_at"`
}

// AbsenceReassignmentDTO is one covered assignment in an absence response
type AbsenceReassignmentDTO struct {
	OriginalAssignmentID uint64        `json:"original_assignment_id"`
	Replacement          AssignmentDTO `json:"replacement"`
}

// AbsenceOutcomeDTO is the per-assignment result of absence handling
type AbsenceOutcomeDTO struct {
	Reassigned []AbsenceReassignmentDTO     `json:"reassigned"`
	Unresolved []services.AbsenceUnresolved `json:"unresolved"`
}

// ToAssignmentDTO converts an Assignment model to AssignmentDTO
func ToAssignmentDTO(a models.Assignment) AssignmentDTO {
	dto := AssignmentDTO{
		ID:             a.ID,
		AssigneeType:   a.AssigneeType,
		AssigneeID:     a.AssigneeID,
		EntityType:     a.EntityType,
		EntityID:       a.EntityID,
		StartDate:      a.StartDate.Format(constants.DateLayout),
		Status:         a.Status,
		HoursPerDay:    a.HoursPerDay,
		Notes:          a.Notes,
		AssignedBy:     a.AssignedBy,
		ReassignedFrom: a.ReassignedFrom,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}

	if a.EndDate != nil {
		end := a.EndDate.Format(constants.DateLayout)
		dto.EndDate = &end
	}
	if a.Quantity.Valid {
		q := a.Quantity.Decimal
		dto.Quantity = &q
	}

	return dto
}

// ToAssignmentDTOs converts a slice of assignments
func ToAssignmentDTOs(assignments []models.Assignment) []AssignmentDTO {
	dtos := make([]AssignmentDTO, len(assignments))
	for i, a := range assignments {
		dtos[i] = ToAssignmentDTO(a)
	}
	return dtos
}

// ToAssignmentHistoryDTO converts an AssignmentHistory model
func ToAssignmentHistoryDTO(h models.AssignmentHistory) AssignmentHistoryDTO {
	return AssignmentHistoryDTO{
		ID:             h.ID,
		AssignmentID:   h.AssignmentID,
		Action:         h.Action,
		PreviousStatus: h.PreviousStatus,
		NewStatus:      h.NewStatus,
		ChangedBy:      h.ChangedBy,
		Reason:         h.Reason,
		Metadata:       h.Metadata,
		CreatedAt:      h.CreatedAt,
	}
}

// ToAssignmentHistoryDTOs converts a slice of history entries
func ToAssignmentHistoryDTOs(entries []models.AssignmentHistory) []AssignmentHistoryDTO {
	dtos := make([]AssignmentHistoryDTO, len(entries))
	for i, h := range entries {
		dtos[i] = ToAssignmentHistoryDTO(h)
	}
	return dtos
}

// ToAbsenceOutcomeDTO converts a service absence outcome
func ToAbsenceOutcomeDTO(outcome services.AbsenceOutcome) AbsenceOutcomeDTO {
	dto := AbsenceOutcomeDTO{
		Reassigned: make([]AbsenceReassignmentDTO, len(outcome.Reassigned)),
		Unresolved: outcome.Unresolved,
	}
	for i, r := range outcome.Reassigned {
		dto.Reassigned[i] = AbsenceReassignmentDTO{
			OriginalAssignmentID: r.OriginalID,
			Replacement:          ToAssignmentDTO(*r.Replacement),
		}
	}
	return dto
}
