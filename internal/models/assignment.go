package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type AssigneeType string

const (
	AssigneeWorker   AssigneeType = "worker"
	AssigneeMaterial AssigneeType = "material"
)

// Valid reports whether the assignee type is one of the known values.
func (t AssigneeType) Valid() bool {
	return t == AssigneeWorker || t == AssigneeMaterial
}

type EntityType string

const (
	EntitySite EntityType = "site"
	EntityTask EntityType = "task"
)

// Valid reports whether the entity type is one of the known values.
func (t EntityType) Valid() bool {
	return t == EntitySite || t == EntityTask
}

type AssignmentStatus string

const (
	AssignmentActive     AssignmentStatus = "active"
	AssignmentCompleted  AssignmentStatus = "completed"
	AssignmentCancelled  AssignmentStatus = "cancelled"
	AssignmentReassigned AssignmentStatus = "reassigned"
)

// Valid reports whether the status is one of the known values.
func (s AssignmentStatus) Valid() bool {
	return s == AssignmentActive || s.Terminal()
}

// Terminal reports whether no further status transition is allowed.
func (s AssignmentStatus) Terminal() bool {
	return s == AssignmentCompleted || s == AssignmentCancelled || s == AssignmentReassigned
}

// Assignment is a claim on a worker or material by a site or task over a date
// window. EndDate is nil for open-ended assignments. Assignments are never
// physically deleted; cancelled/reassigned/completed rows stay for audit.
type Assignment struct {
	ID           uint64              `gorm:"primarykey" json:"id"`
	AssigneeType AssigneeType        `gorm:"type:varchar(20);not null;index:idx_assignments_assignee" json:"assignee_type"`
	AssigneeID   uint64              `gorm:"not null;index:idx_assignments_assignee" json:"assignee_id"`
	EntityType   EntityType          `gorm:"type:varchar(20);not null" json:"entity_type"`
	EntityID     uint64              `gorm:"not null" json:"entity_id"`
	StartDate    time.Time           `gorm:"not null;index" json:"start_date"`
	EndDate      *time.Time          `json:"end_date"`
	Status       AssignmentStatus    `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	HoursPerDay  decimal.Decimal     `gorm:"type:decimal(5,2)" json:"hours_per_day"`
	Quantity     decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"quantity"`
	Notes        string              `gorm:"type:text" json:"notes"`
	AssignedBy   uint64              `gorm:"not null" json:"assigned_by"`

	// ReassignedFrom is a weak back-reference to the retired predecessor; it
	// never implies cascading deletes.
	ReassignedFrom *uint64 `json:"reassigned_from"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Predecessor *Assignment         `gorm:"foreignKey:ReassignedFrom" json:"predecessor,omitempty"`
	History     []AssignmentHistory `gorm:"foreignKey:AssignmentID" json:"history,omitempty"`
}
