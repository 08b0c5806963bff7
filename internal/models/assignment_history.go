package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type HistoryAction string

const (
	ActionCreated    HistoryAction = "created"
	ActionUpdated    HistoryAction = "updated"
	ActionCompleted  HistoryAction = "completed"
	ActionCancelled  HistoryAction = "cancelled"
	ActionReassigned HistoryAction = "reassigned"
)

// Metadata is the structured payload attached to a history entry. Keys are a
// closed set per action: "updated" carries a changed-field map, "reassigned"
// carries reassigned_to / reassigned_from, "created" a field snapshot.
type Metadata map[string]any

// Value implements driver.Valuer so gorm stores the map as JSON text.
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *Metadata) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("unsupported metadata column type %T", value)
	}
}

// AssignmentHistory is an append-only log entry describing one lifecycle
// transition. Entries are created exclusively by the assignment service,
// inside the same transaction as the transition, and are never updated or
// deleted afterwards.
type AssignmentHistory struct {
	ID             uint64            `gorm:"primarykey" json:"id"`
	AssignmentID   uint64            `gorm:"not null;index" json:"assignment_id"`
	Action         HistoryAction     `gorm:"type:varchar(20);not null" json:"action"`
	PreviousStatus *AssignmentStatus `gorm:"type:varchar(20)" json:"previous_status"`
	NewStatus      *AssignmentStatus `gorm:"type:varchar(20)" json:"new_status"`
	ChangedBy      uint64            `gorm:"not null" json:"changed_by"`
	Reason         *string           `gorm:"type:text" json:"reason"`
	Metadata       Metadata          `gorm:"type:text" json:"metadata"`
	CreatedAt      time.Time         `gorm:"index" json:"created_at"`
}
