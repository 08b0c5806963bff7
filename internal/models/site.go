package models

import (
	"time"

	"gorm.io/gorm"
)

type SiteStatus string

const (
	SiteActive    SiteStatus = "active"
	SiteSuspended SiteStatus = "suspended"
	SiteClosed    SiteStatus = "closed"
)

type Site struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	Code      string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Address   string         `gorm:"type:varchar(255)" json:"address"`
	Status    SiteStatus     `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Tasks []SiteTask `gorm:"foreignKey:SiteID" json:"tasks,omitempty"`
}

// SiteTask is a unit of work within a site. Assignments may target either a
// whole site or one of its tasks.
type SiteTask struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	SiteID      uint64         `gorm:"not null;index" json:"site_id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Site Site `gorm:"foreignKey:SiteID" json:"site,omitempty"`
}
