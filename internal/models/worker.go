package models

import (
	"time"

	"gorm.io/gorm"
)

type Worker struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	Trade     string         `gorm:"type:varchar(100)" json:"trade"`
	Phone     string         `gorm:"type:varchar(50)" json:"phone"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
