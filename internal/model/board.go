package model

import (
	"time"

	"github.com/google/uuid"
)

type Board struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false"`

	Columns []Column      `gorm:"foreignKey:BoardID"`
	Members []BoardMember `gorm:"foreignKey:BoardID"`
}
