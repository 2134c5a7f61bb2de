package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Evaluation struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId       uuid.UUID      `gorm:"type:uuid;not null;index"`
	TurnId          uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex"`
	Scores          datatypes.JSON `gorm:"type:jsonb;not null"`
	Flags           datatypes.JSON `gorm:"type:jsonb"`
	Positives       datatypes.JSON `gorm:"type:jsonb"`
	Mistakes        datatypes.JSON `gorm:"type:jsonb"`
	SuggestedAnswer string         `gorm:"type:text"`
	Evidence        datatypes.JSON `gorm:"type:jsonb"`
	Explain         datatypes.JSON `gorm:"type:jsonb"`
	Total           int            `gorm:"not null"`
	Pass            bool           `gorm:"not null"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (Evaluation) TableName() string {
	return "evaluations"
}
