package model

import (
	"time"

	"gorm.io/datatypes"
)

// Archetype is a topic template scenarios are generated from. The slug id is
// stable across environments so fixtures can reference it.
type Archetype struct {
	Id              string         `gorm:"type:varchar(100);primaryKey"`
	Title           string         `gorm:"type:varchar(255);not null"`
	Summary         string         `gorm:"type:text"`
	Topics          datatypes.JSON `gorm:"type:jsonb"`
	SampleQuestions datatypes.JSON `gorm:"type:jsonb"`
	Gotchas         datatypes.JSON `gorm:"type:jsonb"`
	Outcomes        datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
}

func (Archetype) TableName() string {
	return "archetypes"
}
