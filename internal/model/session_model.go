package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Session struct {
	Id                uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TraineeName       string         `gorm:"type:varchar(255);not null"`
	TraineeEmail      string         `gorm:"type:varchar(255)"`
	Mode              string         `gorm:"type:varchar(50);not null"`
	ScenarioMeta      datatypes.JSON `gorm:"type:jsonb"`
	FixtureScenarioId string         `gorm:"type:varchar(100);index"`
	StepsTotal        int            `gorm:"not null"`
	CurrentStep       int            `gorm:"not null;default:0"`
	Status            string         `gorm:"type:varchar(50);not null;index"`
	TerminationReason string         `gorm:"type:varchar(50)"`
	TotalScore        *int           `gorm:""`
	PassFail          string         `gorm:"type:varchar(10)"`
	FinishedAt        *time.Time     `gorm:""`
	CreatedAt         time.Time      `gorm:"autoCreateTime"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime"`
	DeletedAt         gorm.DeletedAt `gorm:"index"`
}

func (Session) TableName() string {
	return "sessions"
}

type Turn struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId uuid.UUID      `gorm:"type:uuid;not null;index"`
	Role      string         `gorm:"type:varchar(20);not null"`
	Text      string         `gorm:"type:text;not null"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Turn) TableName() string {
	return "turns"
}
