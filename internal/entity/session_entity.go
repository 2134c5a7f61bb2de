package entity

import (
	"time"

	"github.com/google/uuid"

	"avatar-trainer-be/pkg/scenario"
)

// Session is one training or exam dialogue. Status leaves ACTIVE exactly once
// and only the session service mutates it.
type Session struct {
	Id                uuid.UUID
	TraineeName       string
	TraineeEmail      string
	Mode              string
	Plan              *scenario.Plan
	FixtureScenarioId string
	StepsTotal        int
	CurrentStep       int
	Status            string
	TerminationReason string
	TotalScore        *int
	PassFail          string
	CreatedAt         time.Time
	FinishedAt        *time.Time
}

// Terminal reports whether the session has left ACTIVE.
func (s *Session) Terminal() bool {
	return s.Status != "" && s.Status != "ACTIVE"
}

// Turn is one utterance within a session. Append-only.
type Turn struct {
	Id        uuid.UUID
	SessionId uuid.UUID
	Role      string
	Text      string
	CreatedAt time.Time
}
