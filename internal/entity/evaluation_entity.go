package entity

import (
	"time"

	"github.com/google/uuid"

	"avatar-trainer-be/pkg/scoring"
)

// Evaluation is the scored assessment of exactly one trainee turn.
type Evaluation struct {
	Id              uuid.UUID
	SessionId       uuid.UUID
	TurnId          uuid.UUID
	Scores          scoring.Scores
	Total           int
	Pass            bool
	Flags           []string
	Positives       []scoring.Record
	Mistakes        []scoring.Record
	SuggestedAnswer string
	Evidence        []scoring.EvidenceItem
	Explain         map[scoring.Metric]*scoring.MetricExplain
	CreatedAt       time.Time
}
