package dto

import (
	"time"

	"github.com/google/uuid"

	"avatar-trainer-be/pkg/dialogue"
	"avatar-trainer-be/pkg/scenario"
	"avatar-trainer-be/pkg/scoring"
)

type StartSessionRequest struct {
	TraineeName       string `json:"trainee_name" validate:"required"`
	TraineeEmail      string `json:"trainee_email" validate:"omitempty,email"`
	Mode              string `json:"mode" validate:"omitempty,oneof=training exam"`
	FixtureScenarioId string `json:"fixture_scenario_id"`
}

type ClientTurnResponse struct {
	Id         uuid.UUID           `json:"id"`
	Text       string              `json:"text"`
	EmotionTag dialogue.EmotionTag `json:"emotionTag,omitempty"`
	Intensity  float64             `json:"intensity,omitempty"`
	Persona    scenario.Persona    `json:"persona,omitempty"`
}

type StartSessionResponse struct {
	SessionId       uuid.UUID           `json:"session_id"`
	Mode            string              `json:"mode"`
	StepsTotal      int                 `json:"steps_total"`
	Plan            *scenario.Plan      `json:"plan"`
	FirstClientTurn *ClientTurnResponse `json:"first_client_turn"`
}

type SubmitAnswerRequest struct {
	Answer string `json:"answer" validate:"required"`
}

type SubmitAnswerResponse struct {
	Done       bool                `json:"done"`
	Pass       *bool               `json:"pass,omitempty"`
	Terminated bool                `json:"terminated,omitempty"`
	Reason     string              `json:"reason,omitempty"`
	Categories []string            `json:"categories,omitempty"`
	TotalScore *int                `json:"total_score,omitempty"`
	ClientTurn *ClientTurnResponse `json:"client_turn,omitempty"`
	Evaluation *scoring.Result     `json:"evaluation,omitempty"`
	Step       int                 `json:"step,omitempty"`
}

type TurnResponse struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type ShowSessionResponse struct {
	SessionId   uuid.UUID      `json:"session_id"`
	TraineeName string         `json:"trainee_name"`
	Mode        string         `json:"mode"`
	Status      string         `json:"status"`
	StepsTotal  int            `json:"steps_total"`
	CurrentStep int            `json:"current_step"`
	TotalScore  *int           `json:"total_score,omitempty"`
	PassFail    string         `json:"pass_fail,omitempty"`
	Plan        *scenario.Plan `json:"plan,omitempty"`
	Turns       []TurnResponse `json:"turns"`
}

type EvaluationResponse struct {
	TurnId          uuid.UUID                                 `json:"turn_id"`
	Scores          scoring.Scores                            `json:"scores"`
	Total           int                                       `json:"total"`
	Pass            bool                                      `json:"pass"`
	Flags           []string                                  `json:"flags"`
	Positives       []scoring.Record                          `json:"positives"`
	Mistakes        []scoring.Record                          `json:"mistakes"`
	SuggestedAnswer string                                    `json:"suggested_answer"`
	Evidence        []scoring.EvidenceItem                    `json:"evidence"`
	Explain         map[scoring.Metric]*scoring.MetricExplain `json:"explain,omitempty"`
}

type SessionReportResponse struct {
	SessionId     uuid.UUID              `json:"session_id"`
	TraineeName   string                 `json:"trainee_name"`
	Mode          string                 `json:"mode"`
	Status        string                 `json:"status"`
	TotalScore    *int                   `json:"total_score,omitempty"`
	PassFail      string                 `json:"pass_fail,omitempty"`
	AvgTotal      int                    `json:"avg_total"`
	AvgCompliance int                    `json:"avg_compliance"`
	Turns         []TurnResponse         `json:"turns"`
	Evaluations   []EvaluationResponse   `json:"evaluations"`
	Evidence      []scoring.EvidenceItem `json:"evidence"`
}

type CreateFeedbackRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

type CreateFeedbackResponse struct {
	Id uuid.UUID `json:"id"`
}
