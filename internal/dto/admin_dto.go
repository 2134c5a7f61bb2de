package dto

import (
	"time"

	"github.com/google/uuid"
)

type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AdminLoginResponse struct {
	Token string `json:"token"`
}

type IngestDocRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

type IngestDocResponse struct {
	Id     uuid.UUID `json:"id"`
	Title  string    `json:"title"`
	Chunks int       `json:"chunks"`
}

type KnowledgeDocResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type ReindexResponse struct {
	Docs   int `json:"docs"`
	Chunks int `json:"chunks"`
}

type SearchKnowledgeResponse struct {
	Id       string  `json:"id"`
	DocTitle string  `json:"doc_title"`
	Snippet  string  `json:"snippet"`
	Score    float64 `json:"score"`
}

type SessionSummaryResponse struct {
	SessionId   uuid.UUID `json:"session_id"`
	TraineeName string    `json:"trainee_name"`
	Mode        string    `json:"mode"`
	Status      string    `json:"status"`
	TotalScore  *int      `json:"total_score,omitempty"`
	PassFail    string    `json:"pass_fail,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateArchetypeRequest struct {
	Id              string   `json:"id" validate:"required"`
	Title           string   `json:"title" validate:"required"`
	Summary         string   `json:"summary"`
	Topics          []string `json:"topics"`
	SampleQuestions []string `json:"sample_questions" validate:"required,min=1"`
	Gotchas         []string `json:"gotchas"`
	Outcomes        []string `json:"outcomes"`
}
