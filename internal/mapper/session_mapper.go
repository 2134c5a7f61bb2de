package mapper

import (
	"encoding/json"

	"avatar-trainer-be/internal/entity"
	"avatar-trainer-be/internal/model"
	"avatar-trainer-be/pkg/scenario"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

func (m *SessionMapper) ToEntity(s *model.Session) *entity.Session {
	if s == nil {
		return nil
	}

	var plan *scenario.Plan
	if len(s.ScenarioMeta) > 0 {
		var parsed scenario.Plan
		// A corrupt plan column degrades to "no plan"; the service decides
		// whether a fixture can cover for it.
		if err := json.Unmarshal(s.ScenarioMeta, &parsed); err == nil && parsed.ArchetypeId != "" {
			plan = &parsed
		}
	}

	return &entity.Session{
		Id:                s.Id,
		TraineeName:       s.TraineeName,
		TraineeEmail:      s.TraineeEmail,
		Mode:              s.Mode,
		Plan:              plan,
		FixtureScenarioId: s.FixtureScenarioId,
		StepsTotal:        s.StepsTotal,
		CurrentStep:       s.CurrentStep,
		Status:            s.Status,
		TerminationReason: s.TerminationReason,
		TotalScore:        s.TotalScore,
		PassFail:          s.PassFail,
		CreatedAt:         s.CreatedAt,
		FinishedAt:        s.FinishedAt,
	}
}

func (m *SessionMapper) ToModel(s *entity.Session) *model.Session {
	if s == nil {
		return nil
	}

	var meta []byte
	if s.Plan != nil {
		meta, _ = json.Marshal(s.Plan)
	}

	return &model.Session{
		Id:                s.Id,
		TraineeName:       s.TraineeName,
		TraineeEmail:      s.TraineeEmail,
		Mode:              s.Mode,
		ScenarioMeta:      meta,
		FixtureScenarioId: s.FixtureScenarioId,
		StepsTotal:        s.StepsTotal,
		CurrentStep:       s.CurrentStep,
		Status:            s.Status,
		TerminationReason: s.TerminationReason,
		TotalScore:        s.TotalScore,
		PassFail:          s.PassFail,
		FinishedAt:        s.FinishedAt,
		CreatedAt:         s.CreatedAt,
	}
}

func (m *SessionMapper) TurnToEntity(t *model.Turn) *entity.Turn {
	if t == nil {
		return nil
	}
	return &entity.Turn{
		Id:        t.Id,
		SessionId: t.SessionId,
		Role:      t.Role,
		Text:      t.Text,
		CreatedAt: t.CreatedAt,
	}
}

func (m *SessionMapper) TurnToModel(t *entity.Turn) *model.Turn {
	if t == nil {
		return nil
	}
	return &model.Turn{
		Id:        t.Id,
		SessionId: t.SessionId,
		Role:      t.Role,
		Text:      t.Text,
		CreatedAt: t.CreatedAt,
	}
}
