package mapper

import (
	"encoding/json"

	"github.com/google/uuid"

	"avatar-trainer-be/internal/entity"
	"avatar-trainer-be/internal/model"
	"avatar-trainer-be/pkg/scoring"
)

type EvaluationMapper struct{}

func NewEvaluationMapper() *EvaluationMapper {
	return &EvaluationMapper{}
}

func (m *EvaluationMapper) ToEntity(e *model.Evaluation) *entity.Evaluation {
	if e == nil {
		return nil
	}

	out := &entity.Evaluation{
		Id:              e.Id,
		SessionId:       e.SessionId,
		TurnId:          e.TurnId,
		SuggestedAnswer: e.SuggestedAnswer,
		Total:           e.Total,
		Pass:            e.Pass,
		CreatedAt:       e.CreatedAt,
	}

	// Missing or corrupt JSON columns read as absent, not as errors: a turn
	// persisted without its evaluation detail must still load.
	_ = json.Unmarshal(e.Scores, &out.Scores)
	_ = json.Unmarshal(e.Flags, &out.Flags)
	_ = json.Unmarshal(e.Positives, &out.Positives)
	_ = json.Unmarshal(e.Mistakes, &out.Mistakes)
	_ = json.Unmarshal(e.Evidence, &out.Evidence)
	_ = json.Unmarshal(e.Explain, &out.Explain)

	return out
}

func (m *EvaluationMapper) ToModel(e *entity.Evaluation) *model.Evaluation {
	if e == nil {
		return nil
	}

	scores, _ := json.Marshal(e.Scores)
	flags, _ := json.Marshal(e.Flags)
	positives, _ := json.Marshal(e.Positives)
	mistakes, _ := json.Marshal(e.Mistakes)
	evidence, _ := json.Marshal(e.Evidence)
	explain, _ := json.Marshal(e.Explain)

	return &model.Evaluation{
		Id:              e.Id,
		SessionId:       e.SessionId,
		TurnId:          e.TurnId,
		Scores:          scores,
		Flags:           flags,
		Positives:       positives,
		Mistakes:        mistakes,
		SuggestedAnswer: e.SuggestedAnswer,
		Evidence:        evidence,
		Explain:         explain,
		Total:           e.Total,
		Pass:            e.Pass,
		CreatedAt:       e.CreatedAt,
	}
}

// FromResult builds a persistable evaluation entity from a scoring result.
func (m *EvaluationMapper) FromResult(sessionId, turnId uuid.UUID, r *scoring.Result) *entity.Evaluation {
	return &entity.Evaluation{
		SessionId:       sessionId,
		TurnId:          turnId,
		Scores:          r.Scores,
		Total:           r.Total,
		Pass:            r.Pass,
		Flags:           r.Flags,
		Positives:       r.Positives,
		Mistakes:        r.Mistakes,
		SuggestedAnswer: r.SuggestedAnswer,
		Evidence:        r.Evidence,
		Explain:         r.Explain,
	}
}
