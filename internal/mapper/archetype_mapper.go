package mapper

import (
	"encoding/json"

	"avatar-trainer-be/internal/dto"
	"avatar-trainer-be/internal/model"
	"avatar-trainer-be/pkg/scenario"
)

type ArchetypeMapper struct{}

func NewArchetypeMapper() *ArchetypeMapper {
	return &ArchetypeMapper{}
}

func (m *ArchetypeMapper) ToEntity(a *model.Archetype) *scenario.Archetype {
	if a == nil {
		return nil
	}

	out := &scenario.Archetype{
		Id:      a.Id,
		Title:   a.Title,
		Summary: a.Summary,
	}
	_ = json.Unmarshal(a.Topics, &out.Topics)
	_ = json.Unmarshal(a.SampleQuestions, &out.SampleQuestions)
	_ = json.Unmarshal(a.Gotchas, &out.Gotchas)
	_ = json.Unmarshal(a.Outcomes, &out.Outcomes)
	return out
}

func (m *ArchetypeMapper) ToModel(a *scenario.Archetype) *model.Archetype {
	if a == nil {
		return nil
	}

	topics, _ := json.Marshal(a.Topics)
	questions, _ := json.Marshal(a.SampleQuestions)
	gotchas, _ := json.Marshal(a.Gotchas)
	outcomes, _ := json.Marshal(a.Outcomes)

	return &model.Archetype{
		Id:              a.Id,
		Title:           a.Title,
		Summary:         a.Summary,
		Topics:          topics,
		SampleQuestions: questions,
		Gotchas:         gotchas,
		Outcomes:        outcomes,
	}
}

// ArchetypeFromRequest builds the domain archetype from an admin upsert
// request.
func ArchetypeFromRequest(req *dto.CreateArchetypeRequest) *scenario.Archetype {
	return &scenario.Archetype{
		Id:              req.Id,
		Title:           req.Title,
		Summary:         req.Summary,
		Topics:          req.Topics,
		SampleQuestions: req.SampleQuestions,
		Gotchas:         req.Gotchas,
		Outcomes:        req.Outcomes,
	}
}
