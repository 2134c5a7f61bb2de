package mapper

import (
	"avatar-trainer-be/internal/entity"
	"avatar-trainer-be/internal/model"
	"avatar-trainer-be/pkg/retrieval"
)

type KnowledgeMapper struct{}

func NewKnowledgeMapper() *KnowledgeMapper {
	return &KnowledgeMapper{}
}

func (m *KnowledgeMapper) DocToEntity(d *model.KnowledgeDoc) *entity.KnowledgeDoc {
	if d == nil {
		return nil
	}
	out := &entity.KnowledgeDoc{
		Id:        d.Id,
		Title:     d.Title,
		Content:   d.Content,
		CreatedAt: d.CreatedAt,
	}
	if !d.UpdatedAt.IsZero() {
		t := d.UpdatedAt
		out.UpdatedAt = &t
	}
	return out
}

func (m *KnowledgeMapper) DocToModel(d *entity.KnowledgeDoc) *model.KnowledgeDoc {
	if d == nil {
		return nil
	}
	return &model.KnowledgeDoc{
		Id:      d.Id,
		Title:   d.Title,
		Content: d.Content,
	}
}

func (m *KnowledgeMapper) ChunkToEntity(c *model.KnowledgeChunk) *entity.KnowledgeChunk {
	if c == nil {
		return nil
	}
	return &entity.KnowledgeChunk{
		Id:        c.Id,
		DocId:     c.DocId,
		DocTitle:  c.DocTitle,
		Ord:       c.Ord,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
}

func (m *KnowledgeMapper) ChunkToModel(c *entity.KnowledgeChunk) *model.KnowledgeChunk {
	if c == nil {
		return nil
	}
	return &model.KnowledgeChunk{
		Id:       c.Id,
		DocId:    c.DocId,
		DocTitle: c.DocTitle,
		Ord:      c.Ord,
		Text:     c.Text,
	}
}

// ChunkToIndex converts a stored chunk to the in-memory index form.
func (m *KnowledgeMapper) ChunkToIndex(c *entity.KnowledgeChunk) retrieval.Chunk {
	return retrieval.Chunk{
		Id:       c.Id.String(),
		DocTitle: c.DocTitle,
		Text:     c.Text,
	}
}
