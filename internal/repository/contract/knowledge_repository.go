package contract

import (
	"context"

	"avatar-trainer-be/internal/entity"
	"avatar-trainer-be/internal/repository/specification"

	"github.com/google/uuid"
)

type KnowledgeDocRepository interface {
	Create(ctx context.Context, doc *entity.KnowledgeDoc) error
	Update(ctx context.Context, doc *entity.KnowledgeDoc) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.KnowledgeDoc, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.KnowledgeDoc, error)
}

type KnowledgeChunkRepository interface {
	CreateBatch(ctx context.Context, chunks []*entity.KnowledgeChunk) error
	DeleteByDocId(ctx context.Context, docId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.KnowledgeChunk, error)
}
