package implementation

import (
	"context"
	"errors"

	"avatar-trainer-be/internal/entity"
	"avatar-trainer-be/internal/mapper"
	"avatar-trainer-be/internal/model"
	"avatar-trainer-be/internal/repository/contract"
	"avatar-trainer-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type KnowledgeDocRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.KnowledgeMapper
}

func NewKnowledgeDocRepository(db *gorm.DB) contract.KnowledgeDocRepository {
	return &KnowledgeDocRepositoryImpl{
		db:     db,
		mapper: mapper.NewKnowledgeMapper(),
	}
}

func (r *KnowledgeDocRepositoryImpl) Create(ctx context.Context, doc *entity.KnowledgeDoc) error {
	m := r.mapper.DocToModel(doc)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*doc = *r.mapper.DocToEntity(m)
	return nil
}

func (r *KnowledgeDocRepositoryImpl) Update(ctx context.Context, doc *entity.KnowledgeDoc) error {
	m := r.mapper.DocToModel(doc)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*doc = *r.mapper.DocToEntity(m)
	return nil
}

func (r *KnowledgeDocRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.KnowledgeDoc{}, id).Error
}

func (r *KnowledgeDocRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.KnowledgeDoc, error) {
	var m model.KnowledgeDoc
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.DocToEntity(&m), nil
}

func (r *KnowledgeDocRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.KnowledgeDoc, error) {
	var models []*model.KnowledgeDoc
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.KnowledgeDoc, len(models))
	for i, m := range models {
		entities[i] = r.mapper.DocToEntity(m)
	}
	return entities, nil
}

type KnowledgeChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.KnowledgeMapper
}

func NewKnowledgeChunkRepository(db *gorm.DB) contract.KnowledgeChunkRepository {
	return &KnowledgeChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewKnowledgeMapper(),
	}
}

func (r *KnowledgeChunkRepositoryImpl) CreateBatch(ctx context.Context, chunks []*entity.KnowledgeChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	models := make([]*model.KnowledgeChunk, len(chunks))
	for i, c := range chunks {
		models[i] = r.mapper.ChunkToModel(c)
	}
	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*chunks[i] = *r.mapper.ChunkToEntity(m)
	}
	return nil
}

func (r *KnowledgeChunkRepositoryImpl) DeleteByDocId(ctx context.Context, docId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("doc_id = ?", docId).Delete(&model.KnowledgeChunk{}).Error
}

func (r *KnowledgeChunkRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.KnowledgeChunk, error) {
	var models []*model.KnowledgeChunk
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.KnowledgeChunk, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ChunkToEntity(m)
	}
	return entities, nil
}
