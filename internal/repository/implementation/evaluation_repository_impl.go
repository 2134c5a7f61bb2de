package implementation

import (
	"context"

	"avatar-trainer-be/internal/entity"
	"avatar-trainer-be/internal/mapper"
	"avatar-trainer-be/internal/model"
	"avatar-trainer-be/internal/repository/contract"
	"avatar-trainer-be/internal/repository/specification"

	"gorm.io/gorm"
)

type EvaluationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.EvaluationMapper
}

func NewEvaluationRepository(db *gorm.DB) contract.EvaluationRepository {
	return &EvaluationRepositoryImpl{
		db:     db,
		mapper: mapper.NewEvaluationMapper(),
	}
}

func (r *EvaluationRepositoryImpl) Create(ctx context.Context, evaluation *entity.Evaluation) error {
	m := r.mapper.ToModel(evaluation)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*evaluation = *r.mapper.ToEntity(m)
	return nil
}

func (r *EvaluationRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Evaluation, error) {
	var models []*model.Evaluation
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Evaluation, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}
