package contract

import (
	"context"

	"avatar-trainer-be/internal/entity"
	"avatar-trainer-be/internal/repository/specification"
)

type EvaluationRepository interface {
	Create(ctx context.Context, evaluation *entity.Evaluation) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Evaluation, error)
}
