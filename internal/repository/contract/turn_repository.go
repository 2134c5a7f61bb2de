package contract

import (
	"context"

	"avatar-trainer-be/internal/entity"
	"avatar-trainer-be/internal/repository/specification"
)

type TurnRepository interface {
	Create(ctx context.Context, turn *entity.Turn) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Turn, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
