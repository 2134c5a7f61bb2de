package contract

import (
	"context"

	"avatar-trainer-be/internal/entity"
	"avatar-trainer-be/internal/repository/specification"
)

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *entity.Feedback) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Feedback, error)
}
