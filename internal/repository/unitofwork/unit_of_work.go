package unitofwork

import (
	"context"

	"avatar-trainer-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	SessionRepository() contract.SessionRepository
	TurnRepository() contract.TurnRepository
	EvaluationRepository() contract.EvaluationRepository
	KnowledgeDocRepository() contract.KnowledgeDocRepository
	KnowledgeChunkRepository() contract.KnowledgeChunkRepository
	ArchetypeRepository() contract.ArchetypeRepository
	FeedbackRepository() contract.FeedbackRepository
}
