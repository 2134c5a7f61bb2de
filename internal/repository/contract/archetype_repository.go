package contract

import (
	"context"

	"avatar-trainer-be/pkg/scenario"
)

// ArchetypeRepository is the read-mostly store of scenario topic templates.
// It satisfies scenario.ArchetypeSource.
type ArchetypeRepository interface {
	Upsert(ctx context.Context, archetype *scenario.Archetype) error
	FindAll(ctx context.Context) ([]*scenario.Archetype, error)
	FindById(ctx context.Context, id string) (*scenario.Archetype, error)
}
