package implementation

import (
	"context"
	"errors"

	"avatar-trainer-be/internal/mapper"
	"avatar-trainer-be/internal/model"
	"avatar-trainer-be/internal/repository/contract"
	"avatar-trainer-be/pkg/scenario"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ArchetypeRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ArchetypeMapper
}

func NewArchetypeRepository(db *gorm.DB) contract.ArchetypeRepository {
	return &ArchetypeRepositoryImpl{
		db:     db,
		mapper: mapper.NewArchetypeMapper(),
	}
}

func (r *ArchetypeRepositoryImpl) Upsert(ctx context.Context, archetype *scenario.Archetype) error {
	m := r.mapper.ToModel(archetype)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(m).Error
}

func (r *ArchetypeRepositoryImpl) FindAll(ctx context.Context) ([]*scenario.Archetype, error) {
	var models []*model.Archetype
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	archetypes := make([]*scenario.Archetype, len(models))
	for i, m := range models {
		archetypes[i] = r.mapper.ToEntity(m)
	}
	return archetypes, nil
}

func (r *ArchetypeRepositoryImpl) FindById(ctx context.Context, id string) (*scenario.Archetype, error) {
	var m model.Archetype
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}
