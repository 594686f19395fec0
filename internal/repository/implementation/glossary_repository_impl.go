package implementation

import (
	"context"

	"doccoder-be/internal/entity"
	"doccoder-be/internal/mapper"
	"doccoder-be/internal/model"
	"doccoder-be/internal/repository/contract"
	"doccoder-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GlossaryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.GlossaryMapper
}

func NewGlossaryRepository(db *gorm.DB) contract.GlossaryRepository {
	return &GlossaryRepositoryImpl{
		db:     db,
		mapper: mapper.NewGlossaryMapper(),
	}
}

func (r *GlossaryRepositoryImpl) Create(ctx context.Context, entry *entity.GlossaryEntry) error {
	m := r.mapper.ToModel(entry)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*entry = *r.mapper.ToEntity(m)
	return nil
}

// Delete only removes entries owned by userId.
func (r *GlossaryRepositoryImpl) Delete(ctx context.Context, userId, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userId).Delete(&model.GlossaryEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GlossaryRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GlossaryEntry, error) {
	var models []*model.GlossaryEntry
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*entity.GlossaryEntry, len(models))
	for i, m := range models {
		out[i] = r.mapper.ToEntity(m)
	}
	return out, nil
}
