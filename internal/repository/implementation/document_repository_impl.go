package implementation

import (
	"context"
	"errors"

	"doccoder-be/internal/entity"
	"doccoder-be/internal/mapper"
	"doccoder-be/internal/model"
	"doccoder-be/internal/repository/contract"
	"doccoder-be/internal/repository/scope"
	"doccoder-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DocumentMapper
}

func NewDocumentRepository(db *gorm.DB) contract.DocumentRepository {
	return &DocumentRepositoryImpl{
		db:     db,
		mapper: mapper.NewDocumentMapper(),
	}
}

func applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *DocumentRepositoryImpl) Create(ctx context.Context, doc *entity.Document) error {
	m := r.mapper.ToModel(doc)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*doc = *r.mapper.ToEntity(m)
	return nil
}

func (r *DocumentRepositoryImpl) Update(ctx context.Context, doc *entity.Document) error {
	m := r.mapper.ToModel(doc)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*doc = *r.mapper.ToEntity(m)
	return nil
}

func (r *DocumentRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Document{}, "id = ?", id).Error
}

// FindOne returns nil, nil when nothing matches.
func (r *DocumentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error) {
	var m model.Document
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *DocumentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	var models []*model.Document
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *DocumentRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Document{}), specs...)
	err := query.Count(&count).Error
	return count, err
}

func (r *DocumentRepositoryImpl) Recent(ctx context.Context, userId uuid.UUID, limit int) ([]*entity.Document, error) {
	var models []*model.Document
	err := r.db.WithContext(ctx).
		Scopes(scope.Recent(limit)).
		Where("user_id = ?", userId).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *DocumentRepositoryImpl) Stats(ctx context.Context, userId uuid.UUID) (*entity.DocumentStats, error) {
	type row struct {
		Key   string
		Count int64
	}
	stats := &entity.DocumentStats{
		ByStatus:    map[string]int64{},
		ByOperation: map[string]int64{},
	}

	group := func(column string, into map[string]int64) error {
		var rows []row
		err := r.db.WithContext(ctx).
			Model(&model.Document{}).
			Select(column+" AS key, COUNT(*) AS count").
			Where("user_id = ?", userId).
			Group(column).
			Scan(&rows).Error
		if err != nil {
			return err
		}
		for _, rw := range rows {
			into[rw.Key] = rw.Count
		}
		return nil
	}

	if err := group("status", stats.ByStatus); err != nil {
		return nil, err
	}
	if err := group("operation", stats.ByOperation); err != nil {
		return nil, err
	}
	for _, n := range stats.ByStatus {
		stats.Total += n
	}
	return stats, nil
}
