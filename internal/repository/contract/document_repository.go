package contract

import (
	"context"

	"doccoder-be/internal/entity"
	"doccoder-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	Update(ctx context.Context, doc *entity.Document) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	Recent(ctx context.Context, userId uuid.UUID, limit int) ([]*entity.Document, error)
	Stats(ctx context.Context, userId uuid.UUID) (*entity.DocumentStats, error)
}
