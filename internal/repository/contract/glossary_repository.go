package contract

import (
	"context"

	"doccoder-be/internal/entity"
	"doccoder-be/internal/repository/specification"

	"github.com/google/uuid"
)

type GlossaryRepository interface {
	Create(ctx context.Context, entry *entity.GlossaryEntry) error
	Delete(ctx context.Context, userId, id uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GlossaryEntry, error)
}
