package mapper

import (
	"time"

	"doccoder-be/internal/entity"
	"doccoder-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(d *model.Document) *entity.Document {
	if d == nil {
		return nil
	}

	var deletedAt *time.Time
	if d.DeletedAt.Valid {
		t := d.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !d.UpdatedAt.IsZero() {
		t := d.UpdatedAt
		updatedAt = &t
	}

	return &entity.Document{
		Id:         d.Id,
		UserId:     d.UserId,
		FileName:   d.FileName,
		FileType:   d.FileType,
		FileSize:   d.FileSize,
		Content:    d.Content,
		Operation:  entity.DocumentOperation(d.Operation),
		Model:      d.Model,
		Language:   d.Language,
		Status:     entity.DocumentStatus(d.Status),
		ResultText: d.ResultText,
		ResultJSON: []byte(d.ResultJSON),
		Error:      d.Error,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  updatedAt,
		DeletedAt:  deletedAt,
		IsDeleted:  d.DeletedAt.Valid,
	}
}

func (m *DocumentMapper) ToModel(d *entity.Document) *model.Document {
	if d == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if d.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *d.DeletedAt, Valid: true}
	} else if d.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if d.UpdatedAt != nil {
		updatedAt = *d.UpdatedAt
	}

	var result datatypes.JSON
	if len(d.ResultJSON) > 0 {
		result = datatypes.JSON(d.ResultJSON)
	}

	return &model.Document{
		Id:         d.Id,
		UserId:     d.UserId,
		FileName:   d.FileName,
		FileType:   d.FileType,
		FileSize:   d.FileSize,
		Content:    d.Content,
		Operation:  string(d.Operation),
		Model:      d.Model,
		Language:   d.Language,
		Status:     string(d.Status),
		ResultText: d.ResultText,
		ResultJSON: result,
		Error:      d.Error,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  updatedAt,
		DeletedAt:  deletedAt,
	}
}

func (m *DocumentMapper) ToEntities(docs []*model.Document) []*entity.Document {
	out := make([]*entity.Document, len(docs))
	for i, d := range docs {
		out[i] = m.ToEntity(d)
	}
	return out
}

type DocumentChunkMapper struct{}

func NewDocumentChunkMapper() *DocumentChunkMapper {
	return &DocumentChunkMapper{}
}

func (m *DocumentChunkMapper) ToEntity(c *model.DocumentChunk) *entity.DocumentChunk {
	if c == nil {
		return nil
	}
	return &entity.DocumentChunk{
		Id:         c.Id,
		DocumentId: c.DocumentId,
		ChunkIndex: c.ChunkIndex,
		PageNumber: c.PageNumber,
		Content:    c.Content,
		Embedding:  c.Embedding.Slice(),
		CreatedAt:  c.CreatedAt,
	}
}

func (m *DocumentChunkMapper) ToModel(c *entity.DocumentChunk) *model.DocumentChunk {
	if c == nil {
		return nil
	}
	return &model.DocumentChunk{
		Id:         c.Id,
		DocumentId: c.DocumentId,
		ChunkIndex: c.ChunkIndex,
		PageNumber: c.PageNumber,
		Content:    c.Content,
		Embedding:  pgvector.NewVector(c.Embedding),
		CreatedAt:  c.CreatedAt,
	}
}

type GlossaryMapper struct{}

func NewGlossaryMapper() *GlossaryMapper {
	return &GlossaryMapper{}
}

func (m *GlossaryMapper) ToEntity(g *model.GlossaryEntry) *entity.GlossaryEntry {
	if g == nil {
		return nil
	}
	var updatedAt *time.Time
	if !g.UpdatedAt.IsZero() {
		t := g.UpdatedAt
		updatedAt = &t
	}
	return &entity.GlossaryEntry{
		Id:             g.Id,
		UserId:         g.UserId,
		Term:           g.Term,
		Translation:    g.Translation,
		SourceLanguage: g.SourceLanguage,
		TargetLanguage: g.TargetLanguage,
		Context:        g.Context,
		Category:       g.Category,
		CreatedAt:      g.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

func (m *GlossaryMapper) ToModel(g *entity.GlossaryEntry) *model.GlossaryEntry {
	if g == nil {
		return nil
	}
	var updatedAt time.Time
	if g.UpdatedAt != nil {
		updatedAt = *g.UpdatedAt
	}
	return &model.GlossaryEntry{
		Id:             g.Id,
		UserId:         g.UserId,
		Term:           g.Term,
		Translation:    g.Translation,
		SourceLanguage: g.SourceLanguage,
		TargetLanguage: g.TargetLanguage,
		Context:        g.Context,
		Category:       g.Category,
		CreatedAt:      g.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}
