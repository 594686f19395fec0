package mapper

import (
	"testing"
	"time"

	"doccoder-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDocumentMapper(t *testing.T) {
	m := NewDocumentMapper()
	now := time.Now()
	doc := &entity.Document{
		Id:         uuid.New(),
		UserId:     uuid.New(),
		FileName:   "a.pdf",
		Operation:  entity.OperationTranslate,
		Status:     entity.DocumentStatusCompleted,
		ResultJSON: []byte(`{"sections":[]}`),
		UpdatedAt:  &now,
	}

	back := m.ToEntity(m.ToModel(doc))

	assert.Equal(t, doc.Id, back.Id)
	assert.Equal(t, entity.OperationTranslate, back.Operation)
	assert.Equal(t, entity.DocumentStatusCompleted, back.Status)
	assert.JSONEq(t, `{"sections":[]}`, string(back.ResultJSON))
	assert.False(t, back.IsDeleted)

	doc.ResultJSON = nil
	assert.Nil(t, m.ToModel(doc).ResultJSON)
	assert.Nil(t, m.ToEntity(nil))
}

func TestDocumentChunkMapper(t *testing.T) {
	m := NewDocumentChunkMapper()
	c := &entity.DocumentChunk{DocumentId: uuid.New(), ChunkIndex: 2, PageNumber: 3, Content: "x", Embedding: []float32{0.1, 0.2}}

	back := m.ToEntity(m.ToModel(c))
	assert.Equal(t, c.Embedding, back.Embedding)
	assert.Equal(t, 3, back.PageNumber)
}
