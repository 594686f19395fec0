package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"doccoder-be/internal/dto"
	"doccoder-be/internal/entity"
	"doccoder-be/internal/pkg/cache"
	"doccoder-be/internal/pkg/logger"
	"doccoder-be/internal/pkg/serverutils"
	"doccoder-be/internal/repository/contract"
	"doccoder-be/internal/repository/specification"
	"doccoder-be/internal/repository/unitofwork"
	"doccoder-be/pkg/ai"
	"doccoder-be/pkg/codec"
	"doccoder-be/pkg/content"
	"doccoder-be/pkg/language"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memDocuments keeps every write so tests can inspect the stored states.
type memDocuments struct {
	contract.DocumentRepository

	mu      sync.Mutex
	created []entity.Document
	updated []entity.Document
}

func (m *memDocuments) Create(_ context.Context, doc *entity.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, *doc)
	return nil
}

func (m *memDocuments) Update(_ context.Context, doc *entity.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updated = append(m.updated, *doc)
	return nil
}

func (m *memDocuments) FindOne(_ context.Context, _ ...specification.Specification) (*entity.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.created) == 0 {
		return nil, nil
	}
	doc := m.created[len(m.created)-1]
	return &doc, nil
}

func (m *memDocuments) last() entity.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updated[len(m.updated)-1]
}

type memUnitOfWork struct {
	docs *memDocuments
}

func (u memUnitOfWork) Begin(context.Context) error { return nil }
func (u memUnitOfWork) Commit() error               { return nil }
func (u memUnitOfWork) Rollback() error             { return nil }

func (u memUnitOfWork) DocumentRepository() contract.DocumentRepository           { return u.docs }
func (u memUnitOfWork) DocumentChunkRepository() contract.DocumentChunkRepository { return nil }
func (u memUnitOfWork) GlossaryRepository() contract.GlossaryRepository           { return nil }

type memFactory struct {
	docs *memDocuments
}

func (f memFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork {
	return memUnitOfWork{docs: f.docs}
}

type recordingPublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (p *recordingPublisher) Publish(_ context.Context, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.payloads)
}

func newTestDocumentService(p *fakeLLM) (IDocumentService, *memDocuments, *recordingPublisher) {
	docs := &memDocuments{}
	pub := &recordingPublisher{}
	svc := NewDocumentService(
		memFactory{docs: docs},
		newFakeAI(p),
		codec.NewReader(codec.PlaceholderExtractor{}),
		language.Default(),
		pub,
		nil,
		nil,
		cache.NewMemoryCache(time.Minute),
		"openai/gpt-4-mini",
		10*time.Second,
		logger.NewNopLogger(),
	)
	return svc, docs, pub
}

func TestProcessTranslate(t *testing.T) {
	p := &fakeLLM{replies: map[string]string{
		"split it into logical sections": `[{"title": "Greeting", "content": "hola mundo"}]`,
		"for grammar, spelling":          `[{"type": "grammar", "original": "hola", "suggestion": "Hola", "severity": "high"}]`,
		"for cultural sensitivity":       `[]`,
	}}
	svc, docs, pub := newTestDocumentService(p)
	userId := uuid.New()

	res, err := svc.Process(context.Background(), userId, "", &dto.ProcessDocumentRequest{
		File:      textFile("greeting.txt", "hello world"),
		Operation: "translate",
		Language:  "es",
	})
	require.NoError(t, err)

	result, ok := res.Result.(dto.TranslateResult)
	require.True(t, ok, "unexpected result type %T", res.Result)
	assert.Equal(t, []content.StructuredData{{Title: "Greeting", Content: "hola mundo", Language: "es"}}, result.Sections)
	assert.Equal(t, []string{"Fix 1 critical grammar error(s) before publishing"}, result.Review)

	assert.Equal(t, "completed", res.Document.Status)
	assert.Equal(t, "translate", res.Document.Operation)
	assert.Equal(t, "es", res.Document.Language)
	assert.Equal(t, "openai/gpt-4-mini", res.Document.Model)

	require.Len(t, docs.created, 1)
	assert.Equal(t, entity.DocumentStatusProcessing, docs.created[0].Status)
	assert.Equal(t, userId, docs.created[0].UserId)

	stored := docs.last()
	assert.Equal(t, entity.DocumentStatusCompleted, stored.Status)
	assert.Equal(t, "hola mundo", stored.ResultText)

	var raw struct {
		Sections []content.StructuredData `json:"sections"`
		Review   []string                 `json:"review"`
	}
	require.NoError(t, json.Unmarshal(stored.ResultJSON, &raw))
	assert.Len(t, raw.Sections, 1)
	assert.Len(t, raw.Review, 1)

	assert.Equal(t, 1, pub.count())
}

func TestProcessFailureMarksDocument(t *testing.T) {
	tests := []struct {
		name string
		req  *dto.ProcessDocumentRequest
	}{
		{
			name: "summary fails",
			req:  &dto.ProcessDocumentRequest{File: textFile("notes.txt", "some notes"), Operation: "summarize"},
		},
		{
			name: "edit returns nothing",
			req:  &dto.ProcessDocumentRequest{File: textFile("notes.txt", "some notes"), Operation: "edit", Instruction: "shorten"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, docs, pub := newTestDocumentService(&fakeLLM{})

			res, err := svc.Process(context.Background(), uuid.New(), "", tt.req)
			require.Error(t, err)
			assert.Nil(t, res)

			var appErr *serverutils.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, 500, appErr.Status)
			assert.Equal(t, serverutils.CodeProcessInterrupt, appErr.Code)
			assert.Equal(t, "notes.txt", appErr.FileName)
			assert.ErrorIs(t, err, ai.ErrEmptyGeneration)

			stored := docs.last()
			assert.Equal(t, entity.DocumentStatusFailed, stored.Status)
			assert.NotEmpty(t, stored.Error)
			assert.NotNil(t, stored.UpdatedAt)
			assert.Zero(t, pub.count())
		})
	}
}

func TestProcessValidation(t *testing.T) {
	svc, docs, _ := newTestDocumentService(&fakeLLM{})
	file := textFile("a.txt", "text")

	t.Run("unknown operation", func(t *testing.T) {
		_, err := svc.Process(context.Background(), uuid.New(), "", &dto.ProcessDocumentRequest{File: file, Operation: "shred"})
		var verr *serverutils.ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("edit without instruction", func(t *testing.T) {
		_, err := svc.Process(context.Background(), uuid.New(), "", &dto.ProcessDocumentRequest{File: file, Operation: "edit", Instruction: "  "})
		assert.Equal(t, serverutils.CodeValidation, appCode(t, err))
	})

	t.Run("unknown language", func(t *testing.T) {
		_, err := svc.Process(context.Background(), uuid.New(), "", &dto.ProcessDocumentRequest{File: file, Operation: "translate", Language: "xx-YY"})
		assert.Equal(t, serverutils.CodeUnsupportedLanguage, appCode(t, err))
	})

	t.Run("unreadable source", func(t *testing.T) {
		bad := content.UploadedFile{Name: "scan.pdf", MimeType: "application/pdf", Data: []byte("not a pdf")}
		_, err := svc.Process(context.Background(), uuid.New(), "", &dto.ProcessDocumentRequest{File: bad, Operation: "summarize"})
		assert.Equal(t, serverutils.CodeInvalidSource, appCode(t, err))
	})

	assert.Empty(t, docs.created)
}

func TestContentPreview(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "short", content: "hello", want: "hello"},
		{name: "exactly the limit", content: strings.Repeat("a", 500), want: strings.Repeat("a", 500)},
		{name: "over the limit", content: strings.Repeat("a", 501), want: strings.Repeat("a", 500) + "..."},
		{name: "counts runes", content: strings.Repeat("ü", 600), want: strings.Repeat("ü", 500) + "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestDocumentService(&fakeLLM{})

			res, err := svc.Create(context.Background(), uuid.New(), &dto.CreateDocumentRequest{
				FileName: "doc.txt",
				Content:  tt.content,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.ContentPreview)
		})
	}
}

func TestShowKeepsFullResult(t *testing.T) {
	doc := &entity.Document{
		Id:         uuid.New(),
		Content:    strings.Repeat("x", 800),
		ResultText: "done",
		ResultJSON: []byte(`{"text":"done"}`),
	}

	listed := toDocumentResponse(doc, false)
	assert.Empty(t, listed.ResultText)
	assert.Nil(t, listed.Result)

	shown := toDocumentResponse(doc, true)
	assert.Equal(t, "done", shown.ResultText)
	assert.JSONEq(t, `{"text":"done"}`, string(shown.Result))
	assert.Len(t, []rune(shown.ContentPreview), 503)
}
