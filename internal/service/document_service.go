package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"doccoder-be/internal/dto"
	"doccoder-be/internal/entity"
	"doccoder-be/internal/pkg/cache"
	"doccoder-be/internal/pkg/logger"
	"doccoder-be/internal/pkg/mailer"
	"doccoder-be/internal/pkg/serverutils"
	"doccoder-be/internal/repository/specification"
	"doccoder-be/internal/repository/unitofwork"
	"doccoder-be/pkg/ai"
	"doccoder-be/pkg/codec"
	"doccoder-be/pkg/events"
	"doccoder-be/pkg/language"
	pktNats "doccoder-be/pkg/nats"

	"github.com/google/uuid"
)

const (
	documentLog    = "DOCUMENT"
	previewLen     = 500
	historyLimit   = 10
	summaryWords   = 150
	statsTTL       = 60 * time.Second
	statsKeyPrefix = "doccoder:stats:"
)

type IDocumentService interface {
	Process(ctx context.Context, userId uuid.UUID, email string, req *dto.ProcessDocumentRequest) (*dto.ProcessDocumentResponse, error)
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateDocumentRequest) (*dto.DocumentResponse, error)
	List(ctx context.Context, userId uuid.UUID, req *dto.ListDocumentsRequest) (*dto.DocumentListResponse, error)
	Show(ctx context.Context, userId, id uuid.UUID) (*dto.DocumentResponse, error)
	Delete(ctx context.Context, userId, id uuid.UUID) error
	History(ctx context.Context, userId uuid.UUID) ([]*dto.DocumentResponse, error)
	Stats(ctx context.Context, userId uuid.UUID) (*entity.DocumentStats, error)
	Reingest(ctx context.Context, userId, id uuid.UUID) error
}

type documentService struct {
	uowFactory       unitofwork.RepositoryFactory
	ai               *ai.Service
	reader           *codec.Reader
	languages        *language.Table
	publisherService IPublisherService
	eventPublisher   pktNats.EventPublisher
	emailService     mailer.IEmailService
	cache            cache.Cache
	defaultAlias     string
	timeout          time.Duration
	logger           logger.ILogger
}

// NewDocumentService accepts a nil emailService when SMTP is not configured.
func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	aiService *ai.Service,
	reader *codec.Reader,
	languages *language.Table,
	publisherService IPublisherService,
	eventPublisher pktNats.EventPublisher,
	emailService mailer.IEmailService,
	statsCache cache.Cache,
	defaultAlias string,
	timeout time.Duration,
	log logger.ILogger,
) IDocumentService {
	if eventPublisher == nil {
		eventPublisher = pktNats.NopPublisher{}
	}
	return &documentService{
		uowFactory:       uowFactory,
		ai:               aiService,
		reader:           reader,
		languages:        languages,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		emailService:     emailService,
		cache:            statsCache,
		defaultAlias:     defaultAlias,
		timeout:          timeout,
		logger:           log,
	}
}

func (s *documentService) Process(ctx context.Context, userId uuid.UUID, email string, req *dto.ProcessDocumentRequest) (*dto.ProcessDocumentResponse, error) {
	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}
	op := entity.DocumentOperation(req.Operation)
	if op == entity.OperationEdit && strings.TrimSpace(req.Instruction) == "" {
		return nil, serverutils.BadRequest(serverutils.CodeValidation, "The edit operation needs an instruction.")
	}

	lang := s.languages.DefaultCode()
	if req.Language != "" {
		code, ok := s.languages.Canonical(req.Language)
		if !ok {
			return nil, serverutils.UnsupportedLanguage(req.Language)
		}
		lang = code
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	extracted, err := s.reader.Read(ctx, req.File)
	if err != nil {
		return nil, sourceError(req.File.Name, err)
	}

	alias := req.Model
	if alias == "" {
		alias = s.defaultAlias
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc := entity.Document{
		Id:        uuid.New(),
		UserId:    userId,
		FileName:  req.File.Name,
		FileType:  string(codec.Detect(req.File.Name, req.File.MimeType, req.File.Data)),
		FileSize:  int64(len(req.File.Data)),
		Content:   extracted.Text,
		Operation: op,
		Model:     alias,
		Language:  lang,
		Status:    entity.DocumentStatusProcessing,
		CreatedAt: time.Now(),
	}
	if err := uow.DocumentRepository().Create(ctx, &doc); err != nil {
		return nil, err
	}

	var (
		result interface{}
		text   string
		opErr  error
	)
	switch op {
	case entity.OperationTranslate:
		result, text = s.translate(ctx, alias, extracted.Text, lang, req.Instruction)
	case entity.OperationSummarize:
		text = s.ai.Summarize(ctx, alias, extracted.Text, summaryWords)
		if text == ai.SummaryFailed {
			opErr = ai.ErrEmptyGeneration
		}
		result = dto.TextResult{Text: text}
	case entity.OperationOCR:
		text = extracted.Text
		if extracted.Image != nil {
			text, opErr = s.ai.OCR(ctx, alias, extracted.Image)
			doc.Content = text
		}
		result = dto.TextResult{Text: text}
	case entity.OperationEdit:
		text, opErr = s.ai.Edit(ctx, alias, extracted.Text, req.Instruction)
		result = dto.TextResult{Text: text}
	}

	if opErr == nil && strings.TrimSpace(text) == "" {
		opErr = ai.ErrEmptyGeneration
	}
	if opErr != nil {
		s.fail(ctx, &doc, email, opErr)
		return nil, serverutils.ProcessInterrupt(doc.FileName, opErr)
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	doc.Status = entity.DocumentStatusCompleted
	doc.ResultText = text
	doc.ResultJSON = raw
	doc.UpdatedAt = &now
	if err := uow.DocumentRepository().Update(ctx, &doc); err != nil {
		return nil, err
	}
	s.invalidateStats(ctx, userId)

	s.publish(ctx, events.NewDocumentProcessed(doc.Id.String(), userId.String(), doc.FileName, string(op)))
	s.enqueue(ctx, doc.Id)
	s.mail(email, doc.Id, func() error { return s.emailService.SendDocumentReady(email, doc.FileName, string(op)) })

	return &dto.ProcessDocumentResponse{
		Document: toDocumentResponse(&doc, false),
		Result:   result,
	}, nil
}

// translate returns the structured translation and the review recommendations
// for it. Both degrade to fallbacks rather than failing.
func (s *documentService) translate(ctx context.Context, alias, text, lang, instruction string) (dto.TranslateResult, string) {
	langFull := s.languages.Full(lang)
	sections := s.ai.TranslateStructured(ctx, alias, text, langFull, lang, instruction)

	parts := make([]string, 0, len(sections))
	for _, sec := range sections {
		parts = append(parts, sec.Content)
	}
	joined := strings.Join(parts, "\n\n")

	review := s.ai.Review(ctx, alias, joined, langFull, "")
	recommendations := review.Recommendations
	if recommendations == nil {
		recommendations = []string{}
	}
	return dto.TranslateResult{Sections: sections, Review: recommendations}, joined
}

func (s *documentService) fail(ctx context.Context, doc *entity.Document, email string, cause error) {
	now := time.Now()
	doc.Status = entity.DocumentStatusFailed
	doc.Error = cause.Error()
	doc.UpdatedAt = &now

	// the request context may already be past its deadline
	bg := context.WithoutCancel(ctx)
	if err := s.uowFactory.NewUnitOfWork(bg).DocumentRepository().Update(bg, doc); err != nil {
		s.logger.Error(documentLog, "Failed to mark document failed", map[string]interface{}{"document_id": doc.Id, "error": err.Error()})
	}
	s.invalidateStats(bg, doc.UserId)

	s.publish(bg, events.NewDocumentFailed(doc.Id.String(), doc.UserId.String(), doc.FileName, string(doc.Operation), cause))
	s.mail(email, doc.Id, func() error { return s.emailService.SendDocumentFailed(email, doc.FileName, string(doc.Operation)) })
}

// mail sends in the background so SMTP latency never reaches the response.
func (s *documentService) mail(email string, docId uuid.UUID, send func() error) {
	if s.emailService == nil || email == "" {
		return
	}
	go func() {
		if err := send(); err != nil {
			s.logger.Warn(documentLog, "Document mail failed", map[string]interface{}{"document_id": docId, "error": err.Error()})
		}
	}()
}

func (s *documentService) publish(ctx context.Context, evt events.Event) {
	// events are auxiliary; a broker outage never fails the request
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn(documentLog, "Failed to publish event", map[string]interface{}{"type": evt.EventType(), "error": err.Error()})
	}
}

func (s *documentService) enqueue(ctx context.Context, id uuid.UUID) {
	payload, err := json.Marshal(dto.IngestDocumentMessage{DocumentId: id})
	if err == nil {
		err = s.publisherService.Publish(ctx, payload)
	}
	if err != nil {
		s.logger.Warn(documentLog, "Failed to enqueue ingestion", map[string]interface{}{"document_id": id, "error": err.Error()})
	}
}

func (s *documentService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateDocumentRequest) (*dto.DocumentResponse, error) {
	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}

	lang := req.Language
	if lang != "" {
		code, ok := s.languages.Canonical(lang)
		if !ok {
			return nil, serverutils.UnsupportedLanguage(lang)
		}
		lang = code
	}

	fileSize := req.FileSize
	if fileSize == 0 {
		fileSize = int64(len(req.Content))
	}
	doc := entity.Document{
		Id:        uuid.New(),
		UserId:    userId,
		FileName:  req.FileName,
		FileType:  req.FileType,
		FileSize:  fileSize,
		Content:   req.Content,
		Operation: entity.OperationUpload,
		Language:  lang,
		Status:    entity.DocumentStatusCompleted,
		CreatedAt: time.Now(),
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.DocumentRepository().Create(ctx, &doc); err != nil {
		return nil, err
	}
	s.invalidateStats(ctx, userId)
	s.enqueue(ctx, doc.Id)

	return toDocumentResponse(&doc, false), nil
}

func (s *documentService) List(ctx context.Context, userId uuid.UUID, req *dto.ListDocumentsRequest) (*dto.DocumentListResponse, error) {
	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	filters := []specification.Specification{
		specification.UserOwnedBy{UserID: userId},
		specification.ByStatus{Status: req.Status},
	}
	page := specification.Pagination{Limit: req.Limit, Offset: req.Offset}

	docs, err := uow.DocumentRepository().FindAll(ctx, append(filters,
		specification.OrderBy{Field: "created_at", Desc: true},
		page,
	)...)
	if err != nil {
		return nil, err
	}
	total, err := uow.DocumentRepository().Count(ctx, filters...)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		items = append(items, toDocumentResponse(d, false))
	}
	limit := req.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return &dto.DocumentListResponse{Items: items, Total: total, Limit: limit, Offset: req.Offset}, nil
}

func (s *documentService) find(ctx context.Context, userId, id uuid.UUID) (*entity.Document, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, serverutils.NotFound("Document not found.")
	}
	return doc, nil
}

func (s *documentService) Show(ctx context.Context, userId, id uuid.UUID) (*dto.DocumentResponse, error) {
	doc, err := s.find(ctx, userId, id)
	if err != nil {
		return nil, err
	}
	return toDocumentResponse(doc, true), nil
}

func (s *documentService) Delete(ctx context.Context, userId, id uuid.UUID) error {
	if _, err := s.find(ctx, userId, id); err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.DocumentChunkRepository().DeleteByDocumentId(ctx, id); err != nil {
		return err
	}
	if err := uow.DocumentRepository().Delete(ctx, id); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}
	s.invalidateStats(ctx, userId)
	return nil
}

func (s *documentService) History(ctx context.Context, userId uuid.UUID) ([]*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	docs, err := uow.DocumentRepository().Recent(ctx, userId, historyLimit)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, toDocumentResponse(d, false))
	}
	return out, nil
}

func (s *documentService) Stats(ctx context.Context, userId uuid.UUID) (*entity.DocumentStats, error) {
	key := statsKeyPrefix + userId.String()
	if raw, ok := s.cache.Get(ctx, key); ok {
		var cached entity.DocumentStats
		if err := json.Unmarshal(raw, &cached); err == nil {
			return &cached, nil
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	stats, err := uow.DocumentRepository().Stats(ctx, userId)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(stats); err == nil {
		if err := s.cache.Set(ctx, key, raw, statsTTL); err != nil {
			s.logger.Warn(documentLog, "Failed to cache stats", map[string]interface{}{"error": err.Error()})
		}
	}
	return stats, nil
}

func (s *documentService) invalidateStats(ctx context.Context, userId uuid.UUID) {
	_ = s.cache.Delete(ctx, statsKeyPrefix+userId.String())
}

func (s *documentService) Reingest(ctx context.Context, userId, id uuid.UUID) error {
	doc, err := s.find(ctx, userId, id)
	if err != nil {
		return err
	}
	if doc.Status != entity.DocumentStatusCompleted {
		return serverutils.BadRequest(serverutils.CodeValidation,
			fmt.Sprintf("Document is %s and cannot be ingested.", doc.Status))
	}
	payload, err := json.Marshal(dto.IngestDocumentMessage{DocumentId: doc.Id})
	if err != nil {
		return err
	}
	return s.publisherService.Publish(ctx, payload)
}

// sourceError maps reader failures onto client errors naming the file.
func sourceError(fileName string, err error) error {
	switch {
	case errors.Is(err, codec.ErrUnsupportedFormat):
		e := serverutils.BadRequest(serverutils.CodeUnsupportedFormat, fmt.Sprintf("File type of %s is not supported.", fileName))
		e.FileName = fileName
		return e
	case errors.Is(err, codec.ErrCorruptFile), errors.Is(err, codec.ErrEmptyContent):
		e := serverutils.BadRequest(serverutils.CodeInvalidSource, fmt.Sprintf("File %s could not be read.", fileName))
		e.FileName = fileName
		return e
	}
	return serverutils.ProcessInterrupt(fileName, err)
}

func toDocumentResponse(d *entity.Document, withResult bool) *dto.DocumentResponse {
	preview := d.Content
	if r := []rune(preview); len(r) > previewLen {
		preview = string(r[:previewLen]) + "..."
	}
	out := &dto.DocumentResponse{
		Id:             d.Id,
		FileName:       d.FileName,
		FileType:       d.FileType,
		FileSize:       d.FileSize,
		ContentPreview: preview,
		Operation:      string(d.Operation),
		Model:          d.Model,
		Language:       d.Language,
		Status:         string(d.Status),
		Error:          d.Error,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
	if withResult {
		out.ResultText = d.ResultText
		if len(d.ResultJSON) > 0 {
			out.Result = json.RawMessage(d.ResultJSON)
		}
	}
	return out
}
