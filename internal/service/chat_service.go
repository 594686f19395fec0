package service

import (
	"context"
	"errors"
	"strings"

	"doccoder-be/internal/dto"
	"doccoder-be/internal/pkg/logger"
	"doccoder-be/internal/pkg/serverutils"
	"doccoder-be/internal/repository/specification"
	"doccoder-be/internal/repository/unitofwork"
	"doccoder-be/pkg/ai"
	"doccoder-be/pkg/language"
	"doccoder-be/pkg/llm"
	"doccoder-be/pkg/rag"
	"doccoder-be/pkg/rag/grounded"

	"github.com/google/uuid"
)

const chatLog = "CHAT"

type IChatService interface {
	Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
	ChatTranslate(ctx context.Context, userId uuid.UUID, req *dto.ChatTranslateRequest) (*dto.ChatTranslateResponse, error)
}

type chatService struct {
	uowFactory   unitofwork.RepositoryFactory
	retriever    *rag.Retriever
	engine       *grounded.Engine
	ai           *ai.Service
	glossary     IGlossaryService
	languages    *language.Table
	defaultAlias string
	logger       logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	retriever *rag.Retriever,
	engine *grounded.Engine,
	aiService *ai.Service,
	glossary IGlossaryService,
	languages *language.Table,
	defaultAlias string,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:   uowFactory,
		retriever:    retriever,
		engine:       engine,
		ai:           aiService,
		glossary:     glossary,
		languages:    languages,
		defaultAlias: defaultAlias,
		logger:       log,
	}
}

func toLLMMessages(in []dto.ChatMessage) []llm.Message {
	out := make([]llm.Message, 0, len(in))
	for _, m := range in {
		out = append(out, llm.Message{Role: m.Role, Content: m.Content})
	}
	return out
}

func (s *chatService) Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	req.Mode = strings.ToLower(strings.TrimSpace(req.Mode))
	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}

	source := req.Context
	sourceName := req.SourceName
	if source == "" && req.DocumentId != "" {
		doc, err := s.uowFactory.NewUnitOfWork(ctx).DocumentRepository().FindOne(ctx,
			specification.ByID{ID: uuid.MustParse(req.DocumentId)})
		if err != nil {
			return nil, err
		}
		if doc == nil {
			return nil, serverutils.NotFound("Document not found.")
		}
		source = doc.Content
		if sourceName == "" {
			sourceName = doc.FileName
		}
	}
	if sourceName == "" {
		sourceName = "document"
	}

	if reply, stop := grounded.Guard(req.Query, source); stop {
		return &dto.ChatResponse{Answer: reply, Citations: "None", Confidence: string(grounded.ConfidenceNotFound)}, nil
	}

	retrieval := s.retriever.GetRelevantContext(ctx, req.Query, source, sourceName, req.DocumentId)

	alias := req.Model
	if alias == "" {
		alias = s.defaultAlias
	}
	lang := req.Language
	if code, ok := s.languages.Canonical(lang); ok {
		lang = code
	}
	answer := s.engine.Answer(ctx, alias, req.Query, retrieval.Content, grounded.Options{
		Language: lang,
		Mode:     grounded.Mode(strings.ToLower(req.Mode)),
		Messages: toLLMMessages(req.Messages),
	})

	s.logger.Info(chatLog, "Grounded answer", map[string]interface{}{
		"request_id": serverutils.RequestIDFrom(ctx),
		"strategy":   retrieval.Metadata.Strategy,
		"intent":     retrieval.Metadata.Intent,
		"confidence": string(answer.Confidence),
	})

	meta := retrieval.Metadata
	return &dto.ChatResponse{
		Answer:     answer.Answer,
		Citations:  answer.Citations,
		Confidence: string(answer.Confidence),
		Retrieval:  &meta,
	}, nil
}

func (s *chatService) ChatTranslate(ctx context.Context, userId uuid.UUID, req *dto.ChatTranslateRequest) (*dto.ChatTranslateResponse, error) {
	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}

	lang := s.languages.DefaultCode()
	if req.TargetLanguage != "" {
		code, ok := s.languages.Canonical(req.TargetLanguage)
		if !ok {
			return nil, serverutils.UnsupportedLanguage(req.TargetLanguage)
		}
		lang = code
	}

	messages := toLLMMessages(req.Messages)
	if req.UseGlossary && s.glossary != nil {
		last := &messages[len(messages)-1]
		applied, err := s.glossary.Apply(ctx, userId, last.Content, lang)
		if err != nil {
			return nil, err
		}
		last.Content = applied
	}

	alias := req.Model
	if alias == "" {
		alias = s.defaultAlias
	}
	out, err := s.ai.ChatTranslate(ctx, alias, messages, s.languages.Full(lang), req.Tone)
	if err != nil {
		if errors.Is(err, llm.ErrProviderKey) {
			return nil, serverutils.AuthFault(err.Error(), err)
		}
		return nil, err
	}
	return &dto.ChatTranslateResponse{Role: "assistant", Content: out}, nil
}
