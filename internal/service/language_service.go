package service

import (
	"context"

	"doccoder-be/internal/dto"
	"doccoder-be/internal/pkg/serverutils"
	"doccoder-be/pkg/ai"
	"doccoder-be/pkg/language"
)

// ILanguageService exposes the translation quality tools.
type ILanguageService interface {
	Enhance(ctx context.Context, req *dto.EnhanceTranslationRequest) (*ai.Enhancement, error)
	Review(ctx context.Context, req *dto.ReviewRequest) (*ai.ReviewResult, error)
	Compare(ctx context.Context, req *dto.CompareRequest) (*ai.ComparisonResult, error)
}

type languageService struct {
	ai           *ai.Service
	languages    *language.Table
	defaultAlias string
}

func NewLanguageService(aiService *ai.Service, languages *language.Table, defaultAlias string) ILanguageService {
	return &languageService{ai: aiService, languages: languages, defaultAlias: defaultAlias}
}

func (s *languageService) alias(model string) string {
	if model != "" {
		return model
	}
	return s.defaultAlias
}

// fullName accepts a code or a display name. Names outside the table pass through.
func (s *languageService) fullName(lang string) string {
	if lang == "" {
		return ""
	}
	if _, ok := s.languages.Canonical(lang); ok {
		return s.languages.Full(lang)
	}
	return lang
}

func (s *languageService) Enhance(ctx context.Context, req *dto.EnhanceTranslationRequest) (*ai.Enhancement, error) {
	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}
	res := s.ai.Enhance(ctx, s.alias(req.Model), req.OriginalText, req.TranslatedText,
		ai.Tone(req.Tone), s.fullName(req.TargetLanguage))
	return &res, nil
}

func (s *languageService) Review(ctx context.Context, req *dto.ReviewRequest) (*ai.ReviewResult, error) {
	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}
	lang := s.fullName(req.Language)
	if lang == "" {
		lang = s.languages.Full(s.languages.DefaultCode())
	}
	res := s.ai.Review(ctx, s.alias(req.Model), req.Text, lang, req.Culture)
	return &res, nil
}

func (s *languageService) Compare(ctx context.Context, req *dto.CompareRequest) (*ai.ComparisonResult, error) {
	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}
	lang := s.fullName(req.Language)
	if lang == "" {
		lang = s.languages.Full(s.languages.DefaultCode())
	}
	res := s.ai.Compare(ctx, s.alias(req.Model), req.Original, req.Translated, lang)
	return &res, nil
}
