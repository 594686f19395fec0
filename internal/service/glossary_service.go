package service

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"

	"doccoder-be/internal/dto"
	"doccoder-be/internal/entity"
	"doccoder-be/internal/pkg/serverutils"
	"doccoder-be/internal/repository/specification"
	"doccoder-be/internal/repository/unitofwork"
	"doccoder-be/pkg/language"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

const (
	glossaryTTL     = 5 * time.Minute
	minSuggestedLen = 4
)

type IGlossaryService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateGlossaryRequest) (*dto.GlossaryResponse, error)
	Delete(ctx context.Context, userId, id uuid.UUID) error
	List(ctx context.Context, userId uuid.UUID, targetLanguage string) ([]*dto.GlossaryResponse, error)
	Search(ctx context.Context, userId uuid.UUID, query string) ([]*dto.GlossaryResponse, error)
	Suggest(ctx context.Context, userId uuid.UUID, req *dto.SuggestGlossaryRequest) (*dto.GlossarySuggestResponse, error)
	// Apply replaces known terms in text with their translations.
	Apply(ctx context.Context, userId uuid.UUID, text, targetLanguage string) (string, error)
}

type glossaryService struct {
	uowFactory unitofwork.RepositoryFactory
	languages  *language.Table
	entries    *gocache.Cache
}

func NewGlossaryService(uowFactory unitofwork.RepositoryFactory, languages *language.Table) IGlossaryService {
	return &glossaryService{
		uowFactory: uowFactory,
		languages:  languages,
		entries:    gocache.New(glossaryTTL, 2*glossaryTTL),
	}
}

func (s *glossaryService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateGlossaryRequest) (*dto.GlossaryResponse, error) {
	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}
	target, ok := s.languages.Canonical(req.TargetLanguage)
	if !ok {
		return nil, serverutils.UnsupportedLanguage(req.TargetLanguage)
	}
	source := s.languages.DefaultCode()
	if req.SourceLanguage != "" {
		if source, ok = s.languages.Canonical(req.SourceLanguage); !ok {
			return nil, serverutils.UnsupportedLanguage(req.SourceLanguage)
		}
	}

	entry := entity.GlossaryEntry{
		Id:             uuid.New(),
		UserId:         userId,
		Term:           strings.TrimSpace(req.Term),
		Translation:    strings.TrimSpace(req.Translation),
		SourceLanguage: source,
		TargetLanguage: target,
		Context:        req.Context,
		Category:       req.Category,
		CreatedAt:      time.Now(),
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.GlossaryRepository().Create(ctx, &entry); err != nil {
		return nil, err
	}
	s.entries.Delete(userId.String())
	return toGlossaryResponse(&entry), nil
}

func (s *glossaryService) Delete(ctx context.Context, userId, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	err := uow.GlossaryRepository().Delete(ctx, userId, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return serverutils.NotFound("Glossary entry not found.")
	}
	if err != nil {
		return err
	}
	s.entries.Delete(userId.String())
	return nil
}

// all returns every entry of the user, cached per user.
func (s *glossaryService) all(ctx context.Context, userId uuid.UUID) ([]*entity.GlossaryEntry, error) {
	if v, ok := s.entries.Get(userId.String()); ok {
		return v.([]*entity.GlossaryEntry), nil
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	entries, err := uow.GlossaryRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "term"},
	)
	if err != nil {
		return nil, err
	}
	s.entries.SetDefault(userId.String(), entries)
	return entries, nil
}

func (s *glossaryService) List(ctx context.Context, userId uuid.UUID, targetLanguage string) ([]*dto.GlossaryResponse, error) {
	entries, err := s.all(ctx, userId)
	if err != nil {
		return nil, err
	}
	target := ""
	if targetLanguage != "" {
		target, _ = s.languages.Canonical(targetLanguage)
		if target == "" {
			return nil, serverutils.UnsupportedLanguage(targetLanguage)
		}
	}

	out := make([]*dto.GlossaryResponse, 0, len(entries))
	for _, e := range entries {
		if target == "" || e.TargetLanguage == target {
			out = append(out, toGlossaryResponse(e))
		}
	}
	return out, nil
}

func (s *glossaryService) Search(ctx context.Context, userId uuid.UUID, query string) ([]*dto.GlossaryResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.List(ctx, userId, "")
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	entries, err := uow.GlossaryRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.TermLike{Query: query},
		specification.OrderBy{Field: "term"},
	)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.GlossaryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toGlossaryResponse(e))
	}
	return out, nil
}

func (s *glossaryService) Suggest(ctx context.Context, userId uuid.UUID, req *dto.SuggestGlossaryRequest) (*dto.GlossarySuggestResponse, error) {
	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}
	entries, err := s.all(ctx, userId)
	if err != nil {
		return nil, err
	}
	return &dto.GlossarySuggestResponse{Terms: SuggestTerms(req.Text, entries)}, nil
}

func (s *glossaryService) Apply(ctx context.Context, userId uuid.UUID, text, targetLanguage string) (string, error) {
	if userId == uuid.Nil || text == "" {
		return text, nil
	}
	entries, err := s.all(ctx, userId)
	if err != nil {
		return "", err
	}
	target, _ := s.languages.Canonical(targetLanguage)
	var matching []*entity.GlossaryEntry
	for _, e := range entries {
		if target == "" || e.TargetLanguage == target {
			matching = append(matching, e)
		}
	}
	return ApplyGlossary(text, matching), nil
}

// ApplyGlossary substitutes whole-word, case-insensitive matches. Longer terms
// go first so a phrase wins over a word it contains.
func ApplyGlossary(text string, entries []*entity.GlossaryEntry) string {
	sorted := make([]*entity.GlossaryEntry, 0, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e.Term) != "" {
			sorted = append(sorted, e)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return len([]rune(sorted[i].Term)) > len([]rune(sorted[j].Term))
	})

	for _, e := range sorted {
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(strings.TrimSpace(e.Term)) + `\b`)
		if err != nil {
			continue
		}
		text = re.ReplaceAllLiteralString(text, e.Translation)
	}
	return text
}

// SuggestTerms lists words longer than three letters that the glossary does
// not cover yet, in order of first appearance.
func SuggestTerms(text string, entries []*entity.GlossaryEntry) []string {
	known := make(map[string]bool, len(entries))
	for _, e := range entries {
		known[strings.ToLower(e.Term)] = true
	}

	seen := make(map[string]bool)
	out := []string{}
	for _, raw := range strings.Fields(text) {
		word := strings.TrimFunc(raw, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if len([]rune(word)) < minSuggestedLen {
			continue
		}
		key := strings.ToLower(word)
		if known[key] || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, word)
	}
	return out
}

func toGlossaryResponse(e *entity.GlossaryEntry) *dto.GlossaryResponse {
	return &dto.GlossaryResponse{
		Id:             e.Id,
		Term:           e.Term,
		Translation:    e.Translation,
		SourceLanguage: e.SourceLanguage,
		TargetLanguage: e.TargetLanguage,
		Context:        e.Context,
		Category:       e.Category,
		CreatedAt:      e.CreatedAt,
	}
}
