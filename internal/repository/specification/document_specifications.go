package specification

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserOwnedBy struct {
	UserID uuid.UUID
}

func (s UserOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// ByStatus filters documents by status. An empty status matches everything.
type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	if s.Status == "" {
		return db
	}
	return db.Where("status = ?", s.Status)
}

type ByOperation struct {
	Operation string
}

func (s ByOperation) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("operation = ?", s.Operation)
}

type ByDocumentID struct {
	DocumentID uuid.UUID
}

func (s ByDocumentID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("document_id = ?", s.DocumentID)
}

// TermLike matches glossary terms or translations case-insensitively.
type TermLike struct {
	Query string
}

func (s TermLike) Apply(db *gorm.DB) *gorm.DB {
	q := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s.Query)
	pattern := "%" + q + "%"
	return db.Where("term ILIKE ? OR translation ILIKE ?", pattern, pattern)
}

type ByTargetLanguage struct {
	Language string
}

func (s ByTargetLanguage) Apply(db *gorm.DB) *gorm.DB {
	if s.Language == "" {
		return db
	}
	return db.Where("target_language = ?", s.Language)
}
