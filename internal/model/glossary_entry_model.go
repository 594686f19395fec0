package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GlossaryEntry struct {
	Id             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId         uuid.UUID      `gorm:"type:uuid;not null;index"`
	Term           string         `gorm:"type:varchar(255);not null"`
	Translation    string         `gorm:"type:varchar(255);not null"`
	SourceLanguage string         `gorm:"type:varchar(16);not null;default:'en'"`
	TargetLanguage string         `gorm:"type:varchar(16);not null;index"`
	Context        string         `gorm:"type:text"`
	Category       string         `gorm:"type:varchar(64)"`
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (GlossaryEntry) TableName() string {
	return "glossary_entries"
}
