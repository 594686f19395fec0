package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Document struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId     uuid.UUID      `gorm:"type:uuid;not null;index"`
	FileName   string         `gorm:"type:varchar(255);not null"`
	FileType   string         `gorm:"type:varchar(127)"`
	FileSize   int64          `gorm:"default:0"`
	Content    string         `gorm:"type:text"`
	Operation  string         `gorm:"type:varchar(32);index"`
	Model      string         `gorm:"type:varchar(64)"`
	Language   string         `gorm:"type:varchar(16)"`
	Status     string         `gorm:"type:varchar(16);not null;default:'processing';index"`
	ResultText string         `gorm:"type:text"`
	ResultJSON datatypes.JSON `gorm:"type:jsonb"`
	Error      string         `gorm:"type:text"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (Document) TableName() string {
	return "documents"
}
