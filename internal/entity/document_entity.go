package entity

import (
	"time"

	"github.com/google/uuid"
)

type DocumentStatus string

const (
	DocumentStatusProcessing DocumentStatus = "processing"
	DocumentStatusCompleted  DocumentStatus = "completed"
	DocumentStatusFailed     DocumentStatus = "failed"
)

type DocumentOperation string

const (
	OperationTranslate DocumentOperation = "translate"
	OperationSummarize DocumentOperation = "summarize"
	OperationOCR       DocumentOperation = "ocr"
	OperationEdit      DocumentOperation = "edit"
	// OperationUpload marks records created from JSON metadata without processing.
	OperationUpload DocumentOperation = "upload"
)

func (o DocumentOperation) Valid() bool {
	switch o {
	case OperationTranslate, OperationSummarize, OperationOCR, OperationEdit:
		return true
	}
	return false
}

type Document struct {
	Id         uuid.UUID
	UserId     uuid.UUID
	FileName   string
	FileType   string
	FileSize   int64
	Content    string
	Operation  DocumentOperation
	Model      string
	Language   string
	Status     DocumentStatus
	ResultText string
	// ResultJSON holds the raw structured result, if any.
	ResultJSON []byte
	Error      string
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	DeletedAt  *time.Time
	IsDeleted  bool
}

type DocumentChunk struct {
	Id         uuid.UUID
	DocumentId uuid.UUID
	ChunkIndex int
	PageNumber int
	Content    string
	Embedding  []float32
	CreatedAt  time.Time
}

type GlossaryEntry struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	Term           string
	Translation    string
	SourceLanguage string
	TargetLanguage string
	Context        string
	Category       string
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

// DocumentStats counts documents by status and by operation.
type DocumentStats struct {
	Total       int64            `json:"total"`
	ByStatus    map[string]int64 `json:"by_status"`
	ByOperation map[string]int64 `json:"by_operation"`
}
