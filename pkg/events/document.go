package events

import "time"

const (
	DocumentProcessed = "DOCUMENT_PROCESSED"
	DocumentFailed    = "DOCUMENT_FAILED"
)

// DocumentEvent describes a lifecycle change of a stored document.
type DocumentEvent struct {
	DocumentID string
	UserID     string
	FileName   string
	Operation  string
	Status     string
	Error      string
	Type       string
	OccurredAt time.Time
}

func NewDocumentProcessed(documentID, userID, fileName, operation string) DocumentEvent {
	return DocumentEvent{
		DocumentID: documentID,
		UserID:     userID,
		FileName:   fileName,
		Operation:  operation,
		Status:     "completed",
		Type:       DocumentProcessed,
		OccurredAt: time.Now(),
	}
}

func NewDocumentFailed(documentID, userID, fileName, operation string, cause error) DocumentEvent {
	e := DocumentEvent{
		DocumentID: documentID,
		UserID:     userID,
		FileName:   fileName,
		Operation:  operation,
		Status:     "failed",
		Type:       DocumentFailed,
		OccurredAt: time.Now(),
	}
	if cause != nil {
		e.Error = cause.Error()
	}
	return e
}

func (e DocumentEvent) EventType() string { return e.Type }

func (e DocumentEvent) Timestamp() time.Time { return e.OccurredAt }

func (e DocumentEvent) Payload() map[string]interface{} {
	p := map[string]interface{}{
		"document_id": e.DocumentID,
		"user_id":     e.UserID,
		"file_name":   e.FileName,
		"operation":   e.Operation,
		"status":      e.Status,
		"occurred_at": e.OccurredAt.UTC().Format(time.RFC3339),
	}
	if e.Error != "" {
		p["error"] = e.Error
	}
	return p
}
