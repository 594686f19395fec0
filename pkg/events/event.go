package events

import "time"

// Event is anything the services publish on the document bus.
type Event interface {
	// EventType is the subject suffix, e.g. "DOCUMENT_PROCESSED".
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

// ReceivedEvent is an event decoded off the bus. Its payload is the raw JSON
// object the publisher sent.
type ReceivedEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e ReceivedEvent) EventType() string { return e.Type }

func (e ReceivedEvent) Payload() map[string]interface{} { return e.Data }

func (e ReceivedEvent) Timestamp() time.Time { return e.OccurredAt }
