package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "SESSION_STARTED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the common implementation used by the typed constructors below.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Session lifecycle event codes.
const (
	TypeSessionStarted    = "SESSION_STARTED"
	TypeSessionCompleted  = "SESSION_COMPLETED"
	TypeSessionTerminated = "SESSION_TERMINATED"
	TypeDocumentIngested  = "DOCUMENT_INGESTED"
)

// NewSessionStarted is emitted when a trainee opens a session.
func NewSessionStarted(sessionId string, traineeName string, mode string) Event {
	return BaseEvent{
		Type: TypeSessionStarted,
		Data: map[string]interface{}{
			"session_id":   sessionId,
			"trainee_name": traineeName,
			"mode":         mode,
		},
		OccurredAt: time.Now(),
	}
}

// NewSessionCompleted is emitted when a session reaches a normal terminal state.
func NewSessionCompleted(sessionId string, pass bool, totalScore int) Event {
	return BaseEvent{
		Type: TypeSessionCompleted,
		Data: map[string]interface{}{
			"session_id":  sessionId,
			"pass":        pass,
			"total_score": totalScore,
		},
		OccurredAt: time.Now(),
	}
}

// NewSessionTerminated is emitted when a session is cut short, e.g. for abuse.
func NewSessionTerminated(sessionId string, reason string) Event {
	return BaseEvent{
		Type: TypeSessionTerminated,
		Data: map[string]interface{}{
			"session_id": sessionId,
			"reason":     reason,
		},
		OccurredAt: time.Now(),
	}
}

// NewDocumentIngested is emitted after a knowledge-base document is chunked
// and indexed.
func NewDocumentIngested(docId string, title string, chunks int) Event {
	return BaseEvent{
		Type: TypeDocumentIngested,
		Data: map[string]interface{}{
			"doc_id": docId,
			"title":  title,
			"chunks": chunks,
		},
		OccurredAt: time.Now(),
	}
}
