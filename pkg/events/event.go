package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "CHAPTER_APPENDED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent helps embed common logic if needed,
// strictly creating valid implementations is preferred though.
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

const (
	TypeChapterAppended  = "CHAPTER_APPENDED"
	TypeSessionCompleted = "SESSION_COMPLETED"
)

// NewChapterAppendedEvent signals that a ride produced a new story chapter.
func NewChapterAppendedEvent(sessionID, chapterID, title string, chapterIndex int) Event {
	return BaseEvent{
		Type: TypeChapterAppended,
		Data: map[string]interface{}{
			"session_id":    sessionID,
			"chapter_id":    chapterID,
			"title":         title,
			"chapter_index": chapterIndex,
		},
		OccurredAt: time.Now(),
	}
}

// NewSessionCompletedEvent signals that a ride was exited and its session finalized.
func NewSessionCompletedEvent(sessionID string, totalDistance float64, totalTime int64) Event {
	return BaseEvent{
		Type: TypeSessionCompleted,
		Data: map[string]interface{}{
			"session_id":     sessionID,
			"total_distance": totalDistance,
			"total_time":     totalTime,
		},
		OccurredAt: time.Now(),
	}
}
