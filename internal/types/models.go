// internal/types/models.go
package types

import "time"

// Role tags a transcript message. Only user and agent-result messages are
// shown to the client by default; agent-status messages are the audit trail
// of the pipeline's intermediate steps.
type Role string

const (
	RoleUser   Role = "user"
	RoleStatus Role = "agent-status"
	RoleResult Role = "agent-result"
)

// Thread is one conversation. Messages are append-only; metadata is
// recomputed by the pipeline after every turn.
type Thread struct {
	ID           ThreadID  `json:"thread_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
	Preview      string    `json:"first_message_preview,omitempty"`
	Title        string    `json:"title,omitempty"`
}

// Message is a single transcript entry. Insertion order is the ordering
// authority; entries are never reordered or deleted while the thread lives.
type Message struct {
	ID        int64     `json:"id"`
	ThreadID  ThreadID  `json:"thread_id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// EventKind names a pipeline event. The set is closed; {done, cancelled,
// error} are terminal for any consumer.
type EventKind string

const (
	EventStatus         EventKind = "status"
	EventDisambiguation EventKind = "disambiguation"
	EventClassification EventKind = "classification"
	EventExtraction     EventKind = "extraction"
	EventTaskSuccess    EventKind = "task_success"
	EventTaskSkipped    EventKind = "task_skipped"
	EventTaskFailed     EventKind = "task_failed"
	EventTitle          EventKind = "title"
	EventAssistant      EventKind = "assistant"
	EventCancelled      EventKind = "cancelled"
	EventError          EventKind = "error"
	EventDone           EventKind = "done"
)

// Event is a transient progress notification for one streamed turn.
type Event struct {
	Kind EventKind `json:"event"`
	Data string    `json:"data"`
}

// Terminal reports whether receiving this event ends a consumer loop.
func (e Event) Terminal() bool {
	switch e.Kind {
	case EventDone, EventCancelled, EventError:
		return true
	}
	return false
}

// Automation is a stored natural-language command fired on a cron schedule.
type Automation struct {
	Name     string   `json:"name"`
	Command  string   `json:"command"`
	Schedule string   `json:"schedule,omitempty"`
	ThreadID ThreadID `json:"thread_id"`
	Deliver  string   `json:"deliver,omitempty"`
	Enabled  bool     `json:"enabled"`
}
