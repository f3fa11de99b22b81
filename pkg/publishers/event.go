package publishers

import (
	"time"

	"github.com/acts-bd/acts-client/pkg/notify"
	"github.com/google/uuid"
)

// Event represents the alert payload published downstream.
type Event struct {
	ID         string          `json:"id"`
	Source     string          `json:"source"`
	Severity   notify.Severity `json:"severity"`
	Message    string          `json:"message"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewEvent constructs an Event for a notification raised by source.
func NewEvent(source string, n notify.Notification) Event {
	return Event{
		ID:         uuid.NewString(),
		Source:     source,
		Severity:   n.Severity,
		Message:    n.Message,
		OccurredAt: time.Now().UTC(),
	}
}
