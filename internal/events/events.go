package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Routing keys are "<resource>.<action>".
const (
	UserCreated   = "user.created"
	UserUpdated   = "user.updated"
	UserDeleted   = "user.deleted"
	CourseCreated = "course.created"
	CourseUpdated = "course.updated"
	CourseDeleted = "course.deleted"
	TaskCreated   = "task.created"
	TaskUpdated   = "task.updated"
	TaskDeleted   = "task.deleted"
	FileAttached  = "file.attached"
	FileReplaced  = "file.replaced"
	FileDetached  = "file.detached"
)

// Event is the message body sent for every domain change.
type Event struct {
	ID      uuid.UUID `json:"event_id"`
	TS      time.Time `json:"time_stamp"`
	Type    string    `json:"event_type"`
	Payload any       `json:"payload"`
}

// NewEvent stamps payload with a fresh id and the current time.
func NewEvent(routingKey string, payload any) Event {
	return Event{
		ID:      uuid.New(),
		TS:      time.Now().UTC(),
		Type:    routingKey,
		Payload: payload,
	}
}

// Publisher emits domain events. Implementations never fail the caller;
// delivery problems are logged.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) {}
