package services

import (
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
)

// Routing keys of the domain events published by the services.
const (
	EventUserRegistered = "user.registered"
	EventTodoCreated    = "todo.created"
	EventTodoUpdated    = "todo.updated"
	EventTodoDeleted    = "todo.deleted"
)

// EventPublisher publishes a message under a routing key.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// Event is the JSON payload of a domain event. It never carries credentials.
type Event struct {
	Type       string    `json:"type"`
	UserID     uint      `json:"user_id"`
	TodoID     uint      `json:"todo_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// publishEvent sends an event if a publisher is configured. Failures are
// logged and never returned: the write that triggered the event already
// committed.
func publishEvent(publisher EventPublisher, log logrus.FieldLogger, event Event) {
	if publisher == nil {
		return
	}
	event.OccurredAt = time.Now().UTC()
	body, err := json.Marshal(event)
	if err != nil {
		log.WithError(err).WithField("event", event.Type).Error("failed to marshal event")
		return
	}
	if err := publisher.Publish(event.Type, body); err != nil {
		log.WithError(err).WithField("event", event.Type).Warn("failed to publish event")
		return
	}
	log.WithField("event", event.Type).Debug("published event")
}
