package app

import (
	"encoding/json"
	"fmt"

	"todoapp/internal/services"

	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

// EventQueue is the queue the built-in consumer reads from.
const EventQueue = "todo_events_log"

// LogEvents returns a delivery handler that decodes domain events and logs
// them. Undecodable messages are rejected.
func LogEvents(log logrus.FieldLogger) func(msg amqp.Delivery) error {
	return func(msg amqp.Delivery) error {
		var event services.Event
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			return fmt.Errorf("failed to decode event: %w", err)
		}
		if event.Type == "" {
			return fmt.Errorf("event without type on routing key %q", msg.RoutingKey)
		}
		log.WithFields(logrus.Fields{
			"event":       event.Type,
			"user_id":     event.UserID,
			"todo_id":     event.TodoID,
			"occurred_at": event.OccurredAt,
		}).Info("received event")
		return nil
	}
}
