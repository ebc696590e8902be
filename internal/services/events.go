package services

import "kedai/internal/models"

// EventPublisher delivers order events to interested consumers.
type EventPublisher interface {
	PublishOrderEvent(event models.OrderEvent) error
}
