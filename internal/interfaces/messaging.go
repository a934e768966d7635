package interfaces

import (
	"context"
	"time"

	"github.com/YelzhanWeb/sous/internal/domain"
)

// StatusUpdateMessage is published on every order status change.
// OldStatus is empty for the initial accepted event.
type StatusUpdateMessage struct {
	OrderNumber         string           `json:"order_number"`
	OldStatus           domain.Status    `json:"old_status"`
	NewStatus           domain.Status    `json:"new_status"`
	Mode                domain.OrderMode `json:"mode"`
	ChangedBy           string           `json:"changed_by"`
	Timestamp           time.Time        `json:"timestamp"`
	EstimatedCompletion *time.Time       `json:"estimated_completion,omitempty"`
}

// Интерфейсы Messaging (Adapter/RabbitMQ)
type OrderEventPublisher interface {
	PublishStatusUpdate(ctx context.Context, msg StatusUpdateMessage) error
}

type MessageConsumer interface {
	ConsumeNotifications(ctx context.Context, handler NotificationHandler) error
}

type NotificationHandler func(ctx context.Context, body []byte) error

// OrderObserver receives order events from the chat engine, in the order
// they happened, outside of the engine lock. Implementations must not call
// back into the engine synchronously.
type OrderObserver interface {
	OrderPlaced(order domain.Order)
	StatusChanged(update StatusUpdateMessage)
}
