package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/YelzhanWeb/sous/internal/adapter/logger"
	"github.com/YelzhanWeb/sous/internal/domain"
	"github.com/YelzhanWeb/sous/internal/interfaces"
)

const deliveryTimeout = 5 * time.Second

var ErrStopped = errors.New("notifier is stopped")

type event struct {
	placed *domain.Order
	update *interfaces.StatusUpdateMessage
}

// Service forwards order events to the journal and the message broker.
// Events are queued and delivered one at a time by a single goroutine,
// so sinks see them in the order the chat produced them. Sink failures
// are logged and never reach the chat.
type Service struct {
	publisher interfaces.OrderEventPublisher
	journal   interfaces.OrderJournal
	logger    logger.Logger

	mu      sync.Mutex
	stopped bool
	events  chan event
	done    chan struct{}
}

// NewService builds a notifier. Either sink may be nil.
func NewService(publisher interfaces.OrderEventPublisher, journal interfaces.OrderJournal, logger logger.Logger, buffer int) *Service {
	if buffer <= 0 {
		buffer = 64
	}
	return &Service{
		publisher: publisher,
		journal:   journal,
		logger:    logger,
		events:    make(chan event, buffer),
		done:      make(chan struct{}),
	}
}

// Start runs the delivery loop until Shutdown drains the queue.
func (s *Service) Start(ctx context.Context) {
	go s.run(ctx)
}

func (s *Service) OrderPlaced(order domain.Order) {
	s.enqueue(event{placed: &order})
}

func (s *Service) StatusChanged(update interfaces.StatusUpdateMessage) {
	s.enqueue(event{update: &update})
}

// Shutdown stops accepting events and waits for the queue to drain.
func (s *Service) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return ErrStopped
	}
	s.stopped = true
	close(s.events)
	s.mu.Unlock()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) enqueue(ev event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		s.logger.Debug("event_dropped", "Notifier stopped, dropping event", "", nil)
		return
	}

	select {
	case s.events <- ev:
	default:
		s.logger.Error("event_dropped", "Notification queue is full", "", map[string]interface{}{
			"capacity": cap(s.events),
		}, nil)
	}
}

func (s *Service) run(ctx context.Context) {
	defer close(s.done)

	for ev := range s.events {
		switch {
		case ev.placed != nil:
			s.recordOrder(ctx, *ev.placed)
		case ev.update != nil:
			s.publishStatus(ctx, *ev.update)
		}
	}
}

func (s *Service) recordOrder(ctx context.Context, order domain.Order) {
	if s.journal == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), deliveryTimeout)
	defer cancel()

	if err := s.journal.Record(ctx, order); err != nil {
		s.logger.Error("db_error", "Failed to record order", "", map[string]interface{}{
			"order_number": order.ID,
		}, err)
		return
	}

	s.logger.Debug("order_recorded", fmt.Sprintf("Order %s recorded", order.ID), "", nil)
}

func (s *Service) publishStatus(ctx context.Context, update interfaces.StatusUpdateMessage) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), deliveryTimeout)
	defer cancel()

	if s.journal != nil {
		if err := s.journal.LogStatus(ctx, update); err != nil {
			s.logger.Error("db_error", "Failed to log status change", "", map[string]interface{}{
				"order_number": update.OrderNumber,
				"new_status":   string(update.NewStatus),
			}, err)
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishStatusUpdate(ctx, update); err != nil {
			// Не блокируем процесс из-за ошибки уведомления
			s.logger.Error("rabbitmq_publish_failed", "Failed to publish status update", "", map[string]interface{}{
				"order_number": update.OrderNumber,
			}, err)
			return
		}
	}

	s.logger.Debug("status_update_sent", fmt.Sprintf("Order %s is %s", update.OrderNumber, update.NewStatus), "", nil)
}

var _ interfaces.OrderObserver = (*Service)(nil)
