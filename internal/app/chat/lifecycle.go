package chat

import (
	"fmt"

	"github.com/YelzhanWeb/sous/internal/domain"
	"github.com/YelzhanWeb/sous/internal/interfaces"
)

const changedBy = "kitchen-simulator"

// armLifecycle schedules the next status of order. A callback whose order
// has been replaced in the meantime does nothing.
func (s *Service) armLifecycle(order *domain.Order) {
	delay, ok := s.opts.Lifecycle.After(order.Status)
	if !ok {
		s.lifecycleID = 0
		return
	}

	s.lifecycleID = s.schedule(delay, func() {
		if s.order != order {
			return
		}
		s.advance(order)
	})
}

func (s *Service) advance(order *domain.Order) {
	old := order.Status
	next, ok := old.Next()
	if !ok {
		return
	}

	if err := order.TransitionTo(next, s.clock.Now()); err != nil {
		s.logger.Error("status_update_failed", "Failed to advance order", "", map[string]interface{}{
			"order_number": order.ID,
			"status":       string(old),
		}, err)
		return
	}

	s.logger.Debug("order_status_changed", fmt.Sprintf("Order %s is %s", order.ID, next), "", map[string]interface{}{
		"order_number": order.ID,
		"old_status":   string(old),
		"new_status":   string(next),
	})

	switch next {
	case domain.StatusCooking:
		s.addBotMessage(s.t(domain.KeyKitchenCooking), s.standardActions(s.checkStatusAction()))
	case domain.StatusReady:
		key := domain.KeyOrderReady
		if order.Mode == domain.OrderModeDelivery {
			key = domain.KeyCourierWay
		}
		s.addBotMessage(s.t(key), s.standardActions(s.checkStatusAction()))
	}

	update := s.statusUpdate(order, old)
	s.notify(func() {
		s.observer.StatusChanged(update)
	})

	s.armLifecycle(order)
}

func (s *Service) statusUpdate(order *domain.Order, old domain.Status) interfaces.StatusUpdateMessage {
	return interfaces.StatusUpdateMessage{
		OrderNumber:         order.ID,
		OldStatus:           old,
		NewStatus:           order.Status,
		Mode:                order.Mode,
		ChangedBy:           changedBy,
		Timestamp:           order.UpdatedAt,
		EstimatedCompletion: s.opts.Lifecycle.EstimatedReady(order),
	}
}
