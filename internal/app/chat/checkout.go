package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/YelzhanWeb/sous/internal/domain"
	"github.com/YelzhanWeb/sous/internal/interfaces"
)

const (
	pickupSlotCount = 8
	pickupSlotStep  = 15 * time.Minute
)

// AddDish looks the dish up in the current language and adds one unit.
func (s *Service) AddDish(id string) error {
	var err error
	ok := s.do(func() {
		dish, found := s.catalog.FindDish(s.language, id)
		if !found {
			err = fmt.Errorf("%q: %w", id, domain.ErrDishNotFound)
			return
		}
		s.cart.Add(dish)
	})
	if !ok {
		return ErrClosed
	}
	return err
}

func (s *Service) RemoveFromCart(id string) {
	s.do(func() {
		s.cart.Remove(id)
	})
}

// UpdateCheckout replaces the destination fields.
func (s *Service) UpdateCheckout(form interfaces.CheckoutForm) {
	s.do(func() {
		s.form = normalizeForm(form)
	})
}

func (s *Service) SetTableNumber(table string) {
	s.do(func() {
		s.form.TableNumber = strings.TrimSpace(table)
	})
}

func (s *Service) SetDeliveryAddress(address string) {
	s.do(func() {
		s.form.DeliveryAddress = strings.TrimSpace(address)
	})
}

func (s *Service) SetDeliveryExtra(extra interfaces.DeliveryExtra) {
	s.do(func() {
		s.form.Extra = normalizeForm(interfaces.CheckoutForm{Extra: extra}).Extra
	})
}

func (s *Service) CanCheckout() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canCheckout()
}

// PrepareCheckout is called when the cart is opened. It presets the
// takeaway pickup time to ASAP and returns what the checkout view shows.
func (s *Service) PrepareCheckout() interfaces.CheckoutView {
	s.mu.Lock()
	if s.mode == domain.OrderModeTakeaway && s.form.DeliveryAddress == "" && !s.closed {
		s.form.DeliveryAddress = s.t(domain.KeyASAP)
	}

	now := s.clock.Now()
	view := interfaces.CheckoutView{
		Lines:       s.cart.Lines(),
		Count:       s.cart.TotalCount(),
		Total:       s.cart.TotalPrice(),
		Mode:        s.mode,
		Form:        s.form,
		CanCheckout: s.canCheckout(),
		Upsell:      Upsell(s.catalog.AllDishes(s.language), &s.cart, s.opts.UpsellCount),
		PreparedAt:  now,
	}
	if s.mode == domain.OrderModeTakeaway {
		view.PickupSlots = PickupSlots(now, pickupSlotCount)
	}
	s.mu.Unlock()

	return view
}

// SubmitOrder snapshots the cart into a new accepted order, clears the
// cart and destination fields, confirms in the chat and starts the
// lifecycle. A previous order is replaced and its timer cancelled.
func (s *Service) SubmitOrder(ctx context.Context) (*domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		placed *domain.Order
		err    error
	)
	ok := s.do(func() {
		placed, err = s.submitOrder()
	})
	if !ok {
		return nil, ErrClosed
	}
	return placed, err
}

func (s *Service) submitOrder() (*domain.Order, error) {
	// 1. Проверка корзины и адреса
	if !s.canCheckout() {
		s.logger.Error("checkout_refused", "Checkout preconditions not met", "", map[string]interface{}{
			"mode":       string(s.mode),
			"cart_count": s.cart.TotalCount(),
		}, ErrCannotCheckout)
		return nil, ErrCannotCheckout
	}

	// 2. Создание заказа из снимка корзины
	now := s.clock.Now()
	order, err := domain.NewOrder(s.opts.OrderNumbers(), s.cart.Lines(), s.mode, s.orderDetails(), now)
	if err != nil {
		s.logger.Error("validation_failed", "Order validation failed", "", nil, err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// 3. Сброс корзины и полей формы
	s.cart.Clear()
	s.form = interfaces.CheckoutForm{}

	s.cancel(s.lifecycleID)
	s.order = order
	s.armLifecycle(order)

	s.addBotMessage(
		fmt.Sprintf("%s %s", s.t(domain.KeyOrderAccepted), s.t(domain.KeyTrackStatus)),
		s.standardActions(s.checkStatusAction()),
	)

	placed := *order.Clone()
	update := s.statusUpdate(order, "")
	s.notify(func() {
		s.observer.OrderPlaced(placed)
		s.observer.StatusChanged(update)
	})

	s.logger.Info("order_placed", fmt.Sprintf("Order %s placed", order.ID), "", map[string]interface{}{
		"order_number": order.ID,
		"mode":         string(order.Mode),
		"total":        order.Total,
	})

	return order.Clone(), nil
}

func (s *Service) canCheckout() bool {
	if s.cart.IsEmpty() {
		return false
	}
	switch s.mode {
	case domain.OrderModeDineIn:
		return s.form.TableNumber != ""
	default:
		return s.form.DeliveryAddress != ""
	}
}

func (s *Service) orderDetails() string {
	switch s.mode {
	case domain.OrderModeDineIn:
		return fmt.Sprintf("%s %s", s.t(domain.KeyYourTable), s.form.TableNumber)
	case domain.OrderModeTakeaway:
		return fmt.Sprintf("%s: %s", s.t(domain.KeyTakeaway), s.form.DeliveryAddress)
	}

	details := fmt.Sprintf("%s: %s", s.t(domain.KeyDelivery), s.form.DeliveryAddress)
	if s.form.Extra.Comment != "" {
		details += ". " + s.form.Extra.Comment
	}
	return details
}

// PickupSlots lists takeaway pickup times a quarter-hour apart, starting
// one quarter after now rounded up to a quarter-hour boundary.
func PickupSlots(now time.Time, count int) []string {
	start := now.Truncate(pickupSlotStep)
	if start.Before(now) {
		start = start.Add(pickupSlotStep)
	}
	start = start.Add(pickupSlotStep)

	slots := make([]string, 0, count)
	for i := 0; i < count; i++ {
		slots = append(slots, start.Add(time.Duration(i)*pickupSlotStep).Format("15:04"))
	}
	return slots
}

func normalizeForm(f interfaces.CheckoutForm) interfaces.CheckoutForm {
	f.TableNumber = strings.TrimSpace(f.TableNumber)
	f.DeliveryAddress = strings.TrimSpace(f.DeliveryAddress)
	f.Extra.Apartment = strings.TrimSpace(f.Extra.Apartment)
	f.Extra.Floor = strings.TrimSpace(f.Extra.Floor)
	f.Extra.Comment = strings.TrimSpace(f.Extra.Comment)
	return f
}
