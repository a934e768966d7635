package domain

import (
	"errors"
	"time"
)

// Order is the snapshot taken at checkout plus its lifecycle status.
type Order struct {
	ID        string      `json:"id"`
	Items     []CartLine  `json:"items"`
	Total     int         `json:"total"`
	Status    Status      `json:"status"`
	Mode      OrderMode   `json:"mode"`
	Details   string      `json:"details"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	History   []StatusLog `json:"history"`
}

// NewOrder creates a new order with business rules applied
func NewOrder(id string, items []CartLine, mode OrderMode, details string, now time.Time) (*Order, error) {
	order := &Order{
		ID:        id,
		Items:     append([]CartLine(nil), items...),
		Status:    StatusAccepted,
		Mode:      mode,
		Details:   details,
		CreatedAt: now,
		UpdatedAt: now,
		History:   []StatusLog{{Status: StatusAccepted, ChangedAt: now}},
	}

	if err := order.Validate(); err != nil {
		return nil, err
	}

	order.CalculateTotal()

	return order, nil
}

// Validate applies business validation rules
func (o *Order) Validate() error {
	if o.ID == "" {
		return errors.New("order id is required")
	}

	if !o.Mode.Valid() {
		return ErrInvalidOrderMode
	}

	if len(o.Items) == 0 {
		return ErrEmptyCart
	}

	for _, item := range o.Items {
		if item.Quantity < 1 {
			return errors.New("item quantity must be at least 1")
		}
	}

	return nil
}

// CalculateTotal calculates the total amount of the order
func (o *Order) CalculateTotal() {
	o.Total = TotalPrice(o.Items)
}

// TransitionTo transitions the order to a new status
func (o *Order) TransitionTo(newStatus Status, now time.Time) error {
	if !o.CanTransitionTo(newStatus) {
		return ErrInvalidStatusTransition
	}

	o.Status = newStatus
	o.UpdatedAt = now
	o.History = append(o.History, StatusLog{Status: newStatus, ChangedAt: now})

	return nil
}

// CanTransitionTo checks if the order can transition to the new status
func (o *Order) CanTransitionTo(newStatus Status) bool {
	next, ok := o.Status.Next()
	return ok && next == newStatus
}

func (o *Order) IsCompleted() bool {
	return o.Status == StatusCompleted
}

// Clone returns a deep copy safe to hand out of the engine.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	c := *o
	c.Items = append([]CartLine(nil), o.Items...)
	c.History = append([]StatusLog(nil), o.History...)
	return &c
}

var (
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrInvalidOrderMode        = errors.New("invalid order mode")
	ErrEmptyCart               = errors.New("cart is empty")
	ErrUnknownLanguage         = errors.New("unknown language")
	ErrDishNotFound            = errors.New("dish not found")
)
