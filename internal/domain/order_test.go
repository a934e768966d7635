package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder(t *testing.T) {
	now := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	items := []CartLine{
		{Dish: Dish{ID: "d1", Price: 1500}, Quantity: 2},
		{Dish: Dish{ID: "d2", Price: 200}, Quantity: 1},
	}

	order, err := NewOrder("1234", items, OrderModeDineIn, "Table 5", now)
	require.NoError(t, err)

	assert.Equal(t, StatusAccepted, order.Status)
	assert.Equal(t, 3200, order.Total)
	assert.Equal(t, []StatusLog{{Status: StatusAccepted, ChangedAt: now}}, order.History)

	items[0].Quantity = 10
	assert.Equal(t, 2, order.Items[0].Quantity, "order must own its items")
}

func TestNewOrder_Validation(t *testing.T) {
	now := time.Now()
	line := []CartLine{{Dish: Dish{ID: "d1", Price: 1}, Quantity: 1}}

	tests := []struct {
		name    string
		id      string
		items   []CartLine
		mode    OrderMode
		wantErr error
	}{
		{name: "empty cart", id: "1", items: nil, mode: OrderModeDelivery, wantErr: ErrEmptyCart},
		{name: "bad mode", id: "1", items: line, mode: "drive-thru", wantErr: ErrInvalidOrderMode},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := NewOrder(testCase.id, testCase.items, testCase.mode, "", now)
			assert.ErrorIs(t, err, testCase.wantErr)
		})
	}

	_, err := NewOrder("", line, OrderModeDineIn, "", now)
	assert.Error(t, err)
}

func TestOrder_TransitionsAreLinear(t *testing.T) {
	now := time.Now()
	order, err := NewOrder("1", []CartLine{{Dish: Dish{ID: "a"}, Quantity: 1}}, OrderModeTakeaway, "", now)
	require.NoError(t, err)

	assert.ErrorIs(t, order.TransitionTo(StatusReady, now), ErrInvalidStatusTransition)
	assert.ErrorIs(t, order.TransitionTo(StatusAccepted, now), ErrInvalidStatusTransition)

	for _, next := range []Status{StatusCooking, StatusReady, StatusCompleted} {
		require.NoError(t, order.TransitionTo(next, now))
	}
	assert.True(t, order.IsCompleted())
	assert.ErrorIs(t, order.TransitionTo(StatusCooking, now), ErrInvalidStatusTransition)

	var seen []Status
	for _, h := range order.History {
		seen = append(seen, h.Status)
	}
	assert.Equal(t, StatusSequence, seen)
}

func TestOrder_Clone(t *testing.T) {
	order, err := NewOrder("1", []CartLine{{Dish: Dish{ID: "a"}, Quantity: 1}}, OrderModeTakeaway, "", time.Now())
	require.NoError(t, err)

	c := order.Clone()
	c.Items[0].Quantity = 7
	c.History = append(c.History, StatusLog{Status: StatusCooking})

	assert.Equal(t, 1, order.Items[0].Quantity)
	assert.Len(t, order.History, 1)

	var nilOrder *Order
	assert.Nil(t, nilOrder.Clone())
}

func TestStatus_Next(t *testing.T) {
	next, ok := StatusAccepted.Next()
	assert.True(t, ok)
	assert.Equal(t, StatusCooking, next)

	_, ok = StatusCompleted.Next()
	assert.False(t, ok)

	assert.Equal(t, 2, StatusReady.Index())
	assert.Equal(t, -1, Status("lost").Index())
}

func TestLifecyclePlan(t *testing.T) {
	plan := LifecyclePlan{CookingAfter: 8 * time.Second, ReadyAfter: 12 * time.Second, CompletedAfter: 10 * time.Second}

	d, ok := plan.After(StatusCooking)
	assert.True(t, ok)
	assert.Equal(t, 12*time.Second, d)
	_, ok = plan.After(StatusCompleted)
	assert.False(t, ok)

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	order, err := NewOrder("1", []CartLine{{Dish: Dish{ID: "a"}, Quantity: 1}}, OrderModeDelivery, "", now)
	require.NoError(t, err)

	eta := plan.EstimatedReady(order)
	require.NotNil(t, eta)
	assert.Equal(t, now.Add(20*time.Second), *eta)

	require.NoError(t, order.TransitionTo(StatusCooking, now.Add(8*time.Second)))
	eta = plan.EstimatedReady(order)
	require.NotNil(t, eta)
	assert.Equal(t, now.Add(20*time.Second), *eta)

	require.NoError(t, order.TransitionTo(StatusReady, now.Add(20*time.Second)))
	assert.Nil(t, plan.EstimatedReady(order))
}
