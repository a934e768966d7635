package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/sous/internal/adapter/catalog"
	"github.com/YelzhanWeb/sous/internal/adapter/clock"
	"github.com/YelzhanWeb/sous/internal/adapter/logger"
	"github.com/YelzhanWeb/sous/internal/app/chat"
	"github.com/YelzhanWeb/sous/internal/app/tracking"
	"github.com/YelzhanWeb/sous/internal/domain"
	"github.com/YelzhanWeb/sous/internal/interfaces"
)

type testServer struct {
	handler http.Handler
	chat    *chat.Service
	clock   *clock.Virtual
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cat, err := catalog.Load()
	require.NoError(t, err)

	plan := domain.LifecyclePlan{
		CookingAfter:   8 * time.Second,
		ReadyAfter:     8 * time.Second,
		CompletedAfter: 8 * time.Second,
	}
	clk := clock.NewVirtual(time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC))
	svc := chat.NewService(cat, cat, clk, nil, logger.Nop(), chat.Options{
		Language:     domain.LanguageEN,
		Mode:         domain.OrderModeDineIn,
		Delays:       chat.Delays{Reply: 300 * time.Millisecond, Dishes: time.Second, NextCategories: time.Second},
		Lifecycle:    plan,
		OrderNumbers: func() string { return "4821" },
	})
	t.Cleanup(svc.Close)

	h := NewChatHandler(svc, tracking.NewService(cat, plan, nil, logger.Nop()), logger.Nop(), "http://kiosk.local/")
	return &testServer{
		handler: NewRouter(h, logger.Nop(), []string{"*"}),
		chat:    svc,
		clock:   clk,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) interfaces.ChatState {
	t.Helper()
	var st interfaces.ChatState
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&st))
	return st
}

func hasAction(st interfaces.ChatState, kind domain.ActionKind) bool {
	for _, m := range st.Transcript {
		for _, a := range m.Actions {
			if a.Kind == kind {
				return true
			}
		}
	}
	return false
}

func TestGetState(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/state", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	st := decodeState(t, rec)
	require.Len(t, st.Transcript, 1)
	assert.Equal(t, domain.LanguageEN, st.Language)
	assert.True(t, hasAction(st, domain.ActionCallWaiter))
}

func TestRequestIDIsReused(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/state", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get(RequestIDHeader))
}

func TestPutMode_HidesWaiterChips(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPut, "/mode", ModeRequest{Mode: "delivery"})
	require.Equal(t, http.StatusOK, rec.Code)

	st := decodeState(t, rec)
	assert.Equal(t, domain.OrderModeDelivery, st.Mode)
	assert.False(t, hasAction(st, domain.ActionCallWaiter))
}

func TestValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		field  string
	}{
		{"blank message", http.MethodPost, "/messages", MessageRequest{Text: "   "}, "text"},
		{"unknown language", http.MethodPut, "/language", LanguageRequest{Language: "fr"}, "language"},
		{"unknown mode", http.MethodPut, "/mode", ModeRequest{Mode: "drive-through"}, "mode"},
		{"non numeric table", http.MethodPut, "/checkout", interfaces.CheckoutForm{TableNumber: "five"}, "table_number"},
		{"table out of range", http.MethodPut, "/checkout", interfaces.CheckoutForm{TableNumber: "101"}, "table_number"},
		{"missing waiter table", http.MethodPost, "/waiter", WaiterRequest{}, "table_number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)

			rec := s.do(t, tt.method, tt.path, tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			require.NotEmpty(t, resp.Errors)
			assert.Equal(t, tt.field, resp.Errors[0].Field)
		})
	}
}

func TestInvalidBody(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/actions", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostAction_UnknownIsIgnored(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/actions", ActionRequest{Action: "order_pizza"})
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Len(t, decodeState(t, rec).Transcript, 1)
}

func TestPostAction_ShowCategories(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/actions", ActionRequest{Action: string(domain.ActionShowCategories)})
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.True(t, decodeState(t, rec).IsTyping)

	s.clock.Advance(300 * time.Millisecond)

	st := decodeState(t, s.do(t, http.MethodGet, "/state", nil))
	require.Len(t, st.Transcript, 2)
	assert.Equal(t, domain.ContentCategories, st.Transcript[1].Kind)
	assert.False(t, st.IsTyping)
}

func TestCartItems(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/cart/items", CartItemRequest{DishID: "no-such-dish"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/cart/items", CartItemRequest{DishID: "bg-classic"})
	require.Equal(t, http.StatusOK, rec.Code)
	st := decodeState(t, rec)
	assert.Equal(t, 1, st.CartCount)
	assert.Equal(t, 2900, st.CartTotal)

	rec = s.do(t, http.MethodDelete, "/cart/items/bg-classic", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, decodeState(t, rec).CartCount)
}

func TestSubmitOrder_Conflict(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/checkout/submit", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSubmitOrder_Closed(t *testing.T) {
	s := newTestServer(t)
	s.chat.Close()

	rec := s.do(t, http.MethodPost, "/checkout/submit", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestOrderEndpoints_NoOrder(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/order", "/order/history", "/order/qrcode"} {
		rec := s.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestCheckoutFlow(t *testing.T) {
	s := newTestServer(t)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/cart/items", CartItemRequest{DishID: "bg-classic"}).Code)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/cart/items", CartItemRequest{DishID: "dr-latte"}).Code)

	rec := s.do(t, http.MethodPut, "/checkout", interfaces.CheckoutForm{TableNumber: " 7 "})
	require.Equal(t, http.StatusOK, rec.Code)
	var view interfaces.CheckoutView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	assert.True(t, view.CanCheckout)
	assert.Equal(t, "7", view.Form.TableNumber)
	assert.Equal(t, 4000, view.Total)

	rec = s.do(t, http.MethodPost, "/checkout/submit", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created SubmitOrderResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, SubmitOrderResponse{OrderNumber: "4821", Status: "accepted", TotalAmount: 4000}, created)

	st := decodeState(t, s.do(t, http.MethodGet, "/state", nil))
	assert.Zero(t, st.CartCount)
	assert.Empty(t, st.Checkout.TableNumber)

	s.clock.Advance(8 * time.Second)

	rec = s.do(t, http.MethodGet, "/order", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var report interfaces.OrderReport
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&report))
	assert.Equal(t, "4821", report.OrderNumber)
	assert.Equal(t, domain.StatusCooking, report.CurrentStatus)
	assert.Equal(t, 1, report.StepIndex)
	assert.Len(t, report.Items, 2)

	rec = s.do(t, http.MethodGet, "/order/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history []map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&history))
	require.Len(t, history, 2)
	assert.Equal(t, "accepted", history[0]["status"])
	assert.Equal(t, "cooking", history[1]["status"])

	rec = s.do(t, http.MethodGet, "/order/qrcode", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))
}

func TestWaiter(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/actions", ActionRequest{Action: string(domain.ActionCallWaiter)})
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.True(t, decodeState(t, rec).WaiterPrompt)

	rec = s.do(t, http.MethodDelete, "/waiter", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeState(t, rec).WaiterPrompt)

	rec = s.do(t, http.MethodPost, "/waiter", WaiterRequest{TableNumber: "12"})
	require.Equal(t, http.StatusOK, rec.Code)
	st := decodeState(t, rec)
	assert.False(t, st.WaiterPrompt)
	assert.Equal(t, "12", st.Checkout.TableNumber)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/state", nil)
	req.Header.Set("Origin", "http://kiosk.local")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
