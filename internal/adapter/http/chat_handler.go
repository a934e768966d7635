package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/skip2/go-qrcode"

	"github.com/YelzhanWeb/sous/internal/adapter/logger"
	"github.com/YelzhanWeb/sous/internal/app/chat"
	"github.com/YelzhanWeb/sous/internal/domain"
	"github.com/YelzhanWeb/sous/internal/interfaces"
)

const qrSize = 256

type ChatHandler struct {
	chat     interfaces.ChatService
	tracking interfaces.TrackingService
	logger   logger.Logger
	baseURL  string
}

func NewChatHandler(chat interfaces.ChatService, tracking interfaces.TrackingService, logger logger.Logger, baseURL string) *ChatHandler {
	return &ChatHandler{
		chat:     chat,
		tracking: tracking,
		logger:   logger,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

// Register mounts the chat routes on r.
func (h *ChatHandler) Register(r *mux.Router) {
	r.HandleFunc("/state", h.GetState).Methods(http.MethodGet)
	r.HandleFunc("/actions", h.PostAction).Methods(http.MethodPost)
	r.HandleFunc("/messages", h.PostMessage).Methods(http.MethodPost)
	r.HandleFunc("/language", h.PutLanguage).Methods(http.MethodPut)
	r.HandleFunc("/mode", h.PutMode).Methods(http.MethodPut)
	r.HandleFunc("/cart/items", h.PostCartItem).Methods(http.MethodPost)
	r.HandleFunc("/cart/items/{id}", h.DeleteCartItem).Methods(http.MethodDelete)
	r.HandleFunc("/checkout", h.GetCheckout).Methods(http.MethodGet)
	r.HandleFunc("/checkout", h.PutCheckout).Methods(http.MethodPut)
	r.HandleFunc("/checkout/submit", h.SubmitOrder).Methods(http.MethodPost)
	r.HandleFunc("/waiter", h.PostWaiter).Methods(http.MethodPost)
	r.HandleFunc("/waiter", h.DeleteWaiter).Methods(http.MethodDelete)
	r.HandleFunc("/order", h.GetOrder).Methods(http.MethodGet)
	r.HandleFunc("/order/history", h.GetOrderHistory).Methods(http.MethodGet)
	r.HandleFunc("/order/qrcode", h.GetOrderQRCode).Methods(http.MethodGet)
}

type ActionRequest struct {
	Action  string `json:"action"`
	Payload string `json:"payload"`
}

type MessageRequest struct {
	Text string `json:"text"`
}

type LanguageRequest struct {
	Language string `json:"language"`
}

type ModeRequest struct {
	Mode string `json:"mode"`
}

type CartItemRequest struct {
	DishID string `json:"dish_id"`
}

type WaiterRequest struct {
	TableNumber string `json:"table_number"`
}

type SubmitOrderResponse struct {
	OrderNumber string `json:"order_number"`
	Status      string `json:"status"`
	TotalAmount int    `json:"total_amount"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error  string            `json:"error"`
	Errors []ValidationError `json:"errors,omitempty"`
}

func (h *ChatHandler) GetState(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.visibleState())
}

func (h *ChatHandler) PostAction(w http.ResponseWriter, r *http.Request) {
	var req ActionRequest
	if !h.decode(w, r, &req) {
		return
	}

	// Неизвестные действия логируются и игнорируются движком
	h.chat.DispatchRaw(domain.ActionKind(req.Action), req.Payload)

	h.respondJSON(w, http.StatusAccepted, h.visibleState())
}

func (h *ChatHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if !h.decode(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		h.respondError(w, "Validation failed", http.StatusBadRequest, []ValidationError{
			{Field: "text", Message: "text is required"},
		})
		return
	}

	h.chat.SendText(req.Text)
	h.respondJSON(w, http.StatusAccepted, h.visibleState())
}

func (h *ChatHandler) PutLanguage(w http.ResponseWriter, r *http.Request) {
	var req LanguageRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.chat.SetLanguage(domain.Language(req.Language)); err != nil {
		h.respondError(w, "Validation failed", http.StatusBadRequest, []ValidationError{
			{Field: "language", Message: fmt.Sprintf("language must be one of: %s", joinLanguages())},
		})
		return
	}

	h.respondJSON(w, http.StatusOK, h.visibleState())
}

func (h *ChatHandler) PutMode(w http.ResponseWriter, r *http.Request) {
	var req ModeRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.chat.SetOrderMode(domain.OrderMode(req.Mode)); err != nil {
		h.respondError(w, "Validation failed", http.StatusBadRequest, []ValidationError{
			{Field: "mode", Message: "mode must be one of: dine-in, takeaway, delivery"},
		})
		return
	}

	h.respondJSON(w, http.StatusOK, h.visibleState())
}

func (h *ChatHandler) PostCartItem(w http.ResponseWriter, r *http.Request) {
	var req CartItemRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.chat.AddDish(req.DishID); err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, h.visibleState())
}

func (h *ChatHandler) DeleteCartItem(w http.ResponseWriter, r *http.Request) {
	h.chat.RemoveFromCart(mux.Vars(r)["id"])
	h.respondJSON(w, http.StatusOK, h.visibleState())
}

func (h *ChatHandler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.chat.PrepareCheckout())
}

func (h *ChatHandler) PutCheckout(w http.ResponseWriter, r *http.Request) {
	var req interfaces.CheckoutForm
	if !h.decode(w, r, &req) {
		return
	}

	if errs := validateTable("table_number", req.TableNumber); len(errs) > 0 {
		h.respondError(w, "Validation failed", http.StatusBadRequest, errs)
		return
	}

	h.chat.UpdateCheckout(req)

	h.respondJSON(w, http.StatusOK, h.chat.PrepareCheckout())
}

func (h *ChatHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.chat.SubmitOrder(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.logger.Info("order_submitted", fmt.Sprintf("Order %s submitted", order.ID), RequestID(r.Context()), map[string]interface{}{
		"order_number": order.ID,
		"total":        order.Total,
	})

	h.respondJSON(w, http.StatusCreated, SubmitOrderResponse{
		OrderNumber: order.ID,
		Status:      string(order.Status),
		TotalAmount: order.Total,
	})
}

func (h *ChatHandler) PostWaiter(w http.ResponseWriter, r *http.Request) {
	var req WaiterRequest
	if !h.decode(w, r, &req) {
		return
	}

	errs := validateTable("table_number", req.TableNumber)
	if strings.TrimSpace(req.TableNumber) == "" {
		errs = append(errs, ValidationError{Field: "table_number", Message: "table number is required"})
	}
	if len(errs) > 0 {
		h.respondError(w, "Validation failed", http.StatusBadRequest, errs)
		return
	}

	h.chat.ConfirmWaiter(req.TableNumber)
	h.respondJSON(w, http.StatusOK, h.visibleState())
}

func (h *ChatHandler) DeleteWaiter(w http.ResponseWriter, r *http.Request) {
	h.chat.DismissWaiterPrompt()
	h.respondJSON(w, http.StatusOK, h.visibleState())
}

func (h *ChatHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	st := h.chat.State()
	if st.ActiveOrder == nil {
		h.respondError(w, "Order not found", http.StatusNotFound, nil)
		return
	}

	h.respondJSON(w, http.StatusOK, h.tracking.Report(st.ActiveOrder, st.Language))
}

func (h *ChatHandler) GetOrderHistory(w http.ResponseWriter, r *http.Request) {
	st := h.chat.State()
	if st.ActiveOrder == nil {
		h.respondError(w, "Order not found", http.StatusNotFound, nil)
		return
	}

	history, err := h.tracking.GetOrderHistory(r.Context(), st.ActiveOrder)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	resp := make([]map[string]interface{}, len(history))
	for i, log := range history {
		resp[i] = map[string]interface{}{
			"status":    log.Status,
			"timestamp": log.ChangedAt,
		}
	}
	h.respondJSON(w, http.StatusOK, resp)
}

// GetOrderQRCode renders a PNG QR code pointing at the order status page.
func (h *ChatHandler) GetOrderQRCode(w http.ResponseWriter, r *http.Request) {
	st := h.chat.State()
	if st.ActiveOrder == nil {
		h.respondError(w, "Order not found", http.StatusNotFound, nil)
		return
	}

	content := fmt.Sprintf("%s/order?number=%s", h.baseURL, st.ActiveOrder.ID)
	png, err := qrcode.Encode(content, qrcode.Medium, qrSize)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// visibleState hides chips that do not apply to the current mode.
func (h *ChatHandler) visibleState() interfaces.ChatState {
	st := h.chat.State()
	for i := range st.Transcript {
		st.Transcript[i].Actions = domain.VisibleActions(st.Transcript[i].Actions, st.Mode)
	}
	return st
}

func validateTable(field, table string) []ValidationError {
	table = strings.TrimSpace(table)
	if table == "" {
		return nil
	}

	n, err := strconv.Atoi(table)
	if err != nil {
		return []ValidationError{{Field: field, Message: "table number must be numeric"}}
	}
	if n < 1 || n > 100 {
		return []ValidationError{{Field: field, Message: "table number must be between 1 and 100"}}
	}
	return nil
}

func joinLanguages() string {
	names := make([]string, len(domain.Languages))
	for i, l := range domain.Languages {
		names[i] = string(l)
	}
	return strings.Join(names, ", ")
}

func (h *ChatHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return false
	}
	return true
}

func (h *ChatHandler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrDishNotFound):
		status = http.StatusNotFound
	case errors.Is(err, chat.ErrCannotCheckout):
		status = http.StatusConflict
	case errors.Is(err, chat.ErrClosed):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("request_failed", "Request failed", RequestID(r.Context()), map[string]interface{}{
			"path": r.URL.Path,
		}, err)
	}

	h.respondError(w, err.Error(), status, nil)
}

func (h *ChatHandler) respondJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

func (h *ChatHandler) respondError(w http.ResponseWriter, message string, statusCode int, validationErrors []ValidationError) {
	h.respondJSON(w, statusCode, ErrorResponse{
		Error:  message,
		Errors: validationErrors,
	})
}
