package interfaces

import (
	"context"
	"time"

	"github.com/YelzhanWeb/sous/internal/domain"
)

// Интерфейсы Сервисов (Business Logic)
type ChatService interface {
	State() ChatState
	Dispatch(cmd domain.Command)
	DispatchRaw(kind domain.ActionKind, payload string)
	SendText(text string)
	SetLanguage(lang domain.Language) error
	SetOrderMode(mode domain.OrderMode) error

	AddDish(id string) error
	RemoveFromCart(id string)

	UpdateCheckout(form CheckoutForm)
	SetTableNumber(table string)
	SetDeliveryAddress(address string)
	SetDeliveryExtra(extra DeliveryExtra)
	PrepareCheckout() CheckoutView
	CanCheckout() bool
	SubmitOrder(ctx context.Context) (*domain.Order, error)

	ConfirmWaiter(table string)
	DismissWaiterPrompt()

	Close()
}

// DeliveryExtra holds optional delivery fields.
type DeliveryExtra struct {
	Apartment string `json:"apt"`
	Floor     string `json:"floor"`
	Comment   string `json:"comment"`
}

// CheckoutForm is the transient destination input, cleared on checkout.
type CheckoutForm struct {
	TableNumber     string        `json:"table_number"`
	DeliveryAddress string        `json:"delivery_address"`
	Extra           DeliveryExtra `json:"extra"`
}

// ChatState is a deep copy of everything a view needs to render.
type ChatState struct {
	Language     domain.Language   `json:"language"`
	Mode         domain.OrderMode  `json:"mode"`
	Transcript   []domain.Message  `json:"messages"`
	Cart         []domain.CartLine `json:"cart"`
	CartCount    int               `json:"cart_count"`
	CartTotal    int               `json:"cart_total"`
	ActiveOrder  *domain.Order     `json:"active_order,omitempty"`
	IsTyping     bool              `json:"is_typing"`
	WaiterPrompt bool              `json:"waiter_prompt"`
	Checkout     CheckoutForm      `json:"checkout"`
}

type CheckoutView struct {
	Lines       []domain.CartLine `json:"lines"`
	Count       int               `json:"count"`
	Total       int               `json:"total"`
	Mode        domain.OrderMode  `json:"mode"`
	Form        CheckoutForm      `json:"form"`
	CanCheckout bool              `json:"can_checkout"`
	Upsell      []domain.Dish     `json:"upsell"`
	PickupSlots []string          `json:"pickup_slots,omitempty"`
	PreparedAt  time.Time         `json:"prepared_at"`
}

type TrackingService interface {
	Report(order *domain.Order, lang domain.Language) OrderReport
	GetOrderHistory(ctx context.Context, order *domain.Order) ([]domain.StatusLog, error)
}

// OrderReport is the status card of one order.
type OrderReport struct {
	OrderNumber         string           `json:"order_number"`
	CurrentStatus       domain.Status    `json:"current_status"`
	Mode                domain.OrderMode `json:"mode"`
	ModeLabel           string           `json:"mode_label"`
	Total               int              `json:"total"`
	Details             string           `json:"details"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
	Steps               []ReportStep     `json:"steps"`
	StepIndex           int              `json:"step_index"`
	Progress            int              `json:"progress"`
	Items               []ItemPreview    `json:"items"`
	MoreItems           int              `json:"more_items"`
	EstimatedCompletion *time.Time       `json:"estimated_completion,omitempty"`
}

type ReportStep struct {
	Status  domain.Status `json:"status"`
	Label   string        `json:"label"`
	Done    bool          `json:"done"`
	Current bool          `json:"current"`
}

type ItemPreview struct {
	Name     string `json:"name"`
	Quantity int    `json:"qty"`
	Price    int    `json:"price"`
}
