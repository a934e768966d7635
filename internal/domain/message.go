package domain

import (
	"errors"
	"fmt"
)

type Sender string

const (
	SenderBot  Sender = "bot"
	SenderUser Sender = "user"
)

type ContentKind string

const (
	ContentText        ContentKind = "text"
	ContentCategories  ContentKind = "categories"
	ContentDishes      ContentKind = "dishes"
	ContentOrderStatus ContentKind = "order_status"
)

// Message is a transcript entry. ID doubles as the creation timestamp in
// milliseconds and is strictly increasing within a transcript.
type Message struct {
	ID         int64       `json:"id"`
	Sender     Sender      `json:"type"`
	Content    string      `json:"content"`
	Actions    []Action    `json:"actions,omitempty"`
	Kind       ContentKind `json:"data_type,omitempty"`
	Categories []Category  `json:"categories,omitempty"`
	Dishes     []Dish      `json:"dishes,omitempty"`
	Order      *Order      `json:"order,omitempty"`
}

// Clone copies the slices and order snapshot so callers cannot reach
// into the transcript.
func (m Message) Clone() Message {
	m.Actions = append([]Action(nil), m.Actions...)
	m.Categories = append([]Category(nil), m.Categories...)
	m.Dishes = append([]Dish(nil), m.Dishes...)
	m.Order = m.Order.Clone()
	return m
}

type ActionKind string

const (
	ActionStartOver            ActionKind = "start_over"
	ActionCallWaiter           ActionKind = "call_waiter_chat"
	ActionCheckOrderStatus     ActionKind = "check_order_status"
	ActionShowCategories       ActionKind = "show_categories"
	ActionSelectCategory       ActionKind = "select_category"
	ActionSelectCategoryDirect ActionKind = "select_category_direct"
	ActionShowRecommendations  ActionKind = "show_recommendations"
	ActionAskQuestion          ActionKind = "ask_question"
	ActionSendText             ActionKind = "send_text"
)

// Action is a tappable chip attached to a bot message.
type Action struct {
	Label   string     `json:"label"`
	Kind    ActionKind `json:"action"`
	Payload string     `json:"payload,omitempty"`
}

func NewAction(label string, cmd Command) Action {
	return Action{Label: label, Kind: cmd.Kind(), Payload: cmd.Payload()}
}

// Command converts the chip back into the command it triggers.
func (a Action) Command() (Command, error) {
	return ParseCommand(a.Kind, a.Payload)
}

// VisibleActions drops chips that make no sense in the given mode:
// the waiter can only be called to a table.
func VisibleActions(actions []Action, mode OrderMode) []Action {
	var out []Action
	for _, a := range actions {
		if a.Kind == ActionCallWaiter && mode != OrderModeDineIn {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Command is the closed set of user intents the engine understands.
type Command interface {
	Kind() ActionKind
	Payload() string
	command()
}

type (
	StartOver            struct{}
	CallWaiter           struct{}
	CheckOrderStatus     struct{}
	ShowCategories       struct{}
	ShowRecommendations  struct{}
	AskQuestion          struct{}
	SelectCategory       struct{ Category string }
	SelectCategoryDirect struct{ Category string }
	SendText             struct{ Text string }
)

func (StartOver) Kind() ActionKind            { return ActionStartOver }
func (CallWaiter) Kind() ActionKind           { return ActionCallWaiter }
func (CheckOrderStatus) Kind() ActionKind     { return ActionCheckOrderStatus }
func (ShowCategories) Kind() ActionKind       { return ActionShowCategories }
func (ShowRecommendations) Kind() ActionKind  { return ActionShowRecommendations }
func (AskQuestion) Kind() ActionKind          { return ActionAskQuestion }
func (SelectCategory) Kind() ActionKind       { return ActionSelectCategory }
func (SelectCategoryDirect) Kind() ActionKind { return ActionSelectCategoryDirect }
func (SendText) Kind() ActionKind             { return ActionSendText }

func (StartOver) Payload() string              { return "" }
func (CallWaiter) Payload() string             { return "" }
func (CheckOrderStatus) Payload() string       { return "" }
func (ShowCategories) Payload() string         { return "" }
func (ShowRecommendations) Payload() string    { return "" }
func (AskQuestion) Payload() string            { return "" }
func (c SelectCategory) Payload() string       { return c.Category }
func (c SelectCategoryDirect) Payload() string { return c.Category }
func (c SendText) Payload() string             { return c.Text }

func (StartOver) command()            {}
func (CallWaiter) command()           {}
func (CheckOrderStatus) command()     {}
func (ShowCategories) command()       {}
func (ShowRecommendations) command()  {}
func (AskQuestion) command()          {}
func (SelectCategory) command()       {}
func (SelectCategoryDirect) command() {}
func (SendText) command()             {}

var (
	ErrUnknownAction  = errors.New("unknown action")
	ErrMissingPayload = errors.New("action requires a payload")
)

// ParseCommand builds a Command from its wire form.
func ParseCommand(kind ActionKind, payload string) (Command, error) {
	switch kind {
	case ActionStartOver:
		return StartOver{}, nil
	case ActionCallWaiter:
		return CallWaiter{}, nil
	case ActionCheckOrderStatus:
		return CheckOrderStatus{}, nil
	case ActionShowCategories:
		return ShowCategories{}, nil
	case ActionShowRecommendations:
		return ShowRecommendations{}, nil
	case ActionAskQuestion:
		return AskQuestion{}, nil
	case ActionSelectCategory, ActionSelectCategoryDirect, ActionSendText:
		if payload == "" {
			return nil, fmt.Errorf("%s: %w", kind, ErrMissingPayload)
		}
		switch kind {
		case ActionSelectCategory:
			return SelectCategory{Category: payload}, nil
		case ActionSelectCategoryDirect:
			return SelectCategoryDirect{Category: payload}, nil
		default:
			return SendText{Text: payload}, nil
		}
	}
	return nil, fmt.Errorf("%q: %w", kind, ErrUnknownAction)
}
