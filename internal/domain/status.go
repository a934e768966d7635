package domain

import "time"

type OrderMode string

const (
	OrderModeDineIn   OrderMode = "dine-in"
	OrderModeTakeaway OrderMode = "takeaway"
	OrderModeDelivery OrderMode = "delivery"
)

// Valid reports whether m is one of the known order modes.
func (m OrderMode) Valid() bool {
	switch m {
	case OrderModeDineIn, OrderModeTakeaway, OrderModeDelivery:
		return true
	}
	return false
}

type Status string

const (
	StatusAccepted  Status = "accepted"
	StatusCooking   Status = "cooking"
	StatusReady     Status = "ready"
	StatusCompleted Status = "completed"
)

// StatusSequence is the only path an order walks through.
var StatusSequence = []Status{StatusAccepted, StatusCooking, StatusReady, StatusCompleted}

// Next returns the status that follows s, false for the terminal status.
func (s Status) Next() (Status, bool) {
	for i, st := range StatusSequence {
		if st == s && i+1 < len(StatusSequence) {
			return StatusSequence[i+1], true
		}
	}
	return "", false
}

// Index returns the position of s in StatusSequence or -1.
func (s Status) Index() int {
	for i, st := range StatusSequence {
		if st == s {
			return i
		}
	}
	return -1
}

type Language string

const (
	LanguageRU Language = "ru"
	LanguageEN Language = "en"
	LanguageAR Language = "ar"
)

var Languages = []Language{LanguageRU, LanguageEN, LanguageAR}

func (l Language) Valid() bool {
	for _, known := range Languages {
		if l == known {
			return true
		}
	}
	return false
}

// StatusLog represents a log entry for order status changes
type StatusLog struct {
	Status    Status    `json:"status"`
	ChangedAt time.Time `json:"changed_at"`
}
