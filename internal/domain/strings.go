package domain

import (
	"fmt"
	"sort"
)

// Strings is the localized text table of one language.
type Strings map[string]string

// T returns the text for key, or the key itself when it is missing.
func (s Strings) T(key string) string {
	if v, ok := s[key]; ok {
		return v
	}
	return key
}

// Missing lists the required keys absent from s, sorted.
func (s Strings) Missing() []string {
	var missing []string
	for _, key := range RequiredStringKeys {
		if _, ok := s[key]; !ok {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}

// Validate fails when any required key is absent.
func (s Strings) Validate() error {
	if missing := s.Missing(); len(missing) > 0 {
		return fmt.Errorf("missing translation keys: %v", missing)
	}
	return nil
}

const (
	KeyGreeting        = "greeting"
	KeyResetChat       = "resetChat"
	KeyCallWaiter      = "callWaiter"
	KeyCallWaiterChat  = "callWaiterChat"
	KeyStartOver       = "startOver"
	KeyCheckStatus     = "checkStatus"
	KeyShowMenu        = "showMenu"
	KeyStatusInfo      = "statusInfo"
	KeyNoOrders        = "noOrders"
	KeyChooseCategory  = "chooseCategory"
	KeyHereIs          = "hereIs"
	KeyShow            = "show"
	KeyWantMore        = "wantMore"
	KeyAdvice          = "advice"
	KeyHits            = "hits"
	KeyAskQuestion     = "askQuestion"
	KeyWriteQuestion   = "writeQuestion"
	KeyLearning        = "learning"
	KeyKitchenCooking  = "kitchenCooking"
	KeyCourierWay      = "courierWay"
	KeyOrderReady      = "orderReady"
	KeyOrderAccepted   = "orderAccepted"
	KeyTrackStatus     = "trackStatus"
	KeyYourTable       = "yourTable"
	KeyDineIn          = "dineIn"
	KeyTakeaway        = "takeaway"
	KeyDelivery        = "delivery"
	KeyASAP            = "asap"
	KeyStatusAccepted  = "statusAccepted"
	KeyStatusCooking   = "statusCooking"
	KeyStatusReady     = "statusReady"
	KeyStatusWay       = "statusWay"
	KeyStatusCompleted = "statusCompleted"
)

var RequiredStringKeys = []string{
	KeyGreeting, KeyResetChat, KeyCallWaiter, KeyCallWaiterChat, KeyStartOver,
	KeyCheckStatus, KeyShowMenu, KeyStatusInfo, KeyNoOrders, KeyChooseCategory,
	KeyHereIs, KeyShow, KeyWantMore, KeyAdvice, KeyHits, KeyAskQuestion,
	KeyWriteQuestion, KeyLearning, KeyKitchenCooking, KeyCourierWay, KeyOrderReady,
	KeyOrderAccepted, KeyTrackStatus, KeyYourTable, KeyDineIn, KeyTakeaway,
	KeyDelivery, KeyASAP, KeyStatusAccepted, KeyStatusCooking, KeyStatusReady,
	KeyStatusWay, KeyStatusCompleted,
}

// ModeLabel returns the localized name of an order mode.
func (s Strings) ModeLabel(m OrderMode) string {
	switch m {
	case OrderModeDineIn:
		return s.T(KeyDineIn)
	case OrderModeTakeaway:
		return s.T(KeyTakeaway)
	default:
		return s.T(KeyDelivery)
	}
}
