package domain

import "time"

// LifecyclePlan holds how long an order stays in each non-terminal status.
type LifecyclePlan struct {
	CookingAfter   time.Duration
	ReadyAfter     time.Duration
	CompletedAfter time.Duration
}

// After returns the delay before an order leaves status s.
func (p LifecyclePlan) After(s Status) (time.Duration, bool) {
	switch s {
	case StatusAccepted:
		return p.CookingAfter, true
	case StatusCooking:
		return p.ReadyAfter, true
	case StatusReady:
		return p.CompletedAfter, true
	}
	return 0, false
}

// EstimatedReady predicts when the order reaches StatusReady, measured
// from the moment it entered its current status. Nil once it is ready.
func (p LifecyclePlan) EstimatedReady(o *Order) *time.Time {
	var eta time.Time
	switch o.Status {
	case StatusAccepted:
		eta = o.UpdatedAt.Add(p.CookingAfter + p.ReadyAfter)
	case StatusCooking:
		eta = o.UpdatedAt.Add(p.ReadyAfter)
	default:
		return nil
	}
	return &eta
}
