package clock

import (
	"time"

	"github.com/YelzhanWeb/sous/internal/interfaces"
)

// Real schedules callbacks on wall-clock time.
type Real struct{}

func NewReal() Real {
	return Real{}
}

func (Real) Now() time.Time {
	return time.Now()
}

func (Real) AfterFunc(d time.Duration, f func()) interfaces.Timer {
	return time.AfterFunc(d, f)
}
