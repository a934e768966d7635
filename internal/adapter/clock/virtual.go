package clock

import (
	"sync"
	"time"

	"github.com/YelzhanWeb/sous/internal/interfaces"
)

// Virtual is a manually advanced scheduler. Callbacks fire synchronously
// inside Advance, in due-time order, ties broken by arming order.
type Virtual struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers []*virtualTimer
}

type virtualTimer struct {
	clock *Virtual
	due   time.Time
	seq   uint64
	f     func()
	done  bool
}

func NewVirtual(start time.Time) *Virtual {
	return &Virtual{now: start}
}

func (v *Virtual) Now() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

func (v *Virtual) AfterFunc(d time.Duration, f func()) interfaces.Timer {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.seq++
	t := &virtualTimer{clock: v, due: v.now.Add(d), seq: v.seq, f: f}
	v.timers = append(v.timers, t)
	return t
}

// Advance moves time forward by d, running every callback that becomes
// due, including ones armed by callbacks during the advance.
func (v *Virtual) Advance(d time.Duration) {
	v.mu.Lock()
	target := v.now.Add(d)
	v.mu.Unlock()

	for {
		v.mu.Lock()
		idx := v.nextDue(target)
		if idx < 0 {
			v.now = target
			v.mu.Unlock()
			return
		}
		t := v.timers[idx]
		v.timers = append(v.timers[:idx], v.timers[idx+1:]...)
		t.done = true
		v.now = t.due
		v.mu.Unlock()

		t.f()
	}
}

// Pending returns the number of armed timers.
func (v *Virtual) Pending() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.timers)
}

func (v *Virtual) nextDue(target time.Time) int {
	idx := -1
	for i, t := range v.timers {
		if t.due.After(target) {
			continue
		}
		if idx < 0 || t.due.Before(v.timers[idx].due) ||
			(t.due.Equal(v.timers[idx].due) && t.seq < v.timers[idx].seq) {
			idx = i
		}
	}
	return idx
}

func (t *virtualTimer) Stop() bool {
	v := t.clock
	v.mu.Lock()
	defer v.mu.Unlock()

	if t.done {
		return false
	}
	t.done = true
	for i, other := range v.timers {
		if other == t {
			v.timers = append(v.timers[:i], v.timers[i+1:]...)
			break
		}
	}
	return true
}
