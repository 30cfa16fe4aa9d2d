// Package debounce coalesces bursts of per-location file events into a
// single delayed callback.
package debounce

import (
	"sync"
	"time"
)

// Timer is the running-timer handle the debouncer cancels on restart.
type Timer interface {
	Stop() bool
}

// TimerFactory schedules fn after d and returns its handle. Production uses
// time.AfterFunc; tests inject a fake to fire deterministically.
type TimerFactory func(d time.Duration, fn func()) Timer

type realTimer struct{ *time.Timer }

func stdTimerFactory(d time.Duration, fn func()) Timer {
	return realTimer{time.AfterFunc(d, fn)}
}

// Debouncer holds one pending timer per key. Each Trigger call cancels the
// key's pending timer and schedules a fresh one, so the callback fires only
// after the key has been quiet for the full delay.
type Debouncer struct {
	delay    time.Duration
	newTimer TimerFactory
	fire     func(key string)

	mu      sync.Mutex
	pending map[string]Timer
	stopped bool
}

// Option configures a Debouncer.
type Option func(*Debouncer)

// WithTimerFactory replaces the timer source, for tests.
func WithTimerFactory(factory TimerFactory) Option {
	return func(d *Debouncer) { d.newTimer = factory }
}

// New returns a Debouncer that calls fire(key) after a key has seen no
// triggers for delay.
func New(delay time.Duration, fire func(key string), opts ...Option) *Debouncer {
	d := &Debouncer{
		delay:    delay,
		newTimer: stdTimerFactory,
		fire:     fire,
		pending:  make(map[string]Timer),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Trigger restarts the key's quiet-period timer.
func (d *Debouncer) Trigger(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if timer, ok := d.pending[key]; ok {
		timer.Stop()
	}
	d.pending[key] = d.newTimer(d.delay, func() { d.expire(key) })
}

func (d *Debouncer) expire(key string) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	delete(d.pending, key)
	d.mu.Unlock()
	d.fire(key)
}

// Pending reports how many keys have a timer outstanding.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Stop cancels all pending timers. Callbacks already past expire still run;
// no new ones are scheduled.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	for key, timer := range d.pending {
		timer.Stop()
		delete(d.pending, key)
	}
}
