// Package clipboard copies secrets to the system clipboard and clears them
// again after a deadline. A copied value is only wiped if the clipboard
// still holds it, so anything the user copied in the meantime survives.
package clipboard

import (
	"sync"
	"time"

	"github.com/atotto/clipboard"
)

// System abstracts the OS clipboard.
type System interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// Timer is the cancelable handle returned by a Scheduler.
type Timer interface {
	Stop() bool
}

// Scheduler schedules a function to run after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClipboard struct{}

func (systemClipboard) ReadAll() (string, error)   { return clipboard.ReadAll() }
func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// pendingClear identifies one scheduled clear. The handle is registered in
// the pending map before its timer exists, so a callback that fires
// immediately never reads a half-initialized Timer; the timer field is only
// touched under the guard mutex.
type pendingClear struct {
	timer Timer
}

// Guard owns the pending clear timers. Copying under the same key cancels
// the previous clear so a stale timer never wipes a newer value.
type Guard struct {
	mu        sync.Mutex
	system    System
	scheduler Scheduler
	pending   map[string]*pendingClear
}

// NewGuard builds a Guard backed by the OS clipboard and real timers.
func NewGuard() *Guard {
	return newGuard(systemClipboard{}, realScheduler{})
}

func newGuard(system System, scheduler Scheduler) *Guard {
	return &Guard{
		system:    system,
		scheduler: scheduler,
		pending:   make(map[string]*pendingClear),
	}
}

// CopyWithExpiry writes value to the clipboard and schedules a clear after
// ttl. The key identifies the logical slot: copying again under the same
// key supersedes the earlier clear.
func (g *Guard) CopyWithExpiry(key, value string, ttl time.Duration) error {
	if err := g.system.WriteAll(value); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if p, ok := g.pending[key]; ok {
		p.timer.Stop()
	}
	p := &pendingClear{}
	g.pending[key] = p
	p.timer = g.scheduler.AfterFunc(ttl, func() {
		g.clear(key, value, p)
	})
	return nil
}

// Cancel stops a pending clear without touching the clipboard.
func (g *Guard) Cancel(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if p, ok := g.pending[key]; ok {
		p.timer.Stop()
		delete(g.pending, key)
	}
}

// clear wipes the clipboard only when it still holds the copied value.
// Read and write failures are swallowed: clearing is best effort. The own
// handle guards the pending map against a stale callback evicting a newer
// entry under the same key.
func (g *Guard) clear(key, value string, own *pendingClear) {
	g.mu.Lock()
	if g.pending[key] == own {
		delete(g.pending, key)
	}
	g.mu.Unlock()

	current, err := g.system.ReadAll()
	if err != nil || current != value {
		return
	}
	_ = g.system.WriteAll("")
}
