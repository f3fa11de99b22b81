package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long a toast stays up unless dismissed first.
const DefaultTTL = 5 * time.Second

// Toast is a live notification on a Board.
type Toast struct {
	ID           string
	Notification Notification
	View         View
	CreatedAt    time.Time

	board *Board
	timer *time.Timer
}

// Dismiss removes the toast early. It reports whether this call removed it.
func (t *Toast) Dismiss() bool {
	if t == nil || t.board == nil {
		return false
	}
	return t.board.Dismiss(t.ID)
}

// Board holds the toasts currently on screen. Each toast removes itself after
// the board TTL; manual dismissal stops its timer. A toast is removed at most once.
type Board struct {
	mu     sync.Mutex
	ttl    time.Duration
	toasts map[string]*Toast
	order  []string
}

// NewBoard creates a board whose toasts expire after ttl (DefaultTTL when <= 0).
func NewBoard(ttl time.Duration) *Board {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Board{ttl: ttl, toasts: make(map[string]*Toast)}
}

// TTL returns the auto-dismiss delay.
func (b *Board) TTL() time.Duration { return b.ttl }

// Show inserts a toast for n and schedules its removal.
func (b *Board) Show(n Notification) *Toast {
	n.Severity = normalizeSeverity(n.Severity)
	t := &Toast{
		ID:           uuid.NewString(),
		Notification: n,
		View:         Render(n),
		CreatedAt:    time.Now(),
		board:        b,
	}

	b.mu.Lock()
	b.toasts[t.ID] = t
	b.order = append(b.order, t.ID)
	t.timer = time.AfterFunc(b.ttl, func() { b.remove(t.ID) })
	b.mu.Unlock()

	return t
}

// Notify implements Notifier.
func (b *Board) Notify(_ context.Context, n Notification) { b.Show(n) }

// Dismiss removes the toast with id, if it is still on the board.
func (b *Board) Dismiss(id string) bool { return b.remove(id) }

func (b *Board) remove(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.toasts[id]
	if !ok {
		return false
	}
	delete(b.toasts, id)
	if t.timer != nil {
		t.timer.Stop()
	}
	for i, v := range b.order {
		if v == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	return true
}

// Active returns the toasts on the board, oldest first.
func (b *Board) Active() []Toast {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Toast, 0, len(b.order))
	for _, id := range b.order {
		t := b.toasts[id]
		out = append(out, Toast{ID: t.ID, Notification: t.Notification, View: t.View, CreatedAt: t.CreatedAt})
	}
	return out
}

// Len returns the number of live toasts.
func (b *Board) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.toasts)
}

// Clear dismisses every toast and stops their timers.
func (b *Board) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, t := range b.toasts {
		if t.timer != nil {
			t.timer.Stop()
		}
	}
	b.toasts = make(map[string]*Toast)
	b.order = nil
}
