package oauth

import (
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const ticketLength = 43

type ticket[T any] struct {
	value     T
	expiresAt time.Time
}

// Tickets hands out random single-use keys that expire after ttl. The sign-in
// flow uses one set for OAuth state and one for the code the browser trades
// for a session.
type Tickets[T any] struct {
	ttl   time.Duration
	now   func() time.Time
	mu    sync.Mutex
	items map[string]ticket[T]
}

func NewTickets[T any](ttl time.Duration) *Tickets[T] {
	return &Tickets[T]{ttl: ttl, now: time.Now, items: make(map[string]ticket[T])}
}

// Issue stores value under a fresh key and returns the key.
func (t *Tickets[T]) Issue(value T) (string, error) {
	key, err := gonanoid.New(ticketLength)
	if err != nil {
		return "", err
	}

	t.mu.Lock()
	t.items[key] = ticket[T]{value: value, expiresAt: t.now().Add(t.ttl)}
	t.mu.Unlock()
	return key, nil
}

// Redeem removes key and reports its value. Unknown and expired keys fail.
func (t *Tickets[T]) Redeem(key string) (T, bool) {
	t.mu.Lock()
	tk, ok := t.items[key]
	delete(t.items, key)
	t.mu.Unlock()

	if !ok || t.now().After(tk.expiresAt) {
		var zero T
		return zero, false
	}
	return tk.value, true
}

// Sweep drops expired keys and returns how many were removed.
func (t *Tickets[T]) Sweep() int {
	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	for key, tk := range t.items {
		if now.After(tk.expiresAt) {
			delete(t.items, key)
			removed++
		}
	}
	return removed
}

func (t *Tickets[T]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.items)
}
