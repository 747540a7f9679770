package authclient

import (
	"context"
	"errors"
	"time"
)

// DefaultHeartbeatInterval is how often the session is revalidated.
const DefaultHeartbeatInterval = 30 * time.Second

// ValidateFunc checks the current session against the backend. It returns
// ErrUnauthorized when the session is no longer accepted, any other error
// for transient failures (which are ignored; the next tick retries).
type ValidateFunc func(ctx context.Context) error

// Heartbeat periodically revalidates the stored token. When the backend
// rejects the session, the store is cleared, a logout is broadcast, and the
// configured callback runs (the caller decides between navigating to the
// login page or reloading to wipe in-memory state).
type Heartbeat struct {
	store     *TokenStore
	broadcast *LogoutBroadcaster
	validate  ValidateFunc
	interval  time.Duration
	onLogout  func()
}

func NewHeartbeat(store *TokenStore, broadcast *LogoutBroadcaster, validate ValidateFunc, interval time.Duration, onLogout func()) *Heartbeat {
	if interval <= 0 {
		interval = DefaultHeartbeatInterval
	}
	return &Heartbeat{
		store:     store,
		broadcast: broadcast,
		validate:  validate,
		interval:  interval,
		onLogout:  onLogout,
	}
}

// Run blocks until ctx is cancelled, revalidating once per interval.
// Ticks without a stored token are skipped; nothing to validate.
func (h *Heartbeat) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.tick(ctx)
		}
	}
}

func (h *Heartbeat) tick(ctx context.Context) {
	if h.store.Get() == "" {
		return
	}

	err := h.validate(ctx)
	if err == nil {
		return
	}
	if !errors.Is(err, ErrUnauthorized) {
		// Transient failure; keep the session and retry next tick.
		return
	}

	h.store.Clear()
	h.broadcast.Publish(time.Now())
	if h.onLogout != nil {
		h.onLogout()
	}
}
