package authclient

import (
	"sync"
	"time"
)

// LogoutBroadcaster fans a logout signal out to every subscriber. The signal
// is a timestamp; observers treat any timestamp newer than the last one they
// processed as a logout trigger, so replays and duplicates are harmless.
type LogoutBroadcaster struct {
	mu   sync.Mutex
	subs []chan time.Time
	last time.Time
}

func NewLogoutBroadcaster() *LogoutBroadcaster {
	return &LogoutBroadcaster{}
}

// Publish announces a logout at ts. Timestamps not newer than the latest
// published one are ignored. Delivery never blocks: a subscriber that has
// not drained its previous signal gets the newer timestamp instead.
func (b *LogoutBroadcaster) Publish(ts time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !ts.After(b.last) {
		return
	}
	b.last = ts

	for _, ch := range b.subs {
		select {
		case ch <- ts:
		default:
			// Replace the pending signal with the newer one.
			select {
			case <-ch:
			default:
			}
			ch <- ts
		}
	}
}

// Subscribe registers an observer. The channel carries the logout timestamp
// and is buffered, so slow observers never stall publishers.
func (b *LogoutBroadcaster) Subscribe() <-chan time.Time {
	ch := make(chan time.Time, 1)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()
	return ch
}

// Last returns the most recently published logout timestamp, zero when no
// logout has been announced yet.
func (b *LogoutBroadcaster) Last() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last
}
