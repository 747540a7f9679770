package authclient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTokenStore_StoreAndGet(t *testing.T) {
	store := NewTokenStore()
	store.Store("tok", time.Hour)
	require.Equal(t, "tok", store.Get())
}

func TestTokenStore_LazyExpiry(t *testing.T) {
	now := time.Now()
	store := NewTokenStore()
	store.now = func() time.Time { return now }

	store.Store("tok", time.Minute)
	require.Equal(t, "tok", store.Get())

	// Advance past the expiry; the next Get clears the store.
	now = now.Add(2 * time.Minute)
	require.Empty(t, store.Get())
	require.Empty(t, store.Get())
}

func TestTokenStore_ZeroTTLFallsBackToDefault(t *testing.T) {
	now := time.Now()
	store := NewTokenStore()
	store.now = func() time.Time { return now }

	store.Store("tok", 0)

	now = now.Add(DefaultTokenTTL - time.Minute)
	require.Equal(t, "tok", store.Get())

	now = now.Add(2 * time.Minute)
	require.Empty(t, store.Get())
}

func TestTokenStore_ExpiringSoon(t *testing.T) {
	now := time.Now()
	store := NewTokenStore()
	store.now = func() time.Time { return now }

	store.Store("tok", time.Hour)
	require.False(t, store.ExpiringSoon(10*time.Minute))

	now = now.Add(55 * time.Minute)
	require.True(t, store.ExpiringSoon(10*time.Minute))

	// Expired tokens have nothing left to warn about.
	now = now.Add(10 * time.Minute)
	require.False(t, store.ExpiringSoon(10*time.Minute))
}

func TestTokenStore_Clear(t *testing.T) {
	store := NewTokenStore()
	store.Store("tok", time.Hour)
	store.Clear()
	require.Empty(t, store.Get())
}

func TestLogoutBroadcaster_DeliversToAllSubscribers(t *testing.T) {
	b := NewLogoutBroadcaster()
	first := b.Subscribe()
	second := b.Subscribe()

	ts := time.Now()
	b.Publish(ts)

	require.Equal(t, ts, <-first)
	require.Equal(t, ts, <-second)
	require.Equal(t, ts, b.Last())
}

func TestLogoutBroadcaster_IgnoresOlderTimestamps(t *testing.T) {
	b := NewLogoutBroadcaster()
	sub := b.Subscribe()

	newer := time.Now()
	older := newer.Add(-time.Minute)

	b.Publish(newer)
	<-sub

	b.Publish(older)
	select {
	case ts := <-sub:
		t.Fatalf("stale timestamp delivered: %v", ts)
	default:
	}
	require.Equal(t, newer, b.Last())
}

func TestLogoutBroadcaster_SlowSubscriberGetsNewestSignal(t *testing.T) {
	b := NewLogoutBroadcaster()
	sub := b.Subscribe()

	first := time.Now()
	second := first.Add(time.Second)

	// Neither publish may block even though the subscriber never drained.
	b.Publish(first)
	b.Publish(second)

	require.Equal(t, second, <-sub)
}
