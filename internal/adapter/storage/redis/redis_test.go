package redis

import (
	"context"
	"testing"
	"time"

	"escrow-settlement-engine/internal/core/domain"
	"escrow-settlement-engine/internal/core/ports"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestIdempotencyStore_ReserveCompleteReplay(t *testing.T) {
	ctx := context.Background()
	_, client := testClient(t)
	store := NewIdempotencyStore(client, time.Hour)

	rec, state, err := store.Reserve(ctx, "key-1", "fp-1")
	require.NoError(t, err)
	assert.Equal(t, ports.ReservationNew, state)
	assert.Nil(t, rec)

	_, state, err = store.Reserve(ctx, "key-1", "fp-1")
	require.NoError(t, err)
	assert.Equal(t, ports.ReservationInFlight, state)

	require.NoError(t, store.Complete(ctx, "key-1", []byte(`{"id":"rcpt_1"}`)))

	rec, state, err = store.Reserve(ctx, "key-1", "fp-1")
	require.NoError(t, err)
	assert.Equal(t, ports.ReservationCompleted, state)
	require.NotNil(t, rec)
	assert.Equal(t, []byte(`{"id":"rcpt_1"}`), rec.Result)
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestIdempotencyStore_FingerprintMismatch(t *testing.T) {
	ctx := context.Background()
	_, client := testClient(t)
	store := NewIdempotencyStore(client, time.Hour)

	_, _, err := store.Reserve(ctx, "key-1", "fp-1")
	require.NoError(t, err)

	_, state, err := store.Reserve(ctx, "key-1", "fp-other")
	require.NoError(t, err)
	assert.Equal(t, ports.ReservationMismatch, state)
}

func TestIdempotencyStore_ReleaseAllowsRetry(t *testing.T) {
	ctx := context.Background()
	_, client := testClient(t)
	store := NewIdempotencyStore(client, time.Hour)

	_, state, err := store.Reserve(ctx, "key-1", "fp-1")
	require.NoError(t, err)
	assert.Equal(t, ports.ReservationNew, state)

	require.NoError(t, store.Release(ctx, "key-1"))

	_, state, err = store.Reserve(ctx, "key-1", "fp-1")
	require.NoError(t, err)
	assert.Equal(t, ports.ReservationNew, state)
}

func TestIdempotencyStore_HorizonExpiry(t *testing.T) {
	ctx := context.Background()
	mr, client := testClient(t)
	store := NewIdempotencyStore(client, time.Hour)

	_, _, err := store.Reserve(ctx, "key-1", "fp-1")
	require.NoError(t, err)
	require.NoError(t, store.Complete(ctx, "key-1", []byte("r")))

	mr.FastForward(2 * time.Hour)

	_, state, err := store.Reserve(ctx, "key-1", "fp-other")
	require.NoError(t, err)
	assert.Equal(t, ports.ReservationNew, state)
}

func TestIdempotencyStore_InFlightLeaseLapses(t *testing.T) {
	ctx := context.Background()
	mr, client := testClient(t)
	store := NewIdempotencyStore(client, time.Hour)

	_, state, err := store.Reserve(ctx, "key-1", "fp-1")
	require.NoError(t, err)
	assert.Equal(t, ports.ReservationNew, state)

	// The holder died mid-operation. Once the lease lapses the key is
	// reclaimable instead of answering in-flight until the horizon.
	mr.FastForward(DefaultInFlightLease + time.Second)

	_, state, err = store.Reserve(ctx, "key-1", "fp-1")
	require.NoError(t, err)
	assert.Equal(t, ports.ReservationNew, state)
}

func TestIdempotencyStore_CompleteAfterLapseDoesNotResurrect(t *testing.T) {
	ctx := context.Background()
	mr, client := testClient(t)
	store := NewIdempotencyStore(client, time.Hour)

	_, _, err := store.Reserve(ctx, "key-1", "fp-1")
	require.NoError(t, err)

	mr.FastForward(DefaultInFlightLease + time.Second)

	// The late Complete has nothing to publish into.
	assert.Error(t, store.Complete(ctx, "key-1", []byte("r")))

	_, state, err := store.Reserve(ctx, "key-1", "fp-1")
	require.NoError(t, err)
	assert.Equal(t, ports.ReservationNew, state)
}

func TestIdempotencyStore_CompletePromotesToHorizon(t *testing.T) {
	ctx := context.Background()
	mr, client := testClient(t)
	store := NewIdempotencyStore(client, time.Hour)

	_, _, err := store.Reserve(ctx, "key-1", "fp-1")
	require.NoError(t, err)
	require.NoError(t, store.Complete(ctx, "key-1", []byte("r")))

	// Far past the lease, well inside the horizon: still replayable.
	mr.FastForward(30 * time.Minute)

	rec, state, err := store.Reserve(ctx, "key-1", "fp-1")
	require.NoError(t, err)
	assert.Equal(t, ports.ReservationCompleted, state)
	require.NotNil(t, rec)
	assert.Equal(t, []byte("r"), rec.Result)
}

func TestVelocityStore_CapAndExpiry(t *testing.T) {
	ctx := context.Background()
	mr, client := testClient(t)
	store := NewVelocityStore(client, "wallet")

	for i := 0; i < 3; i++ {
		ok, err := store.Advance(ctx, "w_a", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok, "event %d", i)
	}

	ok, err := store.Advance(ctx, "w_a", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	// The capped attempt was not recorded; the cap holds, it does not grow.
	ok, err = store.Advance(ctx, "w_a", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = store.Advance(ctx, "w_b", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	// The whole window key expires once no event lands for a full window.
	mr.FastForward(2 * time.Minute)
	ok, err = store.Advance(ctx, "w_a", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVelocityStore_PrefixesIsolateSubjectKinds(t *testing.T) {
	ctx := context.Background()
	_, client := testClient(t)
	wallets := NewVelocityStore(client, "wallet")
	devices := NewVelocityStore(client, "device")

	ok, err := wallets.Advance(ctx, "x", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	// Same subject string, different kind, separate window.
	ok, err = devices.Advance(ctx, "x", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = wallets.Advance(ctx, "x", 1, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDenylistStore_AddCheckRemove(t *testing.T) {
	ctx := context.Background()
	_, client := testClient(t)
	store := NewDenylistStore(client)

	denied, err := store.IsDenied(ctx, domain.DenyWallet, "w_bad")
	require.NoError(t, err)
	assert.False(t, denied)

	require.NoError(t, store.Add(ctx, domain.DenylistEntry{Kind: domain.DenyWallet, Value: "w_bad"}))

	denied, err = store.IsDenied(ctx, domain.DenyWallet, "w_bad")
	require.NoError(t, err)
	assert.True(t, denied)

	// Kinds are separate sets.
	denied, err = store.IsDenied(ctx, domain.DenyDevice, "w_bad")
	require.NoError(t, err)
	assert.False(t, denied)

	require.NoError(t, store.Remove(ctx, domain.DenylistEntry{Kind: domain.DenyWallet, Value: "w_bad"}))
	denied, err = store.IsDenied(ctx, domain.DenyWallet, "w_bad")
	require.NoError(t, err)
	assert.False(t, denied)
}

func TestHealthCheck(t *testing.T) {
	ctx := context.Background()
	mr, client := testClient(t)
	check := NewHealthCheck(client)

	assert.Equal(t, "redis", check.Name())
	assert.NoError(t, check.Ping(ctx))

	mr.Close()
	assert.Error(t, check.Ping(ctx))
}
