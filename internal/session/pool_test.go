package session

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-ftp-keeper/internal/logger"
	"github.com/MKhiriev/go-ftp-keeper/models"
)

// fakeSession is a minimal Session for pool tests. Only Alive and Close
// matter here.
type fakeSession struct {
	Session
	alive  atomic.Bool
	closed atomic.Bool
}

func newFakeSession() *fakeSession {
	s := &fakeSession{}
	s.alive.Store(true)
	return s
}

func (s *fakeSession) Alive(context.Context) bool { return s.alive.Load() }

func (s *fakeSession) Close() error {
	s.closed.Store(true)
	return nil
}

type fakeDialer struct {
	dials atomic.Int64
	last  atomic.Pointer[fakeSession]
}

func (d *fakeDialer) Dial(context.Context, models.ConnectionProfile) (Session, error) {
	d.dials.Add(1)
	s := newFakeSession()
	d.last.Store(s)
	return s, nil
}

func testProfile() models.ConnectionProfile {
	return models.ConnectionProfile{ID: models.NewID(), Name: "box", Protocol: models.SFTP, Host: "box.local"}
}

func TestPool_ReusesIdleSession(t *testing.T) {
	dialer := &fakeDialer{}
	pool := NewPool(dialer, 2, time.Minute, logger.Nop())
	defer pool.Close()
	profile := testProfile()

	lease, err := pool.Acquire(context.Background(), profile)
	require.NoError(t, err)
	first := lease.Session
	pool.Release(lease, false)

	lease, err = pool.Acquire(context.Background(), profile)
	require.NoError(t, err)
	assert.Same(t, first, lease.Session)
	assert.Equal(t, int64(1), dialer.dials.Load())
	pool.Release(lease, false)
}

func TestPool_DamagedSessionIsClosedNotReused(t *testing.T) {
	dialer := &fakeDialer{}
	pool := NewPool(dialer, 2, time.Minute, logger.Nop())
	defer pool.Close()
	profile := testProfile()

	lease, err := pool.Acquire(context.Background(), profile)
	require.NoError(t, err)
	damaged := lease.Session.(*fakeSession)
	pool.Release(lease, true)
	assert.True(t, damaged.closed.Load())

	lease, err = pool.Acquire(context.Background(), profile)
	require.NoError(t, err)
	assert.NotSame(t, damaged, lease.Session)
	assert.Equal(t, int64(2), dialer.dials.Load())
	pool.Release(lease, false)
}

func TestPool_StaleIdleSessionIsRedialed(t *testing.T) {
	dialer := &fakeDialer{}
	pool := NewPool(dialer, 1, time.Minute, logger.Nop())
	defer pool.Close()
	profile := testProfile()

	lease, err := pool.Acquire(context.Background(), profile)
	require.NoError(t, err)
	stale := lease.Session.(*fakeSession)
	pool.Release(lease, false)
	stale.alive.Store(false)

	lease, err = pool.Acquire(context.Background(), profile)
	require.NoError(t, err)
	assert.NotSame(t, stale, lease.Session)
	assert.True(t, stale.closed.Load())
	pool.Release(lease, false)
}

func TestPool_EnforcesPerProfileCap(t *testing.T) {
	dialer := &fakeDialer{}
	pool := NewPool(dialer, 1, time.Minute, logger.Nop())
	defer pool.Close()
	profile := testProfile()

	lease, err := pool.Acquire(context.Background(), profile)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = pool.Acquire(ctx, profile)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	pool.Release(lease, false)

	lease, err = pool.Acquire(context.Background(), profile)
	require.NoError(t, err)
	pool.Release(lease, false)
}

func TestPool_IndependentProfilesDoNotBlockEachOther(t *testing.T) {
	dialer := &fakeDialer{}
	pool := NewPool(dialer, 1, time.Minute, logger.Nop())
	defer pool.Close()

	leaseA, err := pool.Acquire(context.Background(), testProfile())
	require.NoError(t, err)

	leaseB, err := pool.Acquire(context.Background(), testProfile())
	require.NoError(t, err)

	pool.Release(leaseA, false)
	pool.Release(leaseB, false)
}

func TestPool_ReaperClosesExpiredIdleSessions(t *testing.T) {
	dialer := &fakeDialer{}
	pool := NewPool(dialer, 1, 20*time.Millisecond, logger.Nop())
	defer pool.Close()
	profile := testProfile()

	lease, err := pool.Acquire(context.Background(), profile)
	require.NoError(t, err)
	idle := lease.Session.(*fakeSession)
	pool.Release(lease, false)

	assert.Eventually(t, idle.closed.Load, time.Second, 5*time.Millisecond)

	// The reaped slot is free again.
	lease, err = pool.Acquire(context.Background(), profile)
	require.NoError(t, err)
	pool.Release(lease, false)
}

func TestPool_CloseRejectsAcquire(t *testing.T) {
	dialer := &fakeDialer{}
	pool := NewPool(dialer, 1, time.Minute, logger.Nop())
	profile := testProfile()

	lease, err := pool.Acquire(context.Background(), profile)
	require.NoError(t, err)
	pool.Release(lease, false)
	pool.Close()

	idle := dialer.last.Load()
	assert.True(t, idle.closed.Load(), "close must shut idle sessions")

	_, err = pool.Acquire(context.Background(), profile)
	assert.ErrorIs(t, err, ErrPoolClosed)
}
