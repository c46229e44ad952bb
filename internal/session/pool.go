// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MKhiriev/go-ftp-keeper/internal/logger"
	"github.com/MKhiriev/go-ftp-keeper/models"
)

// Pool hands out sessions with a hard per-profile cap and reuses idle
// connections. A semaphore slot tracks every live connection, leased or
// idle, so the cap bounds open connections and not just concurrent users.
// Idle sessions are closed by a background reaper after the configured
// timeout.
type Pool struct {
	dialer      Dialer
	perProfile  int
	idleTimeout time.Duration
	log         *logger.Logger

	mu      sync.Mutex
	slots   map[uuid.UUID]*profileSlot
	closed  bool
	stop    chan struct{}
	stopped sync.WaitGroup
}

type profileSlot struct {
	sem  chan struct{}
	idle []idleSession
}

type idleSession struct {
	sess  Session
	since time.Time
}

// Lease is a session checked out of the pool. It must be returned with
// Pool.Release exactly once.
type Lease struct {
	Session
	profileID uuid.UUID
}

// NewPool starts a pool and its idle reaper.
func NewPool(dialer Dialer, perProfile int, idleTimeout time.Duration, log *logger.Logger) *Pool {
	p := &Pool{
		dialer:      dialer,
		perProfile:  perProfile,
		idleTimeout: idleTimeout,
		log:         log,
		slots:       make(map[uuid.UUID]*profileSlot),
		stop:        make(chan struct{}),
	}

	p.stopped.Add(1)
	go p.reap()

	return p
}

// Acquire returns a session for the profile, reusing an idle one when it is
// still alive and dialing otherwise. Blocks while the profile is at its
// connection cap until a slot frees or ctx is done.
func (p *Pool) Acquire(ctx context.Context, profile models.ConnectionProfile) (*Lease, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	slot, ok := p.slots[profile.ID]
	if !ok {
		slot = &profileSlot{sem: make(chan struct{}, p.perProfile)}
		p.slots[profile.ID] = slot
	}

	// Prefer reusing an idle connection; it already holds a slot.
	if sess := p.popIdleLocked(slot); sess != nil {
		p.mu.Unlock()
		if sess.Alive(ctx) {
			return &Lease{Session: sess, profileID: profile.ID}, nil
		}
		// Stale connection: replace it in the slot it occupied.
		_ = sess.Close()
		return p.dialLease(ctx, profile, slot)
	}
	p.mu.Unlock()

	select {
	case slot.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.stop:
		return nil, ErrPoolClosed
	}

	return p.dialLease(ctx, profile, slot)
}

// Release returns a leased session. A damaged session (its last operation
// failed on the network) is closed and its slot freed; a healthy one goes
// back to the idle list still holding its slot.
func (p *Pool) Release(l *Lease, damaged bool) {
	if l == nil {
		return
	}

	p.mu.Lock()
	slot, ok := p.slots[l.profileID]
	if !ok || p.closed || damaged {
		p.mu.Unlock()
		_ = l.Session.Close()
		if ok {
			p.freeSlot(slot)
		}
		return
	}
	slot.idle = append(slot.idle, idleSession{sess: l.Session, since: time.Now()})
	p.mu.Unlock()
}

// Close stops the reaper and closes every idle session. Leased sessions are
// closed by their holders via Release, which closes instead of parking once
// the pool is shut.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.stop)

	var toClose []Session
	for _, slot := range p.slots {
		for _, is := range slot.idle {
			toClose = append(toClose, is.sess)
		}
		slot.idle = nil
	}
	p.mu.Unlock()

	p.stopped.Wait()
	for _, sess := range toClose {
		_ = sess.Close()
	}
}

func (p *Pool) dialLease(ctx context.Context, profile models.ConnectionProfile, slot *profileSlot) (*Lease, error) {
	sess, err := p.dialer.Dial(ctx, profile)
	if err != nil {
		p.freeSlot(slot)
		return nil, fmt.Errorf("dial %s: %w", profile.Name, err)
	}
	return &Lease{Session: sess, profileID: profile.ID}, nil
}

// popIdleLocked takes the most recently parked session, which is the most
// likely to still be alive.
func (p *Pool) popIdleLocked(slot *profileSlot) Session {
	n := len(slot.idle)
	if n == 0 {
		return nil
	}
	sess := slot.idle[n-1].sess
	slot.idle = slot.idle[:n-1]
	return sess
}

func (p *Pool) freeSlot(slot *profileSlot) {
	select {
	case <-slot.sem:
	default:
	}
}

// reap closes idle sessions that outlived the idle timeout.
func (p *Pool) reap() {
	defer p.stopped.Done()

	interval := p.idleTimeout / 2
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stop:
			return
		case now := <-ticker.C:
			p.reapOnce(now)
		}
	}
}

func (p *Pool) reapOnce(now time.Time) {
	var expired []Session

	p.mu.Lock()
	for _, slot := range p.slots {
		kept := slot.idle[:0]
		for _, is := range slot.idle {
			if now.Sub(is.since) >= p.idleTimeout {
				expired = append(expired, is.sess)
				p.freeSlot(slot)
			} else {
				kept = append(kept, is)
			}
		}
		slot.idle = kept
	}
	p.mu.Unlock()

	for _, sess := range expired {
		_ = sess.Close()
	}

	if len(expired) > 0 {
		p.log.Debug().Int("count", len(expired)).Msg("idle sessions reaped")
	}
}
