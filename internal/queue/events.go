// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package queue

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MKhiriev/go-ftp-keeper/models"
)

// Event is one observable change of a task: a state transition or a
// progress update. Total is models.SizeUnknown when the size could not be
// determined.
//
// Terminal distinguishes a final Failed from a transient failure that will
// be retried: both carry State Failed, only the final one settles the task.
type Event struct {
	TaskID   uuid.UUID
	State    models.TransferState
	Bytes    int64
	Total    int64
	Error    string
	Terminal bool
	Time     time.Time
}

// broadcaster fans events out to subscribers. Delivery never blocks the
// engine: a subscriber whose buffer is full loses the event and must call
// Snapshot to resynchronize.
type broadcaster struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Event
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: make(map[int]chan Event)}
}

// subscribe registers a listener. The returned cancel func unregisters it
// and closes the channel; events emitted before subscribing are not
// replayed.
func (b *broadcaster) subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		sub, ok := b.subs[id]
		delete(b.subs, id)
		b.mu.Unlock()
		if ok {
			close(sub)
		}
	}
	return ch, cancel
}

func (b *broadcaster) publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (b *broadcaster) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
