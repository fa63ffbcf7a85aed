// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"sync"

	"github.com/google/uuid"
)

// keyLock hands out one mutex per post ID. Entries are reference counted
// and removed once the last holder unlocks, so the map only holds posts
// with an operation in flight.
type keyLock struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyLock() *keyLock {
	return &keyLock{locks: make(map[uuid.UUID]*lockEntry)}
}

// Lock blocks until the caller holds the lock for id and returns the
// matching unlock function.
func (k *keyLock) Lock(id uuid.UUID) func() {
	k.mu.Lock()
	e, ok := k.locks[id]
	if !ok {
		e = &lockEntry{}
		k.locks[id] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()

		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, id)
		}
		k.mu.Unlock()
	}
}

// size returns the number of live entries.
func (k *keyLock) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
