// Package locker serializes work on named keys, in process or across processes.
package locker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrLockTimeout is returned when a key stays held until ctx is done
var ErrLockTimeout = errors.New("timed out waiting for lock")

// Locker acquires every key or none. Keys are taken in the order given, so
// callers that share keys must agree on an order; Unlock releases all of them.
type Locker interface {
	Lock(ctx context.Context, keys ...string) (unlock func(), err error)
}

// SortedKeys returns keys sorted and without duplicates
func SortedKeys(keys ...string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

type keyLock struct {
	ch   chan struct{}
	refs int
}

// KeyedMutex is an in-process Locker. Idle keys are dropped from the table.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

// NewKeyedMutex creates an empty KeyedMutex
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*keyLock)}
}

func (m *KeyedMutex) ref(key string) *keyLock {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[key]
	if !ok {
		l = &keyLock{ch: make(chan struct{}, 1)}
		m.locks[key] = l
	}
	l.refs++
	return l
}

func (m *KeyedMutex) unref(key string, l *keyLock) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(m.locks, key)
	}
}

// Lock blocks until every key is held or ctx is done
func (m *KeyedMutex) Lock(ctx context.Context, keys ...string) (func(), error) {
	held := make([]string, 0, len(keys))
	heldLocks := make([]*keyLock, 0, len(keys))

	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			<-heldLocks[i].ch
			m.unref(held[i], heldLocks[i])
		}
	}

	for _, key := range dedupe(keys) {
		l := m.ref(key)
		select {
		case l.ch <- struct{}{}:
			held = append(held, key)
			heldLocks = append(heldLocks, l)
		case <-ctx.Done():
			m.unref(key, l)
			release()
			return nil, fmt.Errorf("%w: %s: %w", ErrLockTimeout, key, ctx.Err())
		}
	}

	var once sync.Once
	return func() { once.Do(release) }, nil
}

// dedupe keeps the first occurrence of each key
func dedupe(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
