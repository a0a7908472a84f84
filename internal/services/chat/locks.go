package chat

import (
	"context"
	"sync"
)

// keyedMutex serializes work per conversation id. Entries are dropped once
// no goroutine holds or waits on them.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refSem
}

// refSem is a one-slot semaphore so waiters can give up on ctx.
type refSem struct {
	slot chan struct{}
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refSem)}
}

// Lock blocks until key is free or ctx is done. On success it returns the
// matching unlock function.
func (k *keyedMutex) Lock(ctx context.Context, key string) (func(), error) {
	k.mu.Lock()
	s, ok := k.locks[key]
	if !ok {
		s = &refSem{slot: make(chan struct{}, 1)}
		k.locks[key] = s
	}
	s.refs++
	k.mu.Unlock()

	select {
	case s.slot <- struct{}{}:
	case <-ctx.Done():
		k.release(key, s)
		return nil, ctx.Err()
	}

	return func() {
		<-s.slot
		k.release(key, s)
	}, nil
}

func (k *keyedMutex) release(key string, s *refSem) {
	k.mu.Lock()
	defer k.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(k.locks, key)
	}
}

func (k *keyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
