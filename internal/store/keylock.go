package store

import "sync"

// keyLock serializes document updates per entity key. Pair locks are always
// acquired in lexicographic key order so concurrent pair updates sharing a
// user cannot deadlock.
type keyLock struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyLock() *keyLock {
	return &keyLock{locks: make(map[string]*sync.Mutex)}
}

func (k *keyLock) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	return m
}

// Lock locks the named key and returns its unlock function.
func (k *keyLock) Lock(key string) func() {
	m := k.get(key)
	m.Lock()
	return m.Unlock
}

// LockPair locks both keys in lexicographic order and returns a single unlock
// function. Equal keys are locked once.
func (k *keyLock) LockPair(a, b string) func() {
	if a == b {
		return k.Lock(a)
	}
	if b < a {
		a, b = b, a
	}
	first := k.get(a)
	second := k.get(b)
	first.Lock()
	second.Lock()
	return func() {
		second.Unlock()
		first.Unlock()
	}
}
