package store

import (
	"sync"
	"testing"
)

func TestKeyLockSerializesSameKey(t *testing.T) {
	locks := newKeyLock()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("user:alice")
			counter++
			unlock()
		}()
	}
	wg.Wait()

	if counter != 100 {
		t.Errorf("counter = %d, want 100", counter)
	}
}

func TestKeyLockPairOrderIndependent(t *testing.T) {
	locks := newKeyLock()

	// Opposite acquisition orders on the same pair must not deadlock.
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			unlock := locks.LockPair("user:a", "user:b")
			unlock()
		}()
		go func() {
			defer wg.Done()
			unlock := locks.LockPair("user:b", "user:a")
			unlock()
		}()
	}
	wg.Wait()
}

func TestKeyLockPairSameKey(t *testing.T) {
	locks := newKeyLock()

	unlock := locks.LockPair("user:a", "user:a")
	unlock()

	// Lock must be free again after the single-key pair unlock.
	unlock = locks.Lock("user:a")
	unlock()
}
