package casstore

import "sync"

// upgradableLock is the store's single process-wide filesystem-layout
// coordinator (C9). It models an "upgradable read section": any number
// of goroutines may hold it in read mode (checking "does the target
// already exist?") concurrently, and a goroutine holding it in read mode
// may upgrade to exclusive write mode to perform the create-subdir+rename
// sequence spec.md requires to be race-free.
//
// Go's sync.RWMutex cannot upgrade an RLock to a Lock in place (doing so
// naively deadlocks against other readers waiting to acquire the write
// lock). This type instead implements upgrade as release-then-reacquire,
// which is safe here because every write-section caller re-checks its
// existence predicate immediately after acquiring the write lock (see
// Writer.placeContent and Writer.placeSibling): the "upgrade" does not
// need to be atomic with respect to the read section, only to leave the
// coordinator in a state where the check-then-act sequence as a whole is
// still correct.
//
// Recursion (a goroutine holding the lock attempting to acquire it again)
// is forbidden, as required by spec.md §5.
type upgradableLock struct {
	mu sync.RWMutex
}

// rsection runs fn while holding the read section. Used by callers that
// only need to test a predicate (the Writer's initial existence check).
func (l *upgradableLock) rsection(fn func()) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	fn()
}

// wsection runs fn while holding the write section exclusively. Used by
// the Writer's atomic-placement step and by Delete.
func (l *upgradableLock) wsection(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn()
}
