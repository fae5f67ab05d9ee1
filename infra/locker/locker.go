package locker

import "sync"

// Locker keeps track of match runs claimed by workers in this process, so two
// workers on the same instance never process one run concurrently. Cross-record
// safety does not depend on it; that is enforced by conditional writes in the
// storage layer.
type Locker struct {
	mu          sync.Mutex
	claimedRuns map[int64]bool
}

func New() *Locker {
	return &Locker{
		claimedRuns: make(map[int64]bool),
	}
}

// TryClaim atomically claims a run id. Returns false if already claimed.
func (l *Locker) TryClaim(runID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.claimedRuns[runID] {
		return false
	}
	l.claimedRuns[runID] = true
	return true
}

// IsClaimed checks if a run id is currently being processed.
func (l *Locker) IsClaimed(runID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.claimedRuns[runID]
}

func (l *Locker) Release(runID int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.claimedRuns, runID)
}
