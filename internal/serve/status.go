package serve

import (
	"sync"
	"time"
)

// buildStatus tracks the most recent build outcome for the health endpoint.
type buildStatus struct {
	mu           sync.RWMutex
	lastError    error
	lastOutcome  string
	lastBuildID  string
	lastBuildAt  time.Time
	builds       int
	hasGoodBuild bool // true once a servable output tree exists
}

// statusSnapshot is a point-in-time copy safe to hand to handlers.
type statusSnapshot struct {
	LastError    error
	LastOutcome  string
	LastBuildID  string
	LastBuildAt  time.Time
	Builds       int
	HasGoodBuild bool
}

func (bs *buildStatus) record(buildID, outcome string, err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = err
	bs.lastOutcome = outcome
	bs.lastBuildID = buildID
	bs.lastBuildAt = time.Now()
	bs.builds++
	if err == nil {
		bs.hasGoodBuild = true
	}
}

// markReused notes that an up-to-date output tree from an earlier run is
// being served without rebuilding.
func (bs *buildStatus) markReused() {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.hasGoodBuild = true
	if bs.lastOutcome == "" {
		bs.lastOutcome = "reused"
	}
}

func (bs *buildStatus) snapshot() statusSnapshot {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return statusSnapshot{
		LastError:    bs.lastError,
		LastOutcome:  bs.lastOutcome,
		LastBuildID:  bs.lastBuildID,
		LastBuildAt:  bs.lastBuildAt,
		Builds:       bs.builds,
		HasGoodBuild: bs.hasGoodBuild,
	}
}
