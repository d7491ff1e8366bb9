package serve

import (
	"sync"
	"time"
)

// Rebuild triggers, recorded in build history and metrics.
const (
	TriggerInitial   = "initial"
	TriggerFileEvent = "file_event"
	TriggerSchedule  = "schedule"
)

// newRebuildDebouncer returns a request channel and a trigger function.
// Each trigger call restarts the delay timer, so a burst of file events
// produces a single request once the burst settles. The channel holds at
// most one pending request; a request arriving while the worker is busy is
// kept, further ones are dropped. The most recent trigger reason wins.
func newRebuildDebouncer(delay time.Duration) (chan string, func(string)) {
	var mu sync.Mutex
	var timer *time.Timer
	var reason string
	rebuildReq := make(chan string, 1)

	trigger := func(r string) {
		mu.Lock()
		defer mu.Unlock()
		reason = r
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(delay, func() {
			mu.Lock()
			pending := reason
			mu.Unlock()
			select {
			case rebuildReq <- pending:
			default:
			}
		})
	}

	return rebuildReq, trigger
}
