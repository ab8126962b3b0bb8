package bot

import (
	"sync"
	"time"
)

// dedup remembers message timestamps the bot has already handled. The set
// is cleared on an interval to keep memory bounded; after a clear an old
// redelivery could slip through, which is acceptable for chat traffic.
type dedup struct {
	mu   sync.Mutex
	seen map[string]struct{}
	stop chan struct{}
}

func newDedup() *dedup {
	d := &dedup{
		seen: make(map[string]struct{}),
		stop: make(chan struct{}),
	}
	go d.sweep(time.Hour)
	return d
}

// seenBefore reports whether id was handled already, marking it either way.
func (d *dedup) seenBefore(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}
	d.seen[id] = struct{}{}
	return false
}

func (d *dedup) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			d.mu.Lock()
			d.seen = make(map[string]struct{})
			d.mu.Unlock()
		case <-d.stop:
			return
		}
	}
}

// close stops the sweep goroutine. The set stays usable afterwards.
func (d *dedup) close() {
	close(d.stop)
}
