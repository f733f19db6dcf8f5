package activity

import (
	"context"
	"sync"
)

// CaptureHook retains every snapshot event it is notified of, in
// arrival order. Tests and examples install it to assert on the
// save/load/mutate events an archive emitted; Err, when set, is
// returned from Notify so failure propagation can be exercised too.
type CaptureHook struct {
	Events []Event
	Err    error
	mu     sync.Mutex
}

// Notify normalizes and records the event, then returns Err.
func (h *CaptureHook) Notify(_ context.Context, event Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Events = append(h.Events, NormalizeEvent(event))
	return h.Err
}

// Last returns the most recently recorded event.
func (h *CaptureHook) Last() (Event, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.Events) == 0 {
		return Event{}, false
	}
	return h.Events[len(h.Events)-1], true
}
