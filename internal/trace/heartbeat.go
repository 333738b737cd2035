package trace

import (
	"fmt"
	"sync"
	"time"
)

// Heartbeat periodically emits heartbeat events so a stuck run shows up in
// the trace: heartbeats that keep coming without span ends mean some file
// is not progressing. The optional status callback is appended to each beat.
type Heartbeat struct {
	tracer   Tracer
	interval time.Duration
	status   func() string
	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// StartHeartbeat starts beating on tracer every interval. It returns nil
// when tracing is off or interval is not positive; Stop accepts nil.
func StartHeartbeat(tracer Tracer, interval time.Duration, status func() string) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{
		tracer:   tracer,
		interval: interval,
		status:   status,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Heartbeat) run() {
	defer close(h.done)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	gid := getGoroutineID()
	for beat := uint64(1); ; beat++ {
		select {
		case <-ticker.C:
			detail := fmt.Sprintf("#%d", beat)
			if h.status != nil {
				detail += " " + h.status()
			}
			h.tracer.Emit(&Event{
				Time:   time.Now(),
				Seq:    NextSeq(),
				Kind:   KindHeartbeat,
				Scope:  ScopeDriver,
				GID:    gid,
				Name:   "heartbeat",
				Detail: detail,
			})
		case <-h.stopCh:
			return
		}
	}
}

// Stop ends the heartbeat goroutine and waits for it.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.stopOnce.Do(func() { close(h.stopCh) })
	<-h.done
}
