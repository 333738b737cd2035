package pipeline

import (
	"fmt"
	"sync/atomic"
)

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// Emit sends evt to sink when one is configured.
func Emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}

// MultiSink forwards every event to each non-nil sink in order.
type MultiSink []ProgressSink

func (m MultiSink) OnEvent(evt Event) {
	for _, s := range m {
		Emit(s, evt)
	}
}

// Counter tallies per-file outcomes. It is safe for concurrent use.
type Counter struct {
	queued atomic.Int64
	done   atomic.Int64
	failed atomic.Int64
}

func (c *Counter) OnEvent(evt Event) {
	switch evt.Status {
	case StatusQueued:
		c.queued.Add(1)
	case StatusDone:
		c.done.Add(1)
	case StatusError:
		c.failed.Add(1)
	}
}

// String renders "finished/queued files, failed failed".
func (c *Counter) String() string {
	done, failed := c.done.Load(), c.failed.Load()
	return fmt.Sprintf("%d/%d files, %d failed", done+failed, c.queued.Load(), failed)
}
