package playback

import (
	"errors"

	"github.com/razorbill/livematch/internal/domain/stream"
)

// ErrExhausted is returned once every candidate stream has failed. It is a
// normal terminal condition, not a transport error: callers distinguish it
// from "still trying" by state.
var ErrExhausted = errors.New("all streams exhausted")

type State string

const (
	StateEmpty     State = "empty"
	StatePlaying   State = "playing"
	StateExhausted State = "exhausted"
)

// Controller walks an ordered candidate list, advancing to the next stream
// whenever playback fails. One controller serves one resolved stream set; a
// fresh resolution produces a fresh controller. Not safe for concurrent use.
type Controller struct {
	streams []stream.Descriptor
	state   State
	index   int
}

func NewController(streams []stream.Descriptor) *Controller {
	c := &Controller{
		streams: append([]stream.Descriptor(nil), streams...),
		state:   StateEmpty,
	}
	if len(c.streams) > 0 {
		c.state = StatePlaying
	}
	return c
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) Len() int {
	return len(c.streams)
}

// Index reports the active candidate position. Only meaningful while playing.
func (c *Controller) Index() int {
	return c.index
}

// Current returns the active stream, false when empty or exhausted.
func (c *Controller) Current() (stream.Descriptor, bool) {
	if c.state != StatePlaying {
		return stream.Descriptor{}, false
	}
	return c.streams[c.index], true
}

// SelectStream switches to a user-chosen candidate. Out-of-range indexes are
// ignored rather than treated as errors, and selection is only honored while
// playing.
func (c *Controller) SelectStream(i int) {
	if c.state != StatePlaying {
		return
	}
	if i < 0 || i >= len(c.streams) {
		return
	}
	c.index = i
}

// OnPlaybackError advances to the next candidate. When none remain the
// controller enters StateExhausted and reports ErrExhausted; further calls
// keep reporting it.
func (c *Controller) OnPlaybackError() error {
	if c.state != StatePlaying {
		return ErrExhausted
	}
	if c.index+1 < len(c.streams) {
		c.index++
		return nil
	}
	c.state = StateExhausted
	return ErrExhausted
}
