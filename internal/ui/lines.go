package ui

import (
	"fmt"
	"io"
	"sync"

	"kdart/internal/buildpipeline"
)

// LineSink prints one line per unit file once it finishes. It is used when
// the output is not a terminal.
type LineSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewLineSink returns a sink writing to w.
func NewLineSink(w io.Writer) *LineSink {
	return &LineSink{w: w}
}

func (s *LineSink) OnEvent(ev buildpipeline.Event) {
	if ev.File == "" {
		return
	}
	var label string
	switch ev.Status {
	case buildpipeline.StatusDone, buildpipeline.StatusError:
		label = statusLabel(ev.Stage, ev.Status)
	default:
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	line := fmt.Sprintf("%8s %s", label, ev.File)
	if ev.Err != nil {
		line += ": " + ev.Err.Error()
	}
	fmt.Fprintln(s.w, styleStatus(label).Render(line))
}
