package ui

import (
	"fmt"
	"io"
	"time"
)

const spinnerFrames = `/-\|`

// Spinner animates while a provider call is in flight. It draws nothing
// when disabled, so piped output stays clean.
type Spinner struct {
	out     io.Writer
	enabled bool
	stop    chan struct{}
	done    chan struct{}
	running bool
}

// NewSpinner draws on out when enabled. Callers enable it only when out is
// a terminal.
func NewSpinner(out io.Writer, enabled bool) *Spinner {
	return &Spinner{out: out, enabled: enabled}
}

// Start begins the animation. Starting a running or disabled spinner is a
// no-op.
func (s *Spinner) Start() {
	if !s.enabled || s.running {
		return
	}
	s.running = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.spin()
}

// Stop halts the animation, clears the frame, and waits for the draw
// goroutine to exit.
func (s *Spinner) Stop() {
	if !s.running {
		return
	}
	close(s.stop)
	<-s.done
	s.running = false
}

func (s *Spinner) spin() {
	defer close(s.done)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	i := 0
	fmt.Fprintf(s.out, "\r%c", spinnerFrames[i])
	for {
		select {
		case <-s.stop:
			fmt.Fprint(s.out, "\r \r")
			return
		case <-ticker.C:
			i = (i + 1) % len(spinnerFrames)
			fmt.Fprintf(s.out, "\r%c", spinnerFrames[i])
		}
	}
}
