package cli

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// spinner shows an advisory progress indicator on stderr while a long
// operation runs on the calling goroutine. It owns no data beyond its
// message: the only coordination is the stop channel and the done
// channel the render loop closes on exit.
type spinner struct {
	message string
	enabled bool
	stop    chan struct{}
	done    chan struct{}
}

// startSpinner begins rendering when stderr is a terminal; otherwise
// it returns an inert spinner so piped output stays clean.
func startSpinner(message string) *spinner {
	stat, err := os.Stderr.Stat()
	enabled := err == nil && (stat.Mode()&os.ModeCharDevice) != 0

	s := &spinner{
		message: message,
		enabled: enabled,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	if !enabled {
		close(s.done)
		return s
	}

	go s.run()
	return s
}

func (s *spinner) run() {
	defer close(s.done)

	frames := [4]string{"-", "\\", "|", "/"}
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	frame := 0
	for {
		select {
		case <-s.stop:
			fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", len(s.message)+2))
			return
		case <-ticker.C:
			fmt.Fprintf(os.Stderr, "\r%s %s", s.message, frames[frame%len(frames)])
			frame++
		}
	}
}

// Stop signals the render loop and waits for it to clear the line. The
// wait is bounded so a wedged terminal can never hold up results.
func (s *spinner) Stop() {
	if !s.enabled {
		return
	}
	close(s.stop)
	select {
	case <-s.done:
	case <-time.After(time.Second):
	}
}
