package prompt

import (
	"os"
	"os/signal"
	"sync"
	"sync/atomic"

	"github.com/coding/coding-cli/internal/core/ports/driven"
)

// Ensure Interrupt implements the interface.
var _ driven.ProgressIndicator = (*Interrupt)(nil)

// Interrupt reports cancellation once the process receives an interrupt.
type Interrupt struct {
	canceled atomic.Bool
	signals  chan os.Signal
	stopOnce sync.Once
	done     chan struct{}
}

// NewInterrupt starts listening for interrupts. Call Stop to release the
// signal handler.
func NewInterrupt() *Interrupt {
	i := &Interrupt{
		signals: make(chan os.Signal, 1),
		done:    make(chan struct{}),
	}
	signal.Notify(i.signals, os.Interrupt)
	go func() {
		select {
		case <-i.signals:
			i.canceled.Store(true)
		case <-i.done:
		}
	}()
	return i
}

// IsCanceled reports whether an interrupt was received.
func (i *Interrupt) IsCanceled() bool {
	return i.canceled.Load()
}

// Cancel marks the indicator canceled without a signal.
func (i *Interrupt) Cancel() {
	i.canceled.Store(true)
}

// Stop releases the signal handler.
func (i *Interrupt) Stop() {
	i.stopOnce.Do(func() {
		signal.Stop(i.signals)
		close(i.done)
	})
}
