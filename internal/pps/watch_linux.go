//go:build linux

package pps

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// Start requests the PPS line and records rising edges until Close.
func (w *Watcher) Start(chipPath string, offset int) error {
	chip, err := gpiocdev.NewChip(chipPath)
	if err != nil {
		return fmt.Errorf("pps: open chip %s: %w", chipPath, err)
	}

	line, err := chip.RequestLine(offset,
		gpiocdev.WithRisingEdge,
		gpiocdev.WithConsumer("gpsfeed-pps"),
		gpiocdev.WithEventHandler(func(evt gpiocdev.LineEvent) {
			w.pulse(time.Now())
		}),
	)
	if err != nil {
		_ = chip.Close()
		return fmt.Errorf("pps: request line %d on %s: %w", offset, chipPath, err)
	}

	w.mu.Lock()
	w.closeFn = func() {
		_ = line.Close()
		_ = chip.Close()
	}
	w.mu.Unlock()
	return nil
}
