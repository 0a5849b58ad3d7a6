//go:build !linux

package pps

import "errors"

// Start is unavailable off Linux; the GPIO character device is a Linux
// kernel interface.
func (w *Watcher) Start(chipPath string, offset int) error {
	return errors.New("pps: gpio events are only supported on linux")
}
