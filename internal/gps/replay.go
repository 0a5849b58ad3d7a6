package gps

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"
	"time"
)

// ReplayConfig replays a line-oriented NMEA capture instead of opening
// the serial port. Captures are plain sentence-per-line text; blank
// lines and '#' comments are skipped.
type ReplayConfig struct {
	Enable bool
	Path   string
	// Speed scales the pacing: 2 plays twice as fast. 0 means 1.
	Speed float64
	Loop  bool
}

// lineInterval approximates a 1 Hz receiver emitting a handful of
// sentences per cycle.
const lineInterval = 100 * time.Millisecond

func (s *Service) replay(ctx context.Context, f *os.File) error {
	speed := s.cfg.Replay.Speed
	if speed <= 0 {
		speed = 1
	}
	delay := time.Duration(float64(lineInterval) / speed)

	for {
		if err := s.replayOnce(ctx, f, delay); err != nil || ctx.Err() != nil {
			return err
		}
		if !s.cfg.Replay.Loop {
			return nil
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return err
		}
	}
}

func (s *Service) replayOnce(ctx context.Context, r io.Reader, delay time.Duration) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 256), 4096)

	for sc.Scan() {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		for i := 0; i < len(line); i++ {
			s.feed(line[i])
		}
		s.feed('\r')
		s.feed('\n')

		if delay > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(delay):
			}
		}
	}
	return sc.Err()
}
