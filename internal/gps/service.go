package gps

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"gpsfeed/internal/nmea"
)

// Config controls the feed source.
//
// Device may be empty to auto-detect. When Replay.Enable is set the
// serial port is not opened and characters come from the capture file
// instead.
type Config struct {
	Device string
	Baud   int
	Replay ReplayConfig
}

// Stats mirrors the parser's counters.
type Stats struct {
	Chars          uint64 `json:"chars"`
	FixSentences   uint64 `json:"fix_sentences"`
	PassedChecksum uint64 `json:"passed_checksum"`
	FailedChecksum uint64 `json:"failed_checksum"`
}

// Snapshot is one validated view of the receiver state. Pointer fields
// are nil until the corresponding sentence term has committed at least
// once.
type Snapshot struct {
	Valid bool `json:"valid"`

	LatDeg float64 `json:"lat_deg,omitempty"`
	LonDeg float64 `json:"lon_deg,omitempty"`

	AltMeters  *float64 `json:"alt_meters,omitempty"`
	SpeedKt    *float64 `json:"speed_kt,omitempty"`
	CourseDeg  *float64 `json:"course_deg,omitempty"`
	Satellites *int     `json:"satellites,omitempty"`
	HDOP       *float64 `json:"hdop,omitempty"`

	FixTimeUTC string `json:"fix_time_utc,omitempty"`

	Stats     Stats  `json:"stats"`
	LastError string `json:"last_error,omitempty"`
}

// Service owns the parser and the read loop.
type Service struct {
	cfg Config

	// OnFix, if set before Start, is called after every sentence that
	// passes checksum validation. OnSentence receives the raw sentence
	// text (without line terminators). Both run on the read goroutine.
	OnFix      func(Snapshot)
	OnSentence func(string)

	parser *nmea.Parser
	raw    []byte

	cancel context.CancelFunc
	wg     sync.WaitGroup

	last atomic.Value // Snapshot

	mu     sync.Mutex
	closer io.Closer
}

func New(cfg Config) *Service {
	s := &Service{cfg: cfg, parser: nmea.New(), raw: make([]byte, 0, 128)}
	s.last.Store(Snapshot{})
	return s
}

// Parser exposes the underlying parser so callers can register custom
// fields before Start.
func (s *Service) Parser() *nmea.Parser { return s.parser }

func (s *Service) Start(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("gps service is nil")
	}
	if ctx == nil {
		return fmt.Errorf("ctx is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return nil
	}

	if s.cfg.Replay.Enable {
		return s.startReplayLocked(ctx)
	}
	return s.startSerialLocked(ctx)
}

func (s *Service) startSerialLocked(ctx context.Context) error {
	device := s.cfg.Device
	if device == "" {
		device = autoDetectDevice()
		if device == "" {
			s.setErrorLocked("gps auto-detect failed: no /dev/ttyACM* or /dev/ttyUSB* found")
			return fmt.Errorf("gps auto-detect failed")
		}
	}

	baud := s.cfg.Baud
	if baud == 0 {
		baud = 9600
	}

	f, err := openSerial(device, baud)
	if err != nil {
		s.setErrorLocked(fmt.Sprintf("gps open failed device=%s baud=%d: %v", device, baud, err))
		return err
	}
	s.closer = f

	childCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() { _ = f.Close() }()
		log.Printf("gps feed enabled device=%s baud=%d", device, baud)
		s.run(childCtx, f)
	}()
	return nil
}

func (s *Service) startReplayLocked(ctx context.Context) error {
	f, err := os.Open(s.cfg.Replay.Path)
	if err != nil {
		s.setErrorLocked(fmt.Sprintf("replay open failed path=%s: %v", s.cfg.Replay.Path, err))
		return err
	}
	s.closer = f

	childCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() { _ = f.Close() }()
		log.Printf("gps feed enabled replay=%s speed=%v loop=%v", s.cfg.Replay.Path, s.cfg.Replay.Speed, s.cfg.Replay.Loop)
		if err := s.replay(childCtx, f); err != nil && childCtx.Err() == nil {
			s.setError(fmt.Sprintf("replay stopped: %v", err))
		}
	}()
	return nil
}

// run feeds characters from r until the context is canceled or the
// reader fails.
func (s *Service) run(ctx context.Context, r io.Reader) {
	br := bufio.NewReaderSize(r, 512)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		c, err := br.ReadByte()
		if err != nil {
			if err != io.EOF {
				s.setError(fmt.Sprintf("gps read stopped: %v", err))
			}
			return
		}
		s.feed(c)
	}
}

// feed pushes one character into the parser, tracking the raw sentence
// text for OnSentence. Runs only on the read goroutine.
func (s *Service) feed(c byte) {
	switch c {
	case '$':
		s.raw = append(s.raw[:0], c)
	case '\r', '\n':
	default:
		if len(s.raw) > 0 && len(s.raw) < cap(s.raw) {
			s.raw = append(s.raw, c)
		}
	}

	if s.parser.Feed(c) {
		snap := s.snapshotFromParser()
		s.last.Store(snap)
		if s.OnFix != nil {
			s.OnFix(snap)
		}
		if s.OnSentence != nil && len(s.raw) > 0 {
			s.OnSentence(string(s.raw))
		}
	}
}

func (s *Service) snapshotFromParser() Snapshot {
	p := s.parser
	snap := Snapshot{
		Stats: Stats{
			Chars:          p.CharsProcessed(),
			FixSentences:   p.SentencesWithFix(),
			PassedChecksum: p.PassedChecksum(),
			FailedChecksum: p.FailedChecksum(),
		},
	}
	if prev, ok := s.last.Load().(Snapshot); ok {
		snap.LastError = prev.LastError
	}

	if p.Location.Valid() {
		snap.Valid = true
		snap.LatDeg = p.Location.Lat()
		snap.LonDeg = p.Location.Lng()
	}
	if p.Altitude.Valid() {
		v := nmea.Meters(p.Altitude.Value())
		snap.AltMeters = &v
	}
	if p.Speed.Valid() {
		v := nmea.Knots(p.Speed.Value())
		snap.SpeedKt = &v
	}
	if p.Course.Valid() {
		v := nmea.Degrees(p.Course.Value())
		snap.CourseDeg = &v
	}
	if p.Satellites.Valid() {
		v := int(p.Satellites.Value())
		snap.Satellites = &v
	}
	if p.HDOP.Valid() {
		v := p.HDOP.Float64()
		snap.HDOP = &v
	}
	if p.Date.Valid() && p.Time.Valid() {
		t := time.Date(p.Date.Year(), time.Month(p.Date.Month()), p.Date.Day(),
			p.Time.Hour(), p.Time.Minute(), p.Time.Second(),
			p.Time.Centisecond()*10_000_000, time.UTC)
		snap.FixTimeUTC = t.Format(time.RFC3339Nano)
	}
	return snap
}

func (s *Service) Close() {
	if s == nil {
		return
	}
	s.mu.Lock()
	cancel := s.cancel
	closer := s.closer
	s.cancel = nil
	s.closer = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if closer != nil {
		_ = closer.Close()
	}
	s.wg.Wait()
}

func (s *Service) Snapshot() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	v := s.last.Load()
	if v == nil {
		return Snapshot{}
	}
	return v.(Snapshot)
}

func (s *Service) setError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setErrorLocked(msg)
}

func (s *Service) setErrorLocked(msg string) {
	cur := s.Snapshot()
	cur.LastError = msg
	s.last.Store(cur)
}

func autoDetectDevice() string {
	candidates := []string{}
	for i := 0; i < 10; i++ {
		candidates = append(candidates, fmt.Sprintf("/dev/ttyACM%d", i))
	}
	for i := 0; i < 10; i++ {
		candidates = append(candidates, fmt.Sprintf("/dev/ttyUSB%d", i))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
