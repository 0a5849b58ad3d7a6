package tracklog

import (
	"testing"
	"time"

	"gpsfeed/internal/gps"
)

func openTestLog(t *testing.T) *Log {
	t.Helper()
	l, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestRecord_InsertsValidFix(t *testing.T) {
	l := openTestLog(t)

	alt := 545.4
	sats := 8
	snap := gps.Snapshot{
		Valid:      true,
		LatDeg:     48.1173,
		LonDeg:     11.5167,
		AltMeters:  &alt,
		Satellites: &sats,
		FixTimeUTC: "2024-06-01T12:35:19Z",
	}
	now := time.Date(2024, 6, 1, 12, 35, 20, 0, time.UTC)
	if err := l.Record(now, snap); err != nil {
		t.Fatalf("Record() error: %v", err)
	}

	n, err := l.Count()
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if n != 1 {
		t.Fatalf("count=%d want 1", n)
	}

	lat, lon, err := l.Last()
	if err != nil {
		t.Fatalf("Last() error: %v", err)
	}
	if lat != 48.1173 || lon != 11.5167 {
		t.Fatalf("last=(%v,%v) want (48.1173,11.5167)", lat, lon)
	}
}

func TestRecord_SkipsInvalidFix(t *testing.T) {
	l := openTestLog(t)

	if err := l.Record(time.Now(), gps.Snapshot{Valid: false}); err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	n, err := l.Count()
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if n != 0 {
		t.Fatalf("count=%d want 0", n)
	}
}

func TestRecord_NilOptionalsStoredAsNull(t *testing.T) {
	l := openTestLog(t)

	snap := gps.Snapshot{Valid: true, LatDeg: 1, LonDeg: 2}
	if err := l.Record(time.Now(), snap); err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	n, err := l.Count()
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if n != 1 {
		t.Fatalf("count=%d want 1", n)
	}
}

func TestLast_EmptyLogErrors(t *testing.T) {
	l := openTestLog(t)
	if _, _, err := l.Last(); err == nil {
		t.Fatalf("expected error on empty log")
	}
}
