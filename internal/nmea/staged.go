package nmea

import (
	"math"
	"time"
)

// MaxAge is returned by Age for a value that has never been committed.
const MaxAge = time.Duration(math.MaxInt64)

// staged is a two-phase value holder. Parsing writes the pending copy
// via set; a passing checksum promotes it with commit. Readers only
// ever see committed data.
type staged[T any] struct {
	clock      func() time.Time
	valid      bool
	updated    bool
	lastCommit time.Time
	val        T
	pending    T
}

func (s *staged[T]) set(v T) {
	s.pending = v
}

func (s *staged[T]) commit() {
	s.val = s.pending
	s.lastCommit = s.clock()
	s.valid = true
	s.updated = true
}

// read returns the committed value and clears the updated flag.
func (s *staged[T]) read() T {
	s.updated = false
	return s.val
}

// Valid reports whether the value has been committed at least once.
func (s *staged[T]) Valid() bool { return s.valid }

// Updated reports whether the value has been committed since it was
// last read.
func (s *staged[T]) Updated() bool { return s.updated }

// Age returns the time since the last commit, or MaxAge if the value
// was never committed.
func (s *staged[T]) Age() time.Duration {
	if !s.valid {
		return MaxAge
	}
	return s.clock().Sub(s.lastCommit)
}

// RawDegrees is the receiver-native angle encoding: whole degrees plus
// billionths of a degree, with the hemisphere sign kept separately.
type RawDegrees struct {
	Deg        uint16
	Billionths uint32
	Negative   bool
}

func (r RawDegrees) float() float64 {
	v := float64(r.Deg) + float64(r.Billionths)/1e9
	if r.Negative {
		return -v
	}
	return v
}

type coordinates struct {
	lat RawDegrees
	lng RawDegrees
}

// Location holds the committed position.
type Location struct {
	staged[coordinates]
}

// Lat returns the committed latitude in signed decimal degrees and
// clears the updated flag.
func (l *Location) Lat() float64 { return l.read().lat.float() }

// Lng returns the committed longitude in signed decimal degrees and
// clears the updated flag.
func (l *Location) Lng() float64 { return l.read().lng.float() }

// RawLat returns the committed latitude in receiver-native encoding and
// clears the updated flag.
func (l *Location) RawLat() RawDegrees { return l.read().lat }

// RawLng returns the committed longitude in receiver-native encoding
// and clears the updated flag.
func (l *Location) RawLng() RawDegrees { return l.read().lng }

func (l *Location) setLatitude(term []byte) {
	l.pending.lat = ParseDegrees(term)
}

func (l *Location) setLongitude(term []byte) {
	l.pending.lng = ParseDegrees(term)
}

func (l *Location) setLatitudeNegative(neg bool) {
	l.pending.lat.Negative = neg
}

func (l *Location) setLongitudeNegative(neg bool) {
	l.pending.lng.Negative = neg
}

// Decimal holds a fixed-point value scaled by 100, e.g. "1234.56"
// commits as 123456. Unit conversions live in units.go.
type Decimal struct {
	staged[int32]
}

// Value returns the committed hundredths and clears the updated flag.
func (d *Decimal) Value() int32 { return d.read() }

// Float64 returns the committed value unscaled and clears the updated
// flag.
func (d *Decimal) Float64() float64 { return float64(d.read()) / 100 }

func (d *Decimal) setTerm(term []byte) {
	d.set(ParseDecimal(term))
}

// Integer holds a committed whole-number value such as the satellite
// count.
type Integer struct {
	staged[uint32]
}

// Value returns the committed value and clears the updated flag.
func (i *Integer) Value() uint32 { return i.read() }

func (i *Integer) setTerm(term []byte) {
	i.set(atou(term))
}

// Date holds the committed date in DDMMYY form as transmitted.
type Date struct {
	staged[uint32]
}

// Value returns the raw DDMMYY encoding and clears the updated flag.
func (d *Date) Value() uint32 { return d.read() }

// Year returns the four-digit year and clears the updated flag.
// Receivers transmit two digits; years are mapped into 2000-2099.
func (d *Date) Year() int { return int(d.read()%100) + 2000 }

// Month returns the month (1-12) and clears the updated flag.
func (d *Date) Month() int { return int(d.read()/100) % 100 }

// Day returns the day of month and clears the updated flag.
func (d *Date) Day() int { return int(d.read() / 10000) }

func (d *Date) setTerm(term []byte) {
	d.set(atou(term))
}

// Time holds the committed UTC time of day in HHMMSSCC form with
// centisecond resolution.
type Time struct {
	staged[uint32]
}

// Value returns the raw HHMMSSCC encoding and clears the updated flag.
func (t *Time) Value() uint32 { return t.read() }

// Hour returns the hour (0-23) and clears the updated flag.
func (t *Time) Hour() int { return int(t.read() / 1000000) }

// Minute returns the minute and clears the updated flag.
func (t *Time) Minute() int { return int(t.read()/10000) % 100 }

// Second returns the second and clears the updated flag.
func (t *Time) Second() int { return int(t.read()/100) % 100 }

// Centisecond returns hundredths of a second and clears the updated
// flag.
func (t *Time) Centisecond() int { return int(t.read() % 100) }

func (t *Time) setTerm(term []byte) {
	t.set(uint32(ParseDecimal(term)))
}
