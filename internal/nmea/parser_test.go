package nmea

import (
	"fmt"
	"math"
	"testing"
	"time"
)

// nmeaLine wraps a payload in $...*XX framing with a correct checksum.
func nmeaLine(payload string) string {
	ck := byte(0)
	for i := 0; i < len(payload); i++ {
		ck ^= payload[i]
	}
	return fmt.Sprintf("$%s*%02X\r\n", payload, ck)
}

// feed pushes every character of s and returns how many characters
// completed a validated sentence.
func feed(p *Parser, s string) int {
	valid := 0
	for i := 0; i < len(s); i++ {
		if p.Feed(s[i]) {
			valid++
		}
	}
	return valid
}

const (
	ggaPayload = "GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,"
	rmcPayload = "GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W"
)

func TestFeed_GGACommitsFields(t *testing.T) {
	p := New()
	if n := feed(p, nmeaLine(ggaPayload)); n != 1 {
		t.Fatalf("validated sentences=%d want 1", n)
	}

	if !p.Location.Valid() || !p.Location.Updated() {
		t.Fatalf("expected valid, updated location")
	}
	if lat := p.Location.Lat(); math.Abs(lat-48.1173) > 1e-4 {
		t.Fatalf("lat=%v want ~48.1173", lat)
	}
	if lng := p.Location.Lng(); math.Abs(lng-11.5166667) > 1e-4 {
		t.Fatalf("lng=%v want ~11.5167", lng)
	}
	if alt := Meters(p.Altitude.Value()); math.Abs(alt-545.4) > 1e-9 {
		t.Fatalf("alt=%v want 545.4", alt)
	}
	if sats := p.Satellites.Value(); sats != 8 {
		t.Fatalf("satellites=%d want 8", sats)
	}
	if hdop := p.HDOP.Float64(); math.Abs(hdop-0.9) > 1e-9 {
		t.Fatalf("hdop=%v want 0.9", hdop)
	}
	if p.PassedChecksum() != 1 || p.FailedChecksum() != 0 {
		t.Fatalf("passed=%d failed=%d want 1/0", p.PassedChecksum(), p.FailedChecksum())
	}
	if p.SentencesWithFix() != 1 {
		t.Fatalf("fix sentences=%d want 1", p.SentencesWithFix())
	}
}

func TestFeed_RMCCommitsFields(t *testing.T) {
	p := New()
	if n := feed(p, nmeaLine(rmcPayload)); n != 1 {
		t.Fatalf("validated sentences=%d want 1", n)
	}

	if got := p.Time.Value(); got != 12351900 {
		t.Fatalf("time=%d want 12351900", got)
	}
	if p.Time.Hour() != 12 || p.Time.Minute() != 35 || p.Time.Second() != 19 {
		t.Fatalf("unexpected time components %d:%d:%d", p.Time.Hour(), p.Time.Minute(), p.Time.Second())
	}
	if p.Date.Day() != 23 || p.Date.Month() != 3 || p.Date.Year() != 2094 {
		t.Fatalf("unexpected date %d-%d-%d", p.Date.Year(), p.Date.Month(), p.Date.Day())
	}
	if kt := Knots(p.Speed.Value()); math.Abs(kt-22.4) > 1e-9 {
		t.Fatalf("speed=%v want 22.4", kt)
	}
	if deg := Degrees(p.Course.Value()); math.Abs(deg-84.4) > 1e-9 {
		t.Fatalf("course=%v want 84.4", deg)
	}
	if lat := p.Location.Lat(); math.Abs(lat-48.1173) > 1e-4 {
		t.Fatalf("lat=%v want ~48.1173", lat)
	}
}

func TestFeed_GNTalkerVariantsRecognized(t *testing.T) {
	p := New()
	gn := "GN" + ggaPayload[2:]
	if n := feed(p, nmeaLine(gn)); n != 1 {
		t.Fatalf("GNGGA not validated")
	}
	if p.Satellites.Value() != 8 {
		t.Fatalf("satellites not committed for GN talker")
	}
}

func TestFeed_BadChecksumCommitsNothing(t *testing.T) {
	p := New()
	feed(p, nmeaLine(ggaPayload))
	lat := p.Location.Lat()

	// Same sentence with corrupted checksum digits.
	feed(p, "$"+ggaPayload+"*00\r\n")

	if p.Location.Updated() {
		t.Fatalf("location updated by corrupted sentence")
	}
	if got := p.Location.Lat(); got != lat {
		t.Fatalf("lat=%v changed by corrupted sentence, want %v", got, lat)
	}
	if p.FailedChecksum() != 1 {
		t.Fatalf("failed=%d want 1", p.FailedChecksum())
	}
	if p.PassedChecksum() != 1 {
		t.Fatalf("passed=%d want 1", p.PassedChecksum())
	}
}

func TestFeed_VoidFixKeepsLocation(t *testing.T) {
	p := New()
	feed(p, nmeaLine(rmcPayload))
	lat := p.Location.Lat()

	void := "GPRMC,123520,V,5555.555,N,01131.000,E,022.4,084.4,230394,003.1,W"
	if n := feed(p, nmeaLine(void)); n != 1 {
		t.Fatalf("void sentence should still validate")
	}

	// Date and time commit regardless; position only with an active fix.
	if !p.Time.Updated() {
		t.Fatalf("time should commit on void sentence")
	}
	if p.Location.Updated() {
		t.Fatalf("location committed on void fix")
	}
	if got := p.Location.Lat(); got != lat {
		t.Fatalf("lat=%v want %v", got, lat)
	}
	if p.SentencesWithFix() != 1 {
		t.Fatalf("fix count=%d want 1", p.SentencesWithFix())
	}
}

func TestFeed_EmptyTermLeavesPendingUntouched(t *testing.T) {
	p := New()
	feed(p, nmeaLine(ggaPayload))

	// Altitude term empty: the field keeps its prior committed value
	// even though the sentence validates and re-commits it.
	noAlt := "GPGGA,123520,4807.038,N,01131.000,E,1,08,0.9,,M,46.9,M,,"
	if n := feed(p, nmeaLine(noAlt)); n != 1 {
		t.Fatalf("sentence with empty altitude should validate")
	}
	if alt := Meters(p.Altitude.Value()); math.Abs(alt-545.4) > 1e-9 {
		t.Fatalf("alt=%v want 545.4 retained", alt)
	}
}

func TestFeed_UnknownSentenceValidatesWithoutCommit(t *testing.T) {
	p := New()
	n := feed(p, nmeaLine("GPGSV,3,1,11,03,03,111,00,04,15,270,00,06,01,010,00,13,06,292,00"))
	if n != 1 {
		t.Fatalf("unknown sentence with good checksum should validate")
	}
	if p.Updated() {
		t.Fatalf("built-in fields updated by unknown sentence")
	}
	if p.PassedChecksum() != 1 {
		t.Fatalf("passed=%d want 1", p.PassedChecksum())
	}
}

func TestFeed_OverlongTermKeepsChecksumIntact(t *testing.T) {
	p := New()
	// 20-character term exceeds the 15-byte term buffer; the checksum
	// still covers every transmitted byte.
	long := "GPXYZ,12345678901234567890,B"
	if n := feed(p, nmeaLine(long)); n != 1 {
		t.Fatalf("overlong term broke checksum validation")
	}
}

func TestFeed_ReadClearsUpdatedNotValid(t *testing.T) {
	p := New()
	feed(p, nmeaLine(ggaPayload))

	if !p.Satellites.Updated() {
		t.Fatalf("expected updated satellites")
	}
	_ = p.Satellites.Value()
	if p.Satellites.Updated() {
		t.Fatalf("read did not clear updated flag")
	}
	if !p.Satellites.Valid() {
		t.Fatalf("read cleared valid flag")
	}
}

func TestFeed_AgeUsesInjectedClock(t *testing.T) {
	p := New()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	p.SetClock(func() time.Time { return now })

	if p.Location.Age() != MaxAge {
		t.Fatalf("age before first commit should be MaxAge")
	}

	feed(p, nmeaLine(ggaPayload))
	now = now.Add(1500 * time.Millisecond)

	if age := p.Location.Age(); age != 1500*time.Millisecond {
		t.Fatalf("age=%s want 1.5s", age)
	}
}

func TestFeed_CountsCharsProcessed(t *testing.T) {
	p := New()
	line := nmeaLine(ggaPayload)
	feed(p, line)
	if got := p.CharsProcessed(); got != uint64(len(line)) {
		t.Fatalf("chars=%d want %d", got, len(line))
	}
}

func TestFeed_AbandonedSentenceThenRestart(t *testing.T) {
	p := New()
	// Truncated transmission abandoned mid-sentence; the next '$'
	// resets cleanly.
	feed(p, "$GPGGA,123519,4807.0")
	if n := feed(p, nmeaLine(ggaPayload)); n != 1 {
		t.Fatalf("parser did not recover after abandoned sentence")
	}
	if p.FailedChecksum() != 0 {
		t.Fatalf("abandoned sentence counted as checksum failure")
	}
}

func TestFeed_LowercaseChecksumAccepted(t *testing.T) {
	p := New()
	ck := byte(0)
	for i := 0; i < len(ggaPayload); i++ {
		ck ^= ggaPayload[i]
	}
	line := fmt.Sprintf("$%s*%02x\r\n", ggaPayload, ck)
	if n := feed(p, line); n != 1 {
		t.Fatalf("lowercase checksum digits rejected")
	}
}
