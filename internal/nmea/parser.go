package nmea

import "time"

// maxTermLen bounds the term buffer. Terms longer than this keep
// counting toward the checksum but their excess characters are not
// stored; the checksum must track the wire bytes, not the truncated
// buffer.
const maxTermLen = 15

type sentenceKind uint8

const (
	sentenceOther sentenceKind = iota
	sentenceRMC
	sentenceGGA
)

// Recognized sentence name spellings. GN-prefixed variants are emitted
// by multi-constellation receivers.
const (
	termRMC   = "GPRMC"
	termGNRMC = "GNRMC"
	termGGA   = "GPGGA"
	termGNGGA = "GNGGA"
)

// Parser consumes an NMEA character stream one byte at a time and
// exposes the decoded fields. Fields only change when a sentence
// passes checksum validation; a corrupted sentence leaves every field
// at its prior committed value.
//
// The parser is single-threaded by design: Feed never blocks, and no
// internal locking is performed. A host that reads fields concurrently
// with Feed must add its own synchronization.
type Parser struct {
	Location   Location
	Date       Date
	Time       Time
	Speed      Decimal
	Course     Decimal
	Altitude   Decimal
	Satellites Integer
	HDOP       Decimal

	clock func() time.Time

	// Per-sentence parsing state, reset at every '$'.
	parity     byte
	inChecksum bool
	term       [maxTermLen]byte
	termOffset int
	termNumber int
	sentence   sentenceKind
	hasFix     bool

	// Custom field registry, sorted by (sentence name, term index).
	// candidate is the start of the run matching the sentence being
	// parsed, or -1.
	custom    []*Custom
	candidate int

	chars          uint64
	fixSentences   uint64
	failedChecksum uint64
	passedChecksum uint64
}

// New returns a Parser using the wall clock for field ages.
func New() *Parser {
	p := &Parser{clock: time.Now, candidate: -1}
	p.setClocks(time.Now)
	return p
}

// SetClock replaces the clock used to timestamp commits and compute
// field ages. Call it before feeding any characters.
func (p *Parser) SetClock(now func() time.Time) {
	p.clock = now
	p.setClocks(now)
}

func (p *Parser) setClocks(now func() time.Time) {
	p.Location.clock = now
	p.Date.clock = now
	p.Time.clock = now
	p.Speed.clock = now
	p.Course.clock = now
	p.Altitude.clock = now
	p.Satellites.clock = now
	p.HDOP.clock = now
	for _, c := range p.custom {
		c.clock = now
	}
}

// Feed consumes one character from the receiver stream. It returns
// true only when that character completed a sentence whose checksum
// validated, i.e. when new committed data became readable.
func (p *Parser) Feed(c byte) bool {
	p.chars++

	switch c {
	case ',':
		// The comma is the only delimiter that participates in the
		// checksum.
		p.parity ^= c
		fallthrough
	case '\r', '\n', '*':
		valid := false
		if p.termOffset < len(p.term) {
			valid = p.endOfTerm()
		}
		p.termNumber++
		p.termOffset = 0
		p.inChecksum = c == '*'
		return valid

	case '$':
		p.termNumber = 0
		p.termOffset = 0
		p.parity = 0
		p.sentence = sentenceOther
		p.inChecksum = false
		p.hasFix = false
		p.candidate = -1
		return false

	default:
		if p.termOffset < len(p.term)-1 {
			p.term[p.termOffset] = c
			p.termOffset++
		}
		if !p.inChecksum {
			p.parity ^= c
		}
		return false
	}
}

// Updated reports whether any built-in field has been committed since
// it was last read.
func (p *Parser) Updated() bool {
	return p.Location.Updated() || p.Date.Updated() || p.Time.Updated() ||
		p.Speed.Updated() || p.Course.Updated() || p.Altitude.Updated() ||
		p.Satellites.Updated() || p.HDOP.Updated()
}

// CharsProcessed returns the number of characters fed so far.
func (p *Parser) CharsProcessed() uint64 { return p.chars }

// SentencesWithFix returns the number of validated sentences that
// reported an active position fix.
func (p *Parser) SentencesWithFix() uint64 { return p.fixSentences }

// PassedChecksum returns the number of sentences whose checksum
// validated.
func (p *Parser) PassedChecksum() uint64 { return p.passedChecksum }

// FailedChecksum returns the number of sentences whose checksum did
// not validate.
func (p *Parser) FailedChecksum() uint64 { return p.failedChecksum }

// combine keys the dispatch table by sentence kind and term index,
// mirroring the single switch the routing wants.
func combine(s sentenceKind, termNumber int) int {
	return int(s)<<5 | termNumber
}

// endOfTerm processes a just-closed term. It returns true only for a
// checksum term that validated the sentence.
func (p *Parser) endOfTerm() bool {
	term := p.term[:p.termOffset]

	if p.inChecksum {
		if len(term) >= 2 && 16*fromHex(term[0])+fromHex(term[1]) == p.parity {
			p.passedChecksum++
			if p.hasFix {
				p.fixSentences++
			}

			switch p.sentence {
			case sentenceRMC:
				p.Date.commit()
				p.Time.commit()
				if p.hasFix {
					p.Location.commit()
					p.Speed.commit()
					p.Course.commit()
				}
			case sentenceGGA:
				p.Time.commit()
				if p.hasFix {
					p.Location.commit()
					p.Altitude.commit()
				}
				p.Satellites.commit()
				p.HDOP.commit()
			}

			p.commitCandidates()
			return true
		}

		p.failedChecksum++
		return false
	}

	// The first term names the sentence.
	if p.termNumber == 0 {
		switch string(term) {
		case termRMC, termGNRMC:
			p.sentence = sentenceRMC
		case termGGA, termGNGGA:
			p.sentence = sentenceGGA
		default:
			p.sentence = sentenceOther
		}
		p.candidate = p.findCandidates(string(term))
		return false
	}

	if p.sentence != sentenceOther && len(term) > 0 {
		switch combine(p.sentence, p.termNumber) {
		case combine(sentenceRMC, 1), combine(sentenceGGA, 1):
			p.Time.setTerm(term)
		case combine(sentenceRMC, 2):
			p.hasFix = term[0] == 'A'
		case combine(sentenceRMC, 3), combine(sentenceGGA, 2):
			p.Location.setLatitude(term)
		case combine(sentenceRMC, 4), combine(sentenceGGA, 3):
			p.Location.setLatitudeNegative(term[0] == 'S')
		case combine(sentenceRMC, 5), combine(sentenceGGA, 4):
			p.Location.setLongitude(term)
		case combine(sentenceRMC, 6), combine(sentenceGGA, 5):
			p.Location.setLongitudeNegative(term[0] == 'W')
		case combine(sentenceRMC, 7):
			p.Speed.setTerm(term)
		case combine(sentenceRMC, 8):
			p.Course.setTerm(term)
		case combine(sentenceRMC, 9):
			p.Date.setTerm(term)
		case combine(sentenceGGA, 6):
			p.hasFix = term[0] > '0'
		case combine(sentenceGGA, 7):
			p.Satellites.setTerm(term)
		case combine(sentenceGGA, 8):
			p.HDOP.setTerm(term)
		case combine(sentenceGGA, 9):
			p.Altitude.setTerm(term)
		}
	}

	p.stageCandidates(term)
	return false
}
