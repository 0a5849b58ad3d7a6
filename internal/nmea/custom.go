package nmea

import "strings"

// Custom captures one term of an arbitrary sentence type, identified
// by sentence name and zero-based term index. Like the built-in
// fields, a Custom stages raw text during parsing and only exposes it
// after the sentence's checksum validates.
type Custom struct {
	staged[string]
	sentence   string
	termNumber int
}

// Value returns the committed raw term text and clears the updated
// flag.
func (c *Custom) Value() string { return c.read() }

func (c *Custom) setTerm(term []byte) {
	c.set(string(term))
}

// Register adds a custom field watching termNumber of the named
// sentence, e.g. Register("GPGSA", 2) for the GSA fix mode. The
// returned handle stays owned by the parser's registry for dispatch;
// registration must happen before any characters are fed.
//
// Registering the same (sentence, term) pair twice is allowed; every
// matching registration stages and commits independently.
func (p *Parser) Register(sentence string, termNumber int) *Custom {
	c := &Custom{sentence: sentence, termNumber: termNumber}
	c.clock = p.clock

	// Keep the registry sorted by (sentence name, term index) so that
	// all entries for one sentence form a contiguous run.
	i := 0
	for ; i < len(p.custom); i++ {
		cmp := strings.Compare(sentence, p.custom[i].sentence)
		if cmp < 0 || (cmp == 0 && termNumber < p.custom[i].termNumber) {
			break
		}
	}
	p.custom = append(p.custom, nil)
	copy(p.custom[i+1:], p.custom[i:])
	p.custom[i] = c
	return c
}

// findCandidates locates the start of the registry run matching the
// sentence name just classified, or -1 when no entry matches.
func (p *Parser) findCandidates(sentence string) int {
	for i, c := range p.custom {
		if c.sentence >= sentence {
			if c.sentence == sentence {
				return i
			}
			return -1
		}
	}
	return -1
}

// stageCandidates feeds the closed term to every candidate registered
// for the current term index. Committed values are untouched until the
// checksum validates.
func (p *Parser) stageCandidates(term []byte) {
	if p.candidate < 0 {
		return
	}
	name := p.custom[p.candidate].sentence
	for i := p.candidate; i < len(p.custom) && p.custom[i].sentence == name; i++ {
		if p.custom[i].termNumber > p.termNumber {
			break
		}
		if p.custom[i].termNumber == p.termNumber {
			p.custom[i].setTerm(term)
		}
	}
}

// commitCandidates promotes the staged text of every candidate in the
// current sentence's run.
func (p *Parser) commitCandidates() {
	if p.candidate < 0 {
		return
	}
	name := p.custom[p.candidate].sentence
	for i := p.candidate; i < len(p.custom) && p.custom[i].sentence == name; i++ {
		p.custom[i].commit()
	}
}
