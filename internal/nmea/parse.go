package nmea

// ParseDecimal parses an optionally signed number with up to two
// decimal digits ("-xxxx.yy") into hundredths: "1234.56" is 123456,
// "-1234.5" is -123450. Extra fraction digits are truncated, not
// rounded. Non-numeric text yields 0, matching the permissive
// numeral-prefix semantics receivers rely on for empty fields.
func ParseDecimal(term []byte) int32 {
	negative := len(term) > 0 && term[0] == '-'
	if negative {
		term = term[1:]
	}
	ret := 100 * int32(atou(term))
	i := 0
	for i < len(term) && isDigit(term[i]) {
		i++
	}
	if i+1 < len(term) && term[i] == '.' && isDigit(term[i+1]) {
		ret += 10 * int32(term[i+1]-'0')
		if i+2 < len(term) && isDigit(term[i+2]) {
			ret += int32(term[i+2] - '0')
		}
	}
	if negative {
		return -ret
	}
	return ret
}

// ParseDegrees parses the DDDMM.MMMM angle encoding: the last two
// integer digits are whole minutes, everything before them is whole
// degrees, and the fraction is fractional minutes. The result carries
// degrees plus billionths of a degree; the hemisphere sign is applied
// separately by the caller.
func ParseDegrees(term []byte) RawDegrees {
	leftOfDecimal := atou(term)
	minutes := leftOfDecimal % 100
	multiplier := uint32(10000000)
	tenMillionthsOfMinutes := minutes * multiplier

	var deg RawDegrees
	deg.Deg = uint16(leftOfDecimal / 100)

	i := 0
	for i < len(term) && isDigit(term[i]) {
		i++
	}
	if i < len(term) && term[i] == '.' {
		for i++; i < len(term) && isDigit(term[i]); i++ {
			multiplier /= 10
			tenMillionthsOfMinutes += uint32(term[i]-'0') * multiplier
		}
	}

	// 5/3 converts ten-millionths of a minute to billionths of a
	// degree; the +1 biases the division to compensate for truncation.
	deg.Billionths = (5*tenMillionthsOfMinutes + 1) / 3
	return deg
}

// atou parses the leading digit run of term, ignoring anything after
// the first non-digit.
func atou(term []byte) uint32 {
	var v uint32
	for _, c := range term {
		if !isDigit(c) {
			break
		}
		v = v*10 + uint32(c-'0')
	}
	return v
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func fromHex(c byte) byte {
	switch {
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - '0'
	}
}
