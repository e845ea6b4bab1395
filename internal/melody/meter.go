package melody

import (
	"fmt"
	"strconv"
	"strings"
)

// Meter is a parsed time signature.
type Meter struct {
	Numerator   int
	Denominator int
}

// CommonTime is the 4/4 fallback for unparseable signatures.
var CommonTime = Meter{Numerator: 4, Denominator: 4}

// maxMeterPart keeps both numbers inside a MIDI time-signature byte.
const maxMeterPart = 255

// ParseMeter parses "N/D". Anything other than two positive integers yields
// CommonTime and false.
func ParseMeter(s string) (Meter, bool) {
	num, den, found := strings.Cut(s, "/")
	if !found {
		return CommonTime, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil || n <= 0 || n > maxMeterPart {
		return CommonTime, false
	}
	d, err := strconv.Atoi(strings.TrimSpace(den))
	if err != nil || d <= 0 || d > maxMeterPart {
		return CommonTime, false
	}
	return Meter{Numerator: n, Denominator: d}, true
}

// BeatsPerBar converts the signature to quarter-note beats.
func (m Meter) BeatsPerBar() float64 {
	n := float64(m.Numerator)
	switch m.Denominator {
	case 4:
		return n
	case 8:
		return n / 2
	case 2:
		return n * 2
	default:
		return n * 4 / float64(m.Denominator)
	}
}

func (m Meter) String() string {
	return fmt.Sprintf("%d/%d", m.Numerator, m.Denominator)
}
