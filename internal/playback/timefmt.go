package playback

import (
	"math"
	"strconv"
	"strings"
)

// DefaultTimeFormat is the pattern used when FormatTime gets none.
const DefaultTimeFormat = "HH:mm:ss"

const secondsPerDay = 24 * 60 * 60

// FormatTime renders seconds as a UTC wall clock using a moment-style
// pattern (default "HH:mm:ss").
//
// Supported tokens are HH, H, mm, m, ss and s; text inside [brackets] and
// any other character is copied as is. Sub-second precision is truncated and
// hours wrap at 24. Negative, NaN and infinite input is treated as zero.
func FormatTime(seconds float64, pattern ...string) string {
	p := DefaultTimeFormat
	if len(pattern) > 0 && pattern[0] != "" {
		p = pattern[0]
	}

	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		seconds = 0
	}
	total := int64(math.Mod(math.Floor(seconds), secondsPerDay))
	h := total / 3600
	m := total / 60 % 60
	s := total % 60

	var b strings.Builder
	for i := 0; i < len(p); {
		rest := p[i:]
		switch {
		case rest[0] == '[':
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				b.WriteString(rest[1:])
				return b.String()
			}
			b.WriteString(rest[1:end])
			i += end + 1
		case strings.HasPrefix(rest, "HH"):
			writePadded(&b, h)
			i += 2
		case strings.HasPrefix(rest, "mm"):
			writePadded(&b, m)
			i += 2
		case strings.HasPrefix(rest, "ss"):
			writePadded(&b, s)
			i += 2
		case rest[0] == 'H':
			b.WriteString(strconv.FormatInt(h, 10))
			i++
		case rest[0] == 'm':
			b.WriteString(strconv.FormatInt(m, 10))
			i++
		case rest[0] == 's':
			b.WriteString(strconv.FormatInt(s, 10))
			i++
		default:
			b.WriteByte(rest[0])
			i++
		}
	}
	return b.String()
}

func writePadded(b *strings.Builder, v int64) {
	if v < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.FormatInt(v, 10))
}
