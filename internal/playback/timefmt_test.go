package playback

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatTime(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		pattern []string
		want    string
	}{
		{"zero", 0, nil, "00:00:00"},
		{"one hour one minute one second", 3661, nil, "01:01:01"},
		{"two minutes", 120, nil, "00:02:00"},
		{"fraction truncated", 65.999, nil, "00:01:05"},
		{"just under a day", 86399, nil, "23:59:59"},
		{"hours wrap at a day", 90000, nil, "01:00:00"},
		{"empty pattern uses default", 61, []string{""}, "00:01:01"},
		{"minutes seconds", 605, []string{"mm:ss"}, "10:05"},
		{"unpadded tokens", 3725, []string{"H:m:s"}, "1:2:5"},
		{"literal text", 75, []string{"m[m] ss[s]"}, "1m 15s"},
		{"unterminated bracket", 75, []string{"ss[sec"}, "15sec"},
		{"other characters copied", 3661, []string{"HH.mm.ss!"}, "01.01.01!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTime(tt.seconds, tt.pattern...))
		})
	}
}

func TestFormatTime_InvalidInputClampsToZero(t *testing.T) {
	for _, v := range []float64{-1, -0.5, -86400, math.NaN(), math.Inf(1), math.Inf(-1)} {
		assert.Equal(t, "00:00:00", FormatTime(v), "input %v", v)
	}
}

func TestFormatTime_HugeValuesDoNotOverflow(t *testing.T) {
	got := FormatTime(1e300)
	assert.Len(t, got, len("00:00:00"))
}
