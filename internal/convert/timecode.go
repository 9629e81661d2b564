package convert

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

const (
	msPerSecond = 1000
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute

	// maxHours keeps h*msPerHour plus the largest minute/second/millisecond
	// remainder inside int64.
	maxHours = (math.MaxInt64 - msPerHour) / msPerHour
)

// clockExpr matches one endpoint: hours (two or more digits), minutes,
// seconds and an optional three-digit fraction after ',' or '.'.
const clockExpr = `(\d{2,}):(\d{2}):(\d{2})(?:[,.](\d{3}))?`

var (
	timecodePattern = regexp.MustCompile(`^` + clockExpr + `$`)
	timingPattern   = regexp.MustCompile(clockExpr + ` --> ` + clockExpr)
)

var errTimecodeOverflow = errors.New("timecode exceeds representable range")

// Timecode is a non-negative cue time in whole milliseconds.
type Timecode int64

// ParseTimecode parses HH:MM:SS with an optional ,mmm or .mmm fraction.
func ParseTimecode(s string) (Timecode, error) {
	m := timecodePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, &FormatError{Text: s, Err: errors.New("expected HH:MM:SS,mmm")}
	}

	t, err := timecodeFromFields(m[1], m[2], m[3], m[4])
	if err != nil {
		return 0, &FormatError{Text: s, Err: err}
	}
	return t, nil
}

func timecodeFromFields(hours, minutes, seconds, millis string) (Timecode, error) {
	h, err := strconv.ParseInt(hours, 10, 64)
	if err != nil || h > maxHours {
		return 0, fmt.Errorf("hours %s: %w", hours, errTimecodeOverflow)
	}
	m, err := strconv.ParseInt(minutes, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("minutes %s: %w", minutes, err)
	}
	if m > 59 {
		return 0, fmt.Errorf("minutes %s out of range", minutes)
	}
	s, err := strconv.ParseInt(seconds, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("seconds %s: %w", seconds, err)
	}
	if s > 59 {
		return 0, fmt.Errorf("seconds %s out of range", seconds)
	}

	var ms int64
	if millis != "" {
		ms, err = strconv.ParseInt(millis, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("milliseconds %s: %w", millis, err)
		}
	}

	return Timecode(h*msPerHour + m*msPerMinute + s*msPerSecond + ms), nil
}

// Shift adds offsetMs to t. Results below zero clamp to zero.
func Shift(t Timecode, offsetMs int64) (Timecode, error) {
	v := int64(t)
	if offsetMs > 0 && v > math.MaxInt64-offsetMs {
		return 0, errTimecodeOverflow
	}
	v += offsetMs
	if v < 0 {
		v = 0
	}
	return Timecode(v), nil
}

// String formats t as HH:MM:SS.mmm. Hours grow past two digits as needed.
func (t Timecode) String() string {
	ms := int64(t)
	if ms < 0 {
		ms = 0
	}

	h := ms / msPerHour
	ms %= msPerHour
	m := ms / msPerMinute
	ms %= msPerMinute
	s := ms / msPerSecond
	ms %= msPerSecond

	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}
