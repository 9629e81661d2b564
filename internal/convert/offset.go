package convert

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	millisOffsetPattern = regexp.MustCompile(`^\d+$`)
	clockOffsetPattern  = regexp.MustCompile(`^(?:(\d+):)?(\d{1,2}):(\d{1,2})(?:[.,](\d{1,3}))?$`)
)

// ParseOffset parses a signed shift. Accepted forms are whole milliseconds
// ("-2000", "+1500"), a clock value ("-00:00:02.000", "1:30.5") and a Go
// duration ("-2s", "250ms"). Durations are truncated to milliseconds.
func ParseOffset(s string) (int64, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, nil
	}

	sign := int64(1)
	body := raw
	switch body[0] {
	case '-':
		sign = -1
		body = body[1:]
	case '+':
		body = body[1:]
	}

	if millisOffsetPattern.MatchString(body) {
		v, err := strconv.ParseInt(body, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid offset %q: %w", s, err)
		}
		return sign * v, nil
	}

	if m := clockOffsetPattern.FindStringSubmatch(body); m != nil {
		v, err := clockOffset(m[1], m[2], m[3], m[4])
		if err != nil {
			return 0, fmt.Errorf("invalid offset %q: %w", s, err)
		}
		return sign * v, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid offset %q: expected milliseconds, [HH:]MM:SS[.mmm] or a duration such as -1.5s", s)
	}
	return d.Milliseconds(), nil
}

func clockOffset(hours, minutes, seconds, fraction string) (int64, error) {
	var h int64
	if hours != "" {
		v, err := strconv.ParseInt(hours, 10, 64)
		if err != nil || v > maxHours {
			return 0, errTimecodeOverflow
		}
		h = v
	}
	m, _ := strconv.ParseInt(minutes, 10, 64)
	sec, _ := strconv.ParseInt(seconds, 10, 64)
	if hours != "" && m > 59 {
		return 0, fmt.Errorf("minutes %s out of range", minutes)
	}
	if sec > 59 {
		return 0, fmt.Errorf("seconds %s out of range", seconds)
	}

	var ms int64
	if fraction != "" {
		// ".5" is half a second, not five milliseconds.
		padded := fraction + strings.Repeat("0", 3-len(fraction))
		ms, _ = strconv.ParseInt(padded, 10, 64)
	}

	total := h*msPerHour + sec*msPerSecond + ms
	if m > (math.MaxInt64-total)/msPerMinute {
		return 0, errTimecodeOverflow
	}
	return total + m*msPerMinute, nil
}
