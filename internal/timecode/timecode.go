package timecode

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrInvalidFormat indicates a time string that is not HH:MM:SS.
var ErrInvalidFormat = errors.New("timecode: invalid time format, expected HH:MM:SS")

const secondsPerDay = 24 * 60 * 60

var timePattern = regexp.MustCompile(`^(\d+):([0-5]\d):([0-5]\d)$`)

// FromMilliseconds renders a non-negative millisecond offset as HH:MM:SS.
// Sub-second remainder is truncated. The hours field is zero-padded to at
// least two digits and grows unclamped past 99.
func FromMilliseconds(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	total := ms / 1000
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// ToSeconds parses a strict HH:MM:SS string into a second count.
// Minutes and seconds must be two digits in 00-59; hours accept any width.
func ToSeconds(value string) (int64, error) {
	match := timePattern.FindStringSubmatch(value)
	if match == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, value)
	}
	hours, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, value)
	}
	minutes, _ := strconv.ParseInt(match[2], 10, 64)
	seconds, _ := strconv.ParseInt(match[3], 10, 64)
	return hours*3600 + minutes*60 + seconds, nil
}

// AddSeconds shifts an HH:MM:SS string by a signed second delta.
//
// The result wraps modulo 24 hours, treating the input as a wall-clock
// offset from midnight. "23:59:50" plus 20 seconds yields "00:00:10".
func AddSeconds(value string, delta int64) (string, error) {
	total, err := ToSeconds(value)
	if err != nil {
		return "", err
	}
	total = (total + delta) % secondsPerDay
	if total < 0 {
		total += secondsPerDay
	}
	return FromMilliseconds(total * 1000), nil
}

// Duration returns the signed second distance between two HH:MM:SS strings.
// A zero or negative result is passed through unchanged; callers decide
// whether to reject it.
func Duration(start, end string) (int64, error) {
	startSeconds, err := ToSeconds(start)
	if err != nil {
		return 0, err
	}
	endSeconds, err := ToSeconds(end)
	if err != nil {
		return 0, err
	}
	return endSeconds - startSeconds, nil
}
