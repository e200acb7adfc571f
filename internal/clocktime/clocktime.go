// Package clocktime parses the wall-clock strings found in festival
// schedules and places them on a calendar day.
package clocktime

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalid is wrapped by every parse failure in this package.
var ErrInvalid = errors.New("clocktime: invalid clock value")

// Clock is a time of day with minute precision.
type Clock struct {
	Hour   int
	Minute int
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// ParseColon parses "HH:MM" (a single-digit hour is accepted).
func ParseColon(s string) (Clock, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(h) < 1 || len(h) > 2 || len(m) != 2 {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	return build(s, h, m)
}

// ParseCompact parses the four-digit "HHMM" form.
func ParseCompact(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	if len(s) != 4 {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	return build(s, s[:2], s[2:])
}

func build(raw, h, m string) (Clock, error) {
	hour, err := atoiDigits(h)
	if err != nil || hour > 23 {
		return Clock{}, fmt.Errorf("%w: %q: hour out of range", ErrInvalid, raw)
	}
	minute, err := atoiDigits(m)
	if err != nil || minute > 59 {
		return Clock{}, fmt.Errorf("%w: %q: minute out of range", ErrInvalid, raw)
	}
	return Clock{Hour: hour, Minute: minute}, nil
}

// atoiDigits rejects signs and spaces, which strconv.Atoi would let through.
func atoiDigits(s string) (int, error) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.Atoi(s)
}

// On applies the overnight rule: a clock value whose hour is before
// rolloverHour belongs to the day after base. The result is in base's
// location with seconds cleared.
func On(base time.Time, c Clock, rolloverHour int) time.Time {
	day := base.Day()
	if c.Hour < rolloverHour {
		day++
	}
	return time.Date(base.Year(), base.Month(), day, c.Hour, c.Minute, 0, 0, base.Location())
}
