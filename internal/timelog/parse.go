package timelog

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// EventTimeLayout is the layout accepted for explicit event times.
const EventTimeLayout = "2006-01-02T15:04:05"

// ParseDuration reads an "H:MM:SS" duration into seconds. Each field must be a
// non-negative integer; hours may exceed 24 and minutes/seconds are not range checked.
func ParseDuration(s string) (int64, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("%w: duration %q is not in H:MM:SS format", ErrParse, s)
	}

	var fields [3]int64
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("%w: duration %q: invalid field %q", ErrParse, s, p)
		}
		fields[i] = int64(v)
	}

	return fields[0]*3600 + fields[1]*60 + fields[2], nil
}

// ParseEventTime reads a "YYYY-MM-DDTHH:MM:SS" timestamp in loc and returns
// seconds since the epoch.
func ParseEventTime(s string, loc *time.Location) (int64, error) {
	t, err := time.ParseInLocation(EventTimeLayout, s, loc)
	if err != nil {
		return 0, fmt.Errorf("%w: event time %q: expected %s", ErrParse, s, EventTimeLayout)
	}
	return t.Unix(), nil
}
