package timeseries

import (
	"fmt"
	"strings"
	"time"
)

// Precision is the time unit a point's timestamp is expressed in.
type Precision int

// Supported precisions. Seconds is the default.
const (
	Seconds Precision = iota
	Nanoseconds
)

// ParsePrecision converts a precision name ("s", "seconds", "ns",
// "nanoseconds") to a Precision. An empty name yields Seconds.
func ParsePrecision(name string) (Precision, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "s", "second", "seconds":
		return Seconds, nil
	case "ns", "nanosecond", "nanoseconds":
		return Nanoseconds, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrecision, name)
	}
}

func (p Precision) String() string {
	switch p {
	case Seconds:
		return "s"
	case Nanoseconds:
		return "ns"
	default:
		return fmt.Sprintf("Precision(%d)", int(p))
	}
}

// Duration returns the unit length, as the influx write options expect it.
func (p Precision) Duration() time.Duration {
	if p == Nanoseconds {
		return time.Nanosecond
	}
	return time.Second
}

// Timestamp converts t to a count of units since the unix epoch.
func (p Precision) Timestamp(t time.Time) int64 {
	if p == Nanoseconds {
		return t.UnixNano()
	}
	return t.Unix()
}

// Time converts a count of units since the unix epoch back to a UTC time.
func (p Precision) Time(ts int64) time.Time {
	if p == Nanoseconds {
		return time.Unix(0, ts).UTC()
	}
	return time.Unix(ts, 0).UTC()
}
