// Package filetime converts wall-clock times to the 1601-epoch tick format
// used by the Sidebar gadget cache files.
package filetime

import "time"

const (
	// UnixEpochTicks is the number of 100ns ticks between 1601-01-01 and 1970-01-01.
	UnixEpochTicks int64 = 116_444_736_000_000_000

	// TicksPerSecond is the tick resolution (100ns).
	TicksPerSecond int64 = 10_000_000
)

// FromUnix converts whole Unix seconds to ticks.
func FromUnix(sec int64) int64 {
	return sec*TicksPerSecond + UnixEpochTicks
}

// FromTime converts t to ticks. Sub-second precision is dropped before
// scaling so the result is always a whole-second multiple.
func FromTime(t time.Time) int64 {
	return FromUnix(t.Unix())
}
