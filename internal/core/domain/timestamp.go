package domain

import "time"

// TimestampKind tags the meaning of a Timestamp.
type TimestampKind uint8

const (
	// TimestampUnknown is the zero kind: the value has not been computed yet.
	TimestampUnknown TimestampKind = iota
	// TimestampMissing is older than any real time. Outputs that must be regenerated use it.
	TimestampMissing
	// TimestampAt carries a real modification time.
	TimestampAt
	// TimestampForced is newer than any real time. Inputs of forced commands use it.
	TimestampForced
)

// Timestamp is the logical modification time of a file or command.
// The zero value is Unknown.
type Timestamp struct {
	kind TimestampKind
	t    time.Time
}

// At returns a Timestamp carrying a real modification time.
func At(t time.Time) Timestamp {
	return Timestamp{kind: TimestampAt, t: t}
}

// Missing returns the always-stale Timestamp.
func Missing() Timestamp {
	return Timestamp{kind: TimestampMissing}
}

// Forced returns the always-fresh Timestamp.
func Forced() Timestamp {
	return Timestamp{kind: TimestampForced}
}

// Kind returns the tag of the timestamp.
func (ts Timestamp) Kind() TimestampKind {
	return ts.kind
}

// Time returns the wall time for At timestamps and the zero time otherwise.
func (ts Timestamp) Time() time.Time {
	if ts.kind != TimestampAt {
		return time.Time{}
	}
	return ts.t
}

// IsKnown reports whether the timestamp has been computed.
func (ts Timestamp) IsKnown() bool {
	return ts.kind != TimestampUnknown
}

// IsMissing reports whether the timestamp is the always-stale value.
func (ts Timestamp) IsMissing() bool {
	return ts.kind == TimestampMissing
}

// After reports whether ts is strictly newer than other.
// Unknown timestamps compare as Missing.
func (ts Timestamp) After(other Timestamp) bool {
	a, b := ts.rank(), other.rank()
	if a != b {
		return a > b
	}
	if ts.kind == TimestampAt {
		return ts.t.After(other.t)
	}
	return false
}

// Equal reports whether both timestamps have the same kind and time.
func (ts Timestamp) Equal(other Timestamp) bool {
	return ts.kind == other.kind && ts.t.Equal(other.t)
}

// String renders the timestamp for diagnostics.
func (ts Timestamp) String() string {
	switch ts.kind {
	case TimestampMissing:
		return "missing"
	case TimestampAt:
		return ts.t.Format(time.RFC3339Nano)
	case TimestampForced:
		return "forced"
	default:
		return "unknown"
	}
}

func (ts Timestamp) rank() int {
	switch ts.kind {
	case TimestampAt:
		return 1
	case TimestampForced:
		return 2
	default:
		return 0
	}
}

// MaxTimestamp returns the newer of a and b. An Unknown operand is ignored.
func MaxTimestamp(a, b Timestamp) Timestamp {
	if !a.IsKnown() {
		return b
	}
	if !b.IsKnown() {
		return a
	}
	if b.After(a) {
		return b
	}
	return a
}
