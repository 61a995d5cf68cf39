package domain

import "time"

// Timestamp is the modification time of a requirement's output, with two
// sentinel states that plain time.Time cannot express. An undefined timestamp
// means the output does not exist or the requirement has no observable output;
// it compares newer than everything, so anything depending on it rebuilds.
// The oldest timestamp compares older than everything and marks inputs that
// can never trigger a rebuild on their own.
type Timestamp struct {
	t     time.Time
	known bool
}

// UndefinedTimestamp returns the timestamp of a missing or unobservable output.
func UndefinedTimestamp() Timestamp {
	return Timestamp{}
}

// OldestTimestamp returns a timestamp older than any real modification time.
func OldestTimestamp() Timestamp {
	return Timestamp{known: true}
}

// TimestampAt returns the timestamp for a concrete modification time.
func TimestampAt(t time.Time) Timestamp {
	return Timestamp{t: t, known: true}
}

// IsUndefined reports whether the timestamp is the undefined sentinel.
func (ts Timestamp) IsUndefined() bool {
	return !ts.known
}

// Before reports whether ts is strictly older than other. Undefined is never
// older than anything, and every defined timestamp is older than undefined.
func (ts Timestamp) Before(other Timestamp) bool {
	if !ts.known {
		return false
	}
	if !other.known {
		return true
	}
	return ts.t.Before(other.t)
}

// Max returns the newer of ts and other. Undefined dominates.
func (ts Timestamp) Max(other Timestamp) Timestamp {
	if !ts.known || !other.known {
		return Timestamp{}
	}
	if ts.t.Before(other.t) {
		return other
	}
	return ts
}

// String renders the timestamp for logs.
func (ts Timestamp) String() string {
	if !ts.known {
		return "undefined"
	}
	if ts.t.IsZero() {
		return "oldest"
	}
	return ts.t.Format(time.RFC3339Nano)
}
