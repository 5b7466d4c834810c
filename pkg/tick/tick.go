// Package tick ports the original kekbit source's TickUnit (see
// original_source/src/core/tick.rs), supplementing spec.md's
// distillation: callers may declare a timeout in whichever unit is
// natural and normalize to nanoseconds at the header boundary.
package tick

import (
	"fmt"
	"time"
)

// Unit is a coarse time unit a caller may declare a duration in.
type Unit int

const (
	Nanos Unit = iota
	Micros
	Millis
	Secs
)

// ID returns the wire id historically used for each unit, kept for
// parity with the original source's enum discriminants even though
// the Go header encodes timeouts directly in nanoseconds.
func (u Unit) ID() uint8 {
	switch u {
	case Nanos:
		return 9
	case Micros:
		return 6
	case Millis:
		return 3
	case Secs:
		return 0
	default:
		return 9
	}
}

// FromID reverses ID, defaulting to Nanos for unrecognized ids.
func FromID(id uint8) Unit {
	switch id {
	case 9:
		return Nanos
	case 6:
		return Micros
	case 3:
		return Millis
	case 0:
		return Secs
	default:
		return Nanos
	}
}

// ParseUnit parses a short unit name ("ns", "us", "ms", "s") into a
// Unit, the form a config file or CLI flag declares a timeout in.
func ParseUnit(s string) (Unit, error) {
	switch s {
	case "ns":
		return Nanos, nil
	case "us":
		return Micros, nil
	case "ms":
		return Millis, nil
	case "s":
		return Secs, nil
	default:
		return 0, fmt.Errorf("tick: unknown unit %q", s)
	}
}

// ToNanos converts a count in u's unit to nanoseconds, the width
// header.Metadata.TimeoutNs and CreationNs are stored in.
func (u Unit) ToNanos(count uint64) uint64 {
	switch u {
	case Nanos:
		return count
	case Micros:
		return uint64(time.Duration(count) * time.Microsecond)
	case Millis:
		return uint64(time.Duration(count) * time.Millisecond)
	case Secs:
		return uint64(time.Duration(count) * time.Second)
	default:
		return count
	}
}
