// Package rota holds the monthly shift-scheduling domain model: the
// decision variables, the hard and soft constraints evaluated over
// them, and the objective the solver optimizes.
package rota

import "github.com/paiban/gunmupyo/pkg/rerrors"

// Kind enumerates the four shift kinds a day can resolve to for a
// given employee. The numeric values match the wire encoding used by
// the HTTP handler's FixedShiftInput.ShiftType and the extracted
// schedule.
type Kind int

const (
	Day Kind = iota
	Night
	PostOff
	Rest
)

// NumKinds is the width of the shift axis in the (employee, day,
// shift) boolean variable cube.
const NumKinds = 4

// symbols and names back the short code and full name each Kind
// renders as in config echoes and extracted schedules.
var (
	symbols = [NumKinds]string{"D", "N", "B", "R"}
	names   = [NumKinds]string{"Day", "Night", "PostOff", "Rest"}
)

// Symbol returns the single-letter code for k ("D", "N", "B", "R").
func (k Kind) Symbol() string {
	if k < 0 || int(k) >= NumKinds {
		return "?"
	}
	return symbols[k]
}

// String returns the full name for k ("Day", "Night", "PostOff", "Rest").
func (k Kind) String() string {
	if k < 0 || int(k) >= NumKinds {
		return "Unknown"
	}
	return names[k]
}

// IsWork reports whether k is an active working shift (Day or Night).
// It is false for PostOff and Rest, although PostOff still counts
// toward an employee's work-day total.
func (k Kind) IsWork() bool {
	return k == Day || k == Night
}

// ParseKind maps a raw wire integer (0..3) onto a Kind, rejecting
// anything outside that range.
func ParseKind(raw int) (Kind, error) {
	if raw < 0 || raw >= NumKinds {
		return 0, rerrors.InvalidInput("shift_type", "must be 0 (Day), 1 (Night), 2 (PostOff) or 3 (Rest)")
	}
	return Kind(raw), nil
}
