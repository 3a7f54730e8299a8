package domain

// PeripheralStatus represents the tracked state of a peripheral.
type PeripheralStatus string

const (
	PeripheralStatusConnected PeripheralStatus = "connected"
	PeripheralStatusUnplugged PeripheralStatus = "unplugged"
	PeripheralStatusMissing   PeripheralStatus = "missing"
	PeripheralStatusFaulty    PeripheralStatus = "faulty"
	PeripheralStatusReplaced  PeripheralStatus = "replaced"
)

func (s PeripheralStatus) String() string { return string(s) }

func (s PeripheralStatus) IsValid() bool {
	switch s {
	case PeripheralStatusConnected, PeripheralStatusUnplugged, PeripheralStatusMissing, PeripheralStatusFaulty, PeripheralStatusReplaced:
		return true
	}
	return false
}

// TriggersAlert reports whether landing in this status raises an alert.
func (s PeripheralStatus) TriggersAlert() bool {
	switch s {
	case PeripheralStatusMissing, PeripheralStatusFaulty, PeripheralStatusReplaced:
		return true
	}
	return false
}

// statusTransitions is the single source of truth for permitted status
// changes. There are no self-loops: requesting the current status again is
// rejected. A unit cannot go connected → missing directly; it must pass
// through unplugged first.
var statusTransitions = map[PeripheralStatus][]PeripheralStatus{
	PeripheralStatusConnected: {PeripheralStatusUnplugged, PeripheralStatusFaulty, PeripheralStatusReplaced},
	PeripheralStatusUnplugged: {PeripheralStatusConnected, PeripheralStatusMissing, PeripheralStatusFaulty},
	PeripheralStatusMissing:   {PeripheralStatusConnected, PeripheralStatusReplaced},
	PeripheralStatusFaulty:    {PeripheralStatusConnected, PeripheralStatusReplaced},
	PeripheralStatusReplaced:  {PeripheralStatusConnected},
}

// AllowedTargets returns the statuses reachable from the given status.
// The returned slice is a copy; callers may modify it.
func AllowedTargets(from PeripheralStatus) []PeripheralStatus {
	targets := statusTransitions[from]
	out := make([]PeripheralStatus, len(targets))
	copy(out, targets)
	return out
}

// CanTransition reports whether from → to is permitted by the table.
// A nil from means the status has never been assigned; any valid status
// may then be set (initial assignment).
func CanTransition(from *PeripheralStatus, to PeripheralStatus) bool {
	if !to.IsValid() {
		return false
	}
	if from == nil {
		return true
	}
	for _, t := range statusTransitions[*from] {
		if t == to {
			return true
		}
	}
	return false
}

// ValidateTransition checks from → to against the transition table.
// Returns *InvalidTransitionError (wrapping ErrInvalidTransition) on a miss,
// so callers can report both the current and the requested status.
func ValidateTransition(from *PeripheralStatus, to PeripheralStatus) error {
	if CanTransition(from, to) {
		return nil
	}
	return &InvalidTransitionError{Current: from, Requested: to}
}
