package domain

import (
	"errors"
	"testing"
)

func allStatuses() []PeripheralStatus {
	return []PeripheralStatus{
		PeripheralStatusConnected, PeripheralStatusUnplugged, PeripheralStatusMissing, PeripheralStatusFaulty, PeripheralStatusReplaced,
	}
}

func TestPeripheralStatus_IsValid(t *testing.T) {
	t.Parallel()

	for _, s := range allStatuses() {
		if !s.IsValid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if PeripheralStatus("broken").IsValid() {
		t.Error("unknown status should be invalid")
	}
	if PeripheralStatus("").IsValid() {
		t.Error("empty status should be invalid")
	}
}

func TestPeripheralStatus_TriggersAlert(t *testing.T) {
	t.Parallel()

	want := map[PeripheralStatus]bool{
		PeripheralStatusConnected: false,
		PeripheralStatusUnplugged: false,
		PeripheralStatusMissing:   true,
		PeripheralStatusFaulty:    true,
		PeripheralStatusReplaced:  true,
	}
	for s, alert := range want {
		if got := s.TriggersAlert(); got != alert {
			t.Errorf("%s.TriggersAlert() = %v, want %v", s, got, alert)
		}
	}
}

func TestCanTransition_Table(t *testing.T) {
	t.Parallel()

	allowed := map[PeripheralStatus][]PeripheralStatus{
		PeripheralStatusConnected: {PeripheralStatusUnplugged, PeripheralStatusFaulty, PeripheralStatusReplaced},
		PeripheralStatusUnplugged: {PeripheralStatusConnected, PeripheralStatusMissing, PeripheralStatusFaulty},
		PeripheralStatusMissing:   {PeripheralStatusConnected, PeripheralStatusReplaced},
		PeripheralStatusFaulty:    {PeripheralStatusConnected, PeripheralStatusReplaced},
		PeripheralStatusReplaced:  {PeripheralStatusConnected},
	}

	for _, from := range allStatuses() {
		permitted := make(map[PeripheralStatus]bool)
		for _, to := range allowed[from] {
			permitted[to] = true
		}
		for _, to := range allStatuses() {
			f := from
			if got := CanTransition(&f, to); got != permitted[to] {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, permitted[to])
			}
		}
	}
}

func TestCanTransition_NoSelfLoops(t *testing.T) {
	t.Parallel()

	for _, s := range allStatuses() {
		s := s
		if CanTransition(&s, s) {
			t.Errorf("%s → %s should not be permitted", s, s)
		}
	}
}

func TestCanTransition_ConnectedToMissingDisallowed(t *testing.T) {
	t.Parallel()

	from := PeripheralStatusConnected
	if CanTransition(&from, PeripheralStatusMissing) {
		t.Error("connected → missing must not be permitted (must pass through unplugged)")
	}
}

func TestCanTransition_InitialAssignment(t *testing.T) {
	t.Parallel()

	for _, s := range allStatuses() {
		if !CanTransition(nil, s) {
			t.Errorf("initial assignment to %s should be permitted", s)
		}
	}
	if CanTransition(nil, PeripheralStatus("broken")) {
		t.Error("initial assignment to an invalid status should be rejected")
	}
}

func TestValidateTransition_ErrorCarriesStatuses(t *testing.T) {
	t.Parallel()

	from := PeripheralStatusConnected
	err := ValidateTransition(&from, PeripheralStatusMissing)
	if err == nil {
		t.Fatal("expected error for connected → missing")
	}

	var invalid *InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected *InvalidTransitionError, got %T", err)
	}
	if invalid.Current == nil || *invalid.Current != PeripheralStatusConnected {
		t.Errorf("Current = %v, want connected", invalid.Current)
	}
	if invalid.Requested != PeripheralStatusMissing {
		t.Errorf("Requested = %s, want missing", invalid.Requested)
	}
	if !errors.Is(err, ErrInvalidTransition) {
		t.Error("errors.Is(err, ErrInvalidTransition) = false")
	}
}

func TestValidateTransition_OK(t *testing.T) {
	t.Parallel()

	from := PeripheralStatusUnplugged
	if err := ValidateTransition(&from, PeripheralStatusMissing); err != nil {
		t.Fatalf("unplugged → missing should be permitted, got %v", err)
	}
}

func TestAllowedTargets_ReturnsCopy(t *testing.T) {
	t.Parallel()

	targets := AllowedTargets(PeripheralStatusReplaced)
	if len(targets) != 1 || targets[0] != PeripheralStatusConnected {
		t.Fatalf("AllowedTargets(replaced) = %v, want [connected]", targets)
	}

	targets[0] = PeripheralStatusMissing
	from := PeripheralStatusReplaced
	if CanTransition(&from, PeripheralStatusMissing) {
		t.Error("mutating the returned slice must not change the table")
	}
}
