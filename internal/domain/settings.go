package domain

import "time"

// Setting is one key/value pair of the runtime-tunable system settings.
// Values are stored as strings; the settings service owns typed access.
type Setting struct {
	Key       string
	Value     string
	UpdatedBy string
	UpdatedAt time.Time
}

// Known setting keys. Unknown keys are rejected on update.
const (
	SettingFaultyCycleThreshold = "faulty_cycle_threshold"
	SettingFaultyWindowMinutes  = "faulty_window_minutes"
	SettingMissingAfterMinutes  = "missing_after_minutes"
	SettingAlertRetentionDays   = "alert_retention_days"
)

// DefaultSettings returns the built-in value for every known key.
// A key absent from the settings store falls back to these.
func DefaultSettings() map[string]string {
	return map[string]string{
		SettingFaultyCycleThreshold: "3",
		SettingFaultyWindowMinutes:  "10",
		SettingMissingAfterMinutes:  "10",
		SettingAlertRetentionDays:   "90",
	}
}

// IsKnownSettingKey reports whether key is one of the known setting keys.
func IsKnownSettingKey(key string) bool {
	_, ok := DefaultSettings()[key]
	return ok
}

// DetectionParams are the typed thresholds driving event detection,
// assembled by the settings service from stored values and defaults.
type DetectionParams struct {
	// FaultyCycleThreshold is the number of connect/disconnect cycles
	// within FaultyWindow that marks a peripheral faulty.
	FaultyCycleThreshold int
	FaultyWindow         time.Duration

	// MissingAfter is how long a peripheral may stay unplugged before
	// the sweep marks it missing.
	MissingAfter time.Duration
}
