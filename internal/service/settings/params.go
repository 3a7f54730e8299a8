package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/heartmarshall/labwatch-backend/internal/domain"
)

// DetectionParams assembles the typed thresholds for the detection
// service from the effective setting values.
func (s *Service) DetectionParams(ctx context.Context) (domain.DetectionParams, error) {
	threshold, err := s.intValue(ctx, domain.SettingFaultyCycleThreshold)
	if err != nil {
		return domain.DetectionParams{}, err
	}
	windowMin, err := s.intValue(ctx, domain.SettingFaultyWindowMinutes)
	if err != nil {
		return domain.DetectionParams{}, err
	}
	missingMin, err := s.intValue(ctx, domain.SettingMissingAfterMinutes)
	if err != nil {
		return domain.DetectionParams{}, err
	}

	return domain.DetectionParams{
		FaultyCycleThreshold: threshold,
		FaultyWindow:         time.Duration(windowMin) * time.Minute,
		MissingAfter:         time.Duration(missingMin) * time.Minute,
	}, nil
}

// AlertRetention returns how long acknowledged alert rows are kept
// before the retention job purges them.
func (s *Service) AlertRetention(ctx context.Context) (time.Duration, error) {
	days, err := s.intValue(ctx, domain.SettingAlertRetentionDays)
	if err != nil {
		return 0, err
	}
	return time.Duration(days) * 24 * time.Hour, nil
}

// intValue reads a setting as an integer. A stored value that does not
// parse falls back to the default, which always does; updates validate
// values, so this only fires on rows edited behind the API's back.
func (s *Service) intValue(ctx context.Context, key string) (int, error) {
	def := domain.DefaultSettings()[key]

	stored, err := s.settings.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return strconv.Atoi(def)
		}
		return 0, fmt.Errorf("get setting: %w", err)
	}

	n, err := strconv.Atoi(stored.Value)
	if err != nil {
		s.log.WarnContext(ctx, "malformed setting value, using default",
			slog.String("key", key),
			slog.String("value", stored.Value),
		)
		return strconv.Atoi(def)
	}

	return n, nil
}
