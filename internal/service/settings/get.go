package settings

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/heartmarshall/labwatch-backend/internal/domain"
)

// Get returns the effective value of one setting. A known key with no
// stored row reads as its default with a zero update stamp.
func (s *Service) Get(ctx context.Context, key string) (domain.Setting, error) {
	if !domain.IsKnownSettingKey(key) {
		return domain.Setting{}, fmt.Errorf("setting %q: %w", key, domain.ErrNotFound)
	}

	stored, err := s.settings.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Setting{Key: key, Value: domain.DefaultSettings()[key]}, nil
		}
		return domain.Setting{}, fmt.Errorf("get setting: %w", err)
	}

	return stored, nil
}

// List returns the effective value of every known setting, ordered by key.
func (s *Service) List(ctx context.Context) ([]domain.Setting, error) {
	stored, err := s.settings.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}

	byKey := make(map[string]domain.Setting, len(stored))
	for _, st := range stored {
		byKey[st.Key] = st
	}

	defaults := domain.DefaultSettings()
	out := make([]domain.Setting, 0, len(defaults))
	for key, def := range defaults {
		if st, ok := byKey[key]; ok {
			out = append(out, st)
			continue
		}
		out = append(out, domain.Setting{Key: key, Value: def})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })

	return out, nil
}
