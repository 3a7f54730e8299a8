package settings

import (
	"strconv"

	"github.com/heartmarshall/labwatch-backend/internal/domain"
)

// UpdateInput holds the parameters for changing one setting.
type UpdateInput struct {
	Key   string
	Value string
}

// Validate checks all fields and collects all errors. Every known key
// currently takes a positive integer, so the value rule is shared.
func (i *UpdateInput) Validate() error {
	var errs []domain.FieldError

	if i.Key == "" {
		errs = append(errs, domain.FieldError{Field: "key", Message: "required"})
	} else if !domain.IsKnownSettingKey(i.Key) {
		errs = append(errs, domain.FieldError{Field: "key", Message: "unknown setting key"})
	}

	if n, err := strconv.Atoi(i.Value); err != nil || n < 1 {
		errs = append(errs, domain.FieldError{Field: "value", Message: "must be an integer >= 1"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
