package usecase

import (
	"errors"

	"github.com/homefinder/loancalc/internal/domain/model"
	"github.com/homefinder/loancalc/pkg/money"
)

// ErrOwnerRequired is returned by operations that act on a user's own
// records when the caller is anonymous.
var ErrOwnerRequired = errors.New("authenticated owner required")

// newFormatter maps presentation errors onto the invalid-input family so the
// transports report them as client errors.
func newFormatter(currency, locale string) (*money.Formatter, error) {
	f, err := money.NewFormatter(currency, locale)
	if err != nil {
		field := "locale"
		if _, curErr := money.NewCurrency(orDefault(currency, money.DefaultCurrency)); curErr != nil {
			field = "currency"
		}
		return nil, &model.InvalidInputError{Field: field, Reason: err.Error()}
	}
	return f, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
