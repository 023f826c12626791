package transport

import (
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidEmail checks the shape of an address, not full RFC 5322.
func ValidEmail(email string) bool {
	return validatorInstance().Var(email, "required,email") == nil
}

// Present reports whether every field was sent.
func Present(fields ...*string) bool {
	for _, f := range fields {
		if f == nil {
			return false
		}
	}
	return true
}

// Blank reports whether any value trims to empty.
func Blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

// ParseAmount accepts a JSON number or a numeric string. NaN and the
// infinities are rejected.
func ParseAmount(v any) (float64, bool) {
	switch a := v.(type) {
	case float64:
		return a, finite(a)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(a), 64)
		return f, err == nil && finite(f)
	default:
		return 0, false
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
