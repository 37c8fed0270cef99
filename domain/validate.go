package domain

import "strings"

// Field describes one submitted form value together with the constraints it
// must satisfy. Numeric selects whether Text or Number carries the value.
// A nil constraint is skipped entirely, not evaluated against a default.
type Field struct {
	Text      string
	Number    int
	Numeric   bool
	Required  bool
	MinLength *int
	MaxLength *int
	Min       *int
	Max       *int
}

// Int builds a constraint bound for use in Field literals.
func Int(n int) *int { return &n }

// Validate reports whether every field satisfies all of its applicable
// constraints. Checking stops at the first violation; the result is a pure
// conjunction, so field order never changes the outcome.
func Validate(fields ...Field) bool {
	for _, f := range fields {
		if !f.valid() {
			return false
		}
	}
	return true
}

func (f Field) valid() bool {
	if f.Numeric {
		// A required numeric value of zero counts as missing, so an
		// entered zero is rejected the same way as an empty input.
		if f.Required && f.Number == 0 {
			return false
		}
		if f.Max != nil && f.Number > *f.Max {
			return false
		}
		if f.Min != nil && f.Number < *f.Min {
			return false
		}
		return true
	}
	v := strings.TrimSpace(f.Text)
	if f.Required && v == "" {
		return false
	}
	if f.MaxLength != nil && len([]rune(v)) > *f.MaxLength {
		return false
	}
	if f.MinLength != nil && len([]rune(v)) < *f.MinLength {
		return false
	}
	return true
}
