package validate

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"perfumeprj/internal/model"
)

const (
	MinRating = 1
	MaxRating = 5
)

var MaxPrice = decimal.NewFromInt(100000)

// Violation is one broken constraint on a candidate.
type Violation struct {
	Field  string
	Reason string
}

func (v Violation) String() string {
	return v.Field + ": " + v.Reason
}

type Violations []Violation

func (vs Violations) Error() string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}
	return strings.Join(parts, "; ")
}

// Strings is the form used in structured logs.
func (vs Violations) Strings() []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.String()
	}
	return out
}

// Candidate returns every violated constraint; an empty result means the
// record may be upserted.
func Candidate(c model.Candidate) Violations {
	var vs Violations

	if strings.TrimSpace(c.Name) == "" {
		vs = append(vs, Violation{"name", "is required"})
	}
	if strings.TrimSpace(c.Brand) == "" {
		vs = append(vs, Violation{"brand", "is required"})
	}
	if c.Price.Valid && (!c.Price.Decimal.IsPositive() || c.Price.Decimal.GreaterThan(MaxPrice)) {
		vs = append(vs, Violation{"price", fmt.Sprintf("must be in (0, %s], got %s", MaxPrice, c.Price.Decimal)})
	}
	vs = checkRating(vs, "longevity", c.Longevity)
	vs = checkRating(vs, "sillage", c.Sillage)
	vs = checkRating(vs, "projection", c.Projection)

	return vs
}

func checkRating(vs Violations, field string, r *int) Violations {
	if r != nil && (*r < MinRating || *r > MaxRating) {
		return append(vs, Violation{field, fmt.Sprintf("must be between %d and %d, got %d", MinRating, MaxRating, *r)})
	}
	return vs
}
