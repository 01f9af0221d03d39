package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDensityNotFound is returned when every lookup strategy is exhausted.
	// Callers treat it as "density unknown, cross-family conversion unavailable".
	ErrDensityNotFound = errors.New("no density found for ingredient")

	// ErrExternalLookup is returned when the FoodData Central request fails.
	// Treated identically to not-found, but cached as a negative result.
	ErrExternalLookup = errors.New("external density lookup failed")

	// ErrMalformedPortion is returned when a portion description cannot be
	// parsed into an (amount, unit) pair.
	ErrMalformedPortion = errors.New("portion description is not a volume measurement")

	// ErrImplausibleDensity is returned when a computed density falls outside
	// the accepted band.
	ErrImplausibleDensity = errors.New("density outside plausible band")

	// ErrFoodNotFound is returned when the external database has no candidates.
	ErrFoodNotFound = errors.New("food not found in FoodData Central")

	// ErrInvalidRequest is returned when request parameters are invalid.
	ErrInvalidRequest = errors.New("invalid request parameters")
)

// InvalidUnitError reports unit names absent from a family's conversion table.
// It indicates a normalization bug upstream, not a data-quality issue, and is
// allowed to propagate past the per-ingredient boundary.
type InvalidUnitError struct {
	Family UnitFamily
	Units  []string
}

func (e *InvalidUnitError) Error() string {
	return fmt.Sprintf("invalid %s unit(s): %s", e.Family, strings.Join(e.Units, ", "))
}

// NewInvalidUnitError builds an InvalidUnitError naming the offending units.
func NewInvalidUnitError(family UnitFamily, units ...string) *InvalidUnitError {
	return &InvalidUnitError{Family: family, Units: units}
}
