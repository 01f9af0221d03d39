package fdc

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/platewise/backend/internal/domain"
)

// portionPattern pairs a regex over portion descriptions with the volume unit
// it denotes. Order matters: longer unit names are tried before their
// abbreviations.
type portionPattern struct {
	re   *regexp.Regexp
	unit domain.MeasurementUnit
}

var portionPatterns = []portionPattern{
	{regexp.MustCompile(`(\d+(?:\.\d+)?)\s*cups?`), domain.UnitCup},
	{regexp.MustCompile(`(\d+(?:\.\d+)?)\s*tablespoons?`), domain.UnitTablespoon},
	{regexp.MustCompile(`(\d+(?:\.\d+)?)\s*tbsps?`), domain.UnitTablespoon},
	{regexp.MustCompile(`(\d+(?:\.\d+)?)\s*teaspoons?`), domain.UnitTeaspoon},
	{regexp.MustCompile(`(\d+(?:\.\d+)?)\s*tsps?`), domain.UnitTeaspoon},
	{regexp.MustCompile(`(\d+(?:\.\d+)?)\s*fluid\s*ounces?`), domain.UnitFluidOunce},
	{regexp.MustCompile(`(\d+(?:\.\d+)?)\s*fl\s*ozs?`), domain.UnitFluidOunce},
	{regexp.MustCompile(`(\d+(?:\.\d+)?)\s*milliliters?`), domain.UnitMilliliter},
	{regexp.MustCompile(`(\d+(?:\.\d+)?)\s*mls?\b`), domain.UnitMilliliter},
	{regexp.MustCompile(`(\d+(?:\.\d+)?)\s*liters?`), domain.UnitLiter},
	{regexp.MustCompile(`(\d+(?:\.\d+)?)\s*pints?`), domain.UnitPint},
	{regexp.MustCompile(`(\d+(?:\.\d+)?)\s*quarts?`), domain.UnitQuart},
	{regexp.MustCompile(`(\d+(?:\.\d+)?)\s*gallons?`), domain.UnitGallon},
}

// ParsePortion extracts (amount, volume unit) from a human-readable portion
// description like "1 cup" or "2 tablespoons". Weight-only and count-only
// portions report ErrMalformedPortion so the caller can try the next candidate.
func ParsePortion(description string) (float64, domain.MeasurementUnit, error) {
	desc := strings.ToLower(strings.TrimSpace(description))
	if desc == "" {
		return 0, "", domain.ErrMalformedPortion
	}

	for _, p := range portionPatterns {
		m := p.re.FindStringSubmatch(desc)
		if m == nil {
			continue
		}
		amount, err := strconv.ParseFloat(m[1], 64)
		if err != nil || amount <= 0 {
			continue
		}
		return amount, p.unit, nil
	}

	return 0, "", domain.ErrMalformedPortion
}

// DensityFromPortion derives a density (g/ml) from a volume portion and its
// gram weight. Results outside the plausible food density band are rejected.
func DensityFromPortion(amount float64, unit domain.MeasurementUnit, gramWeight float64) (float64, error) {
	factor, ok := domain.VolumeFactor(unit)
	if !ok {
		return 0, domain.ErrMalformedPortion
	}
	volumeML := amount * factor
	if volumeML <= 0 || gramWeight <= 0 {
		return 0, domain.ErrMalformedPortion
	}

	density := gramWeight / volumeML
	if !domain.PlausibleDensity(density) {
		return 0, domain.ErrImplausibleDensity
	}
	return density, nil
}
