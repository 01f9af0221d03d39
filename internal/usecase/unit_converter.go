package usecase

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/platewise/backend/internal/domain"
)

// UnitConverter performs volume, weight, and temperature conversions, bridging
// volume and weight through ingredient densities.
type UnitConverter struct {
	densities domain.DensityFinder
	logger    *zap.Logger
}

// NewUnitConverter creates a unit converter. densities may be nil, in which
// case cross-family conversions always report density-not-found.
func NewUnitConverter(densities domain.DensityFinder, logger *zap.Logger) *UnitConverter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UnitConverter{densities: densities, logger: logger}
}

// ConvertVolume converts between volume units. The result is exact, never an
// approximation.
func (c *UnitConverter) ConvertVolume(quantity float64, from, to domain.MeasurementUnit) (*domain.ConversionResult, error) {
	fromFactor, fromOK := domain.VolumeFactor(from)
	toFactor, toOK := domain.VolumeFactor(to)
	if !fromOK || !toOK {
		var bad []string
		if !fromOK {
			bad = append(bad, string(from))
		}
		if !toOK {
			bad = append(bad, string(to))
		}
		return nil, domain.NewInvalidUnitError(domain.FamilyVolume, bad...)
	}

	converted := quantity * fromFactor / toFactor
	return &domain.ConversionResult{
		OriginalQuantity:  quantity,
		OriginalUnit:      from,
		ConvertedQuantity: SmartRound(converted, to),
		ConvertedUnit:     to,
		Factor:            fromFactor / toFactor,
	}, nil
}

// ConvertWeight converts between weight units. The result is exact, never an
// approximation.
func (c *UnitConverter) ConvertWeight(quantity float64, from, to domain.MeasurementUnit) (*domain.ConversionResult, error) {
	fromFactor, fromOK := domain.WeightFactor(from)
	toFactor, toOK := domain.WeightFactor(to)
	if !fromOK || !toOK {
		var bad []string
		if !fromOK {
			bad = append(bad, string(from))
		}
		if !toOK {
			bad = append(bad, string(to))
		}
		return nil, domain.NewInvalidUnitError(domain.FamilyWeight, bad...)
	}

	converted := quantity * fromFactor / toFactor
	return &domain.ConversionResult{
		OriginalQuantity:  quantity,
		OriginalUnit:      from,
		ConvertedQuantity: SmartRound(converted, to),
		ConvertedUnit:     to,
		Factor:            fromFactor / toFactor,
	}, nil
}

// ConvertTemperature converts between Celsius and Fahrenheit. Equal-unit
// requests short-circuit and return the input unchanged with factor 1.0.
func (c *UnitConverter) ConvertTemperature(value float64, from, to domain.MeasurementUnit) (*domain.ConversionResult, error) {
	if !isTemperatureUnit(from) || !isTemperatureUnit(to) {
		var bad []string
		if !isTemperatureUnit(from) {
			bad = append(bad, string(from))
		}
		if !isTemperatureUnit(to) {
			bad = append(bad, string(to))
		}
		return nil, domain.NewInvalidUnitError(domain.FamilyTemperature, bad...)
	}

	if from == to {
		return &domain.ConversionResult{
			OriginalQuantity:  value,
			OriginalUnit:      from,
			ConvertedQuantity: value,
			ConvertedUnit:     to,
			Factor:            1.0,
		}, nil
	}

	var converted float64
	if from == domain.UnitFahrenheit {
		converted = (value - 32) * 5 / 9
	} else {
		converted = value*9/5 + 32
	}

	return &domain.ConversionResult{
		OriginalQuantity:  value,
		OriginalUnit:      from,
		ConvertedQuantity: math.Round(converted*10) / 10,
		ConvertedUnit:     to,
		Factor:            0, // not applicable for the affine temperature formula
	}, nil
}

// VolumeToWeight converts a volume quantity to grams using the ingredient's
// density. Returns ErrDensityNotFound when no density could be resolved.
func (c *UnitConverter) VolumeToWeight(ctx context.Context, quantity float64, from domain.MeasurementUnit, ingredientName string) (*domain.ConversionResult, error) {
	factor, ok := domain.VolumeFactor(from)
	if !ok {
		return nil, domain.NewInvalidUnitError(domain.FamilyVolume, string(from))
	}

	density, err := c.findDensity(ctx, ingredientName)
	if err != nil {
		return nil, err
	}

	grams := quantity * factor * density.DensityGML
	return &domain.ConversionResult{
		OriginalQuantity:  quantity,
		OriginalUnit:      from,
		ConvertedQuantity: SmartRound(grams, domain.UnitGram),
		ConvertedUnit:     domain.UnitGram,
		IngredientName:    ingredientName,
		Factor:            density.DensityGML,
		IsApproximation:   true,
		Notes:             fmt.Sprintf("approximation based on typical density of %s", ingredientName),
	}, nil
}

// WeightToVolume converts a weight quantity to milliliters using the
// ingredient's density. Returns ErrDensityNotFound when no density could be
// resolved.
func (c *UnitConverter) WeightToVolume(ctx context.Context, quantity float64, from domain.MeasurementUnit, ingredientName string) (*domain.ConversionResult, error) {
	factor, ok := domain.WeightFactor(from)
	if !ok {
		return nil, domain.NewInvalidUnitError(domain.FamilyWeight, string(from))
	}

	density, err := c.findDensity(ctx, ingredientName)
	if err != nil {
		return nil, err
	}

	ml := quantity * factor / density.DensityGML
	return &domain.ConversionResult{
		OriginalQuantity:  quantity,
		OriginalUnit:      from,
		ConvertedQuantity: SmartRound(ml, domain.UnitMilliliter),
		ConvertedUnit:     domain.UnitMilliliter,
		IngredientName:    ingredientName,
		Factor:            1 / density.DensityGML,
		IsApproximation:   true,
		Notes:             fmt.Sprintf("approximation based on typical density of %s", ingredientName),
	}, nil
}

// BestUnitForQuantity nudges very small quantities down a unit and very large
// ones up, to keep displayed numbers human-friendly.
func (c *UnitConverter) BestUnitForQuantity(quantity float64, current domain.MeasurementUnit) domain.MeasurementUnit {
	if quantity < 1 {
		switch current {
		case domain.UnitCup, domain.UnitLiter:
			return domain.UnitMilliliter
		case domain.UnitPound, domain.UnitKilogram:
			return domain.UnitGram
		}
	} else if quantity > 1000 {
		switch current {
		case domain.UnitMilliliter:
			return domain.UnitLiter
		case domain.UnitGram:
			return domain.UnitKilogram
		}
	}
	return current
}

func (c *UnitConverter) findDensity(ctx context.Context, ingredientName string) (*domain.DensityRecord, error) {
	if c.densities == nil {
		return nil, domain.ErrDensityNotFound
	}
	return c.densities.FindDensity(ctx, ingredientName)
}

func isTemperatureUnit(u domain.MeasurementUnit) bool {
	return u == domain.UnitCelsius || u == domain.UnitFahrenheit
}

// SmartRound rounds a converted value to cook-friendly precision: whole
// ml/g in normal ranges (one decimal below 1), two decimals for l/kg and
// imperial units. A cook writes "2.5 l", never "127.3 ml".
func SmartRound(value float64, unit domain.MeasurementUnit) float64 {
	switch unit {
	case domain.UnitMilliliter, domain.UnitGram:
		if value < 1 {
			return math.Round(value*10) / 10
		}
		return math.Round(value)
	default:
		return math.Round(value*100) / 100
	}
}
