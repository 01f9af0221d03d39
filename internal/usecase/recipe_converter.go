package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/platewise/backend/internal/domain"
)

// imperial volume bucketing thresholds, in milliliters.
const (
	teaspoonMaxML   = 15
	tablespoonMaxML = 60
)

// metric bucketing threshold: quantities at or above this roll up to l/kg.
const metricBucketThreshold = 1000

// ouncePoundThresholdG keeps gram amounts below one pound in ounces.
const ouncePoundThresholdG = 454

// RecipeConverter converts whole recipes between measurement systems. The
// conversion cache is guarded by a mutex so one instance can serve concurrent
// requests.
type RecipeConverter struct {
	converter *UnitConverter
	preferred domain.TargetSystem
	mu        sync.RWMutex
	cache     map[string]*domain.ConversionResult
	logger    *zap.Logger
}

// NewRecipeConverter creates a recipe converter. preferred is the system used
// when the caller asks for SystemPreferred; metric is the ultimate fallback.
func NewRecipeConverter(converter *UnitConverter, preferred domain.TargetSystem, logger *zap.Logger) *RecipeConverter {
	if preferred != domain.SystemMetric && preferred != domain.SystemImperial {
		preferred = domain.SystemMetric
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecipeConverter{
		converter: converter,
		preferred: preferred,
		cache:     make(map[string]*domain.ConversionResult),
		logger:    logger,
	}
}

// Convert converts a recipe's ingredients and instruction temperatures to the
// target system in place. Per-ingredient failures degrade that ingredient to
// "unconverted" and never abort the recipe; the report makes partial failure
// observable.
func (rc *RecipeConverter) Convert(ctx context.Context, recipe *domain.Recipe, target domain.TargetSystem) (*domain.ConversionReport, error) {
	if target == domain.SystemPreferred {
		target = rc.preferred
	}
	switch target {
	case domain.SystemMetric, domain.SystemImperial, domain.SystemWeight:
	default:
		return nil, fmt.Errorf("%w: unknown target system %q", domain.ErrInvalidRequest, target)
	}

	report := &domain.ConversionReport{TargetSystem: target}

	for i := range recipe.Ingredients {
		ing := &recipe.Ingredients[i]
		if ing.Quantity == nil || ing.Unit == "" {
			report.Skipped++
			continue
		}

		result, err := rc.convertIngredient(ctx, ing, target)
		if err != nil {
			// Soft failure: the rest of the recipe still converts.
			rc.logger.Warn("failed to convert ingredient",
				zap.String("ingredient", ing.Name), zap.Error(err))
			report.Skipped++
			continue
		}
		if result == nil {
			report.Skipped++
			continue
		}

		applyConversion(ing, result)
		report.Converted++
		if result.IsApproximation {
			report.Approximations++
		}
	}

	rc.convertInstructionTemperatures(recipe, target)

	recipe.AddProcessingNote(fmt.Sprintf("units converted to %s system", target))
	if report.Approximations > 0 {
		recipe.AddProcessingNote(fmt.Sprintf("%d conversions are approximations", report.Approximations))
	}

	return report, nil
}

// ConvertBatch converts multiple recipes, isolating failures per recipe.
func (rc *RecipeConverter) ConvertBatch(ctx context.Context, recipes []*domain.Recipe, target domain.TargetSystem) *domain.BatchReport {
	batch := &domain.BatchReport{TotalRecipes: len(recipes), TargetSystem: target}
	for _, recipe := range recipes {
		if _, err := rc.Convert(ctx, recipe, target); err != nil {
			rc.logger.Warn("failed to convert recipe",
				zap.String("title", recipe.Title), zap.Error(err))
			batch.Failed = append(batch.Failed, recipe.Title)
			continue
		}
		batch.Succeeded++
	}
	if batch.TargetSystem == domain.SystemPreferred {
		batch.TargetSystem = rc.preferred
	}
	return batch
}

// Suggestions returns the ingredient's quantity rendered in each target system
// that a conversion exists for.
func (rc *RecipeConverter) Suggestions(ctx context.Context, ing domain.Ingredient) []domain.ConversionSuggestion {
	if ing.Quantity == nil || ing.Unit == "" {
		return nil
	}

	var suggestions []domain.ConversionSuggestion
	for _, target := range []domain.TargetSystem{domain.SystemMetric, domain.SystemImperial, domain.SystemWeight} {
		result, err := rc.convertIngredient(ctx, &ing, target)
		if err != nil || result == nil {
			continue
		}
		suggestions = append(suggestions, domain.ConversionSuggestion{
			TargetSystem:    target,
			Original:        fmt.Sprintf("%g %s", *ing.Quantity, ing.Unit),
			Converted:       fmt.Sprintf("%g %s", result.ConvertedQuantity, result.ConvertedUnit),
			IsApproximation: result.IsApproximation,
			Notes:           result.Notes,
		})
	}
	return suggestions
}

// convertIngredient converts one ingredient, consulting the per-run cache
// keyed by (quantity, unit, name, target). A nil result with nil error means
// "no conversion applies" (count-like or already in target form).
func (rc *RecipeConverter) convertIngredient(ctx context.Context, ing *domain.Ingredient, target domain.TargetSystem) (*domain.ConversionResult, error) {
	unit, ok := domain.CanonicalUnit(ing.Unit)
	if !ok {
		return nil, nil // count-like unit, countability defines it
	}

	cacheKey := fmt.Sprintf("%g_%s_%s_%s", *ing.Quantity, unit, ing.Name, target)
	rc.mu.RLock()
	cached, ok := rc.cache[cacheKey]
	rc.mu.RUnlock()
	if ok {
		return cached, nil
	}

	var (
		result *domain.ConversionResult
		err    error
	)
	switch target {
	case domain.SystemMetric:
		result, err = rc.convertToMetric(ctx, *ing.Quantity, unit, ing.Name)
	case domain.SystemImperial:
		result, err = rc.convertToImperial(*ing.Quantity, unit)
	case domain.SystemWeight:
		result, err = rc.convertToWeight(ctx, *ing.Quantity, unit, ing.Name)
	}
	if err != nil {
		if errors.Is(err, domain.ErrDensityNotFound) {
			return nil, nil // density unknown: leave the ingredient unconverted
		}
		return nil, err
	}

	if result != nil {
		rc.mu.Lock()
		rc.cache[cacheKey] = result
		rc.mu.Unlock()
	}
	return result, nil
}

// convertToMetric expresses volumes in ml (l at or above 1000 ml) and weights
// in g (kg at or above 1000 g).
func (rc *RecipeConverter) convertToMetric(ctx context.Context, quantity float64, unit domain.MeasurementUnit, name string) (*domain.ConversionResult, error) {
	switch {
	case domain.IsVolumeUnit(unit):
		result, err := rc.converter.ConvertVolume(quantity, unit, domain.UnitMilliliter)
		if err != nil {
			return nil, err
		}
		if result.ConvertedQuantity >= metricBucketThreshold {
			return rc.converter.ConvertVolume(quantity, unit, domain.UnitLiter)
		}
		return result, nil

	case domain.IsWeightUnit(unit):
		result, err := rc.converter.ConvertWeight(quantity, unit, domain.UnitGram)
		if err != nil {
			return nil, err
		}
		if result.ConvertedQuantity >= metricBucketThreshold {
			return rc.converter.ConvertWeight(quantity, unit, domain.UnitKilogram)
		}
		return result, nil
	}

	// No metric volume or weight mapping: try the density bridge.
	result, err := rc.converter.VolumeToWeight(ctx, quantity, unit, name)
	if err != nil {
		return nil, err
	}
	return rebucketGrams(result), nil
}

// convertToImperial buckets metric volumes into tsp/tbsp/cup and metric
// weights into oz/lb. Quantities already in imperial units are left unchanged.
func (rc *RecipeConverter) convertToImperial(quantity float64, unit domain.MeasurementUnit) (*domain.ConversionResult, error) {
	switch unit {
	case domain.UnitMilliliter:
		switch {
		case quantity <= teaspoonMaxML:
			return rc.converter.ConvertVolume(quantity, unit, domain.UnitTeaspoon)
		case quantity <= tablespoonMaxML:
			return rc.converter.ConvertVolume(quantity, unit, domain.UnitTablespoon)
		default:
			return rc.converter.ConvertVolume(quantity, unit, domain.UnitCup)
		}
	case domain.UnitLiter:
		return rc.converter.ConvertVolume(quantity, unit, domain.UnitCup)
	case domain.UnitGram:
		if quantity < ouncePoundThresholdG {
			return rc.converter.ConvertWeight(quantity, unit, domain.UnitOunce)
		}
		return rc.converter.ConvertWeight(quantity, unit, domain.UnitPound)
	case domain.UnitKilogram:
		return rc.converter.ConvertWeight(quantity, unit, domain.UnitPound)
	}
	return nil, nil // already imperial
}

// convertToWeight converts volumes to grams via density and re-buckets
// existing weights between g and kg.
func (rc *RecipeConverter) convertToWeight(ctx context.Context, quantity float64, unit domain.MeasurementUnit, name string) (*domain.ConversionResult, error) {
	switch {
	case domain.IsVolumeUnit(unit):
		result, err := rc.converter.VolumeToWeight(ctx, quantity, unit, name)
		if err != nil {
			return nil, err
		}
		return rebucketGrams(result), nil

	case domain.IsWeightUnit(unit):
		result, err := rc.converter.ConvertWeight(quantity, unit, domain.UnitGram)
		if err != nil {
			return nil, err
		}
		if result.ConvertedQuantity >= metricBucketThreshold {
			return rc.converter.ConvertWeight(quantity, unit, domain.UnitKilogram)
		}
		return result, nil
	}
	return nil, nil
}

// rebucketGrams rolls a gram-valued approximation up to kilograms at the
// metric threshold, preserving the approximation flag and notes.
func rebucketGrams(result *domain.ConversionResult) *domain.ConversionResult {
	if result.ConvertedUnit != domain.UnitGram || result.ConvertedQuantity < metricBucketThreshold {
		return result
	}
	rebucketed := *result
	rebucketed.ConvertedQuantity = SmartRound(result.ConvertedQuantity/1000, domain.UnitKilogram)
	rebucketed.ConvertedUnit = domain.UnitKilogram
	return &rebucketed
}

// applyConversion writes a conversion result onto the ingredient, updating the
// primary quantity/unit and the parallel system field the converted unit
// belongs to.
func applyConversion(ing *domain.Ingredient, result *domain.ConversionResult) {
	ing.Quantity = domain.Float(result.ConvertedQuantity)
	ing.Unit = string(result.ConvertedUnit)

	quantity := domain.Float(result.ConvertedQuantity)
	switch result.ConvertedUnit {
	case domain.UnitMilliliter, domain.UnitLiter:
		ing.MetricQuantity = quantity
		ing.MetricUnit = string(result.ConvertedUnit)
	case domain.UnitTeaspoon, domain.UnitTablespoon, domain.UnitCup,
		domain.UnitFluidOunce, domain.UnitPint, domain.UnitQuart, domain.UnitGallon:
		ing.ImperialQuantity = quantity
		ing.ImperialUnit = string(result.ConvertedUnit)
	case domain.UnitOunce, domain.UnitPound:
		ing.ImperialQuantity = quantity
		ing.ImperialUnit = string(result.ConvertedUnit)
		ing.WeightQuantity = quantity
		ing.WeightUnit = string(result.ConvertedUnit)
	case domain.UnitGram, domain.UnitKilogram:
		ing.WeightQuantity = quantity
		ing.WeightUnit = string(result.ConvertedUnit)
	}

	if result.IsApproximation {
		note := fmt.Sprintf("converted from %g %s", result.OriginalQuantity, result.OriginalUnit)
		if result.Notes != "" {
			note += fmt.Sprintf(" (%s)", result.Notes)
		}
		ing.Notes = note
	}
}

// convertInstructionTemperatures converts oven temperatures in instruction
// steps: F to C for metric targets, C to F for imperial.
func (rc *RecipeConverter) convertInstructionTemperatures(recipe *domain.Recipe, target domain.TargetSystem) {
	for i := range recipe.Instructions {
		step := &recipe.Instructions[i]
		if step.Temperature == nil || step.TemperatureUnit == "" {
			continue
		}

		var result *domain.ConversionResult
		var err error
		switch {
		case target == domain.SystemMetric && step.TemperatureUnit == string(domain.UnitFahrenheit):
			result, err = rc.converter.ConvertTemperature(*step.Temperature, domain.UnitFahrenheit, domain.UnitCelsius)
		case target == domain.SystemImperial && step.TemperatureUnit == string(domain.UnitCelsius):
			result, err = rc.converter.ConvertTemperature(*step.Temperature, domain.UnitCelsius, domain.UnitFahrenheit)
		default:
			continue
		}
		if err != nil {
			rc.logger.Warn("failed to convert instruction temperature",
				zap.Int("step", step.StepNumber), zap.Error(err))
			continue
		}

		step.Temperature = domain.Float(result.ConvertedQuantity)
		step.TemperatureUnit = string(result.ConvertedUnit)
	}
}
