package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/platewise/backend/internal/domain"
)

// ingredientSynonyms maps common name variants to canonical ingredient names.
// Keys are matched against the cleaned, lowercased name.
var ingredientSynonyms = map[string]string{
	// vegetables
	"green onions":  "scallions",
	"green onion":   "scallions",
	"spring onions": "scallions",
	"spring onion":  "scallions",
	"roma tomatoes": "plum tomatoes",
	"roma tomato":   "plum tomatoes",
	"bell peppers":  "bell pepper",
	"sweet peppers": "bell pepper",
	"sweet pepper":  "bell pepper",

	// proteins
	"hamburger":               "ground beef",
	"boneless chicken breast": "chicken breast",

	// dairy
	"heavy whipping cream": "heavy cream",
	"half and half":        "half-and-half",

	// spices and seasonings
	"kosher salt":         "salt",
	"table salt":          "salt",
	"sea salt":            "salt",
	"ground black pepper": "black pepper",

	// oils and fats
	"canola oil":             "vegetable oil",
	"extra virgin olive oil": "olive oil",

	// flour and grains
	"plain flour":           "all-purpose flour",
	"long-grain white rice": "white rice",
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	htmlTagRe    = regexp.MustCompile(`<[^>]+>`)
	brandParenRe = regexp.MustCompile(`(?i)\([^)]*brand[^)]*\)`)
	trademarkRe  = regexp.MustCompile(`\([^)]*®[^)]*\)`)
	adjectiveRe  = regexp.MustCompile(`\b(fresh|dried|organic|free-range|grass-fed)\b`)
	tilRe        = regexp.MustCompile(`(?i)\btil\b`)
	thruRe       = regexp.MustCompile(`(?i)\bthru\b`)
	ampersandRe  = regexp.MustCompile(`\s&\s`)
)

// encodingFixes repairs mojibake from UTF-8 text decoded as Windows-1252,
// which shows up constantly in scraped recipe sites.
var encodingFixes = strings.NewReplacer(
	"â€™", "'",
	"â€˜", "'",
	"â€œ", `"`,
	"â€", `"`,
	"â€“", "-",
	"â€”", "-",
	"Â", "",
)

// cookingVerbs are reduced to base form in instruction text, so "stirring"
// and "stirred" both read "stir".
var cookingVerbs = []string{
	"heat", "cook", "boil", "simmer", "fry", "bake", "roast", "grill",
	"steam", "poach", "braise", "stew", "mix", "stir", "whisk", "beat", "fold",
	"chop", "dice", "slice", "mince", "grate", "shred", "peel",
	"season", "marinate", "chill", "freeze", "thaw", "serve", "garnish",
}

var cookingVerbRes = compileVerbPatterns()

func compileVerbPatterns() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp, len(cookingVerbs))
	for _, verb := range cookingVerbs {
		patterns[verb] = regexp.MustCompile(`(?i)\b` + verb + `(?:ing|ed|s)?\b`)
	}
	return patterns
}

const (
	minServings = 1
	maxServings = 100

	// totalTimeSlackMinutes is how far total_time may drift from
	// prep_time+cook_time before it is recalculated.
	totalTimeSlackMinutes = 5
)

// Normalizer cleans recipe text, canonicalizes ingredient names and units, and
// populates the parallel metric/imperial/weight quantities on each ingredient
// so renderers can pick a system without re-converting.
type Normalizer struct {
	converter *UnitConverter
	enricher  domain.Enricher
	scorer    *QualityScorer
	logger    *zap.Logger
}

// NewNormalizer creates a normalizer. enricher may be nil to disable the
// optional enrichment pass.
func NewNormalizer(converter *UnitConverter, enricher domain.Enricher, logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{
		converter: converter,
		enricher:  enricher,
		scorer:    NewQualityScorer(),
		logger:    logger,
	}
}

// Normalize cleans and enriches a recipe in place. Per-ingredient failures are
// logged and leave that ingredient as-is; the rest of the recipe still
// normalizes.
func (n *Normalizer) Normalize(ctx context.Context, recipe *domain.Recipe) error {
	if recipe == nil {
		return fmt.Errorf("%w: nil recipe", domain.ErrInvalidRequest)
	}

	if recipe.ID == "" {
		recipe.ID = uuid.NewString()
	}

	recipe.Title = CleanText(recipe.Title)
	recipe.Description = CleanText(recipe.Description)

	for i := range recipe.Ingredients {
		n.normalizeIngredient(ctx, &recipe.Ingredients[i])
	}
	recipe.AddProcessingNote("ingredients normalized")

	for i := range recipe.Instructions {
		step := &recipe.Instructions[i]
		step.Text = CleanInstructionText(step.Text)
		if step.StepNumber == 0 {
			step.StepNumber = i + 1
		}
	}
	recipe.AddProcessingNote("instructions normalized")

	if recipe.Servings != 0 {
		recipe.Servings = clampServings(recipe.Servings)
	}
	n.validateTiming(recipe)

	recipe.QualityScore = n.scorer.Score(recipe)
	recipe.AddProcessingNote(fmt.Sprintf("quality score: %.2f", recipe.QualityScore))

	return nil
}

func (n *Normalizer) normalizeIngredient(ctx context.Context, ing *domain.Ingredient) {
	ing.Name = NormalizeIngredientName(ing.Name)
	ing.Preparation = CleanText(ing.Preparation)
	ing.Unit = normalizeUnitString(ing.Unit)

	if err := n.populateParallelFields(ctx, ing); err != nil {
		n.logger.Warn("failed to populate unit systems",
			zap.String("ingredient", ing.Name), zap.Error(err))
	}

	if n.enricher != nil {
		enhanced, err := n.enricher.Enrich(ctx, *ing)
		if err != nil {
			n.logger.Debug("ingredient enrichment failed",
				zap.String("ingredient", ing.Name), zap.Error(err))
			return
		}
		if enhanced != nil {
			*ing = *enhanced
		}
	}
}

// populateParallelFields fills the metric, imperial, and weight views of an
// ingredient. Count-like units are left untouched in all three fields.
func (n *Normalizer) populateParallelFields(ctx context.Context, ing *domain.Ingredient) error {
	if ing.Quantity == nil || ing.Unit == "" {
		return nil
	}
	unit, ok := domain.CanonicalUnit(ing.Unit)
	if !ok {
		return nil
	}

	quantity := *ing.Quantity
	switch {
	case domain.IsVolumeUnit(unit):
		return n.populateFromVolume(ctx, ing, quantity, unit)
	case domain.IsWeightUnit(unit):
		return n.populateFromWeight(ctx, ing, quantity, unit)
	}
	return nil
}

func (n *Normalizer) populateFromVolume(ctx context.Context, ing *domain.Ingredient, quantity float64, unit domain.MeasurementUnit) error {
	ml, err := n.converter.ConvertVolume(quantity, unit, domain.UnitMilliliter)
	if err != nil {
		return err
	}

	metric := ml
	if ml.ConvertedQuantity >= metricBucketThreshold {
		if metric, err = n.converter.ConvertVolume(quantity, unit, domain.UnitLiter); err != nil {
			return err
		}
	}
	ing.MetricQuantity = domain.Float(metric.ConvertedQuantity)
	ing.MetricUnit = string(metric.ConvertedUnit)

	imperial := imperialVolumeUnit(ml.ConvertedQuantity)
	if imp, err := n.converter.ConvertVolume(quantity, unit, imperial); err == nil {
		ing.ImperialQuantity = domain.Float(imp.ConvertedQuantity)
		ing.ImperialUnit = string(imp.ConvertedUnit)
	}

	weight, err := n.converter.VolumeToWeight(ctx, quantity, unit, ing.Name)
	if err != nil {
		// Density unknown: the weight view simply stays empty.
		return nil
	}
	weight = rebucketGrams(weight)
	ing.WeightQuantity = domain.Float(weight.ConvertedQuantity)
	ing.WeightUnit = string(weight.ConvertedUnit)
	if ing.Notes == "" {
		ing.Notes = weight.Notes
	}
	return nil
}

func (n *Normalizer) populateFromWeight(ctx context.Context, ing *domain.Ingredient, quantity float64, unit domain.MeasurementUnit) error {
	grams, err := n.converter.ConvertWeight(quantity, unit, domain.UnitGram)
	if err != nil {
		return err
	}

	weight := grams
	if grams.ConvertedQuantity >= metricBucketThreshold {
		if weight, err = n.converter.ConvertWeight(quantity, unit, domain.UnitKilogram); err != nil {
			return err
		}
	}
	ing.WeightQuantity = domain.Float(weight.ConvertedQuantity)
	ing.WeightUnit = string(weight.ConvertedUnit)

	volume, err := n.converter.WeightToVolume(ctx, quantity, unit, ing.Name)
	if err == nil {
		volume = rebucketMilliliters(volume)
		ing.MetricQuantity = domain.Float(volume.ConvertedQuantity)
		ing.MetricUnit = string(volume.ConvertedUnit)
		if ing.Notes == "" {
			ing.Notes = volume.Notes
		}

		// The imperial kitchen measures most ingredients by volume, so
		// prefer tsp/tbsp/cup when a density made a volume available.
		if volume.ConvertedUnit == domain.UnitMilliliter {
			imperial := imperialVolumeUnit(volume.ConvertedQuantity)
			if imp, err := n.converter.ConvertVolume(volume.ConvertedQuantity, domain.UnitMilliliter, imperial); err == nil {
				ing.ImperialQuantity = domain.Float(imp.ConvertedQuantity)
				ing.ImperialUnit = string(imp.ConvertedUnit)
				return nil
			}
		}
	}

	imperialUnit := domain.UnitOunce
	if grams.ConvertedQuantity >= ouncePoundThresholdG {
		imperialUnit = domain.UnitPound
	}
	if imp, err := n.converter.ConvertWeight(quantity, unit, imperialUnit); err == nil {
		ing.ImperialQuantity = domain.Float(imp.ConvertedQuantity)
		ing.ImperialUnit = string(imp.ConvertedUnit)
	}
	return nil
}

func imperialVolumeUnit(ml float64) domain.MeasurementUnit {
	switch {
	case ml <= teaspoonMaxML:
		return domain.UnitTeaspoon
	case ml <= tablespoonMaxML:
		return domain.UnitTablespoon
	default:
		return domain.UnitCup
	}
}

// rebucketMilliliters rolls an ml-valued approximation up to liters at the
// metric threshold.
func rebucketMilliliters(result *domain.ConversionResult) *domain.ConversionResult {
	if result.ConvertedUnit != domain.UnitMilliliter || result.ConvertedQuantity < metricBucketThreshold {
		return result
	}
	rebucketed := *result
	rebucketed.ConvertedQuantity = SmartRound(result.ConvertedQuantity/1000, domain.UnitLiter)
	rebucketed.ConvertedUnit = domain.UnitLiter
	return &rebucketed
}

// NormalizeIngredientName cleans an ingredient name and maps it through the
// synonym table: brand parentheticals and filler adjectives are stripped, and
// plural variants fold to their singular synonym entry.
func NormalizeIngredientName(name string) string {
	if name == "" {
		return name
	}

	cleaned := strings.ToLower(CleanText(name))
	if canonical, ok := ingredientSynonyms[cleaned]; ok {
		return canonical
	}

	cleaned = brandParenRe.ReplaceAllString(cleaned, "")
	cleaned = trademarkRe.ReplaceAllString(cleaned, "")
	cleaned = adjectiveRe.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(whitespaceRe.ReplaceAllString(cleaned, " "))

	if canonical, ok := ingredientSynonyms[cleaned]; ok {
		return canonical
	}
	if singular, ok := singularSynonym(cleaned); ok {
		return singular
	}
	return cleaned
}

// singularSynonym tries plural-to-singular folding against the synonym table.
func singularSynonym(name string) (string, bool) {
	if strings.HasSuffix(name, "es") {
		if canonical, ok := ingredientSynonyms[name[:len(name)-2]]; ok {
			return canonical, true
		}
	}
	if strings.HasSuffix(name, "s") && !strings.HasSuffix(name, "ss") {
		if canonical, ok := ingredientSynonyms[name[:len(name)-1]]; ok {
			return canonical, true
		}
	}
	return "", false
}

// normalizeUnitString maps a raw unit string to its canonical abbreviation.
// Unrecognized (count-like) units pass through lowercased.
func normalizeUnitString(raw string) string {
	if raw == "" {
		return raw
	}
	if unit, ok := domain.CanonicalUnit(raw); ok {
		return string(unit)
	}
	return strings.ToLower(strings.TrimSpace(raw))
}

// CleanText collapses whitespace, strips HTML tags, and repairs common
// encoding artifacts in scraped text.
func CleanText(text string) string {
	if text == "" {
		return text
	}
	text = htmlTagRe.ReplaceAllString(text, "")
	text = encodingFixes.Replace(text)
	text = whitespaceRe.ReplaceAllString(strings.TrimSpace(text), " ")
	return strings.TrimSpace(text)
}

// CleanInstructionText applies CleanText plus instruction-specific fixes:
// cooking verbs to base form and common shorthand spelled out.
func CleanInstructionText(text string) string {
	if text == "" {
		return text
	}
	cleaned := CleanText(text)
	for verb, re := range cookingVerbRes {
		cleaned = re.ReplaceAllString(cleaned, verb)
	}
	cleaned = tilRe.ReplaceAllString(cleaned, "until")
	cleaned = thruRe.ReplaceAllString(cleaned, "through")
	cleaned = ampersandRe.ReplaceAllString(cleaned, " and ")
	return cleaned
}

func clampServings(servings int) int {
	if servings < minServings {
		return minServings
	}
	if servings > maxServings {
		return maxServings
	}
	return servings
}

// validateTiming recalculates total_time when it disagrees with
// prep_time+cook_time by more than the allowed slack.
func (n *Normalizer) validateTiming(recipe *domain.Recipe) {
	if recipe.PrepTime <= 0 || recipe.CookTime <= 0 {
		return
	}
	calculated := recipe.PrepTime + recipe.CookTime
	diff := recipe.TotalTime - calculated
	if diff < 0 {
		diff = -diff
	}
	if recipe.TotalTime == 0 || diff > totalTimeSlackMinutes {
		recipe.TotalTime = calculated
		recipe.AddProcessingNote("total time recalculated")
	}
	if recipe.TotalTime > 24*60 {
		n.logger.Warn("total time seems excessive",
			zap.String("title", recipe.Title),
			zap.Int("total_minutes", recipe.TotalTime))
	}
}
