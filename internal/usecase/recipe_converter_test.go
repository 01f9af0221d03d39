package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/platewise/backend/internal/domain"
)

func newTestRecipeConverter() *RecipeConverter {
	return NewRecipeConverter(newTestConverter(), domain.SystemMetric, nil)
}

func ingredient(name string, quantity float64, unit string) domain.Ingredient {
	return domain.Ingredient{Name: name, Quantity: domain.Float(quantity), Unit: unit}
}

func TestConvertRecipe_Metric(t *testing.T) {
	ctx := context.Background()

	t.Run("volume below threshold stays in ml", func(t *testing.T) {
		rc := newTestRecipeConverter()
		recipe := &domain.Recipe{Ingredients: []domain.Ingredient{
			ingredient("flour", 2, "cup"),
		}}

		report, err := rc.Convert(ctx, recipe, domain.SystemMetric)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ing := recipe.Ingredients[0]
		if *ing.Quantity != 473 || ing.Unit != "ml" {
			t.Errorf("converted to %v %s, want 473 ml", *ing.Quantity, ing.Unit)
		}
		if report.Converted != 1 || report.Approximations != 0 {
			t.Errorf("report = %+v, want 1 converted, 0 approximations", report)
		}
	})

	t.Run("volume at threshold becomes liters", func(t *testing.T) {
		rc := newTestRecipeConverter()
		recipe := &domain.Recipe{Ingredients: []domain.Ingredient{
			ingredient("water", 5, "cup"),
		}}

		if _, err := rc.Convert(ctx, recipe, domain.SystemMetric); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ing := recipe.Ingredients[0]
		if *ing.Quantity != 1.18 || ing.Unit != "l" {
			t.Errorf("converted to %v %s, want 1.18 l", *ing.Quantity, ing.Unit)
		}
	})

	t.Run("weight at threshold becomes kilograms", func(t *testing.T) {
		rc := newTestRecipeConverter()
		recipe := &domain.Recipe{Ingredients: []domain.Ingredient{
			ingredient("flour", 5, "lb"),
		}}

		if _, err := rc.Convert(ctx, recipe, domain.SystemMetric); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ing := recipe.Ingredients[0]
		if *ing.Quantity != 2.27 || ing.Unit != "kg" {
			t.Errorf("converted to %v %s, want 2.27 kg", *ing.Quantity, ing.Unit)
		}
	})

	t.Run("converts oven temperatures to celsius", func(t *testing.T) {
		rc := newTestRecipeConverter()
		recipe := &domain.Recipe{Instructions: []domain.InstructionStep{
			{StepNumber: 1, Text: "Bake the loaf", Temperature: domain.Float(350), TemperatureUnit: "F"},
		}}

		if _, err := rc.Convert(ctx, recipe, domain.SystemMetric); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		step := recipe.Instructions[0]
		if *step.Temperature != 176.7 || step.TemperatureUnit != "C" {
			t.Errorf("temperature = %v %s, want 176.7 C", *step.Temperature, step.TemperatureUnit)
		}
	})
}

func TestConvertRecipe_Imperial(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		ing          domain.Ingredient
		wantQuantity float64
		wantUnit     string
	}{
		{"small ml becomes teaspoons", ingredient("vanilla", 10, "ml"), 2.03, "tsp"},
		{"medium ml becomes tablespoons", ingredient("oil", 45, "ml"), 3.04, "tbsp"},
		{"large ml becomes cups", ingredient("milk", 500, "ml"), 2.11, "cup"},
		{"liters become cups", ingredient("stock", 1, "l"), 4.23, "cup"},
		{"small grams become ounces", ingredient("cheese", 100, "g"), 3.53, "oz"},
		{"large grams become pounds", ingredient("beef", 500, "g"), 1.1, "lb"},
		{"kilograms become pounds", ingredient("potatoes", 2, "kg"), 4.41, "lb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc := newTestRecipeConverter()
			recipe := &domain.Recipe{Ingredients: []domain.Ingredient{tt.ing}}

			if _, err := rc.Convert(ctx, recipe, domain.SystemImperial); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := recipe.Ingredients[0]
			if *got.Quantity != tt.wantQuantity || got.Unit != tt.wantUnit {
				t.Errorf("converted to %v %s, want %v %s",
					*got.Quantity, got.Unit, tt.wantQuantity, tt.wantUnit)
			}
		})
	}

	t.Run("already-imperial units are skipped", func(t *testing.T) {
		rc := newTestRecipeConverter()
		recipe := &domain.Recipe{Ingredients: []domain.Ingredient{
			ingredient("flour", 2, "cup"),
		}}

		report, err := rc.Convert(ctx, recipe, domain.SystemImperial)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ing := recipe.Ingredients[0]
		if *ing.Quantity != 2 || ing.Unit != "cup" {
			t.Errorf("ingredient changed to %v %s, want untouched 2 cup", *ing.Quantity, ing.Unit)
		}
		if report.Skipped != 1 {
			t.Errorf("Skipped = %d, want 1", report.Skipped)
		}
	})

	t.Run("converts oven temperatures to fahrenheit", func(t *testing.T) {
		rc := newTestRecipeConverter()
		recipe := &domain.Recipe{Instructions: []domain.InstructionStep{
			{StepNumber: 1, Text: "Roast", Temperature: domain.Float(180), TemperatureUnit: "C"},
		}}

		if _, err := rc.Convert(ctx, recipe, domain.SystemImperial); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		step := recipe.Instructions[0]
		if *step.Temperature != 356 || step.TemperatureUnit != "F" {
			t.Errorf("temperature = %v %s, want 356 F", *step.Temperature, step.TemperatureUnit)
		}
	})
}

func TestConvertRecipe_Weight(t *testing.T) {
	ctx := context.Background()

	t.Run("volume converts via density", func(t *testing.T) {
		rc := newTestRecipeConverter()
		recipe := &domain.Recipe{Ingredients: []domain.Ingredient{
			ingredient("flour", 1, "cup"),
		}}

		report, err := rc.Convert(ctx, recipe, domain.SystemWeight)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ing := recipe.Ingredients[0]
		if *ing.Quantity != 128 || ing.Unit != "g" {
			t.Errorf("converted to %v %s, want 128 g", *ing.Quantity, ing.Unit)
		}
		if report.Approximations != 1 {
			t.Errorf("Approximations = %d, want 1", report.Approximations)
		}
		if ing.Notes == "" {
			t.Error("approximation must carry an explanatory note")
		}
	})

	t.Run("unknown density leaves ingredient unchanged", func(t *testing.T) {
		rc := newTestRecipeConverter()
		recipe := &domain.Recipe{Ingredients: []domain.Ingredient{
			ingredient("unobtainium", 1, "cup"),
		}}

		report, err := rc.Convert(ctx, recipe, domain.SystemWeight)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ing := recipe.Ingredients[0]
		if *ing.Quantity != 1 || ing.Unit != "cup" {
			t.Errorf("ingredient changed to %v %s, want untouched 1 cup", *ing.Quantity, ing.Unit)
		}
		if report.Skipped != 1 {
			t.Errorf("Skipped = %d, want 1", report.Skipped)
		}
	})

	t.Run("existing weights are rebucketed", func(t *testing.T) {
		rc := newTestRecipeConverter()
		recipe := &domain.Recipe{Ingredients: []domain.Ingredient{
			ingredient("flour", 2000, "g"),
		}}

		if _, err := rc.Convert(ctx, recipe, domain.SystemWeight); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ing := recipe.Ingredients[0]
		if *ing.Quantity != 2.0 || ing.Unit != "kg" {
			t.Errorf("converted to %v %s, want 2 kg", *ing.Quantity, ing.Unit)
		}
	})
}

func TestConvertRecipe_EdgeCases(t *testing.T) {
	ctx := context.Background()

	t.Run("count-like units are untouched", func(t *testing.T) {
		rc := newTestRecipeConverter()
		recipe := &domain.Recipe{Ingredients: []domain.Ingredient{
			ingredient("garlic", 3, "piece"),
		}}

		report, err := rc.Convert(ctx, recipe, domain.SystemMetric)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ing := recipe.Ingredients[0]
		if *ing.Quantity != 3 || ing.Unit != "piece" {
			t.Errorf("ingredient changed to %v %s, want untouched 3 piece", *ing.Quantity, ing.Unit)
		}
		if report.Skipped != 1 {
			t.Errorf("Skipped = %d, want 1", report.Skipped)
		}
	})

	t.Run("missing quantity is skipped", func(t *testing.T) {
		rc := newTestRecipeConverter()
		recipe := &domain.Recipe{Ingredients: []domain.Ingredient{
			{Name: "salt", Unit: "tsp"},
		}}

		report, err := rc.Convert(ctx, recipe, domain.SystemMetric)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Skipped != 1 || report.Converted != 0 {
			t.Errorf("report = %+v, want 1 skipped, 0 converted", report)
		}
	})

	t.Run("unknown target system is rejected", func(t *testing.T) {
		rc := newTestRecipeConverter()
		_, err := rc.Convert(ctx, &domain.Recipe{}, domain.TargetSystem("nautical"))
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("preferred resolves to the configured system", func(t *testing.T) {
		rc := NewRecipeConverter(newTestConverter(), domain.SystemImperial, nil)
		recipe := &domain.Recipe{Ingredients: []domain.Ingredient{
			ingredient("milk", 500, "ml"),
		}}

		report, err := rc.Convert(ctx, recipe, domain.SystemPreferred)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.TargetSystem != domain.SystemImperial {
			t.Errorf("TargetSystem = %v, want imperial", report.TargetSystem)
		}
		if recipe.Ingredients[0].Unit != "cup" {
			t.Errorf("Unit = %s, want cup", recipe.Ingredients[0].Unit)
		}
	})
}

func TestConvertBatch(t *testing.T) {
	rc := newTestRecipeConverter()
	recipes := []*domain.Recipe{
		{Title: "Pancakes", Ingredients: []domain.Ingredient{ingredient("flour", 2, "cup")}},
		{Title: "Lemonade", Ingredients: []domain.Ingredient{ingredient("water", 1, "l")}},
	}

	batch := rc.ConvertBatch(context.Background(), recipes, domain.SystemMetric)
	if batch.TotalRecipes != 2 {
		t.Errorf("TotalRecipes = %d, want 2", batch.TotalRecipes)
	}
	if batch.Succeeded != 2 {
		t.Errorf("Succeeded = %d, want 2", batch.Succeeded)
	}
	if len(batch.Failed) != 0 {
		t.Errorf("Failed = %v, want none", batch.Failed)
	}
}

func TestConversionSuggestions(t *testing.T) {
	rc := newTestRecipeConverter()
	ctx := context.Background()

	t.Run("covers applicable target systems", func(t *testing.T) {
		suggestions := rc.Suggestions(ctx, ingredient("flour", 1, "cup"))

		systems := make(map[domain.TargetSystem]domain.ConversionSuggestion)
		for _, s := range suggestions {
			systems[s.TargetSystem] = s
		}
		if _, ok := systems[domain.SystemMetric]; !ok {
			t.Error("missing metric suggestion")
		}
		weight, ok := systems[domain.SystemWeight]
		if !ok {
			t.Fatal("missing weight suggestion")
		}
		if !weight.IsApproximation {
			t.Error("weight suggestion for a volume must be an approximation")
		}
	})

	t.Run("no suggestions without quantity", func(t *testing.T) {
		if got := rc.Suggestions(ctx, domain.Ingredient{Name: "salt", Unit: "tsp"}); len(got) != 0 {
			t.Errorf("got %d suggestions, want 0", len(got))
		}
	})
}
