package usecase

import (
	"math"
	"testing"

	"github.com/platewise/backend/internal/domain"
)

func fullRecipe() *domain.Recipe {
	recipe := &domain.Recipe{
		Title:       "Classic Banana Bread",
		Description: "A moist banana bread with toasted walnuts and brown butter.",
		PrepTime:    15,
		CookTime:    60,
		Servings:    8,
		Difficulty:  "easy",
		Cuisine:     "american",
	}
	for i := 0; i < 5; i++ {
		recipe.Ingredients = append(recipe.Ingredients, domain.Ingredient{
			Name:     "all-purpose flour",
			Quantity: domain.Float(1),
			Unit:     "cup",
		})
		recipe.Instructions = append(recipe.Instructions, domain.InstructionStep{
			StepNumber:  i + 1,
			Text:        "Mix the dry ingredients thoroughly in a large bowl",
			TimeMinutes: 5,
			Equipment:   []string{"bowl"},
		})
	}
	return recipe
}

func TestQualityScore(t *testing.T) {
	scorer := NewQualityScorer()

	t.Run("empty recipe scores zero", func(t *testing.T) {
		if got := scorer.Score(&domain.Recipe{}); got != 0.0 {
			t.Errorf("Score = %v, want 0.0", got)
		}
	})

	t.Run("complete recipe scores one", func(t *testing.T) {
		if got := scorer.Score(fullRecipe()); math.Abs(got-1.0) > 1e-9 {
			t.Errorf("Score = %v, want 1.0", got)
		}
	})

	t.Run("title alone scores its weight", func(t *testing.T) {
		recipe := &domain.Recipe{Title: "Roasted Root Vegetables"}
		if got := scorer.Score(recipe); math.Abs(got-0.1) > 1e-9 {
			t.Errorf("Score = %v, want 0.1", got)
		}
	})

	t.Run("short title does not count", func(t *testing.T) {
		recipe := &domain.Recipe{Title: "Stew"}
		if got := scorer.Score(recipe); got != 0.0 {
			t.Errorf("Score = %v, want 0.0", got)
		}
	})

	t.Run("ingredient score averages over all ingredients", func(t *testing.T) {
		recipe := &domain.Recipe{
			Ingredients: []domain.Ingredient{
				{Name: "flour", Quantity: domain.Float(2), Unit: "cup"}, // 1.0
				{Name: "xy"}, // 0.0, name too short
			},
		}
		if got := scorer.Score(recipe); math.Abs(got-0.15) > 1e-9 {
			t.Errorf("Score = %v, want 0.15", got)
		}
	})

	t.Run("score stays within bounds", func(t *testing.T) {
		recipes := []*domain.Recipe{
			{},
			fullRecipe(),
			{Title: "x", Servings: 4},
			{Instructions: []domain.InstructionStep{{Text: "Stir"}}},
		}
		for _, recipe := range recipes {
			got := scorer.Score(recipe)
			if got < 0.0 || got > 1.0 {
				t.Errorf("Score = %v, want within [0, 1]", got)
			}
		}
	})
}
