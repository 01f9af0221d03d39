package usecase

import (
	"github.com/platewise/backend/internal/domain"
)

// QualityScorer computes a structural completeness score for a normalized
// recipe. The score is a heuristic over field presence and length, not a
// correctness guarantee.
type QualityScorer struct{}

// NewQualityScorer creates a quality scorer.
func NewQualityScorer() *QualityScorer {
	return &QualityScorer{}
}

// Score returns a value in [0, 1]. An empty recipe scores 0; a recipe with a
// full title, description, well-formed ingredients and instructions, and all
// five metadata fields scores 1.
func (s *QualityScorer) Score(recipe *domain.Recipe) float64 {
	score := 0.0

	if len(recipe.Title) > 5 {
		score += 0.1
	}
	if len(recipe.Description) > 20 {
		score += 0.1
	}

	if len(recipe.Ingredients) > 0 {
		total := 0.0
		for _, ing := range recipe.Ingredients {
			if len(ing.Name) > 2 {
				total += 0.5
			}
			if ing.Quantity != nil {
				total += 0.3
			}
			if ing.Unit != "" {
				total += 0.2
			}
		}
		score += clamp01(total/float64(len(recipe.Ingredients))) * 0.3
	}

	if len(recipe.Instructions) > 0 {
		total := 0.0
		for _, step := range recipe.Instructions {
			if len(step.Text) > 10 {
				total += 0.7
			}
			if step.TimeMinutes > 0 {
				total += 0.2
			}
			if len(step.Equipment) > 0 {
				total += 0.1
			}
		}
		score += clamp01(total/float64(len(recipe.Instructions))) * 0.3
	}

	metadata := 0.0
	if recipe.PrepTime > 0 {
		metadata += 0.2
	}
	if recipe.CookTime > 0 {
		metadata += 0.2
	}
	if recipe.Servings > 0 {
		metadata += 0.2
	}
	if recipe.Difficulty != "" {
		metadata += 0.2
	}
	if recipe.Cuisine != "" {
		metadata += 0.2
	}
	score += clamp01(metadata) * 0.2

	return clamp01(score)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
