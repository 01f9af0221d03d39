package domain

// ConversionResult describes one unit conversion. IsApproximation is true
// exactly when a density estimate bridged the volume and weight families;
// same-family conversions are exact.
type ConversionResult struct {
	OriginalQuantity  float64         `json:"original_quantity"`
	OriginalUnit      MeasurementUnit `json:"original_unit"`
	ConvertedQuantity float64         `json:"converted_quantity"`
	ConvertedUnit     MeasurementUnit `json:"converted_unit"`
	IngredientName    string          `json:"ingredient_name,omitempty"`
	Factor            float64         `json:"conversion_factor"`
	IsApproximation   bool            `json:"is_approximation"`
	Notes             string          `json:"notes,omitempty"`
}

// ConversionSuggestion is one alternative rendering of an ingredient quantity.
type ConversionSuggestion struct {
	TargetSystem    TargetSystem `json:"target_system"`
	Original        string       `json:"original"`
	Converted       string       `json:"converted"`
	IsApproximation bool         `json:"is_approximation"`
	Notes           string       `json:"notes,omitempty"`
}

// ConversionReport summarizes a whole-recipe conversion so partial failure is
// observable at the aggregate level.
type ConversionReport struct {
	TargetSystem   TargetSystem `json:"target_system"`
	Converted      int          `json:"conversions_made"`
	Approximations int          `json:"approximations"`
	Skipped        int          `json:"skipped"`
}

// BatchReport summarizes a batch conversion across recipes.
type BatchReport struct {
	TotalRecipes int          `json:"total_recipes"`
	Succeeded    int          `json:"successful_conversions"`
	Failed       []string     `json:"failed_recipes,omitempty"`
	TargetSystem TargetSystem `json:"target_system"`
}
