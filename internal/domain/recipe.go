package domain

import "time"

// TargetSystem selects which measurement system a recipe should be converted to.
type TargetSystem string

const (
	SystemMetric    TargetSystem = "metric"
	SystemImperial  TargetSystem = "imperial"
	SystemWeight    TargetSystem = "weight"
	SystemPreferred TargetSystem = "preferred"
)

// Ingredient is one recipe line item. Quantity is nil for unparsed amounts and
// Unit is empty for count-like items ("2 eggs"). The normalizer/converter owns
// the three parallel metric/imperial/weight representations; no other component
// writes them.
type Ingredient struct {
	Name        string   `json:"name"`
	Quantity    *float64 `json:"quantity,omitempty"`
	Unit        string   `json:"unit,omitempty"`
	Preparation string   `json:"preparation,omitempty"`
	Optional    bool     `json:"optional,omitempty"`

	MetricQuantity   *float64 `json:"metric_quantity,omitempty"`
	MetricUnit       string   `json:"metric_unit,omitempty"`
	ImperialQuantity *float64 `json:"imperial_quantity,omitempty"`
	ImperialUnit     string   `json:"imperial_unit,omitempty"`
	WeightQuantity   *float64 `json:"weight_quantity,omitempty"`
	WeightUnit       string   `json:"weight_unit,omitempty"`

	Notes      string  `json:"notes,omitempty"`
	Original   string  `json:"original_text,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// InstructionStep is a single cooking instruction.
type InstructionStep struct {
	StepNumber      int      `json:"step_number"`
	Text            string   `json:"text"`
	TimeMinutes     int      `json:"time_minutes,omitempty"`
	Temperature     *float64 `json:"temperature,omitempty"`
	TemperatureUnit string   `json:"temperature_unit,omitempty"`
	Equipment       []string `json:"equipment,omitempty"`
}

// Recipe is the unit of work for the normalization pipeline.
type Recipe struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`

	PrepTime  int `json:"prep_time,omitempty"` // minutes
	CookTime  int `json:"cook_time,omitempty"` // minutes
	TotalTime int `json:"total_time,omitempty"`

	Servings   int    `json:"servings,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	Cuisine    string `json:"cuisine,omitempty"`

	Ingredients  []Ingredient      `json:"ingredients"`
	Instructions []InstructionStep `json:"instructions"`

	QualityScore    float64   `json:"quality_score"`
	ProcessingNotes []string  `json:"processing_notes,omitempty"`
	ScrapedAt       time.Time `json:"scraped_at,omitempty"`
}

// AddProcessingNote appends a human-readable note about a pipeline step.
func (r *Recipe) AddProcessingNote(note string) {
	r.ProcessingNotes = append(r.ProcessingNotes, note)
}

// Float returns a pointer to v, for populating optional quantity fields.
func Float(v float64) *float64 { return &v }
