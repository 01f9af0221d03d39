package domain

// Physically plausible density band for foodstuffs, in g/ml. External results
// outside this band are rejected as lookup failures, never stored.
const (
	DensityMin = 0.1
	DensityMax = 3.0
)

// DensitySource identifies where a density record came from.
type DensitySource string

const (
	SourceLocal DensitySource = "local"
	SourceFDC   DensitySource = "external-api"
)

// DensityRecord is a resolved ingredient density estimate.
type DensityRecord struct {
	Name       string        `json:"name"`        // canonical name of the matched entry
	DensityGML float64       `json:"density_g_ml"`
	Source     DensitySource `json:"source"`
	Confidence float64       `json:"confidence"` // match confidence in [0,1]
}

// PlausibleDensity reports whether d lies in the accepted food density band.
func PlausibleDensity(d float64) bool {
	return d >= DensityMin && d <= DensityMax
}
