package domain

import "strings"

// UnitFamily partitions measurement units. Conversions within a family are exact
// linear scalings; crossing volume and weight requires an ingredient density.
type UnitFamily string

const (
	FamilyVolume      UnitFamily = "volume"
	FamilyWeight      UnitFamily = "weight"
	FamilyTemperature UnitFamily = "temperature"
)

// MeasurementUnit is a canonical unit tag from a closed set.
type MeasurementUnit string

const (
	// Volume
	UnitMilliliter MeasurementUnit = "ml"
	UnitLiter      MeasurementUnit = "l"
	UnitTeaspoon   MeasurementUnit = "tsp"
	UnitTablespoon MeasurementUnit = "tbsp"
	UnitFluidOunce MeasurementUnit = "fl oz"
	UnitCup        MeasurementUnit = "cup"
	UnitPint       MeasurementUnit = "pint"
	UnitQuart      MeasurementUnit = "quart"
	UnitGallon     MeasurementUnit = "gallon"

	// Weight
	UnitGram     MeasurementUnit = "g"
	UnitKilogram MeasurementUnit = "kg"
	UnitOunce    MeasurementUnit = "oz"
	UnitPound    MeasurementUnit = "lb"

	// Temperature
	UnitCelsius    MeasurementUnit = "C"
	UnitFahrenheit MeasurementUnit = "F"
)

// volumeFactors maps volume units to milliliters (the volume base unit).
var volumeFactors = map[MeasurementUnit]float64{
	UnitMilliliter: 1.0,
	UnitLiter:      1000.0,
	UnitTeaspoon:   4.92892,
	UnitTablespoon: 14.7868,
	UnitFluidOunce: 29.5735,
	UnitCup:        236.588,
	UnitPint:       473.176,
	UnitQuart:      946.353,
	UnitGallon:     3785.41,
}

// weightFactors maps weight units to grams (the weight base unit).
var weightFactors = map[MeasurementUnit]float64{
	UnitGram:     1.0,
	UnitKilogram: 1000.0,
	UnitOunce:    28.3495,
	UnitPound:    453.592,
}

// VolumeFactor returns the milliliters-per-unit factor for a volume unit.
func VolumeFactor(u MeasurementUnit) (float64, bool) {
	f, ok := volumeFactors[u]
	return f, ok
}

// WeightFactor returns the grams-per-unit factor for a weight unit.
func WeightFactor(u MeasurementUnit) (float64, bool) {
	f, ok := weightFactors[u]
	return f, ok
}

// FamilyOf returns the family a unit belongs to. Every unit belongs to exactly
// one family; unknown strings report ok=false.
func FamilyOf(u MeasurementUnit) (UnitFamily, bool) {
	if _, ok := volumeFactors[u]; ok {
		return FamilyVolume, true
	}
	if _, ok := weightFactors[u]; ok {
		return FamilyWeight, true
	}
	if u == UnitCelsius || u == UnitFahrenheit {
		return FamilyTemperature, true
	}
	return "", false
}

// IsVolumeUnit reports whether u is a member of the volume family.
func IsVolumeUnit(u MeasurementUnit) bool {
	_, ok := volumeFactors[u]
	return ok
}

// IsWeightUnit reports whether u is a member of the weight family.
func IsWeightUnit(u MeasurementUnit) bool {
	_, ok := weightFactors[u]
	return ok
}

// unitAliases maps the long/variant spellings seen in scraped recipe text to
// canonical abbreviations.
var unitAliases = map[string]MeasurementUnit{
	"ml":           UnitMilliliter,
	"milliliter":   UnitMilliliter,
	"milliliters":  UnitMilliliter,
	"millilitre":   UnitMilliliter,
	"millilitres":  UnitMilliliter,
	"l":            UnitLiter,
	"liter":        UnitLiter,
	"liters":       UnitLiter,
	"litre":        UnitLiter,
	"litres":       UnitLiter,
	"tsp":          UnitTeaspoon,
	"t":            UnitTeaspoon,
	"teaspoon":     UnitTeaspoon,
	"teaspoons":    UnitTeaspoon,
	"tbsp":         UnitTablespoon,
	"tbs":          UnitTablespoon,
	"tablespoon":   UnitTablespoon,
	"tablespoons":  UnitTablespoon,
	"fl oz":        UnitFluidOunce,
	"fl. oz.":      UnitFluidOunce,
	"fluid ounce":  UnitFluidOunce,
	"fluid ounces": UnitFluidOunce,
	"c":            UnitCup,
	"cup":          UnitCup,
	"cups":         UnitCup,
	"pint":         UnitPint,
	"pints":        UnitPint,
	"pt":           UnitPint,
	"quart":        UnitQuart,
	"quarts":       UnitQuart,
	"qt":           UnitQuart,
	"gallon":       UnitGallon,
	"gallons":      UnitGallon,
	"gal":          UnitGallon,
	"g":            UnitGram,
	"gram":         UnitGram,
	"grams":        UnitGram,
	"kg":           UnitKilogram,
	"kilogram":     UnitKilogram,
	"kilograms":    UnitKilogram,
	"oz":           UnitOunce,
	"ounce":        UnitOunce,
	"ounces":       UnitOunce,
	"lb":           UnitPound,
	"lbs":          UnitPound,
	"pound":        UnitPound,
	"pounds":       UnitPound,
	"c.":           UnitCup,
	"f":            UnitFahrenheit,
	"fahrenheit":   UnitFahrenheit,
	"celsius":      UnitCelsius,
}

// CanonicalUnit maps a raw unit string from scraped text to its canonical
// abbreviation. Count-like units ("piece", "clove", ...) have no canonical
// form and report ok=false.
func CanonicalUnit(raw string) (MeasurementUnit, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}
	// "T" is tablespoon, "t" is teaspoon by cookbook convention.
	if s == "T" {
		return UnitTablespoon, true
	}
	if s == "C" {
		return UnitCelsius, true
	}
	u, ok := unitAliases[strings.ToLower(s)]
	return u, ok
}
