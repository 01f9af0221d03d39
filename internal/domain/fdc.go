package domain

// FDCFood is a search hit from the USDA FoodData Central API.
type FDCFood struct {
	FdcID       int    `json:"fdcId"`
	Description string `json:"description"`
	DataType    string `json:"dataType"`
}

// FDCSearchResponse is the response shape of the FDC search endpoint.
type FDCSearchResponse struct {
	Foods     []FDCFood `json:"foods"`
	TotalHits int       `json:"totalHits"`
}

// FDCPortion is one serving/portion entry on a food detail record. The density
// pipeline only needs the human-readable description ("1 cup") and the gram
// weight of that portion.
type FDCPortion struct {
	Description string  `json:"portionDescription"`
	GramWeight  float64 `json:"gramWeight"`
}

// FDCFoodDetail is a food detail record with portion data.
type FDCFoodDetail struct {
	FdcID       int          `json:"fdcId"`
	Description string       `json:"description"`
	Portions    []FDCPortion `json:"foodPortions"`
}
