package entity

// RecommendationCount is how many neighborhoods a recommendation request yields.
const RecommendationCount = 3

// RecommendationInput is the subset of a Profile the recommender sees.
type RecommendationInput struct {
	HouseholdSize    int        `json:"householdSize" binding:"gte=1,lte=10"`
	NumberOfChildren int        `json:"numberOfChildren" binding:"gte=0,lte=10"`
	AnnualIncome     int        `json:"annualIncome" binding:"gte=0"`
	Priorities       Priorities `json:"priorities"`
}

// NeighborhoodRecommendation is produced per request and never stored.
type NeighborhoodRecommendation struct {
	Name        string   `json:"name"`
	MatchScore  int      `json:"matchScore"`
	Highlights  []string `json:"highlights"`
	MedianPrice string   `json:"medianPrice"`
	Description string   `json:"description"`
}

// FallbackRecommendations is shown when the recommender is unavailable so the
// dashboard is never empty.
func FallbackRecommendations() []NeighborhoodRecommendation {
	return []NeighborhoodRecommendation{
		{
			Name:        "Dilworth",
			MatchScore:  94,
			Highlights:  []string{"Top-Rated Schools", "Historic Charm", "Family-Friendly Parks"},
			MedianPrice: "$485,000",
			Description: "Tree-lined streets and bungalows next to Freedom Park, a short trip from Uptown.",
		},
		{
			Name:        "Plaza Midwood",
			MatchScore:  89,
			Highlights:  []string{"Vibrant Arts Scene", "Walkable", "Great Restaurants"},
			MedianPrice: "$425,000",
			Description: "Eclectic shops, local restaurants and a strong neighborhood identity east of Uptown.",
		},
		{
			Name:        "South End",
			MatchScore:  86,
			Highlights:  []string{"Urban Living", "Nightlife", "Transit Access"},
			MedianPrice: "$375,000",
			Description: "Dense, modern living along the light rail with breweries and the Rail Trail.",
		},
	}
}
