package types

// ProviderID identifies an image search provider.
type ProviderID string

const (
	ProviderPexels       ProviderID = "pexels"
	ProviderDataForSEO   ProviderID = "dataforseo"
	ProviderEverypixel   ProviderID = "everypixel"
	ProviderShutterstock ProviderID = "shutterstock"

	// SourceDalle tags results produced by the generation facade rather
	// than a search provider.
	SourceDalle = "dalle-3"
)

// ImageResult is the normalized result shape shared by all providers.
type ImageResult struct {
	URL            string  `json:"url"`
	PreviewURL     string  `json:"preview_url"`
	Source         string  `json:"source"`
	License        string  `json:"license"`
	Cost           float64 `json:"cost"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	Title          string  `json:"title"`
	Photographer   string  `json:"photographer"`
	SourceWebsite  string  `json:"source_website"`
	RelevanceScore float64 `json:"relevance_score"`
}

// SearchFilters narrows a search. The value "all" means unconstrained.
// Filters are passed through to providers that support them and ignored
// by those that do not.
type SearchFilters struct {
	Orientation string `json:"orientation"`
	Color       string `json:"color"`
	Category    string `json:"category"`
}

// DefaultFilters returns unconstrained search filters.
func DefaultFilters() *SearchFilters {
	return &SearchFilters{Orientation: "all", Color: "all", Category: "all"}
}
