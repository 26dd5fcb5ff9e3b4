package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/lk2023060901/image-studio-backend/internal/imagesearch/types"
)

const defaultEverypixelHost = "https://api.everypixel.com"

// EverypixelProvider implements the Everypixel meta-search API, which
// queries multiple stock sources at once.
type EverypixelProvider struct {
	*BaseProvider
}

// NewEverypixelProvider creates a new Everypixel provider
func NewEverypixelProvider(config *types.ProviderConfig) (Provider, error) {
	if config.Name == "" {
		config.Name = "Everypixel"
	}
	if config.APIHost == "" {
		config.APIHost = defaultEverypixelHost
	}
	return &EverypixelProvider{BaseProvider: NewBaseProvider(config)}, nil
}

// everypixelResponse represents an Everypixel search API response
type everypixelResponse struct {
	Data []everypixelItem `json:"data"`
}

type everypixelItem struct {
	URL     string  `json:"url"`
	Preview string  `json:"preview"`
	Source  string  `json:"source"`
	Price   float64 `json:"price"`
	Width   int     `json:"width"`
	Height  int     `json:"height"`
	Title   string  `json:"title"`
	Score   float64 `json:"score"`
}

// Search executes a search across all license classes
func (p *EverypixelProvider) Search(ctx context.Context, query string, count int, filters *types.SearchFilters) ([]types.ImageResult, error) {
	return p.SearchWithLicense(ctx, query, "all", count)
}

// SearchWithLicense executes a search restricted to a license class
// ("free", "paid" or "all").
func (p *EverypixelProvider) SearchWithLicense(ctx context.Context, query string, license string, count int) ([]types.ImageResult, error) {
	if !p.Configured() {
		return []types.ImageResult{}, nil
	}

	if count <= 0 {
		count = 20
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("license", license)
	params.Set("per_page", strconv.Itoa(count))

	apiURL := fmt.Sprintf("%s/v1/search?%s", p.config.APIHost, params.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", p.config.APIKey))

	resp, err := p.DoRequest(ctx, httpReq)
	if err != nil {
		return nil, &types.ProviderError{
			Provider: p.GetID(),
			Code:     "REQUEST_FAILED",
			Message:  "failed to execute request",
			Err:      err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &types.ProviderError{
			Provider: p.GetID(),
			Code:     fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message:  string(body),
		}
	}

	var everypixelResp everypixelResponse
	if err := json.NewDecoder(resp.Body).Decode(&everypixelResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	results := make([]types.ImageResult, len(everypixelResp.Data))
	for i, item := range everypixelResp.Data {
		results[i] = normalizeEverypixelItem(item, license)
	}
	return results, nil
}

// normalizeEverypixelItem maps a raw Everypixel item into the shared result
// shape. The license field is coarse: paid searches yield "commercial",
// everything else "free".
func normalizeEverypixelItem(item everypixelItem, license string) types.ImageResult {
	resultLicense := "free"
	if license == "paid" {
		resultLicense = "commercial"
	}

	preview := item.Preview
	if preview == "" {
		preview = item.URL
	}

	source := item.Source
	if source == "" {
		source = string(types.ProviderEverypixel)
	}

	score := item.Score
	if score == 0 {
		score = 0.5
	}

	return types.ImageResult{
		URL:            item.URL,
		PreviewURL:     preview,
		Source:         source,
		License:        resultLicense,
		Cost:           item.Price,
		Width:          item.Width,
		Height:         item.Height,
		Title:          item.Title,
		RelevanceScore: score,
	}
}
