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

const defaultShutterstockHost = "https://api.shutterstock.com"

// ShutterstockProvider implements the Shutterstock image search API
// (premium stock source).
type ShutterstockProvider struct {
	*BaseProvider
}

// NewShutterstockProvider creates a new Shutterstock provider
func NewShutterstockProvider(config *types.ProviderConfig) (Provider, error) {
	if config.Name == "" {
		config.Name = "Shutterstock"
	}
	if config.APIHost == "" {
		config.APIHost = defaultShutterstockHost
	}
	return &ShutterstockProvider{BaseProvider: NewBaseProvider(config)}, nil
}

// shutterstockResponse represents a Shutterstock search API response
type shutterstockResponse struct {
	Data []shutterstockItem `json:"data"`
}

type shutterstockItem struct {
	Description string `json:"description"`
	Assets      struct {
		Preview struct {
			URL    string `json:"url"`
			Width  int    `json:"width"`
			Height int    `json:"height"`
		} `json:"preview"`
		LargeThumb struct {
			URL string `json:"url"`
		} `json:"large_thumb"`
	} `json:"assets"`
	Contributor struct {
		ID string `json:"id"`
	} `json:"contributor"`
}

// Search executes a search query against the Shutterstock API
func (p *ShutterstockProvider) Search(ctx context.Context, query string, count int, filters *types.SearchFilters) ([]types.ImageResult, error) {
	if !p.Configured() {
		return []types.ImageResult{}, nil
	}

	if count <= 0 {
		count = 10
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(count))
	if filters != nil && filters.Orientation != "" && filters.Orientation != "all" {
		params.Set("orientation", filters.Orientation)
	}

	apiURL := fmt.Sprintf("%s/v2/images/search?%s", p.config.APIHost, params.Encode())
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

	var shutterstockResp shutterstockResponse
	if err := json.NewDecoder(resp.Body).Decode(&shutterstockResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	results := make([]types.ImageResult, len(shutterstockResp.Data))
	for i, item := range shutterstockResp.Data {
		results[i] = normalizeShutterstockItem(item)
	}
	return results, nil
}

// normalizeShutterstockItem maps a raw Shutterstock item into the shared
// result shape. Only watermark-free previews are exposed by the search
// endpoint, so the preview asset doubles as the canonical URL.
func normalizeShutterstockItem(item shutterstockItem) types.ImageResult {
	preview := item.Assets.LargeThumb.URL
	if preview == "" {
		preview = item.Assets.Preview.URL
	}

	return types.ImageResult{
		URL:            item.Assets.Preview.URL,
		PreviewURL:     preview,
		Source:         string(types.ProviderShutterstock),
		License:        "commercial",
		Cost:           0.0,
		Width:          item.Assets.Preview.Width,
		Height:         item.Assets.Preview.Height,
		Title:          item.Description,
		Photographer:   item.Contributor.ID,
		SourceWebsite:  "shutterstock.com",
		RelevanceScore: 0.8,
	}
}
