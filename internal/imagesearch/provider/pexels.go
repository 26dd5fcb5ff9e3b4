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

const defaultPexelsHost = "https://api.pexels.com"

// PexelsProvider implements the Pexels photo search API. It is the primary
// free-image source and the only adapter with a retry policy.
type PexelsProvider struct {
	*BaseProvider
}

// NewPexelsProvider creates a new Pexels provider
func NewPexelsProvider(config *types.ProviderConfig) (Provider, error) {
	if config.Name == "" {
		config.Name = "Pexels"
	}
	if config.APIHost == "" {
		config.APIHost = defaultPexelsHost
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	return &PexelsProvider{BaseProvider: NewBaseProvider(config)}, nil
}

// pexelsResponse represents a Pexels search API response
type pexelsResponse struct {
	Photos []pexelsPhoto `json:"photos"`
}

type pexelsPhoto struct {
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	Photographer    string `json:"photographer"`
	PhotographerURL string `json:"photographer_url"`
	Alt             string `json:"alt"`
	Src             struct {
		Original string `json:"original"`
		Medium   string `json:"medium"`
	} `json:"src"`
}

// Search executes a search query against the Pexels API
func (p *PexelsProvider) Search(ctx context.Context, query string, count int, filters *types.SearchFilters) ([]types.ImageResult, error) {
	if !p.Configured() {
		return []types.ImageResult{}, nil
	}

	if count <= 0 {
		count = 10
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(count))
	if filters != nil {
		if filters.Orientation != "" && filters.Orientation != "all" {
			params.Set("orientation", filters.Orientation)
		}
		if filters.Color != "" && filters.Color != "all" {
			params.Set("color", filters.Color)
		}
	}

	apiURL := fmt.Sprintf("%s/v1/search?%s", p.config.APIHost, params.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", p.config.APIKey)

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

	var pexelsResp pexelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&pexelsResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	results := make([]types.ImageResult, len(pexelsResp.Photos))
	for i, photo := range pexelsResp.Photos {
		results[i] = normalizePexelsPhoto(photo)
	}
	return results, nil
}

// normalizePexelsPhoto maps a raw Pexels photo into the shared result shape.
func normalizePexelsPhoto(photo pexelsPhoto) types.ImageResult {
	return types.ImageResult{
		URL:            photo.Src.Original,
		PreviewURL:     photo.Src.Medium,
		Source:         string(types.ProviderPexels),
		License:        "CC0",
		Cost:           0.0,
		Width:          photo.Width,
		Height:         photo.Height,
		Title:          photo.Alt,
		Photographer:   photo.Photographer,
		SourceWebsite:  "pexels.com",
		RelevanceScore: 0.8,
	}
}
