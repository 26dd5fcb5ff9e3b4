package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/lk2023060901/image-studio-backend/internal/imagesearch/types"
	"github.com/tidwall/gjson"
)

const defaultDataForSEOHost = "https://api.dataforseo.com"

// DataForSEOProvider implements the DataForSEO Google Images SERP API.
type DataForSEOProvider struct {
	*BaseProvider
}

// NewDataForSEOProvider creates a new DataForSEO provider
func NewDataForSEOProvider(config *types.ProviderConfig) (Provider, error) {
	if config.Name == "" {
		config.Name = "DataForSEO"
	}
	if config.APIHost == "" {
		config.APIHost = defaultDataForSEOHost
	}
	if config.Timeout == 0 {
		config.Timeout = 30
	}
	return &DataForSEOProvider{BaseProvider: NewBaseProvider(config)}, nil
}

// dataForSEOTask is one task in the batch request payload
type dataForSEOTask struct {
	Keyword      string `json:"keyword"`
	LocationCode int    `json:"location_code"`
	LanguageCode string `json:"language_code"`
	Device       string `json:"device"`
	OS           string `json:"os"`
	Depth        int    `json:"depth"`
}

// Search executes a Google Images search through DataForSEO
func (p *DataForSEOProvider) Search(ctx context.Context, query string, count int, filters *types.SearchFilters) ([]types.ImageResult, error) {
	if !p.Configured() {
		return []types.ImageResult{}, nil
	}

	if count <= 0 {
		count = 100
	}

	payload := []dataForSEOTask{{
		Keyword:      query,
		LocationCode: 2840, // United States
		LanguageCode: "en",
		Device:       "desktop",
		OS:           "windows",
		Depth:        count,
	}}

	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	apiURL := fmt.Sprintf("%s/v3/serp/google/images/live/advanced", p.config.APIHost)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for k, v := range p.BuildDefaultHeaders() {
		httpReq.Header.Set(k, v)
	}
	httpReq.Header.Set("Authorization", p.basicAuthHeader())

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

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &types.ProviderError{
			Provider: p.GetID(),
			Code:     fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message:  string(body),
		}
	}

	return parseDataForSEOResults(body), nil
}

func (p *DataForSEOProvider) basicAuthHeader() string {
	credentials := fmt.Sprintf("%s:%s", p.config.Login, p.config.Password)
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(credentials))
}

// parseDataForSEOResults extracts image items from the deeply nested SERP
// response (tasks[0].result[0].items, type "images_search").
func parseDataForSEOResults(body []byte) []types.ImageResult {
	results := []types.ImageResult{}

	items := gjson.GetBytes(body, "tasks.0.result.0.items")
	items.ForEach(func(_, item gjson.Result) bool {
		if item.Get("type").String() != "images_search" {
			return true
		}

		results = append(results, types.ImageResult{
			URL:        item.Get("source_url").String(),
			PreviewURL: item.Get("encoded_url").String(),
			Source:     string(types.ProviderDataForSEO),
			// Dimensions are not reported by this endpoint
			Width:          0,
			Height:         0,
			License:        "unknown",
			Cost:           0.0,
			Title:          item.Get("title").String(),
			SourceWebsite:  item.Get("subtitle").String(),
			RelevanceScore: 0.8,
		})
		return true
	})

	return results
}
