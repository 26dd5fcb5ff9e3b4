package provider

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/lk2023060901/image-studio-backend/internal/imagesearch/types"
)

// Provider defines the interface for image search providers
type Provider interface {
	// Search executes a search query and returns normalized results.
	// An unconfigured provider returns an empty slice and no error.
	Search(ctx context.Context, query string, count int, filters *types.SearchFilters) ([]types.ImageResult, error)

	// GetID returns the provider ID
	GetID() types.ProviderID

	// Configured reports whether the provider has usable credentials
	Configured() bool

	// Validate validates the provider configuration
	Validate() error
}

// BaseProvider provides common functionality for all providers
type BaseProvider struct {
	config     *types.ProviderConfig
	httpClient *http.Client

	// retry backoff bounds, overridable in tests
	backoffStart time.Duration
	backoffCap   time.Duration
}

// NewBaseProvider creates a new base provider
func NewBaseProvider(config *types.ProviderConfig) *BaseProvider {
	timeout := time.Duration(config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	httpClient := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	return &BaseProvider{
		config:       config,
		httpClient:   httpClient,
		backoffStart: defaultBackoffStart,
		backoffCap:   defaultBackoffCap,
	}
}

// GetID returns the provider ID
func (b *BaseProvider) GetID() types.ProviderID {
	return b.config.ID
}

// GetConfig returns the provider configuration
func (b *BaseProvider) GetConfig() *types.ProviderConfig {
	return b.config
}

// Configured reports whether credentials are present
func (b *BaseProvider) Configured() bool {
	return b.config.Configured()
}

// Validate validates the provider configuration
func (b *BaseProvider) Validate() error {
	return b.config.Validate()
}

// BuildDefaultHeaders builds default HTTP headers
func (b *BaseProvider) BuildDefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"User-Agent":   "Image-Studio-Backend/1.0",
	}
}

// default retry backoff bounds
const (
	defaultBackoffStart = 4 * time.Second
	defaultBackoffCap   = 10 * time.Second
)

// DoRequest executes an HTTP request. When the provider is configured with
// MaxRetries > 1, transport failures are retried with exponential backoff
// starting at 4s and capped at 10s; the last error is returned once attempts
// are exhausted. The request body is rebuilt via GetBody on each retry so
// POST payloads are not resent from a consumed reader.
func (b *BaseProvider) DoRequest(ctx context.Context, req *http.Request) (*http.Response, error) {
	maxRetries := b.config.MaxRetries
	if maxRetries == 0 {
		maxRetries = 1
	}

	backoff := b.backoffStart

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		attempt := req.Clone(ctx)
		if i > 0 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("failed to rewind request body: %w", err)
			}
			attempt.Body = body
		}

		resp, err := b.httpClient.Do(attempt)
		if err == nil {
			return resp, nil
		}

		lastErr = err

		if i < maxRetries-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}

			backoff *= 2
			if backoff > b.backoffCap {
				backoff = b.backoffCap
			}
		}
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", maxRetries, lastErr)
}
