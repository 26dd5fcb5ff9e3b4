// Package imagesearch merges and deduplicates image results from multiple
// external search providers for one logical query.
package imagesearch

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/lk2023060901/image-studio-backend/internal/imagegen"
	"github.com/lk2023060901/image-studio-backend/internal/imagesearch/provider"
	"github.com/lk2023060901/image-studio-backend/internal/imagesearch/types"
	"github.com/lk2023060901/image-studio-backend/internal/pkg/logger"
	"go.uber.org/zap"
)

// Config holds per-provider configuration plus aggregation policy.
type Config struct {
	Pexels       *types.ProviderConfig
	DataForSEO   *types.ProviderConfig
	Everypixel   *types.ProviderConfig
	Shutterstock *types.ProviderConfig

	// FreeSourceDomains is the substring allow-list applied to meta-search
	// results before they may count as free images. Heuristic, so kept
	// configurable.
	FreeSourceDomains []string
}

// AIGenerator produces a custom image for a prompt. Satisfied by
// imagegen.Generator.
type AIGenerator interface {
	Generate(ctx context.Context, req *imagegen.GenerateRequest) (*imagegen.GeneratedImage, error)
}

// Aggregator fans a query out to the configured providers and merges the
// normalized results. Provider failures are isolated: a failing or
// unconfigured provider contributes zero results and never aborts the
// aggregate search.
type Aggregator struct {
	pexels       provider.Provider
	dataForSEO   provider.Provider
	everypixel   *provider.EverypixelProvider
	shutterstock provider.Provider

	byID map[types.ProviderID]provider.Provider

	freeSourceDomains []string
	generator         AIGenerator
	cache             *SearchCache
	logger            *logger.Logger
}

// NewAggregator builds an aggregator with all built-in providers. The
// generator and cache are optional.
func NewAggregator(cfg *Config, generator AIGenerator, cache *SearchCache, log *logger.Logger) (*Aggregator, error) {
	if log == nil {
		log = logger.L()
	}

	factory := provider.NewFactory()

	pexels, err := factory.Create(cfg.Pexels)
	if err != nil {
		return nil, fmt.Errorf("failed to create pexels provider: %w", err)
	}
	dataForSEO, err := factory.Create(cfg.DataForSEO)
	if err != nil {
		return nil, fmt.Errorf("failed to create dataforseo provider: %w", err)
	}
	everypixel, err := factory.Create(cfg.Everypixel)
	if err != nil {
		return nil, fmt.Errorf("failed to create everypixel provider: %w", err)
	}
	shutterstock, err := factory.Create(cfg.Shutterstock)
	if err != nil {
		return nil, fmt.Errorf("failed to create shutterstock provider: %w", err)
	}

	freeSources := cfg.FreeSourceDomains
	if len(freeSources) == 0 {
		freeSources = []string{"wikimedia", "commons", "flickr", "unsplash", "pexels", "pixabay"}
	}

	a := &Aggregator{
		pexels:            pexels,
		dataForSEO:        dataForSEO,
		everypixel:        everypixel.(*provider.EverypixelProvider),
		shutterstock:      shutterstock,
		freeSourceDomains: freeSources,
		generator:         generator,
		cache:             cache,
		logger:            log.Named("imagesearch"),
	}

	a.byID = map[types.ProviderID]provider.Provider{
		types.ProviderPexels:       pexels,
		types.ProviderDataForSEO:   dataForSEO,
		types.ProviderEverypixel:   everypixel,
		types.ProviderShutterstock: shutterstock,
	}

	return a, nil
}

// SearchAll queries every enabled provider in a fixed order (dataforseo,
// pexels, everypixel), concatenates the results preserving per-provider
// order, and deduplicates by URL with first occurrence winning.
func (a *Aggregator) SearchAll(ctx context.Context, query string, filters *types.SearchFilters) ([]types.ImageResult, error) {
	if query == "" {
		return nil, types.ErrEmptyQuery
	}
	if filters == nil {
		filters = types.DefaultFilters()
	}

	if cached, ok := a.cacheGet(ctx, cacheKeyAll(query)); ok {
		return cached, nil
	}

	var results []types.ImageResult

	results = append(results, a.searchOne(ctx, a.dataForSEO, query, 100, filters)...)
	results = append(results, a.searchOne(ctx, a.pexels, query, 20, filters)...)
	results = append(results, a.searchOne(ctx, a.everypixel, query, 20, filters)...)

	unique := dedupeByURL(results)

	a.cacheSet(ctx, cacheKeyAll(query), unique)
	return unique, nil
}

// SearchFree returns at most count free-to-use images, preferring Pexels
// and topping up from the DataForSEO meta-search filtered to known free
// source domains.
func (a *Aggregator) SearchFree(ctx context.Context, query string, count int) ([]types.ImageResult, error) {
	if query == "" {
		return nil, types.ErrEmptyQuery
	}
	if count <= 0 {
		count = 10
	}

	if cached, ok := a.cacheGet(ctx, cacheKeyFree(query, count)); ok {
		return cached, nil
	}

	results := a.searchOne(ctx, a.pexels, query, count, nil)

	if len(results) < count && a.dataForSEO.Configured() {
		metaResults := a.searchOne(ctx, a.dataForSEO, query, count, nil)
		for _, img := range metaResults {
			if !a.isFreeSource(img.SourceWebsite) {
				continue
			}
			img.License = "likely free"
			results = append(results, img)
			if len(results) >= count {
				break
			}
		}
	}

	if len(results) > count {
		results = results[:count]
	}

	a.cacheSet(ctx, cacheKeyFree(query, count), results)
	return results, nil
}

// SearchPremium searches paid stock sources: Everypixel's paid license
// class first, topped up from Shutterstock when under-delivering.
func (a *Aggregator) SearchPremium(ctx context.Context, query string, filters *types.SearchFilters) ([]types.ImageResult, error) {
	if query == "" {
		return nil, types.ErrEmptyQuery
	}

	var results []types.ImageResult

	if a.everypixel.Configured() {
		paid, err := a.everypixel.SearchWithLicense(ctx, query, "paid", 20)
		if err != nil {
			a.logger.Warn("provider search failed",
				zap.String("provider", string(types.ProviderEverypixel)),
				zap.Error(err))
		} else {
			results = append(results, paid...)
		}
	}

	if len(results) < 10 && a.shutterstock.Configured() {
		results = append(results, a.searchOne(ctx, a.shutterstock, query, 10, filters)...)
	}

	return results, nil
}

// SearchMultipleSources runs one concurrent search per (query, source)
// pair and regroups the outcomes by query, preserving the declared source
// order. A failing pair contributes nothing; siblings are never cancelled.
func (a *Aggregator) SearchMultipleSources(ctx context.Context, queries []string, sources []types.ProviderID) map[string][]types.ImageResult {
	if len(sources) == 0 {
		sources = []types.ProviderID{types.ProviderPexels, types.ProviderDataForSEO}
	}

	type outcome struct {
		results []types.ImageResult
		err     error
	}

	outcomes := make([]outcome, len(queries)*len(sources))

	var wg sync.WaitGroup
	for i, query := range queries {
		for j, source := range sources {
			p, ok := a.byID[source]
			if !ok {
				continue
			}

			wg.Add(1)
			go func(idx int, p provider.Provider, query string) {
				defer wg.Done()
				results, err := p.Search(ctx, query, 10, nil)
				outcomes[idx] = outcome{results: results, err: err}
			}(i*len(sources)+j, p, query)
		}
	}
	wg.Wait()

	organized := make(map[string][]types.ImageResult, len(queries))
	for i, query := range queries {
		organized[query] = []types.ImageResult{}
		for j := range sources {
			o := outcomes[i*len(sources)+j]
			if o.err != nil {
				a.logger.Warn("provider search failed",
					zap.String("provider", string(sources[j])),
					zap.String("query", query),
					zap.Error(o.err))
				continue
			}
			organized[query] = append(organized[query], o.results...)
		}
	}

	return organized
}

// GenerateAIImage produces a custom image through the generation facade and
// reshapes it as an ImageResult. A failed generation yields an error-tagged
// result instead of an error so search flows can treat it like any other
// provider outcome.
func (a *Aggregator) GenerateAIImage(ctx context.Context, prompt string, style string, size string) types.ImageResult {
	if size == "" {
		size = "1024x1024"
	}

	failed := types.ImageResult{
		Source:         types.SourceDalle,
		License:        "error",
		Title:          "Generation failed",
		RelevanceScore: 0.0,
	}

	if a.generator == nil {
		return failed
	}

	enhanced := fmt.Sprintf("%s, %s style, high quality, professional photography", prompt, style)

	img, err := a.generator.Generate(ctx, &imagegen.GenerateRequest{
		Prompt:         enhanced,
		Size:           size,
		Quality:        "hd",
		ResponseFormat: imagegen.ResponseFormatURL,
	})
	if err != nil || img == nil {
		a.logger.Warn("ai image generation failed", zap.Error(err))
		return failed
	}

	width, height := parseSize(size)

	// Truncate by runes so multibyte prompts are not split mid-sequence.
	title := prompt
	if runes := []rune(title); len(runes) > 50 {
		title = string(runes[:50])
	}

	return types.ImageResult{
		URL:            img.URL,
		PreviewURL:     img.URL,
		Source:         types.SourceDalle,
		License:        "ai-generated",
		Cost:           0.04,
		Width:          width,
		Height:         height,
		Title:          fmt.Sprintf("AI Generated: %s...", title),
		RelevanceScore: 1.0,
	}
}

// searchOne invokes a single provider, isolating its failure.
func (a *Aggregator) searchOne(ctx context.Context, p provider.Provider, query string, count int, filters *types.SearchFilters) []types.ImageResult {
	results, err := p.Search(ctx, query, count, filters)
	if err != nil {
		a.logger.Warn("provider search failed",
			zap.String("provider", string(p.GetID())),
			zap.String("query", query),
			zap.Error(err))
		return nil
	}
	return results
}

func (a *Aggregator) isFreeSource(sourceWebsite string) bool {
	site := strings.ToLower(sourceWebsite)
	for _, domain := range a.freeSourceDomains {
		if strings.Contains(site, domain) {
			return true
		}
	}
	return false
}

// dedupeByURL collapses results sharing a URL to the first occurrence,
// preserving order. Results without a URL are dropped.
func dedupeByURL(results []types.ImageResult) []types.ImageResult {
	seen := make(map[string]struct{}, len(results))
	unique := make([]types.ImageResult, 0, len(results))

	for _, img := range results {
		if img.URL == "" {
			continue
		}
		if _, ok := seen[img.URL]; ok {
			continue
		}
		seen[img.URL] = struct{}{}
		unique = append(unique, img)
	}

	return unique
}

func parseSize(size string) (int, int) {
	var width, height int
	if _, err := fmt.Sscanf(size, "%dx%d", &width, &height); err != nil {
		return 0, 0
	}
	return width, height
}
