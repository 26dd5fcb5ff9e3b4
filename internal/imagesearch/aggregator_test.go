package imagesearch

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/lk2023060901/image-studio-backend/internal/imagegen"
	"github.com/lk2023060901/image-studio-backend/internal/imagesearch/provider"
	"github.com/lk2023060901/image-studio-backend/internal/imagesearch/types"
	"github.com/lk2023060901/image-studio-backend/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	id         types.ProviderID
	results    []types.ImageResult
	err        error
	configured bool
}

func (f *fakeProvider) Search(ctx context.Context, query string, count int, filters *types.SearchFilters) ([]types.ImageResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	if count > 0 && len(f.results) > count {
		return f.results[:count], nil
	}
	return f.results, nil
}

func (f *fakeProvider) GetID() types.ProviderID { return f.id }
func (f *fakeProvider) Configured() bool        { return f.configured }
func (f *fakeProvider) Validate() error         { return nil }

type fakeGenerator struct {
	image *imagegen.GeneratedImage
	err   error
}

func (f *fakeGenerator) Generate(ctx context.Context, req *imagegen.GenerateRequest) (*imagegen.GeneratedImage, error) {
	return f.image, f.err
}

func result(url, source, website string) types.ImageResult {
	return types.ImageResult{URL: url, Source: source, SourceWebsite: website}
}

func newTestAggregator(t *testing.T, pexels, dataForSEO, shutterstock provider.Provider) *Aggregator {
	t.Helper()

	everypixel, err := provider.NewEverypixelProvider(&types.ProviderConfig{ID: types.ProviderEverypixel})
	require.NoError(t, err)

	a := &Aggregator{
		pexels:            pexels,
		dataForSEO:        dataForSEO,
		everypixel:        everypixel.(*provider.EverypixelProvider),
		shutterstock:      shutterstock,
		freeSourceDomains: []string{"wikimedia", "commons", "flickr", "unsplash", "pexels", "pixabay"},
		logger:            logger.L(),
	}
	a.byID = map[types.ProviderID]provider.Provider{
		types.ProviderPexels:       pexels,
		types.ProviderDataForSEO:   dataForSEO,
		types.ProviderEverypixel:   everypixel,
		types.ProviderShutterstock: shutterstock,
	}
	return a
}

func TestSearchAll_DedupeFirstWins(t *testing.T) {
	dataForSEO := &fakeProvider{
		id:         types.ProviderDataForSEO,
		configured: true,
		results: []types.ImageResult{
			result("https://a.jpg", "dataforseo", "example.com"),
			result("https://b.jpg", "dataforseo", "example.com"),
		},
	}
	pexels := &fakeProvider{
		id:         types.ProviderPexels,
		configured: true,
		results: []types.ImageResult{
			result("https://a.jpg", "pexels", "pexels.com"),
			result("https://c.jpg", "pexels", "pexels.com"),
		},
	}

	a := newTestAggregator(t, pexels, dataForSEO, &fakeProvider{id: types.ProviderShutterstock})

	results, err := a.SearchAll(context.Background(), "mountain", nil)
	require.NoError(t, err)
	require.Len(t, results, 3)

	// The dataforseo occurrence of a.jpg came first and wins
	assert.Equal(t, "https://a.jpg", results[0].URL)
	assert.Equal(t, "dataforseo", results[0].Source)
	assert.Equal(t, "https://b.jpg", results[1].URL)
	assert.Equal(t, "https://c.jpg", results[2].URL)
}

func TestSearchAll_EmptyQuery(t *testing.T) {
	a := newTestAggregator(t,
		&fakeProvider{id: types.ProviderPexels},
		&fakeProvider{id: types.ProviderDataForSEO},
		&fakeProvider{id: types.ProviderShutterstock})

	_, err := a.SearchAll(context.Background(), "", nil)
	assert.ErrorIs(t, err, types.ErrEmptyQuery)
}

func TestSearchAll_PartialFailureIsolation(t *testing.T) {
	dataForSEO := &fakeProvider{
		id:         types.ProviderDataForSEO,
		configured: true,
		err:        errors.New("upstream down"),
	}
	pexels := &fakeProvider{
		id:         types.ProviderPexels,
		configured: true,
		results:    []types.ImageResult{result("https://c.jpg", "pexels", "pexels.com")},
	}

	a := newTestAggregator(t, pexels, dataForSEO, &fakeProvider{id: types.ProviderShutterstock})

	results, err := a.SearchAll(context.Background(), "mountain", nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "https://c.jpg", results[0].URL)
}

func TestSearchFree_TopUpFromMetaSearch(t *testing.T) {
	pexels := &fakeProvider{
		id:         types.ProviderPexels,
		configured: true,
		results:    []types.ImageResult{result("https://p1.jpg", "pexels", "pexels.com")},
	}
	dataForSEO := &fakeProvider{
		id:         types.ProviderDataForSEO,
		configured: true,
		results: []types.ImageResult{
			result("https://d1.jpg", "dataforseo", "gettyimages.com"),
			result("https://d2.jpg", "dataforseo", "commons.wikimedia.org"),
			result("https://d3.jpg", "dataforseo", "www.flickr.com"),
			result("https://d4.jpg", "dataforseo", "unsplash.com"),
		},
	}

	a := newTestAggregator(t, pexels, dataForSEO, &fakeProvider{id: types.ProviderShutterstock})

	results, err := a.SearchFree(context.Background(), "mountain", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "https://p1.jpg", results[0].URL)
	// The paid stock site is filtered out; allow-listed sites top up in order
	assert.Equal(t, "https://d2.jpg", results[1].URL)
	assert.Equal(t, "likely free", results[1].License)
	assert.Equal(t, "https://d3.jpg", results[2].URL)
	assert.Equal(t, "likely free", results[2].License)
}

func TestSearchFree_CountBound(t *testing.T) {
	pexels := &fakeProvider{
		id:         types.ProviderPexels,
		configured: true,
		results: []types.ImageResult{
			result("https://p1.jpg", "pexels", "pexels.com"),
			result("https://p2.jpg", "pexels", "pexels.com"),
			result("https://p3.jpg", "pexels", "pexels.com"),
		},
	}

	a := newTestAggregator(t, pexels,
		&fakeProvider{id: types.ProviderDataForSEO},
		&fakeProvider{id: types.ProviderShutterstock})

	results, err := a.SearchFree(context.Background(), "mountain", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearchFree_SkipsUnconfiguredMetaSearch(t *testing.T) {
	pexels := &fakeProvider{
		id:         types.ProviderPexels,
		configured: true,
		results:    []types.ImageResult{result("https://p1.jpg", "pexels", "pexels.com")},
	}
	dataForSEO := &fakeProvider{
		id:      types.ProviderDataForSEO,
		results: []types.ImageResult{result("https://d1.jpg", "dataforseo", "flickr.com")},
	}

	a := newTestAggregator(t, pexels, dataForSEO, &fakeProvider{id: types.ProviderShutterstock})

	results, err := a.SearchFree(context.Background(), "mountain", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "https://p1.jpg", results[0].URL)
}

func TestSearchMultipleSources(t *testing.T) {
	pexels := &fakeProvider{
		id:         types.ProviderPexels,
		configured: true,
		results:    []types.ImageResult{result("https://p1.jpg", "pexels", "pexels.com")},
	}
	dataForSEO := &fakeProvider{
		id:         types.ProviderDataForSEO,
		configured: true,
		results:    []types.ImageResult{result("https://d1.jpg", "dataforseo", "example.com")},
	}

	a := newTestAggregator(t, pexels, dataForSEO, &fakeProvider{id: types.ProviderShutterstock})

	organized := a.SearchMultipleSources(context.Background(),
		[]string{"mountain", "ocean"}, nil)

	require.Len(t, organized, 2)
	for _, query := range []string{"mountain", "ocean"} {
		require.Len(t, organized[query], 2)
		// Declared source order: pexels before dataforseo
		assert.Equal(t, "https://p1.jpg", organized[query][0].URL)
		assert.Equal(t, "https://d1.jpg", organized[query][1].URL)
	}
}

func TestSearchMultipleSources_FailingPairIsolated(t *testing.T) {
	pexels := &fakeProvider{
		id:         types.ProviderPexels,
		configured: true,
		err:        errors.New("timeout"),
	}
	dataForSEO := &fakeProvider{
		id:         types.ProviderDataForSEO,
		configured: true,
		results:    []types.ImageResult{result("https://d1.jpg", "dataforseo", "example.com")},
	}

	a := newTestAggregator(t, pexels, dataForSEO, &fakeProvider{id: types.ProviderShutterstock})

	organized := a.SearchMultipleSources(context.Background(),
		[]string{"mountain"},
		[]types.ProviderID{types.ProviderPexels, types.ProviderDataForSEO})

	require.Len(t, organized["mountain"], 1)
	assert.Equal(t, "https://d1.jpg", organized["mountain"][0].URL)
}

func TestGenerateAIImage(t *testing.T) {
	a := newTestAggregator(t,
		&fakeProvider{id: types.ProviderPexels},
		&fakeProvider{id: types.ProviderDataForSEO},
		&fakeProvider{id: types.ProviderShutterstock})
	a.generator = &fakeGenerator{
		image: &imagegen.GeneratedImage{URL: "https://oai.example.com/gen.png", RevisedPrompt: "revised"},
	}

	img := a.GenerateAIImage(context.Background(), "a red fox", "cinematic", "1024x1024")

	assert.Equal(t, "https://oai.example.com/gen.png", img.URL)
	assert.Equal(t, "https://oai.example.com/gen.png", img.PreviewURL)
	assert.Equal(t, "dalle-3", img.Source)
	assert.Equal(t, "ai-generated", img.License)
	assert.Equal(t, 0.04, img.Cost)
	assert.Equal(t, 1024, img.Width)
	assert.Equal(t, 1024, img.Height)
	assert.Equal(t, "AI Generated: a red fox...", img.Title)
	assert.Equal(t, 1.0, img.RelevanceScore)
}

func TestGenerateAIImage_MultibyteTitleTruncation(t *testing.T) {
	a := newTestAggregator(t,
		&fakeProvider{id: types.ProviderPexels},
		&fakeProvider{id: types.ProviderDataForSEO},
		&fakeProvider{id: types.ProviderShutterstock})
	a.generator = &fakeGenerator{
		image: &imagegen.GeneratedImage{URL: "https://oai.example.com/gen.png"},
	}

	prompt := strings.Repeat("山", 60)
	img := a.GenerateAIImage(context.Background(), prompt, "cinematic", "1024x1024")

	assert.True(t, utf8.ValidString(img.Title))
	assert.Equal(t, "AI Generated: "+strings.Repeat("山", 50)+"...", img.Title)
}

func TestGenerateAIImage_Failure(t *testing.T) {
	a := newTestAggregator(t,
		&fakeProvider{id: types.ProviderPexels},
		&fakeProvider{id: types.ProviderDataForSEO},
		&fakeProvider{id: types.ProviderShutterstock})
	a.generator = &fakeGenerator{err: errors.New("quota exceeded")}

	img := a.GenerateAIImage(context.Background(), "a red fox", "cinematic", "")

	assert.Empty(t, img.URL)
	assert.Equal(t, "dalle-3", img.Source)
	assert.Equal(t, "error", img.License)
	assert.Equal(t, "Generation failed", img.Title)
	assert.Equal(t, 0.0, img.RelevanceScore)
}

func TestDedupeByURL_DropsEmptyURLs(t *testing.T) {
	results := dedupeByURL([]types.ImageResult{
		{URL: ""},
		{URL: "https://a.jpg", Source: "first"},
		{URL: "https://a.jpg", Source: "second"},
		{URL: ""},
	})

	require.Len(t, results, 1)
	assert.Equal(t, "first", results[0].Source)
}
