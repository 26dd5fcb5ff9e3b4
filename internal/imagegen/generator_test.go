package imagegen

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	apperrors "github.com/lk2023060901/image-studio-backend/internal/pkg/errors"
	"github.com/lk2023060901/image-studio-backend/internal/pkg/logger"
	"github.com/sashabaranov/go-openai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeImageClient struct {
	requests []openai.ImageRequest
	respond  func(req openai.ImageRequest) (openai.ImageResponse, error)
}

func (f *fakeImageClient) CreateImage(ctx context.Context, req openai.ImageRequest) (openai.ImageResponse, error) {
	f.requests = append(f.requests, req)
	return f.respond(req)
}

func newTestGenerator(client imageClient) *Generator {
	return &Generator{
		client: client,
		model:  DefaultModel,
		logger: logger.L(),
	}
}

func TestNewGenerator_RequiresAPIKey(t *testing.T) {
	_, err := NewGenerator(&Config{}, nil)
	assert.Error(t, err)

	g, err := NewGenerator(&Config{APIKey: "sk-test"}, nil)
	require.NoError(t, err)
	assert.NotNil(t, g)
}

func TestGenerate(t *testing.T) {
	client := &fakeImageClient{
		respond: func(req openai.ImageRequest) (openai.ImageResponse, error) {
			return openai.ImageResponse{
				Data: []openai.ImageResponseDataInner{
					{B64JSON: "aW1hZ2U=", RevisedPrompt: "a detailed red fox"},
				},
			}, nil
		},
	}
	g := newTestGenerator(client)

	img, err := g.Generate(context.Background(), &GenerateRequest{Prompt: "a red fox"})
	require.NoError(t, err)
	require.NotNil(t, img)

	assert.Equal(t, "aW1hZ2U=", img.B64JSON)
	assert.Equal(t, "a detailed red fox", img.RevisedPrompt)
	assert.Equal(t, "1024x1024", img.Size)
	assert.Equal(t, "standard", img.Quality)

	require.Len(t, client.requests, 1)
	sent := client.requests[0]
	assert.Equal(t, DefaultModel, sent.Model)
	assert.Equal(t, 1, sent.N)
	assert.Equal(t, "b64_json", sent.ResponseFormat)
}

func TestGenerate_ProviderError(t *testing.T) {
	client := &fakeImageClient{
		respond: func(req openai.ImageRequest) (openai.ImageResponse, error) {
			return openai.ImageResponse{}, errors.New("content policy violation")
		},
	}
	g := newTestGenerator(client)

	img, err := g.Generate(context.Background(), &GenerateRequest{Prompt: "a red fox"})
	require.Error(t, err)
	assert.Nil(t, img)
	assert.Equal(t, apperrors.TypeGeneration, apperrors.TypeOf(err))
}

func TestGenerate_NoImageInResponse(t *testing.T) {
	client := &fakeImageClient{
		respond: func(req openai.ImageRequest) (openai.ImageResponse, error) {
			return openai.ImageResponse{}, nil
		},
	}
	g := newTestGenerator(client)

	img, err := g.Generate(context.Background(), &GenerateRequest{Prompt: "a red fox"})
	assert.NoError(t, err)
	assert.Nil(t, img)
}

func TestGenerateSceneVariations_Ordering(t *testing.T) {
	client := &fakeImageClient{
		respond: func(req openai.ImageRequest) (openai.ImageResponse, error) {
			return openai.ImageResponse{
				Data: []openai.ImageResponseDataInner{{B64JSON: "aW1n"}},
			}, nil
		},
	}
	g := newTestGenerator(client)

	variations := g.GenerateSceneVariations(context.Background(), "a harbor at dawn", 3, "documentary")
	require.Len(t, variations, 3)

	modifiers := VariationModifiers()
	for i, v := range variations {
		assert.Equal(t, modifiers[i], v.VariationType)
		assert.Equal(t, "documentary", v.Style)
		assert.Equal(t, fmt.Sprintf("a harbor at dawn, %s, documentary style", modifiers[i]), v.Prompt)
	}
}

func TestGenerateSceneVariations_CappedAtMax(t *testing.T) {
	client := &fakeImageClient{
		respond: func(req openai.ImageRequest) (openai.ImageResponse, error) {
			return openai.ImageResponse{
				Data: []openai.ImageResponseDataInner{{B64JSON: "aW1n"}},
			}, nil
		},
	}
	g := newTestGenerator(client)

	variations := g.GenerateSceneVariations(context.Background(), "a harbor at dawn", 10, "cinematic")
	assert.Len(t, variations, MaxVariations)
}

func TestGenerateSceneVariations_ZeroAndNegativeCounts(t *testing.T) {
	client := &fakeImageClient{
		respond: func(req openai.ImageRequest) (openai.ImageResponse, error) {
			return openai.ImageResponse{
				Data: []openai.ImageResponseDataInner{{B64JSON: "aW1n"}},
			}, nil
		},
	}
	g := newTestGenerator(client)

	assert.Empty(t, g.GenerateSceneVariations(context.Background(), "a harbor at dawn", 0, "cinematic"))
	assert.Empty(t, g.GenerateSceneVariations(context.Background(), "a harbor at dawn", -2, "cinematic"))
	assert.Empty(t, client.requests)
}

func TestRequestTimeout(t *testing.T) {
	assert.Equal(t, 30*time.Second, requestTimeout(&Config{Timeout: 30 * time.Second}))
	assert.Equal(t, defaultTimeout, requestTimeout(&Config{}))
}

func TestGenerateSceneVariations_FailedVariationSkipped(t *testing.T) {
	call := 0
	client := &fakeImageClient{
		respond: func(req openai.ImageRequest) (openai.ImageResponse, error) {
			call++
			if call == 2 {
				return openai.ImageResponse{}, errors.New("rate limited")
			}
			return openai.ImageResponse{
				Data: []openai.ImageResponseDataInner{{B64JSON: "aW1n"}},
			}, nil
		},
	}
	g := newTestGenerator(client)

	variations := g.GenerateSceneVariations(context.Background(), "a harbor at dawn", 3, "cinematic")
	require.Len(t, variations, 2)

	modifiers := VariationModifiers()
	assert.Equal(t, modifiers[0], variations[0].VariationType)
	assert.Equal(t, modifiers[2], variations[1].VariationType)
}
