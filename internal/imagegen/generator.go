// Package imagegen wraps the external image generation API behind a small
// facade: prompt in, base64 image and revised prompt out.
package imagegen

import (
	"context"
	"fmt"
	"net/http"
	"time"

	apperrors "github.com/lk2023060901/image-studio-backend/internal/pkg/errors"
	"github.com/lk2023060901/image-studio-backend/internal/pkg/logger"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const (
	// DefaultModel is used when a request does not name a model.
	DefaultModel = openai.CreateImageModelDallE3

	defaultSize    = "1024x1024"
	defaultQuality = "standard"

	// defaultTimeout bounds one generation call; DALL-E renders are slow.
	defaultTimeout = 120 * time.Second
)

// imageClient is the slice of the OpenAI client the generator needs.
type imageClient interface {
	CreateImage(ctx context.Context, request openai.ImageRequest) (openai.ImageResponse, error)
}

// Config holds generation provider settings.
type Config struct {
	APIKey       string
	BaseURL      string
	DefaultModel string
	Timeout      time.Duration
}

// requestTimeout resolves the HTTP timeout for generation calls.
func requestTimeout(cfg *Config) time.Duration {
	if cfg.Timeout > 0 {
		return cfg.Timeout
	}
	return defaultTimeout
}

// Generator wraps a single external image generation call.
type Generator struct {
	client imageClient
	model  string
	logger *logger.Logger
}

// NewGenerator creates a generator backed by the OpenAI images API.
func NewGenerator(cfg *Config, log *logger.Logger) (*Generator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}

	if log == nil {
		log = logger.L()
	}

	model := cfg.DefaultModel
	if model == "" {
		model = DefaultModel
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: requestTimeout(cfg)}

	return &Generator{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
		logger: log.Named("imagegen"),
	}, nil
}

// Generate issues one image generation call. A provider failure is returned
// as a GenerationError. A response with zero images yields (nil, nil): the
// caller must check for an empty result.
func (g *Generator) Generate(ctx context.Context, req *GenerateRequest) (*GeneratedImage, error) {
	model := req.Model
	if model == "" {
		model = g.model
	}
	size := req.Size
	if size == "" {
		size = defaultSize
	}
	quality := req.Quality
	if quality == "" {
		quality = defaultQuality
	}
	format := req.ResponseFormat
	if format == "" {
		format = ResponseFormatB64
	}

	resp, err := g.client.CreateImage(ctx, openai.ImageRequest{
		Model:          model,
		Prompt:         req.Prompt,
		Size:           size,
		Quality:        quality,
		N:              1,
		ResponseFormat: string(format),
	})
	if err != nil {
		g.logger.Error("image generation failed",
			zap.String("model", model),
			zap.Error(err))
		return nil, apperrors.Generation(err, "image generation failed: %v", err)
	}

	if len(resp.Data) == 0 {
		g.logger.Warn("no image in generation response", zap.String("model", model))
		return nil, nil
	}

	data := resp.Data[0]
	return &GeneratedImage{
		B64JSON:       data.B64JSON,
		URL:           data.URL,
		RevisedPrompt: data.RevisedPrompt,
		Size:          size,
		Quality:       quality,
	}, nil
}

// GenerateSceneVariations generates up to MaxVariations images of the same
// scene, each with a distinct composition modifier, in the fixed modifier
// order. A failing variation is logged and skipped, never fatal to the
// batch.
func (g *Generator) GenerateSceneVariations(ctx context.Context, scene string, numVariations int, style string) []Variation {
	if numVariations < 0 {
		numVariations = 0
	}
	if numVariations > MaxVariations {
		numVariations = MaxVariations
	}

	variations := make([]Variation, 0, numVariations)

	for i := 0; i < numVariations; i++ {
		prompt := VariationPrompt(scene, i, style)

		img, err := g.Generate(ctx, &GenerateRequest{
			Prompt:         prompt,
			Model:          openai.CreateImageModelDallE3,
			Size:           defaultSize,
			Quality:        defaultQuality,
			ResponseFormat: ResponseFormatB64,
		})
		if err != nil || img == nil {
			g.logger.Warn("variation generation failed",
				zap.Int("variation", i+1),
				zap.Error(err))
			continue
		}

		variations = append(variations, Variation{
			Image:         img.B64JSON,
			Prompt:        prompt,
			VariationType: variationModifiers[i],
			Style:         style,
			RevisedPrompt: img.RevisedPrompt,
		})
	}

	return variations
}
