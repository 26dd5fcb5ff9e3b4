package biz

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lk2023060901/image-studio-backend/internal/imagegen"
	apperrors "github.com/lk2023060901/image-studio-backend/internal/pkg/errors"
	"github.com/lk2023060901/image-studio-backend/internal/pkg/logger"
	"go.uber.org/zap"
)

const (
	defaultStyle   = "cinematic"
	defaultSize    = "1024x1024"
	defaultQuality = "standard"

	// segmentImageSource tags generated segment images.
	segmentImageSource = "dall-e-3"

	// dallE3CostEstimate is the approximate per-image cost in USD.
	dallE3CostEstimate = 0.04

	// recordImagePrefixLen bounds how much of the payload is kept in the
	// database record; the full bytes go to the archive when enabled.
	recordImagePrefixLen = 100
)

// ImageGenerator is the generation facade consumed by the use case.
// Satisfied by imagegen.Generator.
type ImageGenerator interface {
	Generate(ctx context.Context, req *imagegen.GenerateRequest) (*imagegen.GeneratedImage, error)
	GenerateSceneVariations(ctx context.Context, scene string, numVariations int, style string) []imagegen.Variation
}

// ImageRecordRepo persists immutable generation records.
type ImageRecordRepo interface {
	SaveGeneratedImage(ctx context.Context, record *GeneratedImageRecord) (string, error)
	SaveScriptCollection(ctx context.Context, collection *ScriptCollection) (string, error)
	GetScriptCollection(ctx context.Context, id string) (*ScriptCollection, error)
}

// ImageArchive stores full image payloads in object storage.
type ImageArchive interface {
	Put(ctx context.Context, key string, b64 string) error
}

// ImageUseCase implements the image generation operations.
type ImageUseCase struct {
	generator ImageGenerator
	repo      ImageRecordRepo
	archive   ImageArchive
	logger    *logger.Logger
}

// NewImageUseCase creates an image use case. The repo and archive are
// optional; without them persistence requests are ignored.
func NewImageUseCase(generator ImageGenerator, repo ImageRecordRepo, archive ImageArchive, log *logger.Logger) *ImageUseCase {
	if log == nil {
		log = logger.L()
	}
	return &ImageUseCase{
		generator: generator,
		repo:      repo,
		archive:   archive,
		logger:    log.Named("image"),
	}
}

// GenerateImage enriches the prompt with the style phrase, generates one
// image and optionally persists a record of the generation.
func (uc *ImageUseCase) GenerateImage(ctx context.Context, req *GenerateImageRequest) (*GenerateImageResult, error) {
	model := req.Model
	if model == "" {
		model = imagegen.DefaultModel
	}
	size := req.Size
	if size == "" {
		size = defaultSize
	}
	quality := req.Quality
	if quality == "" {
		quality = defaultQuality
	}
	style := req.Style
	if style == "" {
		style = defaultStyle
	}

	enhancedPrompt := imagegen.EnhancePrompt(req.Prompt, style)

	img, err := uc.generator.Generate(ctx, &imagegen.GenerateRequest{
		Prompt:         enhancedPrompt,
		Model:          model,
		Size:           size,
		Quality:        quality,
		ResponseFormat: imagegen.ResponseFormatB64,
	})
	if err != nil {
		return nil, err
	}
	if img == nil {
		return nil, apperrors.Generation(nil, "no image returned by provider")
	}

	result := &GenerateImageResult{
		Image:          img.B64JSON,
		RevisedPrompt:  img.RevisedPrompt,
		OriginalPrompt: req.Prompt,
		EnhancedPrompt: enhancedPrompt,
		Style:          style,
		Size:           size,
		Quality:        quality,
	}

	if req.Save && uc.repo != nil {
		record := &GeneratedImageRecord{
			ID:             uuid.NewString(),
			Prompt:         req.Prompt,
			EnhancedPrompt: enhancedPrompt,
			RevisedPrompt:  img.RevisedPrompt,
			Style:          style,
			Size:           size,
			Quality:        quality,
			Model:          model,
			ImageRef:       truncateB64(img.B64JSON),
			CreatedAt:      time.Now(),
		}

		record.ObjectKey = uc.archiveImage(ctx, record.ID, img.B64JSON)

		id, err := uc.repo.SaveGeneratedImage(ctx, record)
		if err != nil {
			return nil, fmt.Errorf("failed to save generation record: %w", err)
		}
		result.RecordID = id
	}

	return result, nil
}

// GenerateSceneVariations generates up to five variations of a scene, one
// per fixed composition modifier, in order. Failed variations are skipped.
// An explicit zero count yields zero variations; the request default lives
// at the handler.
func (uc *ImageUseCase) GenerateSceneVariations(ctx context.Context, scene string, numVariations int, style string) []imagegen.Variation {
	if style == "" {
		style = defaultStyle
	}
	return uc.generator.GenerateSceneVariations(ctx, scene, numVariations, style)
}

// ProcessScriptImages generates one image per script segment. A failing
// segment is annotated with its error and never aborts the batch. Segments
// with empty text are dropped.
func (uc *ImageUseCase) ProcessScriptImages(ctx context.Context, req *ProcessScriptRequest) (*ProcessScriptResult, error) {
	style := req.Style
	if style == "" {
		style = defaultStyle
	}

	enriched := make([]EnrichedSegment, 0, len(req.Segments))

	for _, segment := range req.Segments {
		if segment.Text == "" {
			continue
		}

		timestamp := segment.Timestamp
		if timestamp == "" {
			timestamp = "0:00"
		}

		out := EnrichedSegment{Timestamp: timestamp, Text: segment.Text}

		enhancedPrompt := imagegen.EnhancePrompt(segment.Text, style)
		img, err := uc.generator.Generate(ctx, &imagegen.GenerateRequest{
			Prompt:         enhancedPrompt,
			Model:          imagegen.DefaultModel,
			Size:           defaultSize,
			Quality:        defaultQuality,
			ResponseFormat: imagegen.ResponseFormatB64,
		})

		switch {
		case err != nil:
			uc.logger.Warn("segment generation failed",
				zap.String("timestamp", timestamp),
				zap.Error(err))
			out.GenerationError = apperrors.MessageOf(err)
		case img == nil:
			uc.logger.Warn("segment generation returned no image",
				zap.String("timestamp", timestamp))
			out.GenerationError = "no image returned by provider"
		default:
			out.GeneratedImage = &SegmentImage{
				Image:         img.B64JSON,
				Source:        segmentImageSource,
				RevisedPrompt: img.RevisedPrompt,
				Style:         style,
				CostEstimate:  dallE3CostEstimate,
			}
		}

		enriched = append(enriched, out)
	}

	result := &ProcessScriptResult{
		EnrichedSegments:     enriched,
		TotalProcessed:       len(enriched),
		TotalImagesGenerated: countWithImages(enriched),
	}

	if req.Save && uc.repo != nil && len(enriched) > 0 {
		scriptID := req.ScriptID
		if scriptID == "" {
			scriptID = fmt.Sprintf("script_%s", time.Now().Format("20060102_150405"))
		}

		collection := &ScriptCollection{
			ID:            uuid.NewString(),
			ScriptID:      scriptID,
			Style:         style,
			CreatedAt:     time.Now(),
			TotalSegments: len(enriched),
			Segments:      summarizeSegments(enriched),
		}

		id, err := uc.repo.SaveScriptCollection(ctx, collection)
		if err != nil {
			return nil, fmt.Errorf("failed to save script collection: %w", err)
		}
		result.CollectionID = id
	}

	return result, nil
}

// GetImageStatus returns the persisted summary of a script collection.
func (uc *ImageUseCase) GetImageStatus(ctx context.Context, collectionID string) (*ImageStatus, error) {
	if uc.repo == nil {
		return nil, ErrPersistenceDisabled
	}

	collection, err := uc.repo.GetScriptCollection(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	withImages := 0
	for _, segment := range collection.Segments {
		if segment.HasImage {
			withImages++
		}
	}

	return &ImageStatus{
		ScriptID:           collection.ScriptID,
		CreatedAt:          collection.CreatedAt.Format(time.RFC3339),
		TotalSegments:      collection.TotalSegments,
		SegmentsWithImages: withImages,
		Style:              collection.Style,
	}, nil
}

// archiveImage stores the full payload in object storage; failures are
// logged, not fatal, since the database record is the source of truth.
func (uc *ImageUseCase) archiveImage(ctx context.Context, id string, b64 string) string {
	if uc.archive == nil {
		return ""
	}

	key := fmt.Sprintf("generated/%s.png", id)
	if err := uc.archive.Put(ctx, key, b64); err != nil {
		uc.logger.Warn("failed to archive image payload",
			zap.String("key", key),
			zap.Error(err))
		return ""
	}
	return key
}

func truncateB64(b64 string) string {
	if len(b64) <= recordImagePrefixLen {
		return b64
	}
	return b64[:recordImagePrefixLen] + "..."
}

func countWithImages(segments []EnrichedSegment) int {
	n := 0
	for _, segment := range segments {
		if segment.GeneratedImage != nil {
			n++
		}
	}
	return n
}

func summarizeSegments(segments []EnrichedSegment) []SegmentSummary {
	summaries := make([]SegmentSummary, len(segments))
	for i, segment := range segments {
		summary := SegmentSummary{
			Timestamp: segment.Timestamp,
			Text:      segment.Text,
			HasImage:  segment.GeneratedImage != nil,
		}
		if segment.GeneratedImage != nil {
			summary.RevisedPrompt = segment.GeneratedImage.RevisedPrompt
		}
		summaries[i] = summary
	}
	return summaries
}
