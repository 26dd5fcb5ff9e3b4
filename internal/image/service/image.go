package service

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/image-studio-backend/internal/image/biz"
	apperrors "github.com/lk2023060901/image-studio-backend/internal/pkg/errors"
	"github.com/lk2023060901/image-studio-backend/internal/pkg/response"
	"go.uber.org/zap"
)

type ImageService struct {
	uc     *biz.ImageUseCase
	logger *zap.Logger
}

func NewImageService(uc *biz.ImageUseCase, logger *zap.Logger) *ImageService {
	return &ImageService{
		uc:     uc,
		logger: logger,
	}
}

func (s *ImageService) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/generate_image", s.GenerateImage)
	r.POST("/generate_scene_variations", s.GenerateSceneVariations)
	r.POST("/process_script_images", s.ProcessScriptImages)
	r.GET("/get_image_status", s.GetImageStatus)
}

type GenerateImageRequest struct {
	Prompt          string `json:"prompt"`
	Model           string `json:"model"`
	Size            string `json:"size"`
	Quality         string `json:"quality"`
	Style           string `json:"style"`
	SaveToFirestore bool   `json:"save_to_firestore"`
}

type GenerateImageResponse struct {
	Success        bool   `json:"success"`
	Image          string `json:"image"`
	RevisedPrompt  string `json:"revised_prompt"`
	OriginalPrompt string `json:"original_prompt"`
	Style          string `json:"style"`
	Size           string `json:"size"`
	Quality        string `json:"quality"`
	FirestoreID    string `json:"firestore_id,omitempty"`
}

func (s *ImageService) GenerateImage(c *gin.Context) {
	var req GenerateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Prompt == "" {
		response.FailWith(c, http.StatusBadRequest, "Missing required field: prompt", apperrors.TypeValidation)
		return
	}

	result, err := s.uc.GenerateImage(c.Request.Context(), &biz.GenerateImageRequest{
		Prompt:  req.Prompt,
		Model:   req.Model,
		Size:    req.Size,
		Quality: req.Quality,
		Style:   req.Style,
		Save:    req.SaveToFirestore,
	})
	if err != nil {
		s.logger.Error("failed to generate image", zap.Error(err))
		response.Fail(c, err)
		return
	}

	response.OK(c, GenerateImageResponse{
		Success:        true,
		Image:          result.Image,
		RevisedPrompt:  result.RevisedPrompt,
		OriginalPrompt: result.OriginalPrompt,
		Style:          result.Style,
		Size:           result.Size,
		Quality:        result.Quality,
		FirestoreID:    result.RecordID,
	})
}

type SceneVariationsRequest struct {
	SceneDescription string `json:"scene_description"`
	// Pointer so an explicit 0 is distinguishable from an absent field.
	NumVariations *int   `json:"num_variations"`
	Style         string `json:"style"`
}

func (s *ImageService) GenerateSceneVariations(c *gin.Context) {
	var req SceneVariationsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SceneDescription == "" {
		response.FailWith(c, http.StatusBadRequest, "Missing required field: scene_description", apperrors.TypeValidation)
		return
	}

	numVariations := 3
	if req.NumVariations != nil {
		numVariations = *req.NumVariations
	}

	variations := s.uc.GenerateSceneVariations(c.Request.Context(), req.SceneDescription, numVariations, req.Style)

	response.OK(c, gin.H{
		"success":         true,
		"variations":      variations,
		"total_generated": len(variations),
	})
}

type ScriptSegmentDTO struct {
	Timestamp string `json:"timestamp"`
	Text      string `json:"text"`
}

type ProcessScriptRequest struct {
	ScriptSegments  []ScriptSegmentDTO `json:"script_segments"`
	Style           string             `json:"style"`
	SaveToFirestore bool               `json:"save_to_firestore"`
	ScriptID        string             `json:"script_id"`
}

type ProcessScriptResponse struct {
	Success               bool                  `json:"success"`
	EnrichedSegments      []biz.EnrichedSegment `json:"enriched_segments"`
	TotalProcessed        int                   `json:"total_processed"`
	TotalImagesGenerated  int                   `json:"total_images_generated"`
	FirestoreCollectionID string                `json:"firestore_collection_id,omitempty"`
}

func (s *ImageService) ProcessScriptImages(c *gin.Context) {
	var req ProcessScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ScriptSegments == nil {
		response.FailWith(c, http.StatusBadRequest, "Missing required field: script_segments", apperrors.TypeValidation)
		return
	}

	segments := make([]biz.ScriptSegment, len(req.ScriptSegments))
	for i, segment := range req.ScriptSegments {
		segments[i] = biz.ScriptSegment{Timestamp: segment.Timestamp, Text: segment.Text}
	}

	result, err := s.uc.ProcessScriptImages(c.Request.Context(), &biz.ProcessScriptRequest{
		Segments: segments,
		Style:    req.Style,
		Save:     req.SaveToFirestore,
		ScriptID: req.ScriptID,
	})
	if err != nil {
		s.logger.Error("failed to process script images", zap.Error(err))
		response.Fail(c, err)
		return
	}

	response.OK(c, ProcessScriptResponse{
		Success:               true,
		EnrichedSegments:      result.EnrichedSegments,
		TotalProcessed:        result.TotalProcessed,
		TotalImagesGenerated:  result.TotalImagesGenerated,
		FirestoreCollectionID: result.CollectionID,
	})
}

func (s *ImageService) GetImageStatus(c *gin.Context) {
	collectionID := c.Query("collection_id")
	if collectionID == "" {
		response.FailWith(c, http.StatusBadRequest, "Missing required parameter: collection_id", apperrors.TypeValidation)
		return
	}

	status, err := s.uc.GetImageStatus(c.Request.Context(), collectionID)
	if err != nil {
		if errors.Is(err, biz.ErrCollectionNotFound) {
			response.FailWith(c, http.StatusNotFound, "Collection not found", apperrors.TypeNotFound)
			return
		}
		s.logger.Error("failed to get image status", zap.Error(err))
		response.Fail(c, err)
		return
	}

	response.OK(c, gin.H{
		"success": true,
		"data":    status,
	})
}
