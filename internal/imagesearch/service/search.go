package service

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/image-studio-backend/internal/imagesearch"
	"github.com/lk2023060901/image-studio-backend/internal/imagesearch/types"
	apperrors "github.com/lk2023060901/image-studio-backend/internal/pkg/errors"
	"github.com/lk2023060901/image-studio-backend/internal/pkg/response"
	"go.uber.org/zap"
)

type SearchService struct {
	aggregator *imagesearch.Aggregator
	logger     *zap.Logger
}

func NewSearchService(aggregator *imagesearch.Aggregator, logger *zap.Logger) *SearchService {
	return &SearchService{
		aggregator: aggregator,
		logger:     logger,
	}
}

func (s *SearchService) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/search_images", s.SearchImages)
	r.POST("/search_free_images", s.SearchFreeImages)
	r.POST("/search_premium_images", s.SearchPremiumImages)
	r.POST("/search_multiple_sources", s.SearchMultipleSources)
}

type SearchFiltersDTO struct {
	Orientation string `json:"orientation"`
	Color       string `json:"color"`
	Category    string `json:"category"`
}

type SearchImagesRequest struct {
	Query   string            `json:"query"`
	Filters *SearchFiltersDTO `json:"filters"`
}

// SearchImages queries every enabled provider and returns the merged,
// deduplicated result list.
func (s *SearchService) SearchImages(c *gin.Context) {
	var req SearchImagesRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Query == "" {
		response.FailWith(c, http.StatusBadRequest, "Missing required field: query", apperrors.TypeValidation)
		return
	}

	results, err := s.aggregator.SearchAll(c.Request.Context(), req.Query, toFilters(req.Filters))
	if err != nil {
		s.logger.Error("failed to search images", zap.Error(err))
		response.Fail(c, err)
		return
	}

	response.OK(c, gin.H{
		"success":       true,
		"query":         req.Query,
		"images":        results,
		"total_results": len(results),
	})
}

type SearchFreeImagesRequest struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// SearchFreeImages returns at most count free-to-use images.
func (s *SearchService) SearchFreeImages(c *gin.Context) {
	var req SearchFreeImagesRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Query == "" {
		response.FailWith(c, http.StatusBadRequest, "Missing required field: query", apperrors.TypeValidation)
		return
	}

	results, err := s.aggregator.SearchFree(c.Request.Context(), req.Query, req.Count)
	if err != nil {
		s.logger.Error("failed to search free images", zap.Error(err))
		response.Fail(c, err)
		return
	}

	response.OK(c, gin.H{
		"success":       true,
		"query":         req.Query,
		"images":        results,
		"total_results": len(results),
	})
}

// SearchPremiumImages searches paid stock sources.
func (s *SearchService) SearchPremiumImages(c *gin.Context) {
	var req SearchImagesRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Query == "" {
		response.FailWith(c, http.StatusBadRequest, "Missing required field: query", apperrors.TypeValidation)
		return
	}

	results, err := s.aggregator.SearchPremium(c.Request.Context(), req.Query, toFilters(req.Filters))
	if err != nil {
		s.logger.Error("failed to search premium images", zap.Error(err))
		response.Fail(c, err)
		return
	}

	response.OK(c, gin.H{
		"success":       true,
		"query":         req.Query,
		"images":        results,
		"total_results": len(results),
	})
}

type MultiSourceSearchRequest struct {
	Queries []string `json:"queries"`
	Sources []string `json:"sources"`
}

// SearchMultipleSources fans the queries out to the requested sources in
// parallel and returns the results grouped by query.
func (s *SearchService) SearchMultipleSources(c *gin.Context) {
	var req MultiSourceSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Queries) == 0 {
		response.FailWith(c, http.StatusBadRequest, "Missing required field: queries", apperrors.TypeValidation)
		return
	}

	sources := make([]types.ProviderID, len(req.Sources))
	for i, source := range req.Sources {
		sources[i] = types.ProviderID(source)
	}

	results := s.aggregator.SearchMultipleSources(c.Request.Context(), req.Queries, sources)

	response.OK(c, gin.H{
		"success":          true,
		"results_by_query": results,
		"total_queries":    len(req.Queries),
	})
}

func toFilters(dto *SearchFiltersDTO) *types.SearchFilters {
	if dto == nil {
		return nil
	}
	filters := types.DefaultFilters()
	if dto.Orientation != "" {
		filters.Orientation = dto.Orientation
	}
	if dto.Color != "" {
		filters.Color = dto.Color
	}
	if dto.Category != "" {
		filters.Category = dto.Category
	}
	return filters
}
