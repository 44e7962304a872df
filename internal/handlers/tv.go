// internal/handlers/tv.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/zaukho/zaukho-backend/internal/services"
	"github.com/zaukho/zaukho-backend/internal/utils"
)

type TVHandler struct {
	seriesService  *services.SeriesService
	storageService *services.StorageService
}

func NewTVHandler(seriesService *services.SeriesService, storageService *services.StorageService) *TVHandler {
	return &TVHandler{
		seriesService:  seriesService,
		storageService: storageService,
	}
}

// GET /tv-series?category=<id>&featured=<true|false>
func (h *TVHandler) ListTVSeries(c *gin.Context) {
	filters := services.TVSeriesFilters{
		PaginationParams: utils.GetPaginationParams(c),
	}

	if categoryStr := c.Query("category"); categoryStr != "" {
		if categoryID, err := uuid.Parse(categoryStr); err == nil {
			filters.CategoryID = &categoryID
		}
	}
	if featuredStr := c.Query("featured"); featuredStr != "" {
		if featured, err := strconv.ParseBool(featuredStr); err == nil {
			filters.Featured = &featured
		}
	}

	series, total, err := h.seriesService.ListTVSeries(filters)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(series, total, filters.PaginationParams))
}

// GET /tv-series/:id — embeds categories and the season/episode tree
func (h *TVHandler) GetTVSeries(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	series, err := h.seriesService.GetTVSeries(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"tv_series": series})
}

// POST /tv-series
func (h *TVHandler) CreateTVSeries(c *gin.Context) {
	var req services.CreateTVSeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	series, err := h.seriesService.CreateTVSeries(&req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"tv_series": series})
}

// PUT/PATCH /tv-series/:id
func (h *TVHandler) UpdateTVSeries(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req services.UpdateTVSeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	series, err := h.seriesService.UpdateTVSeries(id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"tv_series": series})
}

// DELETE /tv-series/:id
func (h *TVHandler) DeleteTVSeries(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.seriesService.DeleteTVSeries(id); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// POST /tv-series/:id/poster
func (h *TVHandler) UploadTVSeriesPoster(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("poster")
	if err != nil {
		utils.BadRequestResponse(c, "Poster file is required", nil)
		return
	}
	defer file.Close()

	result, err := h.storageService.UploadFile(file, header, h.storageService.PosterUploadOptions())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	series, err := h.seriesService.SetTVSeriesPoster(id, result.URL)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"tv_series": series,
		"upload":    result,
	})
}

// GET /seasons?tv_series=<id>
func (h *TVHandler) ListSeasons(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	var tvSeriesID *uuid.UUID
	if seriesStr := c.Query("tv_series"); seriesStr != "" {
		if id, err := uuid.Parse(seriesStr); err == nil {
			tvSeriesID = &id
		}
	}

	seasons, total, err := h.seriesService.ListSeasons(tvSeriesID, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(seasons, total, params))
}

// GET /seasons/:id — embeds episodes
func (h *TVHandler) GetSeason(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	season, err := h.seriesService.GetSeason(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"season": season})
}

// POST /seasons
func (h *TVHandler) CreateSeason(c *gin.Context) {
	var req services.CreateSeasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	season, err := h.seriesService.CreateSeason(&req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"season": season})
}

// PUT/PATCH /seasons/:id
func (h *TVHandler) UpdateSeason(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req services.UpdateSeasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	season, err := h.seriesService.UpdateSeason(id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"season": season})
}

// DELETE /seasons/:id
func (h *TVHandler) DeleteSeason(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.seriesService.DeleteSeason(id); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// GET /episodes?season=<id>
func (h *TVHandler) ListEpisodes(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	var seasonID *uuid.UUID
	if seasonStr := c.Query("season"); seasonStr != "" {
		if id, err := uuid.Parse(seasonStr); err == nil {
			seasonID = &id
		}
	}

	episodes, total, err := h.seriesService.ListEpisodes(seasonID, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(episodes, total, params))
}

// GET /episodes/:id
func (h *TVHandler) GetEpisode(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	episode, err := h.seriesService.GetEpisode(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"episode": episode})
}

// POST /episodes
func (h *TVHandler) CreateEpisode(c *gin.Context) {
	var req services.CreateEpisodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	episode, err := h.seriesService.CreateEpisode(&req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"episode": episode})
}

// PUT/PATCH /episodes/:id
func (h *TVHandler) UpdateEpisode(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req services.UpdateEpisodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	episode, err := h.seriesService.UpdateEpisode(id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"episode": episode})
}

// DELETE /episodes/:id
func (h *TVHandler) DeleteEpisode(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.seriesService.DeleteEpisode(id); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// POST /episodes/:id/video
func (h *TVHandler) UploadEpisodeVideo(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("video")
	if err != nil {
		utils.BadRequestResponse(c, "Video file is required", nil)
		return
	}
	defer file.Close()

	result, err := h.storageService.UploadFile(file, header, h.storageService.VideoUploadOptions())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	episode, err := h.seriesService.SetEpisodeVideo(id, result.URL)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"episode": episode,
		"upload":  result,
	})
}
