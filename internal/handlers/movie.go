// internal/handlers/movie.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/zaukho/zaukho-backend/internal/services"
	"github.com/zaukho/zaukho-backend/internal/utils"
)

type MovieHandler struct {
	catalogService *services.CatalogService
	storageService *services.StorageService
}

func NewMovieHandler(catalogService *services.CatalogService, storageService *services.StorageService) *MovieHandler {
	return &MovieHandler{
		catalogService: catalogService,
		storageService: storageService,
	}
}

// GET /movies?category=<id>&featured=<true|false>
func (h *MovieHandler) ListMovies(c *gin.Context) {
	filters := services.MovieFilters{
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

	movies, total, err := h.catalogService.ListMovies(filters)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(movies, total, filters.PaginationParams))
}

// GET /movies/:id
func (h *MovieHandler) GetMovie(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	movie, err := h.catalogService.GetMovie(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"movie": movie})
}

// POST /movies
func (h *MovieHandler) CreateMovie(c *gin.Context) {
	var req services.CreateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	movie, err := h.catalogService.CreateMovie(&req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"movie": movie})
}

// PUT/PATCH /movies/:id
func (h *MovieHandler) UpdateMovie(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req services.UpdateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	movie, err := h.catalogService.UpdateMovie(id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"movie": movie})
}

// DELETE /movies/:id
func (h *MovieHandler) DeleteMovie(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.catalogService.DeleteMovie(id); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// POST /movies/:id/poster
func (h *MovieHandler) UploadPoster(c *gin.Context) {
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

	movie, err := h.catalogService.SetMoviePoster(id, result.URL)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"movie":  movie,
		"upload": result,
	})
}
