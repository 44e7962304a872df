// internal/handlers/category.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/zaukho/zaukho-backend/internal/services"
	"github.com/zaukho/zaukho-backend/internal/utils"
)

type CategoryHandler struct {
	catalogService *services.CatalogService
}

func NewCategoryHandler(catalogService *services.CatalogService) *CategoryHandler {
	return &CategoryHandler{
		catalogService: catalogService,
	}
}

// GET /categories
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	categories, total, err := h.catalogService.ListCategories(params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(categories, total, params))
}

// GET /categories/:id
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	category, err := h.catalogService.GetCategory(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"category": category})
}

// POST /categories
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req services.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	category, err := h.catalogService.CreateCategory(&req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"category": category})
}

// PUT/PATCH /categories/:id
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req services.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	category, err := h.catalogService.UpdateCategory(id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"category": category})
}

// DELETE /categories/:id
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.catalogService.DeleteCategory(id); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.NoContentResponse(c)
}
