// internal/handlers/library.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/zaukho/zaukho-backend/internal/middleware"
	"github.com/zaukho/zaukho-backend/internal/services"
	"github.com/zaukho/zaukho-backend/internal/utils"
)

type LibraryHandler struct {
	libraryService *services.LibraryService
}

func NewLibraryHandler(libraryService *services.LibraryService) *LibraryHandler {
	return &LibraryHandler{libraryService: libraryService}
}

// GET /library — all purchases plus rentals whose window is still open
func (h *LibraryHandler) GetLibrary(c *gin.Context) {
	principal := middleware.GetPrincipal(c)

	library, err := h.libraryService.GetLibrary(principal.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"library": library})
}
