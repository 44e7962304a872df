// internal/handlers/entitlement.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/zaukho/zaukho-backend/internal/middleware"
	"github.com/zaukho/zaukho-backend/internal/services"
	"github.com/zaukho/zaukho-backend/internal/utils"
)

type EntitlementHandler struct {
	entitlementService *services.EntitlementService
}

func NewEntitlementHandler(entitlementService *services.EntitlementService) *EntitlementHandler {
	return &EntitlementHandler{entitlementService: entitlementService}
}

// GET /purchases — the caller's own purchases, newest first
func (h *EntitlementHandler) ListPurchases(c *gin.Context) {
	principal := middleware.GetPrincipal(c)

	purchases, err := h.entitlementService.ListPurchases(principal.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"purchases": purchases})
}

// GET /purchases/:id
func (h *EntitlementHandler) GetPurchase(c *gin.Context) {
	principal := middleware.GetPrincipal(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	purchase, err := h.entitlementService.GetPurchase(principal.UserID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"purchase": purchase})
}

// POST /purchases — owner is always the caller; the body cannot name another user
func (h *EntitlementHandler) CreatePurchase(c *gin.Context) {
	principal := middleware.GetPrincipal(c)

	var req services.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	purchase, err := h.entitlementService.CreatePurchase(principal.UserID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"purchase": purchase})
}

// GET /rentals
func (h *EntitlementHandler) ListRentals(c *gin.Context) {
	principal := middleware.GetPrincipal(c)

	rentals, err := h.entitlementService.ListRentals(principal.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"rentals": rentals})
}

// GET /rentals/:id
func (h *EntitlementHandler) GetRental(c *gin.Context) {
	principal := middleware.GetPrincipal(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	rental, err := h.entitlementService.GetRental(principal.UserID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"rental": rental})
}

// POST /rentals
func (h *EntitlementHandler) CreateRental(c *gin.Context) {
	principal := middleware.GetPrincipal(c)

	var req services.CreateRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	rental, err := h.entitlementService.CreateRental(principal.UserID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"rental": rental})
}
