// internal/services/library_service.go
package services

import (
	"github.com/google/uuid"

	"github.com/zaukho/zaukho-backend/internal/models"
)

// LibraryService composes a user's current entitlements into a single view.
// It owns no state; it is a read-only layer over the entitlement ledger.
type LibraryService struct {
	entitlements *EntitlementService
}

type Library struct {
	Purchases []models.Purchase `json:"purchases"`
	Rentals   []models.Rental   `json:"rentals"`
}

func NewLibraryService(entitlements *EntitlementService) *LibraryService {
	return &LibraryService{entitlements: entitlements}
}

// GetLibrary returns all purchases plus only the active rentals.
func (s *LibraryService) GetLibrary(userID uuid.UUID) (*Library, error) {
	purchases, rentals, err := s.entitlements.ActiveEntitlements(userID)
	if err != nil {
		return nil, err
	}

	if purchases == nil {
		purchases = []models.Purchase{}
	}
	if rentals == nil {
		rentals = []models.Rental{}
	}

	return &Library{
		Purchases: purchases,
		Rentals:   rentals,
	}, nil
}
