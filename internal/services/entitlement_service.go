// internal/services/entitlement_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zaukho/zaukho-backend/internal/models"
	"github.com/zaukho/zaukho-backend/internal/utils"
)

// EntitlementService is the ledger of purchase and rental facts. Rows are
// append-only through this API: nothing updates or deletes them, and catalog
// edits only ever null their references.
type EntitlementService struct {
	db *gorm.DB
}

func NewEntitlementService(db *gorm.DB) *EntitlementService {
	return &EntitlementService{db: db}
}

// The user, transaction id and timestamps are always server-assigned; the
// request carries only what the client may choose.
type CreatePurchaseRequest struct {
	ContentType models.ContentType `json:"content_type" validate:"required,oneof=movie season"`
	MovieID     *uuid.UUID         `json:"movie_id,omitempty"`
	SeasonID    *uuid.UUID         `json:"season_id,omitempty"`
	Amount      float64            `json:"amount" validate:"required,gt=0"`
}

type CreateRentalRequest struct {
	ContentType models.ContentType `json:"content_type" validate:"required,oneof=movie episode"`
	MovieID     *uuid.UUID         `json:"movie_id,omitempty"`
	EpisodeID   *uuid.UUID         `json:"episode_id,omitempty"`
	Amount      float64            `json:"amount" validate:"required,gt=0"`
}

func (s *EntitlementService) CreatePurchase(userID uuid.UUID, req *CreatePurchaseRequest) (*models.Purchase, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationErrorsFrom(err)
	}

	ref, err := purchaseRefFromRequest(req)
	if err != nil {
		return nil, err
	}

	if err := s.checkItemExists(ref); err != nil {
		return nil, err
	}

	// Note: a user may purchase the same item any number of times; each call
	// appends an independent ledger row. A dedup check would go here if product
	// ever wants one.
	now := time.Now()
	purchase := models.NewPurchase(userID, ref, req.Amount, utils.GenerateTransactionID(), now)

	if err := s.createWithRetry(purchase, func() {
		purchase.TransactionID = utils.GenerateTransactionID()
	}); err != nil {
		return nil, err
	}

	s.preloadPurchase(purchase)
	return purchase, nil
}

func (s *EntitlementService) CreateRental(userID uuid.UUID, req *CreateRentalRequest) (*models.Rental, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationErrorsFrom(err)
	}

	ref, err := rentalRefFromRequest(req)
	if err != nil {
		return nil, err
	}

	if err := s.checkItemExists(ref); err != nil {
		return nil, err
	}

	// Expiry is rental_date + RentalWindow, fixed at creation. Any expiry the
	// client sent was discarded at binding time.
	now := time.Now()
	rental := models.NewRental(userID, ref, req.Amount, utils.GenerateTransactionID(), now)

	if err := s.createWithRetry(rental, func() {
		rental.TransactionID = utils.GenerateTransactionID()
	}); err != nil {
		return nil, err
	}

	s.preloadRental(rental)
	return rental, nil
}

// ListPurchases returns the caller's purchases, most recent first. Rows of
// other users are never reachable through this API.
func (s *EntitlementService) ListPurchases(userID uuid.UUID) ([]models.Purchase, error) {
	var purchases []models.Purchase
	err := s.db.
		Preload("Movie").Preload("Season").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&purchases).Error
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return purchases, nil
}

// ListRentals returns the caller's rentals, most recent first, including
// expired ones for history/receipt purposes.
func (s *EntitlementService) ListRentals(userID uuid.UUID) ([]models.Rental, error) {
	var rentals []models.Rental
	err := s.db.
		Preload("Movie").Preload("Episode").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rentals).Error
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return rentals, nil
}

func (s *EntitlementService) GetPurchase(userID, id uuid.UUID) (*models.Purchase, error) {
	var purchase models.Purchase
	err := s.db.
		Preload("Movie").Preload("Season").
		First(&purchase, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &purchase, nil
}

func (s *EntitlementService) GetRental(userID, id uuid.UUID) (*models.Rental, error) {
	var rental models.Rental
	err := s.db.
		Preload("Movie").Preload("Episode").
		First(&rental, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &rental, nil
}

// ActiveEntitlements returns every purchase (purchases never expire) plus the
// rentals whose expiry is still in the future. Expired rentals are excluded
// here, not deleted; ListRentals still shows them.
func (s *EntitlementService) ActiveEntitlements(userID uuid.UUID) ([]models.Purchase, []models.Rental, error) {
	purchases, err := s.ListPurchases(userID)
	if err != nil {
		return nil, nil, err
	}

	var rentals []models.Rental
	err = s.db.
		Preload("Movie").Preload("Episode").
		Where("user_id = ? AND expiry_date > ?", userID, time.Now()).
		Order("created_at DESC").
		Find(&rentals).Error
	if err != nil {
		return nil, nil, fmt.Errorf("database error: %w", err)
	}

	return purchases, rentals, nil
}

// createWithRetry writes the row, regenerating the transaction id once if the
// unique index reports a collision; a second collision surfaces as a conflict.
func (s *EntitlementService) createWithRetry(row interface{}, regenerate func()) error {
	err := s.db.Create(row).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("failed to record entitlement: %w", err)
	}

	regenerate()
	if err := s.db.Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrConflict
		}
		return fmt.Errorf("failed to record entitlement: %w", err)
	}
	return nil
}

// checkItemExists resolves the ref against the catalog at call time.
func (s *EntitlementService) checkItemExists(ref models.ContentRef) error {
	var count int64
	var err error

	switch ref.ContentType() {
	case models.ContentTypeMovie:
		err = s.db.Model(&models.Movie{}).Where("id = ?", ref.ID()).Count(&count).Error
	case models.ContentTypeSeason:
		err = s.db.Model(&models.Season{}).Where("id = ?", ref.ID()).Count(&count).Error
	case models.ContentTypeEpisode:
		err = s.db.Model(&models.Episode{}).Where("id = ?", ref.ID()).Count(&count).Error
	default:
		return fieldError("content_type", "unknown content type")
	}

	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if count == 0 {
		return fieldError(string(ref.ContentType()), fmt.Sprintf("%s does not exist", ref.ContentType()))
	}
	return nil
}

func purchaseRefFromRequest(req *CreatePurchaseRequest) (models.ContentRef, error) {
	switch req.ContentType {
	case models.ContentTypeMovie:
		if req.SeasonID != nil {
			return models.ContentRef{}, fieldError("season_id", "must not be set for a movie purchase")
		}
		if req.MovieID == nil {
			return models.ContentRef{}, fieldError("movie_id", "required for a movie purchase")
		}
		return refOrValidationError(models.PurchaseRef(req.ContentType, *req.MovieID))
	case models.ContentTypeSeason:
		if req.MovieID != nil {
			return models.ContentRef{}, fieldError("movie_id", "must not be set for a season purchase")
		}
		if req.SeasonID == nil {
			return models.ContentRef{}, fieldError("season_id", "required for a season purchase")
		}
		return refOrValidationError(models.PurchaseRef(req.ContentType, *req.SeasonID))
	default:
		return models.ContentRef{}, fieldError("content_type", "must be movie or season")
	}
}

func rentalRefFromRequest(req *CreateRentalRequest) (models.ContentRef, error) {
	switch req.ContentType {
	case models.ContentTypeMovie:
		if req.EpisodeID != nil {
			return models.ContentRef{}, fieldError("episode_id", "must not be set for a movie rental")
		}
		if req.MovieID == nil {
			return models.ContentRef{}, fieldError("movie_id", "required for a movie rental")
		}
		return refOrValidationError(models.RentalRef(req.ContentType, *req.MovieID))
	case models.ContentTypeEpisode:
		if req.MovieID != nil {
			return models.ContentRef{}, fieldError("movie_id", "must not be set for an episode rental")
		}
		if req.EpisodeID == nil {
			return models.ContentRef{}, fieldError("episode_id", "required for an episode rental")
		}
		return refOrValidationError(models.RentalRef(req.ContentType, *req.EpisodeID))
	default:
		return models.ContentRef{}, fieldError("content_type", "must be movie or episode")
	}
}

func refOrValidationError(ref models.ContentRef, err error) (models.ContentRef, error) {
	if err != nil {
		return models.ContentRef{}, fieldError("content_type", err.Error())
	}
	return ref, nil
}

func (s *EntitlementService) preloadPurchase(p *models.Purchase) {
	s.db.Preload("Movie").Preload("Season").First(p, "id = ?", p.ID)
}

func (s *EntitlementService) preloadRental(r *models.Rental) {
	s.db.Preload("Movie").Preload("Episode").First(r, "id = ?", r.ID)
}
