// internal/services/library_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaukho/zaukho-backend/internal/models"
)

func TestGetLibraryEmpty(t *testing.T) {
	db := newTestDB(t)
	svc := NewLibraryService(NewEntitlementService(db))
	user := seedUser(t, db, "viewer", "viewer@example.com")

	library, err := svc.GetLibrary(user.ID)
	require.NoError(t, err)

	// Empty slices, never nil, so the JSON shows [] instead of null
	assert.NotNil(t, library.Purchases)
	assert.NotNil(t, library.Rentals)
	assert.Empty(t, library.Purchases)
	assert.Empty(t, library.Rentals)
}

func TestGetLibraryCombinesEntitlements(t *testing.T) {
	db := newTestDB(t)
	entitlements := NewEntitlementService(db)
	svc := NewLibraryService(entitlements)
	user := seedUser(t, db, "viewer", "viewer@example.com")
	movie := seedMovie(t, db, "Heat")
	_, _, episode := seedSeries(t, db, "The Wire")

	_, err := entitlements.CreatePurchase(user.ID, &CreatePurchaseRequest{
		ContentType: models.ContentTypeMovie,
		MovieID:     &movie.ID,
		Amount:      9.99,
	})
	require.NoError(t, err)

	activeRental, err := entitlements.CreateRental(user.ID, &CreateRentalRequest{
		ContentType: models.ContentTypeEpisode,
		EpisodeID:   &episode.ID,
		Amount:      1.99,
	})
	require.NoError(t, err)

	expiredRental, err := entitlements.CreateRental(user.ID, &CreateRentalRequest{
		ContentType: models.ContentTypeMovie,
		MovieID:     &movie.ID,
		Amount:      3.99,
	})
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.Rental{}).
		Where("id = ?", expiredRental.ID).
		UpdateColumn("expiry_date", time.Now().Add(-time.Hour)).Error)

	library, err := svc.GetLibrary(user.ID)
	require.NoError(t, err)

	require.Len(t, library.Purchases, 1)
	require.Len(t, library.Rentals, 1)
	assert.Equal(t, activeRental.ID, library.Rentals[0].ID)
}
