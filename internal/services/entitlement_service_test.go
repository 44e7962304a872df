// internal/services/entitlement_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaukho/zaukho-backend/internal/models"
)

func TestCreatePurchaseMovie(t *testing.T) {
	db := newTestDB(t)
	svc := NewEntitlementService(db)
	user := seedUser(t, db, "buyer", "buyer@example.com")
	movie := seedMovie(t, db, "Heat")

	before := time.Now()
	purchase, err := svc.CreatePurchase(user.ID, &CreatePurchaseRequest{
		ContentType: models.ContentTypeMovie,
		MovieID:     &movie.ID,
		Amount:      9.99,
	})
	require.NoError(t, err)

	assert.Equal(t, user.ID, purchase.UserID)
	assert.Equal(t, models.ContentTypeMovie, purchase.ContentType)
	require.NotNil(t, purchase.MovieID)
	assert.Equal(t, movie.ID, *purchase.MovieID)
	assert.Nil(t, purchase.SeasonID)
	assert.NotEmpty(t, purchase.TransactionID)
	assert.False(t, purchase.PurchaseDate.Before(before))
	require.NotNil(t, purchase.Movie)
	assert.Equal(t, "Heat", purchase.Movie.Title)
}

func TestCreatePurchaseSeason(t *testing.T) {
	db := newTestDB(t)
	svc := NewEntitlementService(db)
	user := seedUser(t, db, "buyer", "buyer@example.com")
	_, season, _ := seedSeries(t, db, "The Wire")

	purchase, err := svc.CreatePurchase(user.ID, &CreatePurchaseRequest{
		ContentType: models.ContentTypeSeason,
		SeasonID:    &season.ID,
		Amount:      19.99,
	})
	require.NoError(t, err)

	assert.Equal(t, models.ContentTypeSeason, purchase.ContentType)
	assert.Nil(t, purchase.MovieID)
	require.NotNil(t, purchase.SeasonID)
	assert.Equal(t, season.ID, *purchase.SeasonID)
}

func TestCreatePurchaseRefValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewEntitlementService(db)
	user := seedUser(t, db, "buyer", "buyer@example.com")
	movie := seedMovie(t, db, "Heat")
	_, season, _ := seedSeries(t, db, "The Wire")

	cases := []struct {
		name string
		req  CreatePurchaseRequest
	}{
		{"movie type with season id", CreatePurchaseRequest{
			ContentType: models.ContentTypeMovie, MovieID: &movie.ID, SeasonID: &season.ID, Amount: 9.99}},
		{"movie type without movie id", CreatePurchaseRequest{
			ContentType: models.ContentTypeMovie, Amount: 9.99}},
		{"season type with movie id", CreatePurchaseRequest{
			ContentType: models.ContentTypeSeason, MovieID: &movie.ID, SeasonID: &season.ID, Amount: 9.99}},
		{"episode type not purchasable", CreatePurchaseRequest{
			ContentType: models.ContentTypeEpisode, MovieID: &movie.ID, Amount: 9.99}},
		{"zero amount", CreatePurchaseRequest{
			ContentType: models.ContentTypeMovie, MovieID: &movie.ID}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreatePurchase(user.ID, &tc.req)
			var verrs ValidationErrors
			assert.ErrorAs(t, err, &verrs)
		})
	}

	var count int64
	db.Model(&models.Purchase{}).Count(&count)
	assert.Zero(t, count)
}

func TestCreatePurchaseMissingItem(t *testing.T) {
	db := newTestDB(t)
	svc := NewEntitlementService(db)
	user := seedUser(t, db, "buyer", "buyer@example.com")

	ghost := uuid.New()
	_, err := svc.CreatePurchase(user.ID, &CreatePurchaseRequest{
		ContentType: models.ContentTypeMovie,
		MovieID:     &ghost,
		Amount:      9.99,
	})

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "movie", verrs[0].Field)
}

func TestDuplicatePurchasesAllowed(t *testing.T) {
	db := newTestDB(t)
	svc := NewEntitlementService(db)
	user := seedUser(t, db, "buyer", "buyer@example.com")
	movie := seedMovie(t, db, "Heat")

	req := &CreatePurchaseRequest{
		ContentType: models.ContentTypeMovie,
		MovieID:     &movie.ID,
		Amount:      9.99,
	}

	first, err := svc.CreatePurchase(user.ID, req)
	require.NoError(t, err)
	second, err := svc.CreatePurchase(user.ID, req)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.NotEqual(t, first.TransactionID, second.TransactionID)
}

func TestTransactionIDsUnique(t *testing.T) {
	db := newTestDB(t)
	svc := NewEntitlementService(db)
	user := seedUser(t, db, "buyer", "buyer@example.com")
	movie := seedMovie(t, db, "Heat")

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		purchase, err := svc.CreatePurchase(user.ID, &CreatePurchaseRequest{
			ContentType: models.ContentTypeMovie,
			MovieID:     &movie.ID,
			Amount:      9.99,
		})
		require.NoError(t, err)
		assert.False(t, seen[purchase.TransactionID], "transaction id reused")
		seen[purchase.TransactionID] = true
	}
}

func TestCreateRentalExpiryWindow(t *testing.T) {
	db := newTestDB(t)
	svc := NewEntitlementService(db)
	user := seedUser(t, db, "renter", "renter@example.com")
	movie := seedMovie(t, db, "Heat")

	rental, err := svc.CreateRental(user.ID, &CreateRentalRequest{
		ContentType: models.ContentTypeMovie,
		MovieID:     &movie.ID,
		Amount:      3.99,
	})
	require.NoError(t, err)

	assert.Equal(t, rental.RentalDate.Add(models.RentalWindow), rental.ExpiryDate)
	assert.True(t, rental.Active(time.Now()))
	assert.False(t, rental.Active(rental.ExpiryDate))
}

func TestCreateRentalEpisode(t *testing.T) {
	db := newTestDB(t)
	svc := NewEntitlementService(db)
	user := seedUser(t, db, "renter", "renter@example.com")
	_, _, episode := seedSeries(t, db, "The Wire")

	rental, err := svc.CreateRental(user.ID, &CreateRentalRequest{
		ContentType: models.ContentTypeEpisode,
		EpisodeID:   &episode.ID,
		Amount:      1.99,
	})
	require.NoError(t, err)

	assert.Equal(t, models.ContentTypeEpisode, rental.ContentType)
	assert.Nil(t, rental.MovieID)
	require.NotNil(t, rental.EpisodeID)
	assert.Equal(t, episode.ID, *rental.EpisodeID)
	require.NotNil(t, rental.Episode)
	assert.Equal(t, "Pilot", rental.Episode.Title)
}

func TestCreateRentalRefValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewEntitlementService(db)
	user := seedUser(t, db, "renter", "renter@example.com")
	_, season, episode := seedSeries(t, db, "The Wire")

	// Seasons are purchase-only
	seasonID := season.ID
	_, err := svc.CreateRental(user.ID, &CreateRentalRequest{
		ContentType: models.ContentTypeSeason,
		EpisodeID:   &seasonID,
		Amount:      1.99,
	})
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)

	// Both ids set
	movie := seedMovie(t, db, "Heat")
	_, err = svc.CreateRental(user.ID, &CreateRentalRequest{
		ContentType: models.ContentTypeMovie,
		MovieID:     &movie.ID,
		EpisodeID:   &episode.ID,
		Amount:      1.99,
	})
	require.ErrorAs(t, err, &verrs)
}

func TestOwnerIsolation(t *testing.T) {
	db := newTestDB(t)
	svc := NewEntitlementService(db)
	alice := seedUser(t, db, "alice", "alice@example.com")
	bob := seedUser(t, db, "bob", "bob@example.com")
	movie := seedMovie(t, db, "Heat")

	purchase, err := svc.CreatePurchase(alice.ID, &CreatePurchaseRequest{
		ContentType: models.ContentTypeMovie,
		MovieID:     &movie.ID,
		Amount:      9.99,
	})
	require.NoError(t, err)

	// Bob cannot see Alice's row, by id or in lists
	_, err = svc.GetPurchase(bob.ID, purchase.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	bobPurchases, err := svc.ListPurchases(bob.ID)
	require.NoError(t, err)
	assert.Empty(t, bobPurchases)

	alicePurchases, err := svc.ListPurchases(alice.ID)
	require.NoError(t, err)
	assert.Len(t, alicePurchases, 1)
}

func TestListPurchasesNewestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := NewEntitlementService(db)
	user := seedUser(t, db, "buyer", "buyer@example.com")
	movie := seedMovie(t, db, "Heat")

	older := models.NewPurchase(user.ID,
		mustPurchaseRef(t, models.ContentTypeMovie, movie.ID), 9.99, "txn-older", time.Now().Add(-time.Hour))
	require.NoError(t, db.Create(older).Error)
	require.NoError(t, db.Model(older).UpdateColumn("created_at", time.Now().Add(-time.Hour)).Error)

	newer, err := svc.CreatePurchase(user.ID, &CreatePurchaseRequest{
		ContentType: models.ContentTypeMovie,
		MovieID:     &movie.ID,
		Amount:      9.99,
	})
	require.NoError(t, err)

	purchases, err := svc.ListPurchases(user.ID)
	require.NoError(t, err)
	require.Len(t, purchases, 2)
	assert.Equal(t, newer.ID, purchases[0].ID)
	assert.Equal(t, older.ID, purchases[1].ID)
}

func TestActiveEntitlementsExcludesExpiredRentals(t *testing.T) {
	db := newTestDB(t)
	svc := NewEntitlementService(db)
	user := seedUser(t, db, "renter", "renter@example.com")
	movie := seedMovie(t, db, "Heat")
	_, _, episode := seedSeries(t, db, "The Wire")

	expired, err := svc.CreateRental(user.ID, &CreateRentalRequest{
		ContentType: models.ContentTypeMovie,
		MovieID:     &movie.ID,
		Amount:      3.99,
	})
	require.NoError(t, err)
	// Push the window into the past
	require.NoError(t, db.Model(&models.Rental{}).
		Where("id = ?", expired.ID).
		UpdateColumn("expiry_date", time.Now().Add(-time.Minute)).Error)

	active, err := svc.CreateRental(user.ID, &CreateRentalRequest{
		ContentType: models.ContentTypeEpisode,
		EpisodeID:   &episode.ID,
		Amount:      1.99,
	})
	require.NoError(t, err)

	purchase, err := svc.CreatePurchase(user.ID, &CreatePurchaseRequest{
		ContentType: models.ContentTypeMovie,
		MovieID:     &movie.ID,
		Amount:      9.99,
	})
	require.NoError(t, err)

	purchases, rentals, err := svc.ActiveEntitlements(user.ID)
	require.NoError(t, err)
	require.Len(t, purchases, 1)
	assert.Equal(t, purchase.ID, purchases[0].ID)
	require.Len(t, rentals, 1)
	assert.Equal(t, active.ID, rentals[0].ID)

	// The expired rental stays visible in plain history
	history, err := svc.ListRentals(user.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestPurchaseSurvivesMovieDeletion(t *testing.T) {
	db := newTestDB(t)
	entitlements := NewEntitlementService(db)
	catalog := NewCatalogService(db)
	user := seedUser(t, db, "buyer", "buyer@example.com")
	movie := seedMovie(t, db, "Heat")

	purchase, err := entitlements.CreatePurchase(user.ID, &CreatePurchaseRequest{
		ContentType: models.ContentTypeMovie,
		MovieID:     &movie.ID,
		Amount:      9.99,
	})
	require.NoError(t, err)

	require.NoError(t, catalog.DeleteMovie(movie.ID))

	var kept models.Purchase
	require.NoError(t, db.First(&kept, "id = ?", purchase.ID).Error)
	assert.Nil(t, kept.MovieID)
	assert.Equal(t, models.ContentTypeMovie, kept.ContentType)
	assert.Equal(t, purchase.TransactionID, kept.TransactionID)
}

func mustPurchaseRef(t *testing.T, ct models.ContentType, id uuid.UUID) models.ContentRef {
	t.Helper()
	ref, err := models.PurchaseRef(ct, id)
	require.NoError(t, err)
	return ref
}
