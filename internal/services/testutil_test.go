// internal/services/testutil_test.go
package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/zaukho/zaukho-backend/internal/config"
	"github.com/zaukho/zaukho-backend/internal/models"
	"github.com/zaukho/zaukho-backend/internal/utils"
)

// newTestDB opens a fresh sqlite database migrated to the current schema. A
// temp file (cleaned up with the test) is used instead of shared-cache memory
// because shared-cache table locks reject reads from other pooled connections
// while a write transaction is open. TranslateError is on so duplicate-key
// detection behaves like the Postgres path.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", filepath.Join(t.TempDir(), "test.db"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Movie{},
		&models.TVSeries{},
		&models.Season{},
		&models.Episode{},
		&models.Purchase{},
		&models.Rental{},
	))

	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenTTL:  1,
			RefreshTokenTTL: 24,
		},
	}
}

// memoryTokenStore is the in-process stand-in for the Redis blacklist.
type memoryTokenStore struct {
	mtx     sync.Mutex
	revoked map[string]time.Time
}

func newMemoryTokenStore() *memoryTokenStore {
	return &memoryTokenStore{revoked: make(map[string]time.Time)}
}

func (s *memoryTokenStore) BlacklistToken(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.revoked[tokenID] = time.Now().Add(ttl)
	return nil
}

func (s *memoryTokenStore) IsTokenBlacklisted(_ context.Context, tokenID string) (bool, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	until, ok := s.revoked[tokenID]
	return ok && time.Now().Before(until), nil
}

// Seed helpers shared across the service tests.

func seedUser(t *testing.T, db *gorm.DB, username, email string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    email,
		UserType: models.UserTypeMember,
	}
	require.NoError(t, user.SetPassword("secret123"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedMovie(t *testing.T, db *gorm.DB, title string) *models.Movie {
	t.Helper()
	movie := &models.Movie{
		Title:           title,
		Description:     "a movie",
		ReleaseDate:     time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		DurationMinutes: 120,
		PriceBuy:        9.99,
		PriceRent:       3.99,
	}
	require.NoError(t, db.Create(movie).Error)
	return movie
}

func seedSeries(t *testing.T, db *gorm.DB, title string) (*models.TVSeries, *models.Season, *models.Episode) {
	t.Helper()
	series := &models.TVSeries{
		Title:       title,
		Description: "a series",
		ReleaseDate: time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(series).Error)

	season := &models.Season{
		TVSeriesID:   series.ID,
		SeasonNumber: 1,
		Title:        "Season 1",
		ReleaseDate:  time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC),
		PriceBuy:     19.99,
	}
	require.NoError(t, db.Create(season).Error)

	episode := &models.Episode{
		SeasonID:        season.ID,
		EpisodeNumber:   1,
		Title:           "Pilot",
		Description:     "first episode",
		DurationMinutes: 45,
		PriceRent:       1.99,
	}
	require.NoError(t, db.Create(episode).Error)

	return series, season, episode
}

func init() {
	utils.SetJWTSecret("test-secret")
}
