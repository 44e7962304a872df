// internal/services/series_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zaukho/zaukho-backend/internal/database"
	"github.com/zaukho/zaukho-backend/internal/models"
	"github.com/zaukho/zaukho-backend/internal/utils"
)

// SeriesService owns TV series with their seasons and episodes. Parent deletes
// cascade down the tree; entitlement references are nulled, never cascaded.
type SeriesService struct {
	db *gorm.DB
}

func NewSeriesService(db *gorm.DB) *SeriesService {
	return &SeriesService{db: db}
}

type CreateTVSeriesRequest struct {
	Title       string      `json:"title" validate:"required,max=200"`
	Description string      `json:"description" validate:"required"`
	ReleaseDate string      `json:"release_date" validate:"required,datetime=2006-01-02"`
	TrailerURL  string      `json:"trailer_url,omitempty" validate:"omitempty,url"`
	IsFeatured  bool        `json:"is_featured"`
	CategoryIDs []uuid.UUID `json:"category_ids,omitempty"`
}

type UpdateTVSeriesRequest struct {
	Title       *string      `json:"title,omitempty" validate:"omitempty,max=200"`
	Description *string      `json:"description,omitempty"`
	ReleaseDate *string      `json:"release_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	TrailerURL  *string      `json:"trailer_url,omitempty" validate:"omitempty,url"`
	IsFeatured  *bool        `json:"is_featured,omitempty"`
	CategoryIDs *[]uuid.UUID `json:"category_ids,omitempty"`
}

type CreateSeasonRequest struct {
	TVSeriesID   uuid.UUID `json:"tv_series_id" validate:"required"`
	SeasonNumber int       `json:"season_number" validate:"required,gt=0"`
	Title        string    `json:"title,omitempty" validate:"omitempty,max=200"`
	ReleaseDate  string    `json:"release_date" validate:"required,datetime=2006-01-02"`
	PriceBuy     float64   `json:"price_buy" validate:"required,gt=0"`
}

type UpdateSeasonRequest struct {
	SeasonNumber *int     `json:"season_number,omitempty" validate:"omitempty,gt=0"`
	Title        *string  `json:"title,omitempty" validate:"omitempty,max=200"`
	ReleaseDate  *string  `json:"release_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	PriceBuy     *float64 `json:"price_buy,omitempty" validate:"omitempty,gt=0"`
}

type CreateEpisodeRequest struct {
	SeasonID        uuid.UUID `json:"season_id" validate:"required"`
	EpisodeNumber   int       `json:"episode_number" validate:"required,gt=0"`
	Title           string    `json:"title" validate:"required,max=200"`
	Description     string    `json:"description" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"required,gt=0"`
	PriceRent       float64   `json:"price_rent" validate:"required,gt=0"`
}

type UpdateEpisodeRequest struct {
	EpisodeNumber   *int     `json:"episode_number,omitempty" validate:"omitempty,gt=0"`
	Title           *string  `json:"title,omitempty" validate:"omitempty,max=200"`
	Description     *string  `json:"description,omitempty"`
	DurationMinutes *int     `json:"duration_minutes,omitempty" validate:"omitempty,gt=0"`
	PriceRent       *float64 `json:"price_rent,omitempty" validate:"omitempty,gt=0"`
}

type TVSeriesFilters struct {
	utils.PaginationParams
	CategoryID *uuid.UUID
	Featured   *bool
}

// TV Series

func (s *SeriesService) ListTVSeries(filters TVSeriesFilters) ([]models.TVSeries, int64, error) {
	query := s.db.Model(&models.TVSeries{})

	if filters.CategoryID != nil {
		query = query.
			Joins("JOIN tv_series_categories ON tv_series_categories.tv_series_id = tv_series.id").
			Where("tv_series_categories.category_id = ?", *filters.CategoryID)
	}
	if filters.Featured != nil {
		query = query.Where("is_featured = ?", *filters.Featured)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("database error: %w", err)
	}

	var series []models.TVSeries
	query = utils.ApplySort(query, filters.PaginationParams, []string{"created_at", "title", "release_date"})
	query = utils.ApplyPagination(query, filters.PaginationParams)
	if err := query.Preload("Categories").Find(&series).Error; err != nil {
		return nil, 0, fmt.Errorf("database error: %w", err)
	}

	return series, total, nil
}

// GetTVSeries returns the series with categories and the full season/episode
// tree embedded, ordered by season and episode number.
func (s *SeriesService) GetTVSeries(id uuid.UUID) (*models.TVSeries, error) {
	var series models.TVSeries
	err := s.db.
		Preload("Categories").
		Preload("Seasons", func(db *gorm.DB) *gorm.DB {
			return db.Order("seasons.season_number ASC")
		}).
		Preload("Seasons.Episodes", func(db *gorm.DB) *gorm.DB {
			return db.Order("episodes.episode_number ASC")
		}).
		First(&series, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &series, nil
}

func (s *SeriesService) CreateTVSeries(req *CreateTVSeriesRequest) (*models.TVSeries, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationErrorsFrom(err)
	}

	releaseDate, err := time.Parse(dateLayout, req.ReleaseDate)
	if err != nil {
		return nil, fieldError("release_date", "must be a YYYY-MM-DD date")
	}

	var categories []models.Category
	if len(req.CategoryIDs) > 0 {
		if err := s.db.Where("id IN ?", req.CategoryIDs).Find(&categories).Error; err != nil {
			return nil, fmt.Errorf("database error: %w", err)
		}
		if len(categories) != len(req.CategoryIDs) {
			return nil, fieldError("category_ids", "one or more categories do not exist")
		}
	}

	series := &models.TVSeries{
		Title:       req.Title,
		Description: req.Description,
		ReleaseDate: releaseDate,
		TrailerURL:  req.TrailerURL,
		IsFeatured:  req.IsFeatured,
		Categories:  categories,
	}

	if err := s.db.Create(series).Error; err != nil {
		return nil, fmt.Errorf("failed to create tv series: %w", err)
	}
	return series, nil
}

func (s *SeriesService) UpdateTVSeries(id uuid.UUID, req *UpdateTVSeriesRequest) (*models.TVSeries, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationErrorsFrom(err)
	}

	var series models.TVSeries
	if err := s.db.First(&series, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if req.Title != nil {
		series.Title = *req.Title
	}
	if req.Description != nil {
		series.Description = *req.Description
	}
	if req.ReleaseDate != nil {
		releaseDate, err := time.Parse(dateLayout, *req.ReleaseDate)
		if err != nil {
			return nil, fieldError("release_date", "must be a YYYY-MM-DD date")
		}
		series.ReleaseDate = releaseDate
	}
	if req.TrailerURL != nil {
		series.TrailerURL = *req.TrailerURL
	}
	if req.IsFeatured != nil {
		series.IsFeatured = *req.IsFeatured
	}

	return &series, database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Save(&series).Error; err != nil {
			return fmt.Errorf("failed to update tv series: %w", err)
		}
		if req.CategoryIDs != nil {
			var categories []models.Category
			if len(*req.CategoryIDs) > 0 {
				if err := tx.Where("id IN ?", *req.CategoryIDs).Find(&categories).Error; err != nil {
					return fmt.Errorf("database error: %w", err)
				}
				if len(categories) != len(*req.CategoryIDs) {
					return fieldError("category_ids", "one or more categories do not exist")
				}
			}
			if err := tx.Model(&series).Association("Categories").Replace(categories); err != nil {
				return fmt.Errorf("failed to update categories: %w", err)
			}
			series.Categories = categories
		}
		return nil
	})
}

// DeleteTVSeries cascades through seasons and episodes while nulling any
// entitlement references to them.
func (s *SeriesService) DeleteTVSeries(id uuid.UUID) error {
	var series models.TVSeries
	if err := s.db.First(&series, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}

	return database.WithTransaction(s.db, func(tx *gorm.DB) error {
		seasonIDs := tx.Model(&models.Season{}).Select("id").Where("tv_series_id = ?", id)
		episodeIDs := tx.Model(&models.Episode{}).Select("id").Where("season_id IN (?)", seasonIDs)

		if err := tx.Model(&models.Rental{}).Where("episode_id IN (?)", episodeIDs).
			Update("episode_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach rentals: %w", err)
		}
		if err := tx.Model(&models.Purchase{}).Where("season_id IN (?)", seasonIDs).
			Update("season_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach purchases: %w", err)
		}
		if err := tx.Where("season_id IN (?)", seasonIDs).Delete(&models.Episode{}).Error; err != nil {
			return fmt.Errorf("failed to delete episodes: %w", err)
		}
		if err := tx.Where("tv_series_id = ?", id).Delete(&models.Season{}).Error; err != nil {
			return fmt.Errorf("failed to delete seasons: %w", err)
		}
		if err := tx.Model(&series).Association("Categories").Clear(); err != nil {
			return fmt.Errorf("failed to detach categories: %w", err)
		}
		if err := tx.Delete(&series).Error; err != nil {
			return fmt.Errorf("failed to delete tv series: %w", err)
		}
		return nil
	})
}

// SetTVSeriesPoster stores the uploaded poster URL on the series row.
func (s *SeriesService) SetTVSeriesPoster(id uuid.UUID, url string) (*models.TVSeries, error) {
	var series models.TVSeries
	if err := s.db.First(&series, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	series.Poster = url
	if err := s.db.Save(&series).Error; err != nil {
		return nil, fmt.Errorf("failed to update tv series poster: %w", err)
	}
	return &series, nil
}

// Seasons

func (s *SeriesService) ListSeasons(tvSeriesID *uuid.UUID, params utils.PaginationParams) ([]models.Season, int64, error) {
	query := s.db.Model(&models.Season{})
	if tvSeriesID != nil {
		query = query.Where("tv_series_id = ?", *tvSeriesID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("database error: %w", err)
	}

	var seasons []models.Season
	query = query.Order("season_number ASC")
	if err := utils.ApplyPagination(query, params).Find(&seasons).Error; err != nil {
		return nil, 0, fmt.Errorf("database error: %w", err)
	}
	return seasons, total, nil
}

func (s *SeriesService) GetSeason(id uuid.UUID) (*models.Season, error) {
	var season models.Season
	err := s.db.
		Preload("Episodes", func(db *gorm.DB) *gorm.DB {
			return db.Order("episodes.episode_number ASC")
		}).
		First(&season, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &season, nil
}

func (s *SeriesService) CreateSeason(req *CreateSeasonRequest) (*models.Season, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationErrorsFrom(err)
	}

	releaseDate, err := time.Parse(dateLayout, req.ReleaseDate)
	if err != nil {
		return nil, fieldError("release_date", "must be a YYYY-MM-DD date")
	}

	var series models.TVSeries
	if err := s.db.First(&series, "id = ?", req.TVSeriesID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fieldError("tv_series_id", "tv series does not exist")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	season := &models.Season{
		TVSeriesID:   req.TVSeriesID,
		SeasonNumber: req.SeasonNumber,
		Title:        req.Title,
		ReleaseDate:  releaseDate,
		PriceBuy:     req.PriceBuy,
	}

	if err := s.db.Create(season).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to create season: %w", err)
	}
	return season, nil
}

func (s *SeriesService) UpdateSeason(id uuid.UUID, req *UpdateSeasonRequest) (*models.Season, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationErrorsFrom(err)
	}

	var season models.Season
	if err := s.db.First(&season, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if req.SeasonNumber != nil {
		season.SeasonNumber = *req.SeasonNumber
	}
	if req.Title != nil {
		season.Title = *req.Title
	}
	if req.ReleaseDate != nil {
		releaseDate, err := time.Parse(dateLayout, *req.ReleaseDate)
		if err != nil {
			return nil, fieldError("release_date", "must be a YYYY-MM-DD date")
		}
		season.ReleaseDate = releaseDate
	}
	if req.PriceBuy != nil {
		season.PriceBuy = *req.PriceBuy
	}

	if err := s.db.Save(&season).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to update season: %w", err)
	}
	return &season, nil
}

// DeleteSeason cascades to the season's episodes; entitlement rows that point
// at the season or its episodes keep their content_type with the id nulled.
func (s *SeriesService) DeleteSeason(id uuid.UUID) error {
	var season models.Season
	if err := s.db.First(&season, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}

	return database.WithTransaction(s.db, func(tx *gorm.DB) error {
		episodeIDs := tx.Model(&models.Episode{}).Select("id").Where("season_id = ?", id)

		if err := tx.Model(&models.Rental{}).Where("episode_id IN (?)", episodeIDs).
			Update("episode_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach rentals: %w", err)
		}
		if err := tx.Model(&models.Purchase{}).Where("season_id = ?", id).
			Update("season_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach purchases: %w", err)
		}
		if err := tx.Where("season_id = ?", id).Delete(&models.Episode{}).Error; err != nil {
			return fmt.Errorf("failed to delete episodes: %w", err)
		}
		if err := tx.Delete(&season).Error; err != nil {
			return fmt.Errorf("failed to delete season: %w", err)
		}
		return nil
	})
}

// Episodes

func (s *SeriesService) ListEpisodes(seasonID *uuid.UUID, params utils.PaginationParams) ([]models.Episode, int64, error) {
	query := s.db.Model(&models.Episode{})
	if seasonID != nil {
		query = query.Where("season_id = ?", *seasonID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("database error: %w", err)
	}

	var episodes []models.Episode
	query = query.Order("episode_number ASC")
	if err := utils.ApplyPagination(query, params).Find(&episodes).Error; err != nil {
		return nil, 0, fmt.Errorf("database error: %w", err)
	}
	return episodes, total, nil
}

func (s *SeriesService) GetEpisode(id uuid.UUID) (*models.Episode, error) {
	var episode models.Episode
	if err := s.db.First(&episode, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &episode, nil
}

func (s *SeriesService) CreateEpisode(req *CreateEpisodeRequest) (*models.Episode, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationErrorsFrom(err)
	}

	var season models.Season
	if err := s.db.First(&season, "id = ?", req.SeasonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fieldError("season_id", "season does not exist")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	episode := &models.Episode{
		SeasonID:        req.SeasonID,
		EpisodeNumber:   req.EpisodeNumber,
		Title:           req.Title,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		PriceRent:       req.PriceRent,
	}

	if err := s.db.Create(episode).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to create episode: %w", err)
	}
	return episode, nil
}

func (s *SeriesService) UpdateEpisode(id uuid.UUID, req *UpdateEpisodeRequest) (*models.Episode, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationErrorsFrom(err)
	}

	episode, err := s.GetEpisode(id)
	if err != nil {
		return nil, err
	}

	if req.EpisodeNumber != nil {
		episode.EpisodeNumber = *req.EpisodeNumber
	}
	if req.Title != nil {
		episode.Title = *req.Title
	}
	if req.Description != nil {
		episode.Description = *req.Description
	}
	if req.DurationMinutes != nil {
		episode.DurationMinutes = *req.DurationMinutes
	}
	if req.PriceRent != nil {
		episode.PriceRent = *req.PriceRent
	}

	if err := s.db.Save(episode).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to update episode: %w", err)
	}
	return episode, nil
}

func (s *SeriesService) DeleteEpisode(id uuid.UUID) error {
	episode, err := s.GetEpisode(id)
	if err != nil {
		return err
	}

	return database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Model(&models.Rental{}).Where("episode_id = ?", id).
			Update("episode_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach rentals: %w", err)
		}
		if err := tx.Delete(episode).Error; err != nil {
			return fmt.Errorf("failed to delete episode: %w", err)
		}
		return nil
	})
}

// SetEpisodeVideo stores the uploaded video URL on the episode row.
func (s *SeriesService) SetEpisodeVideo(id uuid.UUID, url string) (*models.Episode, error) {
	episode, err := s.GetEpisode(id)
	if err != nil {
		return nil, err
	}
	episode.VideoRef = url
	if err := s.db.Save(episode).Error; err != nil {
		return nil, fmt.Errorf("failed to update episode video: %w", err)
	}
	return episode, nil
}
