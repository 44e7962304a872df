// internal/services/catalog_service.go
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

// CatalogService owns categories and movies. Writes are admin-gated at the
// policy layer; nothing here deletes or edits entitlement ledger rows beyond
// nulling their catalog references.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

const dateLayout = "2006-01-02"

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description,omitempty"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Description *string `json:"description,omitempty"`
}

type CreateMovieRequest struct {
	Title           string      `json:"title" validate:"required,max=200"`
	Description     string      `json:"description" validate:"required"`
	ReleaseDate     string      `json:"release_date" validate:"required,datetime=2006-01-02"`
	DurationMinutes int         `json:"duration_minutes" validate:"required,gt=0"`
	TrailerURL      string      `json:"trailer_url,omitempty" validate:"omitempty,url"`
	PriceBuy        float64     `json:"price_buy" validate:"required,gt=0"`
	PriceRent       float64     `json:"price_rent" validate:"required,gt=0"`
	IsFeatured      bool        `json:"is_featured"`
	CategoryIDs     []uuid.UUID `json:"category_ids,omitempty"`
}

type UpdateMovieRequest struct {
	Title           *string      `json:"title,omitempty" validate:"omitempty,max=200"`
	Description     *string      `json:"description,omitempty"`
	ReleaseDate     *string      `json:"release_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DurationMinutes *int         `json:"duration_minutes,omitempty" validate:"omitempty,gt=0"`
	TrailerURL      *string      `json:"trailer_url,omitempty" validate:"omitempty,url"`
	PriceBuy        *float64     `json:"price_buy,omitempty" validate:"omitempty,gt=0"`
	PriceRent       *float64     `json:"price_rent,omitempty" validate:"omitempty,gt=0"`
	IsFeatured      *bool        `json:"is_featured,omitempty"`
	CategoryIDs     *[]uuid.UUID `json:"category_ids,omitempty"`
}

type MovieFilters struct {
	utils.PaginationParams
	CategoryID *uuid.UUID
	Featured   *bool
}

// Categories

func (s *CatalogService) ListCategories(params utils.PaginationParams) ([]models.Category, int64, error) {
	var categories []models.Category
	var total int64

	query := s.db.Model(&models.Category{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("database error: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "name"})
	if err := utils.ApplyPagination(query, params).Find(&categories).Error; err != nil {
		return nil, 0, fmt.Errorf("database error: %w", err)
	}

	return categories, total, nil
}

func (s *CatalogService) GetCategory(id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &category, nil
}

func (s *CatalogService) CreateCategory(req *CreateCategoryRequest) (*models.Category, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationErrorsFrom(err)
	}

	category := &models.Category{
		Name:        req.Name,
		Description: req.Description,
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

func (s *CatalogService) UpdateCategory(id uuid.UUID, req *UpdateCategoryRequest) (*models.Category, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationErrorsFrom(err)
	}

	category, err := s.GetCategory(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}

	if err := s.db.Save(category).Error; err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

func (s *CatalogService) DeleteCategory(id uuid.UUID) error {
	category, err := s.GetCategory(id)
	if err != nil {
		return err
	}

	return database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Model(category).Association("Movies").Clear(); err != nil {
			return fmt.Errorf("failed to detach movies: %w", err)
		}
		if err := tx.Model(category).Association("TVSeries").Clear(); err != nil {
			return fmt.Errorf("failed to detach tv series: %w", err)
		}
		if err := tx.Delete(category).Error; err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		return nil
	})
}

// Movies

func (s *CatalogService) ListMovies(filters MovieFilters) ([]models.Movie, int64, error) {
	query := s.db.Model(&models.Movie{})

	if filters.CategoryID != nil {
		query = query.
			Joins("JOIN movie_categories ON movie_categories.movie_id = movies.id").
			Where("movie_categories.category_id = ?", *filters.CategoryID)
	}
	if filters.Featured != nil {
		query = query.Where("is_featured = ?", *filters.Featured)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("database error: %w", err)
	}

	var movies []models.Movie
	query = utils.ApplySort(query, filters.PaginationParams, []string{"created_at", "title", "release_date"})
	query = utils.ApplyPagination(query, filters.PaginationParams)
	if err := query.Preload("Categories").Find(&movies).Error; err != nil {
		return nil, 0, fmt.Errorf("database error: %w", err)
	}

	return movies, total, nil
}

func (s *CatalogService) GetMovie(id uuid.UUID) (*models.Movie, error) {
	var movie models.Movie
	if err := s.db.Preload("Categories").First(&movie, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &movie, nil
}

func (s *CatalogService) CreateMovie(req *CreateMovieRequest) (*models.Movie, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationErrorsFrom(err)
	}

	releaseDate, err := time.Parse(dateLayout, req.ReleaseDate)
	if err != nil {
		return nil, fieldError("release_date", "must be a YYYY-MM-DD date")
	}

	categories, err := s.resolveCategories(req.CategoryIDs)
	if err != nil {
		return nil, err
	}

	movie := &models.Movie{
		Title:           req.Title,
		Description:     req.Description,
		ReleaseDate:     releaseDate,
		DurationMinutes: req.DurationMinutes,
		TrailerURL:      req.TrailerURL,
		PriceBuy:        req.PriceBuy,
		PriceRent:       req.PriceRent,
		IsFeatured:      req.IsFeatured,
		Categories:      categories,
	}

	if err := s.db.Create(movie).Error; err != nil {
		return nil, fmt.Errorf("failed to create movie: %w", err)
	}
	return movie, nil
}

func (s *CatalogService) UpdateMovie(id uuid.UUID, req *UpdateMovieRequest) (*models.Movie, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationErrorsFrom(err)
	}

	movie, err := s.GetMovie(id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		movie.Title = *req.Title
	}
	if req.Description != nil {
		movie.Description = *req.Description
	}
	if req.ReleaseDate != nil {
		releaseDate, err := time.Parse(dateLayout, *req.ReleaseDate)
		if err != nil {
			return nil, fieldError("release_date", "must be a YYYY-MM-DD date")
		}
		movie.ReleaseDate = releaseDate
	}
	if req.DurationMinutes != nil {
		movie.DurationMinutes = *req.DurationMinutes
	}
	if req.TrailerURL != nil {
		movie.TrailerURL = *req.TrailerURL
	}
	if req.PriceBuy != nil {
		movie.PriceBuy = *req.PriceBuy
	}
	if req.PriceRent != nil {
		movie.PriceRent = *req.PriceRent
	}
	if req.IsFeatured != nil {
		movie.IsFeatured = *req.IsFeatured
	}

	return movie, database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Save(movie).Error; err != nil {
			return fmt.Errorf("failed to update movie: %w", err)
		}
		if req.CategoryIDs != nil {
			categories, err := s.resolveCategories(*req.CategoryIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(movie).Association("Categories").Replace(categories); err != nil {
				return fmt.Errorf("failed to update categories: %w", err)
			}
			movie.Categories = categories
		}
		return nil
	})
}

// DeleteMovie removes the movie but leaves any entitlement rows that point at
// it in place with the reference nulled; the ledger is historical fact.
func (s *CatalogService) DeleteMovie(id uuid.UUID) error {
	movie, err := s.GetMovie(id)
	if err != nil {
		return err
	}

	return database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Model(&models.Purchase{}).Where("movie_id = ?", id).
			Update("movie_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach purchases: %w", err)
		}
		if err := tx.Model(&models.Rental{}).Where("movie_id = ?", id).
			Update("movie_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach rentals: %w", err)
		}
		if err := tx.Model(movie).Association("Categories").Clear(); err != nil {
			return fmt.Errorf("failed to detach categories: %w", err)
		}
		if err := tx.Delete(movie).Error; err != nil {
			return fmt.Errorf("failed to delete movie: %w", err)
		}
		return nil
	})
}

// SetMoviePoster stores the uploaded poster URL on the movie row.
func (s *CatalogService) SetMoviePoster(id uuid.UUID, url string) (*models.Movie, error) {
	movie, err := s.GetMovie(id)
	if err != nil {
		return nil, err
	}
	movie.Poster = url
	if err := s.db.Save(movie).Error; err != nil {
		return nil, fmt.Errorf("failed to update movie poster: %w", err)
	}
	return movie, nil
}

func (s *CatalogService) resolveCategories(ids []uuid.UUID) ([]models.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var categories []models.Category
	if err := s.db.Where("id IN ?", ids).Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if len(categories) != len(ids) {
		return nil, fieldError("category_ids", "one or more categories do not exist")
	}
	return categories, nil
}
