// internal/models/movie.go
package models

import (
	"time"
)

type Movie struct {
	BaseModel
	Title           string    `json:"title" gorm:"size:200;not null;index"`
	Description     string    `json:"description" gorm:"type:text;not null"`
	ReleaseDate     time.Time `json:"release_date" gorm:"not null"`
	DurationMinutes int       `json:"duration_minutes" gorm:"not null"`
	Poster          string    `json:"poster" gorm:"size:500"`
	TrailerURL      string    `json:"trailer_url" gorm:"size:500"`
	PriceBuy        float64   `json:"price_buy" gorm:"type:decimal(6,2);not null"`
	PriceRent       float64   `json:"price_rent" gorm:"type:decimal(6,2);not null"`
	IsFeatured      bool      `json:"is_featured" gorm:"default:false;index"`

	// Relationships
	Categories []Category `json:"categories,omitempty" gorm:"many2many:movie_categories"`
}
