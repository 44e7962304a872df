// internal/models/tv.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type TVSeries struct {
	BaseModel
	Title       string    `json:"title" gorm:"size:200;not null;index"`
	Description string    `json:"description" gorm:"type:text;not null"`
	ReleaseDate time.Time `json:"release_date" gorm:"not null"`
	Poster      string    `json:"poster" gorm:"size:500"`
	TrailerURL  string    `json:"trailer_url" gorm:"size:500"`
	IsFeatured  bool      `json:"is_featured" gorm:"default:false;index"`

	// Relationships
	Categories []Category `json:"categories,omitempty" gorm:"many2many:tv_series_categories"`
	Seasons    []Season   `json:"seasons,omitempty" gorm:"foreignKey:TVSeriesID"`
}

// Season number is unique within its series.
type Season struct {
	BaseModel
	TVSeriesID   uuid.UUID `json:"tv_series_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_seasons_series_number"`
	SeasonNumber int       `json:"season_number" gorm:"not null;uniqueIndex:idx_seasons_series_number"`
	Title        string    `json:"title" gorm:"size:200"`
	ReleaseDate  time.Time `json:"release_date" gorm:"not null"`
	PriceBuy     float64   `json:"price_buy" gorm:"type:decimal(6,2);not null"`

	// Relationships
	TVSeries *TVSeries `json:"tv_series,omitempty" gorm:"foreignKey:TVSeriesID"`
	Episodes []Episode `json:"episodes,omitempty" gorm:"foreignKey:SeasonID"`
}

// Episode number is unique within its season.
type Episode struct {
	BaseModel
	SeasonID        uuid.UUID `json:"season_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_episodes_season_number"`
	EpisodeNumber   int       `json:"episode_number" gorm:"not null;uniqueIndex:idx_episodes_season_number"`
	Title           string    `json:"title" gorm:"size:200;not null"`
	Description     string    `json:"description" gorm:"type:text;not null"`
	DurationMinutes int       `json:"duration_minutes" gorm:"not null"`
	VideoRef        string    `json:"video_ref" gorm:"size:500"`
	PriceRent       float64   `json:"price_rent" gorm:"type:decimal(6,2);not null"`

	// Relationships
	Season *Season `json:"season,omitempty" gorm:"foreignKey:SeasonID"`
}
