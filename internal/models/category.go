// internal/models/category.go
package models

type Category struct {
	BaseModel
	Name        string `json:"name" gorm:"size:100;not null;index"`
	Description string `json:"description" gorm:"type:text"`

	// Relationships
	Movies   []Movie    `json:"movies,omitempty" gorm:"many2many:movie_categories"`
	TVSeries []TVSeries `json:"tv_series,omitempty" gorm:"many2many:tv_series_categories"`
}
