// internal/models/common.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields. The ID is generated in the application so the
// same models work against Postgres and the sqlite test database.
type BaseModel struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Enums
type UserType string

const (
	UserTypeMember UserType = "member"
	UserTypeAdmin  UserType = "admin"
)

// ContentType tags which catalog entity an entitlement row points at.
type ContentType string

const (
	ContentTypeMovie   ContentType = "movie"
	ContentTypeSeason  ContentType = "season"
	ContentTypeEpisode ContentType = "episode"
)
