// internal/models/entitlement.go
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RentalWindow is how long a rental stays active after creation. The expiry is
// always computed server-side from this constant, never taken from the client.
const RentalWindow = 48 * time.Hour

// ContentRef is a validated reference to a single catalog item. Constructing a
// ref through PurchaseRef/RentalRef is the only way to get a non-zero value, so
// a row with both ids set, both null, or a mismatched tag cannot be built.
type ContentRef struct {
	contentType ContentType
	id          uuid.UUID
}

// PurchaseRef builds a reference for a purchase: movies and whole seasons.
func PurchaseRef(contentType ContentType, id uuid.UUID) (ContentRef, error) {
	if contentType != ContentTypeMovie && contentType != ContentTypeSeason {
		return ContentRef{}, fmt.Errorf("content type %q cannot be purchased", contentType)
	}
	if id == uuid.Nil {
		return ContentRef{}, fmt.Errorf("missing %s id", contentType)
	}
	return ContentRef{contentType: contentType, id: id}, nil
}

// RentalRef builds a reference for a rental: movies and single episodes.
func RentalRef(contentType ContentType, id uuid.UUID) (ContentRef, error) {
	if contentType != ContentTypeMovie && contentType != ContentTypeEpisode {
		return ContentRef{}, fmt.Errorf("content type %q cannot be rented", contentType)
	}
	if id == uuid.Nil {
		return ContentRef{}, fmt.Errorf("missing %s id", contentType)
	}
	return ContentRef{contentType: contentType, id: id}, nil
}

func (r ContentRef) ContentType() ContentType { return r.contentType }
func (r ContentRef) ID() uuid.UUID            { return r.id }
func (r ContentRef) IsZero() bool             { return r.contentType == "" }

// A Purchase is a permanent entitlement. Rows are immutable once written and
// survive deletion of the referenced catalog item with the reference nulled.
type Purchase struct {
	BaseModel
	UserID        uuid.UUID   `json:"user_id" gorm:"type:uuid;not null;index"`
	ContentType   ContentType `json:"content_type" gorm:"type:varchar(10);not null"`
	MovieID       *uuid.UUID  `json:"movie_id" gorm:"type:uuid;index"`
	SeasonID      *uuid.UUID  `json:"season_id" gorm:"type:uuid;index"`
	PurchaseDate  time.Time   `json:"purchase_date" gorm:"not null;index"`
	Amount        float64     `json:"amount" gorm:"type:decimal(8,2);not null"`
	TransactionID string      `json:"transaction_id" gorm:"size:100;uniqueIndex;not null"`

	// Relationships
	User   *User   `json:"-" gorm:"foreignKey:UserID"`
	Movie  *Movie  `json:"movie_details,omitempty" gorm:"foreignKey:MovieID"`
	Season *Season `json:"season_details,omitempty" gorm:"foreignKey:SeasonID"`
}

// NewPurchase fills the tagged pair of nullable ids from a validated ref.
func NewPurchase(userID uuid.UUID, ref ContentRef, amount float64, transactionID string, at time.Time) *Purchase {
	p := &Purchase{
		UserID:        userID,
		ContentType:   ref.ContentType(),
		PurchaseDate:  at,
		Amount:        amount,
		TransactionID: transactionID,
	}
	id := ref.ID()
	switch ref.ContentType() {
	case ContentTypeMovie:
		p.MovieID = &id
	case ContentTypeSeason:
		p.SeasonID = &id
	}
	return p
}

// A Rental is a time-boxed entitlement. Expired rentals stay in the ledger as
// history; "active" is computed from ExpiryDate at read time.
type Rental struct {
	BaseModel
	UserID        uuid.UUID   `json:"user_id" gorm:"type:uuid;not null;index"`
	ContentType   ContentType `json:"content_type" gorm:"type:varchar(10);not null"`
	MovieID       *uuid.UUID  `json:"movie_id" gorm:"type:uuid;index"`
	EpisodeID     *uuid.UUID  `json:"episode_id" gorm:"type:uuid;index"`
	RentalDate    time.Time   `json:"rental_date" gorm:"not null;index"`
	ExpiryDate    time.Time   `json:"expiry_date" gorm:"not null;index"`
	Amount        float64     `json:"amount" gorm:"type:decimal(8,2);not null"`
	TransactionID string      `json:"transaction_id" gorm:"size:100;uniqueIndex;not null"`

	// Relationships
	User    *User    `json:"-" gorm:"foreignKey:UserID"`
	Movie   *Movie   `json:"movie_details,omitempty" gorm:"foreignKey:MovieID"`
	Episode *Episode `json:"episode_details,omitempty" gorm:"foreignKey:EpisodeID"`
}

// NewRental pins the expiry to RentalWindow past the rental timestamp.
func NewRental(userID uuid.UUID, ref ContentRef, amount float64, transactionID string, at time.Time) *Rental {
	r := &Rental{
		UserID:        userID,
		ContentType:   ref.ContentType(),
		RentalDate:    at,
		ExpiryDate:    at.Add(RentalWindow),
		Amount:        amount,
		TransactionID: transactionID,
	}
	id := ref.ID()
	switch ref.ContentType() {
	case ContentTypeMovie:
		r.MovieID = &id
	case ContentTypeEpisode:
		r.EpisodeID = &id
	}
	return r
}

// Active reports whether the rental is still within its window at ts.
func (r *Rental) Active(ts time.Time) bool {
	return r.ExpiryDate.After(ts)
}
