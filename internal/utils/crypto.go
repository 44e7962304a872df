// internal/utils/crypto.go
package utils

import (
	"github.com/google/uuid"
)

// GenerateTransactionID returns a fresh random 128-bit identifier for an
// entitlement ledger row. Uniqueness is still enforced by the database; callers
// regenerate once on the (astronomically rare) collision.
func GenerateTransactionID() string {
	return uuid.NewString()
}
