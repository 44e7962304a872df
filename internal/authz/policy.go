// internal/authz/policy.go
package authz

import (
	"github.com/google/uuid"

	"github.com/zaukho/zaukho-backend/internal/models"
)

// Role is the request-level privilege tier derived from the principal.
type Role int

const (
	RoleAnonymous Role = iota
	RoleMember
	RoleAdmin
)

// Principal is built once per request from the bearer token and never mutated
// afterwards; handlers read it, nothing writes it.
type Principal struct {
	UserID   uuid.UUID
	Username string
	Role     Role
}

// Anonymous is the principal attached to unauthenticated requests.
var Anonymous = Principal{Role: RoleAnonymous}

func RoleFromUserType(t models.UserType) Role {
	if t == models.UserTypeAdmin {
		return RoleAdmin
	}
	return RoleMember
}

type Resource string

const (
	ResourceCategory Resource = "category"
	ResourceMovie    Resource = "movie"
	ResourceTVSeries Resource = "tv_series"
	ResourceSeason   Resource = "season"
	ResourceEpisode  Resource = "episode"
	ResourcePurchase Resource = "purchase"
	ResourceRental   Resource = "rental"
	ResourceLibrary  Resource = "library"
)

type Operation string

const (
	OpList     Operation = "list"
	OpRetrieve Operation = "retrieve"
	OpCreate   Operation = "create"
	OpUpdate   Operation = "update"
	OpDelete   Operation = "delete"
)

// policy is the fixed rule table: the minimum role per (resource, operation).
// Catalog resources are world-readable and admin-writable; entitlement rows and
// the library view require an authenticated owner (row filtering to the owner
// happens in the services). Operations absent from the table are denied.
var policy = map[Resource]map[Operation]Role{
	ResourceCategory: catalogRules(),
	ResourceMovie:    catalogRules(),
	ResourceTVSeries: catalogRules(),
	ResourceSeason:   catalogRules(),
	ResourceEpisode:  catalogRules(),
	ResourcePurchase: {
		OpList:     RoleMember,
		OpRetrieve: RoleMember,
		OpCreate:   RoleMember,
	},
	ResourceRental: {
		OpList:     RoleMember,
		OpRetrieve: RoleMember,
		OpCreate:   RoleMember,
	},
	ResourceLibrary: {
		OpList: RoleMember,
	},
}

func catalogRules() map[Operation]Role {
	return map[Operation]Role{
		OpList:     RoleAnonymous,
		OpRetrieve: RoleAnonymous,
		OpCreate:   RoleAdmin,
		OpUpdate:   RoleAdmin,
		OpDelete:   RoleAdmin,
	}
}

// Allow is a pure function over the rule table; it consults no request state
// beyond the principal's role.
func Allow(resource Resource, op Operation, role Role) bool {
	ops, ok := policy[resource]
	if !ok {
		return false
	}
	required, ok := ops[op]
	if !ok {
		return false
	}
	return role >= required
}
