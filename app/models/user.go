package models

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles. Stored casing is not trusted anywhere — always compare through
// NormalizeRole, the historic data contains mixed-case values.
const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

// NormalizeRole lower-cases a stored role and maps unknown values to
// the default buyer role.
func NormalizeRole(role string) string {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case RoleAdmin:
		return RoleAdmin
	case RoleSeller:
		return RoleSeller
	default:
		return RoleBuyer
	}
}

// User is one account document, keyed by email.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name     string             `bson:"name,omitempty" json:"name,omitempty" validate:"nullable,min=2,max=100"`
	Email    string             `bson:"email" json:"email" validate:"required,email"`
	Role     string             `bson:"role" json:"role" validate:"nullable,in=buyer,seller,admin"`
	Verified bool               `bson:"verified" json:"verified"`
}
