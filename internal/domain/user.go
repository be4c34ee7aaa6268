package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// User represents a portal account acting on the ledger.
type User struct {
	ID          string
	Email       string
	Name        string
	CompanyName string
	Role        Role
	PriceRatio  decimal.Decimal
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EffectiveRatio returns the user's price ratio, falling back to the
// system default when none is configured.
func (u *User) EffectiveRatio() decimal.Decimal {
	return EffectivePriceRatio(u.PriceRatio)
}

// Role represents a user's access level.
type Role string

const (
	// RoleCustomer places orders and views its own ledger
	RoleCustomer Role = "customer"

	// RoleAdmin manages top-ups, manual refunds and system operations
	RoleAdmin Role = "admin"

	// RoleSupervisor is the house account the base-cost side of every dual
	// transaction is recorded against
	RoleSupervisor Role = "supervisor"
)

var validRoles = map[Role]bool{
	RoleCustomer:   true,
	RoleAdmin:      true,
	RoleSupervisor: true,
}

// IsValid checks if the role is a known role.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanManageLedger checks if the role may create top-ups and manual refunds.
func (r Role) CanManageLedger() bool {
	return r == RoleAdmin
}

// CanViewAll checks if the role may read other users' ledgers.
func (r Role) CanViewAll() bool {
	return r == RoleAdmin || r == RoleSupervisor
}

// Authentication errors
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInsufficientRole = errors.New("insufficient role for this operation")
)
