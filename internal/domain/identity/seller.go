package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// SellerStatus represents the status of a seller account
type SellerStatus string

const (
	SellerStatusActive    SellerStatus = "ACTIVE"
	SellerStatusSuspended SellerStatus = "SUSPENDED"
	SellerStatusLocked    SellerStatus = "LOCKED" // Locked after failed login attempts
)

// SellerRole distinguishes marketplace sellers from platform staff
type SellerRole string

const (
	RoleSeller SellerRole = "SELLER"
	RoleAdmin  SellerRole = "ADMIN"
)

// IsValid checks if the role is a valid SellerRole
func (r SellerRole) IsValid() bool {
	return r == RoleSeller || r == RoleAdmin
}

// Password cost for bcrypt
const bcryptCost = 12

// Seller represents a seller account on the marketplace. Platform staff
// use the same aggregate with the ADMIN role.
type Seller struct {
	shared.TenantAggregateRoot
	Email          string       `gorm:"type:varchar(200);not null;uniqueIndex:idx_sellers_tenant_email,priority:2"`
	PasswordHash   string       `gorm:"type:varchar(100);not null"`
	BusinessName   string       `gorm:"type:varchar(200);not null"`
	ContactName    string       `gorm:"type:varchar(200)"`
	Phone          string       `gorm:"type:varchar(50)"`
	Role           SellerRole   `gorm:"type:varchar(20);not null;default:'SELLER'"`
	Status         SellerStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	LastLoginAt    *time.Time
	LastLoginIP    string `gorm:"type:varchar(45)"`
	FailedAttempts int    `gorm:"not null;default:0"`
	LockedUntil    *time.Time
}

// TableName returns the table name for GORM
func (Seller) TableName() string {
	return "sellers"
}

// NewSeller creates an active seller account
func NewSeller(tenantID uuid.UUID, email, password, businessName string) (*Seller, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateSellerEmail(email); err != nil {
		return nil, err
	}
	if err := validateSellerPassword(password); err != nil {
		return nil, err
	}
	if businessName == "" {
		return nil, shared.NewDomainError("INVALID_BUSINESS_NAME", "Business name cannot be empty")
	}
	if len(businessName) > 200 {
		return nil, shared.NewDomainError("INVALID_BUSINESS_NAME", "Business name cannot exceed 200 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	s := &Seller{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Email:               email,
		PasswordHash:        string(hash),
		BusinessName:        strings.TrimSpace(businessName),
		Role:                RoleSeller,
		Status:              SellerStatusActive,
	}

	s.AddDomainEvent(NewSellerRegisteredEvent(s))

	return s, nil
}

// NewAdmin creates a platform staff account with the ADMIN role
func NewAdmin(tenantID uuid.UUID, email, password, name string) (*Seller, error) {
	s, err := NewSeller(tenantID, email, password, name)
	if err != nil {
		return nil, err
	}
	s.Role = RoleAdmin
	return s, nil
}

// VerifyPassword verifies if the provided password matches
func (s *Seller) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(s.PasswordHash), []byte(password)) == nil
}

// ChangePassword changes the seller's password after verifying the old one
func (s *Seller) ChangePassword(oldPassword, newPassword string) error {
	if !s.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	if err := validateSellerPassword(newPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	s.PasswordHash = string(hash)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// UpdateProfile updates the mutable profile fields
func (s *Seller) UpdateProfile(businessName, contactName, phone string) error {
	if businessName != "" {
		if len(businessName) > 200 {
			return shared.NewDomainError("INVALID_BUSINESS_NAME", "Business name cannot exceed 200 characters")
		}
		s.BusinessName = strings.TrimSpace(businessName)
	}
	if len(contactName) > 200 {
		return shared.NewDomainError("INVALID_CONTACT_NAME", "Contact name cannot exceed 200 characters")
	}
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}

	if contactName != "" {
		s.ContactName = strings.TrimSpace(contactName)
	}
	if phone != "" {
		s.Phone = strings.TrimSpace(phone)
	}
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// Suspend suspends the seller account
func (s *Seller) Suspend() error {
	if s.Status == SellerStatusSuspended {
		return shared.NewDomainError("ALREADY_SUSPENDED", "Seller is already suspended")
	}

	s.Status = SellerStatusSuspended
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewSellerSuspendedEvent(s))

	return nil
}

// Reinstate reactivates a suspended or locked seller account
func (s *Seller) Reinstate() error {
	if s.Status == SellerStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Seller is already active")
	}

	s.Status = SellerStatusActive
	s.FailedAttempts = 0
	s.LockedUntil = nil
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// RecordLoginSuccess records a successful login
func (s *Seller) RecordLoginSuccess(ip string) {
	now := time.Now()
	s.LastLoginAt = &now
	s.LastLoginIP = ip
	s.FailedAttempts = 0
	s.UpdatedAt = now
	s.IncrementVersion()
}

// RecordLoginFailure records a failed login attempt.
// Returns true if the account got locked.
func (s *Seller) RecordLoginFailure(maxAttempts int, lockDuration time.Duration) bool {
	s.FailedAttempts++
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	if s.FailedAttempts >= maxAttempts {
		s.Status = SellerStatusLocked
		if lockDuration > 0 {
			until := time.Now().Add(lockDuration)
			s.LockedUntil = &until
		}
		return true
	}

	return false
}

// IsLocked returns true if the account is locked and the lock has not expired
func (s *Seller) IsLocked() bool {
	if s.Status != SellerStatusLocked {
		return false
	}
	if s.LockedUntil != nil && time.Now().After(*s.LockedUntil) {
		return false
	}
	return true
}

// CanLogin returns true if the seller can authenticate
func (s *Seller) CanLogin() bool {
	if s.Status == SellerStatusSuspended {
		return false
	}
	return !s.IsLocked()
}

// IsAdmin returns true for platform staff accounts
func (s *Seller) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// Validation functions

func validateSellerEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}

	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}

	return nil
}

func validateSellerPassword(password string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 128 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 128 characters")
	}

	hasLetter := regexp.MustCompile(`[a-zA-Z]`).MatchString(password)
	hasNumber := regexp.MustCompile(`[0-9]`).MatchString(password)
	if !hasLetter || !hasNumber {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must contain at least one letter and one number")
	}

	return nil
}
