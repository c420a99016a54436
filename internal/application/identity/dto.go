package identity

import (
	"time"

	"github.com/google/uuid"
)

// RegisterInput contains seller registration data
type RegisterInput struct {
	TenantID     uuid.UUID
	Email        string
	Password     string
	BusinessName string
	ContactName  string
	Phone        string
}

// LoginInput contains login credentials
type LoginInput struct {
	TenantID uuid.UUID
	Email    string
	Password string
	IP       string
}

// SellerInfo carries seller profile data in auth results
type SellerInfo struct {
	ID           uuid.UUID `json:"id"`
	TenantID     uuid.UUID `json:"tenant_id"`
	Email        string    `json:"email"`
	BusinessName string    `json:"business_name"`
	ContactName  string    `json:"contact_name,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
}

// LoginResult contains successful login response data
type LoginResult struct {
	AccessToken           string     `json:"access_token"`
	RefreshToken          string     `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time  `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time  `json:"refresh_token_expires_at"`
	TokenType             string     `json:"token_type"`
	Seller                SellerInfo `json:"seller"`
}

// RefreshTokenInput contains the refresh token
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult contains the new token pair
type RefreshTokenResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// LogoutInput identifies the session being ended
type LogoutInput struct {
	TenantID    uuid.UUID
	SellerID    uuid.UUID
	TokenJTI    string
	TokenExpiry time.Time
}

// UpdateProfileInput contains editable profile fields
type UpdateProfileInput struct {
	TenantID     uuid.UUID
	SellerID     uuid.UUID
	BusinessName string
	ContactName  string
	Phone        string
}

// ChangePasswordInput contains a password change request
type ChangePasswordInput struct {
	TenantID    uuid.UUID
	SellerID    uuid.UUID
	OldPassword string
	NewPassword string
}
