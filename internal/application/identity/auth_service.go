package identity

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	MaxLoginAttempts int           // Maximum failed login attempts before lock
	LockDuration     time.Duration // How long to lock the account after max attempts
}

// DefaultAuthServiceConfig returns default configuration
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
	}
}

// AuthService handles seller registration and authentication
type AuthService struct {
	sellerRepo identity.SellerRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	config     AuthServiceConfig
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	sellerRepo identity.SellerRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		sellerRepo: sellerRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		config:     config,
		logger:     logger,
	}
}

// Register creates a seller account and logs it in
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	exists, err := s.sellerRepo.ExistsByEmail(ctx, input.TenantID, email)
	if err != nil {
		s.logger.Error("Failed to check email uniqueness", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to verify email availability")
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "An account with this email already exists")
	}

	seller, err := identity.NewSeller(input.TenantID, email, input.Password, input.BusinessName)
	if err != nil {
		return nil, err
	}
	if input.ContactName != "" || input.Phone != "" {
		if err := seller.UpdateProfile(seller.BusinessName, input.ContactName, input.Phone); err != nil {
			return nil, err
		}
	}

	if err := s.sellerRepo.Save(ctx, seller); err != nil {
		s.logger.Error("Failed to save seller during registration", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create account")
	}

	s.logger.Info("Seller registered",
		zap.String("seller_id", seller.ID.String()),
		zap.String("business_name", seller.BusinessName))

	return s.issueTokens(seller)
}

// Login authenticates a seller and returns tokens
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	s.logger.Info("Login attempt", zap.String("email", email))

	seller, err := s.sellerRepo.FindByEmail(ctx, input.TenantID, email)
	if err != nil {
		s.logger.Error("Failed to look up seller during login", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to process login")
	}
	if seller == nil {
		s.logger.Warn("Seller not found during login", zap.String("email", email))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	if !seller.CanLogin() {
		if seller.IsLocked() {
			s.logger.Warn("Login attempt for locked account", zap.String("email", email))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked. Please try again later or contact support")
		}
		s.logger.Warn("Login attempt for suspended account", zap.String("email", email))
		return nil, shared.NewDomainError("ACCOUNT_SUSPENDED", "Account has been suspended")
	}

	if !seller.VerifyPassword(input.Password) {
		locked := seller.RecordLoginFailure(s.config.MaxLoginAttempts, s.config.LockDuration)
		if err := s.sellerRepo.Save(ctx, seller); err != nil {
			s.logger.Error("Failed to update seller after login failure", zap.Error(err))
		}

		if locked {
			s.logger.Warn("Account locked after too many failed attempts",
				zap.String("email", email),
				zap.Int("attempts", s.config.MaxLoginAttempts))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Too many failed login attempts. Account has been locked")
		}

		s.logger.Warn("Invalid password attempt",
			zap.String("email", email),
			zap.Int("failed_attempts", seller.FailedAttempts))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	seller.RecordLoginSuccess(input.IP)
	if err := s.sellerRepo.Save(ctx, seller); err != nil {
		// Login still succeeds, the tracking update is best effort
		s.logger.Error("Failed to update seller after successful login", zap.Error(err))
	}

	s.logger.Info("Seller logged in",
		zap.String("email", email),
		zap.String("seller_id", seller.ID.String()))

	return s.issueTokens(seller)
}

// RefreshToken rotates the token pair using a valid refresh token
func (s *AuthService) RefreshToken(ctx context.Context, input RefreshTokenInput) (*RefreshTokenResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, mapTokenError(err)
	}

	if s.blacklist != nil {
		revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Warn("Failed to check token blacklist", zap.Error(err))
		} else if revoked {
			return nil, shared.NewDomainError("TOKEN_REVOKED", "Refresh token has been revoked")
		}
	}

	sellerID, err := claims.GetSellerUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid seller ID in token")
	}

	seller, err := s.sellerRepo.FindByID(ctx, sellerID)
	if err != nil {
		s.logger.Error("Failed to look up seller during token refresh", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to refresh token")
	}
	if seller == nil {
		return nil, shared.NewDomainError("SELLER_NOT_FOUND", "Seller not found")
	}
	if !seller.CanLogin() {
		s.logger.Warn("Token refresh for inactive seller", zap.String("seller_id", sellerID.String()))
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is no longer active")
	}

	tokenPair, err := s.jwtService.RefreshTokenPair(input.RefreshToken, seller.Email, string(seller.Role))
	if err != nil {
		return nil, mapTokenError(err)
	}

	// Old refresh token can no longer be replayed
	if s.blacklist != nil {
		if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
			s.logger.Warn("Failed to blacklist rotated refresh token", zap.Error(err))
		}
	}

	s.logger.Info("Token refreshed", zap.String("seller_id", sellerID.String()))

	return &RefreshTokenResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
	}, nil
}

// Logout revokes the current session's tokens
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	s.logger.Info("Seller logout", zap.String("seller_id", input.SellerID.String()))

	if s.blacklist == nil {
		return nil
	}

	if input.TokenJTI != "" {
		ttl := time.Until(input.TokenExpiry)
		if ttl > 0 {
			if err := s.blacklist.AddToBlacklist(ctx, input.TokenJTI, ttl); err != nil {
				s.logger.Error("Failed to blacklist token on logout", zap.Error(err))
				return shared.NewDomainError("INTERNAL_ERROR", "Failed to log out")
			}
		}
	}

	return nil
}

// GetProfile returns the seller's profile
func (s *AuthService) GetProfile(ctx context.Context, tenantID, sellerID uuid.UUID) (*SellerInfo, error) {
	seller, err := s.sellerRepo.FindByIDForTenant(ctx, tenantID, sellerID)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load profile")
	}
	if seller == nil {
		return nil, shared.NewDomainError("SELLER_NOT_FOUND", "Seller not found")
	}

	info := toSellerInfo(seller)
	return &info, nil
}

// UpdateProfile updates the seller's business details
func (s *AuthService) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*SellerInfo, error) {
	seller, err := s.sellerRepo.FindByIDForTenant(ctx, input.TenantID, input.SellerID)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load profile")
	}
	if seller == nil {
		return nil, shared.NewDomainError("SELLER_NOT_FOUND", "Seller not found")
	}

	if err := seller.UpdateProfile(input.BusinessName, input.ContactName, input.Phone); err != nil {
		return nil, err
	}

	if err := s.sellerRepo.SaveWithLock(ctx, seller); err != nil {
		s.logger.Error("Failed to save profile update", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update profile")
	}

	info := toSellerInfo(seller)
	return &info, nil
}

// ChangePassword changes a seller's password
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	seller, err := s.sellerRepo.FindByIDForTenant(ctx, input.TenantID, input.SellerID)
	if err != nil {
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to load account")
	}
	if seller == nil {
		return shared.NewDomainError("SELLER_NOT_FOUND", "Seller not found")
	}

	if err := seller.ChangePassword(input.OldPassword, input.NewPassword); err != nil {
		return err
	}

	if err := s.sellerRepo.Save(ctx, seller); err != nil {
		s.logger.Error("Failed to save password change", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to change password")
	}

	s.logger.Info("Seller password changed", zap.String("seller_id", input.SellerID.String()))

	return nil
}

func (s *AuthService) issueTokens(seller *identity.Seller) (*LoginResult, error) {
	tokenPair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID: seller.TenantID,
		SellerID: seller.ID,
		Email:    seller.Email,
		Role:     string(seller.Role),
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	return &LoginResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
		Seller:                toSellerInfo(seller),
	}, nil
}

func toSellerInfo(seller *identity.Seller) SellerInfo {
	return SellerInfo{
		ID:           seller.ID,
		TenantID:     seller.TenantID,
		Email:        seller.Email,
		BusinessName: seller.BusinessName,
		ContactName:  seller.ContactName,
		Phone:        seller.Phone,
		Role:         string(seller.Role),
		Status:       string(seller.Status),
	}
}

func mapTokenError(err error) error {
	switch err {
	case auth.ErrExpiredToken:
		return shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
	case auth.ErrInvalidToken:
		return shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	case auth.ErrMaxRefreshExceeded:
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
	default:
		return shared.NewDomainError("TOKEN_ERROR", "Failed to validate refresh token")
	}
}
