package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/infrastructure/logger"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
)

const (
	TenantIDKey     = "tenant_id"
	TenantCodeKey   = "tenant_code"
	TenantHeaderKey = "X-Tenant-ID"
)

// TenantInfo is the resolved tenant a validator returns.
type TenantInfo struct {
	ID   uuid.UUID `json:"id"`
	Code string    `json:"code"`
}

// TenantValidator checks that a tenant exists and is active.
type TenantValidator interface {
	ValidateTenant(tenantID string) (*TenantInfo, error)
}

// TenantMiddlewareConfig controls how a request is mapped to a tenant.
type TenantMiddlewareConfig struct {
	// HeaderEnabled reads the X-Tenant-ID header.
	HeaderEnabled bool
	// JWTEnabled reads the tenant claim the JWT middleware stored.
	JWTEnabled bool
	// SubdomainEnabled derives the tenant from <code>.<BaseDomain>.
	SubdomainEnabled bool
	BaseDomain       string
	// SkipPaths bypass tenant resolution entirely (health, metrics).
	SkipPaths []string
	// Required rejects requests that resolve to no tenant.
	Required  bool
	Validator TenantValidator
	Logger    *zap.Logger
}

func DefaultTenantConfig() TenantMiddlewareConfig {
	return TenantMiddlewareConfig{
		HeaderEnabled: true,
		JWTEnabled:    true,
		SkipPaths:     []string{"/health", "/healthz", "/ready", "/metrics", "/api/v1/health"},
		Required:      true,
	}
}

// TenantMiddleware resolves the tenant with default settings.
func TenantMiddleware() gin.HandlerFunc {
	return TenantMiddlewareWithConfig(DefaultTenantConfig())
}

// OptionalTenantMiddleware resolves the tenant when present but lets
// anonymous requests through.
func OptionalTenantMiddleware() gin.HandlerFunc {
	cfg := DefaultTenantConfig()
	cfg.Required = false
	return TenantMiddlewareWithConfig(cfg)
}

// TenantMiddlewareWithConfig resolves the request's tenant, preferring
// the JWT claim over the header over the subdomain, and stores it in
// both the gin context and the request context.
func TenantMiddlewareWithConfig(cfg TenantMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if pathIsExempt(c.Request.URL.Path, cfg.SkipPaths) {
			c.Next()
			return
		}

		tenantID, source := resolveTenant(c, cfg)

		if tenantID != "" {
			if err := validateTenantIDFormat(tenantID); err != nil {
				rejectTenant(c, "Invalid tenant ID format")
				return
			}
		}
		if tenantID == "" {
			if cfg.Required {
				rejectTenant(c, "Tenant identification required")
				return
			}
			c.Next()
			return
		}

		var info *TenantInfo
		if cfg.Validator != nil {
			var err error
			if info, err = cfg.Validator.ValidateTenant(tenantID); err != nil {
				tenantLogger(c, cfg).Warn("tenant validation failed",
					zap.String("tenant_id", tenantID),
					zap.Error(err))
				rejectTenant(c, "Invalid or inactive tenant")
				return
			}
		}

		c.Set(TenantIDKey, tenantID)
		if info != nil {
			c.Set(TenantCodeKey, info.Code)
		}

		// Propagate into the request context so repositories and the
		// gorm logger see the tenant without touching gin.
		ctx := c.Request.Context()
		ctx, _ = logger.WithTenantID(ctx, logger.FromContext(ctx), tenantID)
		c.Request = c.Request.WithContext(ctx)

		if cfg.Logger != nil {
			cfg.Logger.Debug("tenant identified",
				zap.String("tenant_id", tenantID),
				zap.String("source", source))
		}

		c.Next()
	}
}

func resolveTenant(c *gin.Context, cfg TenantMiddlewareConfig) (tenantID, source string) {
	if cfg.JWTEnabled {
		if id := c.GetString("jwt_tenant_id"); id != "" {
			return id, "jwt"
		}
	}
	if cfg.HeaderEnabled {
		if id := c.GetHeader(TenantHeaderKey); id != "" {
			return id, "header"
		}
	}
	if cfg.SubdomainEnabled && cfg.BaseDomain != "" {
		if id := extractTenantFromSubdomain(c.Request.Host, cfg.BaseDomain); id != "" {
			return id, "subdomain"
		}
	}
	return "", ""
}

func pathIsExempt(path string, skipPaths []string) bool {
	for _, skip := range skipPaths {
		if path == skip || strings.HasPrefix(path, skip+"/") {
			return true
		}
	}
	return false
}

// extractTenantFromSubdomain maps "mbare.market.co.zw" with base
// domain "market.co.zw" to "mbare". The www prefix never names a
// tenant.
func extractTenantFromSubdomain(host, baseDomain string) string {
	if idx := strings.Index(host, ":"); idx != -1 {
		host = host[:idx]
	}
	if !strings.HasSuffix(host, baseDomain) {
		return ""
	}

	sub := strings.TrimSuffix(host, "."+baseDomain)
	if sub == host || sub == "" || sub == "www" {
		return ""
	}
	// Deepest label wins for multi-level subdomains.
	return strings.Split(sub, ".")[0]
}

func validateTenantIDFormat(tenantID string) error {
	_, err := uuid.Parse(tenantID)
	return err
}

func tenantLogger(c *gin.Context, cfg TenantMiddlewareConfig) *zap.Logger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	return logger.FromContext(c.Request.Context())
}

func rejectTenant(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponse(dto.ErrCodeUnauthorized, message))
}

// GetTenantID returns the resolved tenant ID or "".
func GetTenantID(c *gin.Context) string {
	return c.GetString(TenantIDKey)
}

// GetTenantUUID parses the resolved tenant ID. A missing tenant yields
// uuid.Nil without error.
func GetTenantUUID(c *gin.Context) (uuid.UUID, error) {
	id := GetTenantID(c)
	if id == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(id)
}

// GetTenantCode returns the validator-resolved tenant code or "".
func GetTenantCode(c *gin.Context) string {
	return c.GetString(TenantCodeKey)
}

// MustGetTenantID is for handlers behind the required middleware where
// a missing tenant is a programming error.
func MustGetTenantID(c *gin.Context) string {
	id := GetTenantID(c)
	if id == "" {
		panic("tenant_id not found in context")
	}
	return id
}

// MustGetTenantUUID is the UUID variant of MustGetTenantID.
func MustGetTenantUUID(c *gin.Context) uuid.UUID {
	id, err := GetTenantUUID(c)
	if err != nil || id == uuid.Nil {
		panic("valid tenant_id not found in context")
	}
	return id
}
