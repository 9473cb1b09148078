package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"docassist/internal/domain"
	"docassist/internal/service"
)

const (
	principalKey        = "principal"
	ContextKeyRequestID = "request_id"
)

const bearerScheme = "bearer"

// Principal is the caller a validated access token describes. Views, files and
// tool runs are all scoped by its tenant; views are additionally scoped by user.
type Principal struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
	Role     domain.UserRole
}

// Owner is the scope a view opened by this caller belongs to.
func (p Principal) Owner() service.ViewOwner {
	return service.ViewOwner{TenantID: p.TenantID, UserID: p.UserID}
}

// SetPrincipal stores p on the request context.
func SetPrincipal(c *gin.Context, p Principal) {
	c.Set(principalKey, p)
}

// AuthMiddleware validates the bearer token and stores the caller's Principal.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			reject(c, domain.ErrUnauthorized, "missing or invalid authorization header")
			return
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			reject(c, domain.ErrUnauthorized, "invalid or expired token")
			return
		}

		SetPrincipal(c, Principal{TenantID: claims.TenantID, UserID: claims.UserID, Role: claims.Role})
		c.Next()
	}
}

// RequireRole lets the request through only when the caller holds one of roles.
func RequireRole(roles ...domain.UserRole) gin.HandlerFunc {
	allowed := make(map[domain.UserRole]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		p, err := GetPrincipal(c)
		if err != nil || !allowed[p.Role] {
			reject(c, domain.ErrForbidden, "insufficient permissions")
			return
		}
		c.Next()
	}
}

// GetPrincipal returns the caller stored by AuthMiddleware.
func GetPrincipal(c *gin.Context) (Principal, error) {
	val, exists := c.Get(principalKey)
	if !exists {
		return Principal{}, domain.ErrUnauthorized
	}
	p, ok := val.(Principal)
	if !ok || p.TenantID == uuid.Nil || p.UserID == uuid.Nil {
		return Principal{}, domain.ErrUnauthorized
	}
	return p, nil
}

// GetTenantID returns the caller's tenant.
func GetTenantID(c *gin.Context) (uuid.UUID, error) {
	p, err := GetPrincipal(c)
	return p.TenantID, err
}

// GetUserID returns the caller's user ID.
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	p, err := GetPrincipal(c)
	return p.UserID, err
}

// GetRole returns the caller's role, or "" when unauthenticated.
func GetRole(c *gin.Context) domain.UserRole {
	p, _ := GetPrincipal(c)
	return p.Role
}

// GetOwner returns the view scope of the caller.
func GetOwner(c *gin.Context) (service.ViewOwner, error) {
	p, err := GetPrincipal(c)
	if err != nil {
		return service.ViewOwner{}, err
	}
	return p.Owner(), nil
}

// GetRequestID returns the request ID set by RequestID, or "".
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}

// bearerToken extracts the token from an Authorization header. The scheme is
// matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// reject ends the request with the API error envelope for an auth failure.
func reject(c *gin.Context, err error, msg string) {
	status, code := http.StatusUnauthorized, "UNAUTHORIZED"
	if errors.Is(err, domain.ErrForbidden) {
		status, code = http.StatusForbidden, "FORBIDDEN"
	}
	abort(c, status, code, msg)
}

// abort ends the request with the API error envelope.
func abort(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error":   gin.H{"code": code, "message": msg},
	})
}
