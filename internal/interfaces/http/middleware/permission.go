package middleware

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/logiport/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// UserRolesHeader carries the caller's comma-separated roles, set by the
// fronting gateway after authentication
const UserRolesHeader = "X-User-Roles"

// AdminRole passes every permission check
const AdminRole = "admin"

type rolesKey struct{}

// WithRoles stores the caller roles in ctx
func WithRoles(ctx context.Context, roles []string) context.Context {
	return context.WithValue(ctx, rolesKey{}, roles)
}

// RolesFromContext returns the caller roles stored by UserRoles
func RolesFromContext(ctx context.Context) []string {
	roles, _ := ctx.Value(rolesKey{}).([]string)
	return roles
}

// UserRoles copies the roles header into the request context, where
// RoleAuthorizer reads them
func UserRoles() gin.HandlerFunc {
	return func(c *gin.Context) {
		roles := parseRoles(c.GetHeader(UserRolesHeader))
		c.Request = c.Request.WithContext(WithRoles(c.Request.Context(), roles))
		c.Next()
	}
}

func parseRoles(header string) []string {
	var roles []string
	for _, r := range strings.Split(header, ",") {
		if r = strings.ToLower(strings.TrimSpace(r)); r != "" {
			roles = append(roles, r)
		}
	}
	return roles
}

// RoleAuthorizer grants document generation to callers holding one of the
// configured roles. An empty allow list grants everyone.
type RoleAuthorizer struct {
	allowed map[string]struct{}
	logger  *zap.Logger
}

// NewRoleAuthorizer creates a RoleAuthorizer for the given roles
func NewRoleAuthorizer(roles []string, logger *zap.Logger) *RoleAuthorizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		if r = strings.ToLower(strings.TrimSpace(r)); r != "" {
			allowed[r] = struct{}{}
		}
	}
	return &RoleAuthorizer{allowed: allowed, logger: logger}
}

// Authorize implements the render service's permission gate. permission is
// a doc_code or the doc group permission.
func (a *RoleAuthorizer) Authorize(ctx context.Context, permission string) error {
	if len(a.allowed) == 0 {
		return nil
	}
	roles := RolesFromContext(ctx)
	for _, r := range roles {
		if r == AdminRole {
			return nil
		}
		if _, ok := a.allowed[r]; ok {
			return nil
		}
	}

	a.logger.Debug("permission denied",
		zap.String("permission", permission),
		zap.Strings("roles", roles),
	)
	if len(roles) == 0 {
		return shared.NewDomainError(shared.CodeForbidden,
			fmt.Sprintf("no roles presented for %s", permission))
	}
	return shared.NewDomainError(shared.CodeForbidden,
		fmt.Sprintf("roles %s may not generate %s", strings.Join(roles, ","), permission))
}
