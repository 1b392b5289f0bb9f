package models

import "github.com/golang-jwt/jwt/v5"

// Fee administration permissions
const (
	PermissionFeesRead       = "fees:read"
	PermissionFeesWrite      = "fees:write"
	PermissionMerchantAssign = "merchant:assign-fee-structure"
)

// Roles
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
)

// AdminClaims are carried by bearer tokens on the fee administration routes.
type AdminClaims struct {
	jwt.RegisteredClaims
	UserID      uint     `json:"user_id"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// HasPermission checks if the claims include a specific permission. Admins
// hold every permission.
func (c *AdminClaims) HasPermission(permission string) bool {
	if c.Role == RoleAdmin {
		return true
	}
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// GetDefaultPermissions returns default permissions based on role
func GetDefaultPermissions(role string) []string {
	switch role {
	case RoleAdmin:
		return []string{PermissionFeesRead, PermissionFeesWrite, PermissionMerchantAssign}
	case RoleOperator:
		return []string{PermissionFeesRead}
	default:
		return []string{}
	}
}
