package model

import (
	"slices"
	"time"
)

// Shared defaults used by both the server and CLI binaries.
const (
	DefaultSeed         = 20240611
	DefaultRecordCount  = 256
	DefaultPageSize     = 14
	DefaultQueryTimeout = 30 * time.Second
	DefaultSessionTTL   = 12 * time.Hour
)

// Roles recognised by the screen catalog.
const (
	RoleAdmin      = "admin"
	RoleCompliance = "compliance"
	RoleSupport    = "support"
	RoleAnalyst    = "analyst"
)

// Roles lists every role in display order.
var Roles = []string{RoleAdmin, RoleCompliance, RoleSupport, RoleAnalyst}

// ValidRole reports whether role is one of Roles.
func ValidRole(role string) bool {
	return slices.Contains(Roles, role)
}
