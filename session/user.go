// Package session implements the process-wide authentication collaborators:
// the user model with role-scoped permissions and the in-memory session
// store.
package session

import (
	"crypto/subtle"

	"github.com/tracelink-network/gtrace/crypto"
)

// Role is a user's role in the supply chain.
type Role string

const (
	RoleManager  Role = "MANAGER"
	RoleSupplier Role = "SUPPLIER"
	RoleRetailer Role = "RETAILER"
)

// Permission names an operation a role may perform.
type Permission string

const (
	PermViewTransactionHistory          Permission = "VIEW_TRANSACTION_HISTORY"
	PermMonitorBlockchain               Permission = "MONITOR_BLOCKCHAIN"
	PermViewOptimizationRecommendations Permission = "VIEW_OPTIMIZATION_RECOMMENDATIONS"
	PermManageCompliance                Permission = "MANAGE_COMPLIANCE"
	PermRecordTransaction               Permission = "RECORD_TRANSACTION"
	PermCreateProduct                   Permission = "CREATE_PRODUCT"
	PermTransferProduct                 Permission = "TRANSFER_PRODUCT"
	PermTraceProductHistory             Permission = "TRACE_PRODUCT_HISTORY"
	PermVerifyProductAuthenticity       Permission = "VERIFY_PRODUCT_AUTHENTICITY"
	PermViewTraceabilityReport          Permission = "VIEW_TRACEABILITY_REPORT"
)

// rolePermissions is the fixed role to permission-set lookup.
var rolePermissions = map[Role][]Permission{
	RoleManager: {
		PermViewTransactionHistory,
		PermMonitorBlockchain,
		PermViewOptimizationRecommendations,
		PermManageCompliance,
	},
	RoleSupplier: {
		PermRecordTransaction,
		PermCreateProduct,
		PermTransferProduct,
	},
	RoleRetailer: {
		PermTraceProductHistory,
		PermVerifyProductAuthenticity,
		PermViewTraceabilityReport,
	},
}

// Permissions returns a copy of the role's permission set.
func (r Role) Permissions() []Permission {
	return append([]Permission(nil), rolePermissions[r]...)
}

// Can reports whether the role holds p.
func (r Role) Can(p Permission) bool {
	for _, held := range rolePermissions[r] {
		if held == p {
			return true
		}
	}
	return false
}

// User is an account known to the authentication layer. Only the SHA-256
// hex digest of the password is ever held.
type User struct {
	Username     string
	PasswordHash string
	Role         Role
}

// NewUser creates a user, hashing the cleartext password immediately.
func NewUser(username, password string, role Role) *User {
	return &User{
		Username:     username,
		PasswordHash: crypto.HashPassword(password),
		Role:         role,
	}
}

// CheckPassword reports whether password hashes to the stored digest,
// comparing in constant time.
func (u *User) CheckPassword(password string) bool {
	digest := crypto.HashPassword(password)
	return subtle.ConstantTimeCompare([]byte(digest), []byte(u.PasswordHash)) == 1
}
