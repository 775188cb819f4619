package enums

import "slices"

// UserRole tags a profile with the screens that apply to it.
type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleTeam     UserRole = "team"
	UserRoleDelivery UserRole = "delivery"
	UserRoleCustomer UserRole = "customer"
)

var userRoles = []UserRole{UserRoleAdmin, UserRoleTeam, UserRoleDelivery, UserRoleCustomer}

// StaffRoles sign in to the dashboard console.
var StaffRoles = []UserRole{UserRoleAdmin, UserRoleTeam}

func (u UserRole) String() string { return string(u) }

func (u UserRole) IsValid() bool { return slices.Contains(userRoles, u) }

func ParseUserRole(value string) (UserRole, error) {
	return parse(userRoles, value, "user role")
}
