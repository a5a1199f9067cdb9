// Package policy holds the access table consulted for every protected
// operation: which roles may perform an action, whether the caller must own
// the resource, and whether admins bypass the ownership check.
package policy

import (
	"errors"
	"slices"

	"rental-marketplace/pkg/utils"

	"github.com/google/uuid"
)

type Action string

const (
	PropertyCreate    Action = "property:create"
	PropertyListOwned Action = "property:list_owned"
	PropertyUpdate    Action = "property:update"
	PropertyDelete    Action = "property:delete"
	PropertyViewAny   Action = "property:view_any"

	BookingCreate       Action = "booking:create"
	BookingListCustomer Action = "booking:list_customer"
	BookingListOwner    Action = "booking:list_owner"
	BookingView         Action = "booking:view"
	BookingUpdateStatus Action = "booking:update_status"

	PaymentInitiate Action = "payment:initiate"
	PaymentConfirm  Action = "payment:confirm"

	ReviewCreate Action = "review:create"
	ReviewUpdate Action = "review:update"
	ReviewDelete Action = "review:delete"

	AdminAccess Action = "admin:access"
)

const (
	RoleCustomer = "customer"
	RoleOwner    = "owner"
	RoleAdmin    = "admin"
)

type Ownership int

const (
	// AnyResource needs no ownership relation.
	AnyResource Ownership = iota
	// OwnResource requires the caller to be one of the resource's owners.
	OwnResource
)

type Rule struct {
	Roles       []string
	Ownership   Ownership
	AdminBypass bool
}

var ErrForbidden = errors.New("access denied")

var rules = map[Action]Rule{
	PropertyCreate:    {Roles: []string{RoleOwner}},
	PropertyListOwned: {Roles: []string{RoleOwner}},
	PropertyUpdate:    {Roles: []string{RoleOwner}, Ownership: OwnResource, AdminBypass: true},
	PropertyDelete:    {Roles: []string{RoleOwner}, Ownership: OwnResource, AdminBypass: true},
	PropertyViewAny:   {Roles: []string{RoleOwner}, Ownership: OwnResource, AdminBypass: true},

	BookingCreate:       {Roles: []string{RoleCustomer}},
	BookingListCustomer: {Roles: []string{RoleCustomer}},
	BookingListOwner:    {Roles: []string{RoleOwner}},
	BookingView:         {Roles: []string{RoleCustomer, RoleOwner}, Ownership: OwnResource, AdminBypass: true},
	BookingUpdateStatus: {Roles: []string{RoleCustomer, RoleOwner}, Ownership: OwnResource, AdminBypass: true},

	PaymentInitiate: {Roles: []string{RoleCustomer}, Ownership: OwnResource},
	PaymentConfirm:  {Roles: []string{RoleCustomer}, Ownership: OwnResource},

	ReviewCreate: {Roles: []string{RoleCustomer}},
	ReviewUpdate: {Roles: []string{RoleCustomer}, Ownership: OwnResource},
	ReviewDelete: {Roles: []string{RoleCustomer}, Ownership: OwnResource, AdminBypass: true},

	AdminAccess: {Roles: []string{RoleAdmin}},
}

// RuleFor returns the rule registered for action.
func RuleFor(action Action) (Rule, bool) {
	rule, ok := rules[action]
	return rule, ok
}

// AllowsRole reports whether role may attempt action at all.
func AllowsRole(action Action, role string) bool {
	rule, ok := RuleFor(action)
	if !ok {
		return false
	}
	if rule.AdminBypass && role == RoleAdmin {
		return true
	}
	return slices.Contains(rule.Roles, role)
}

// Authorize checks role and, for ownership rules, that the principal is one
// of owners. Unknown actions are denied.
func Authorize(p utils.Principal, action Action, owners ...uuid.UUID) error {
	rule, ok := RuleFor(action)
	if !ok {
		return ErrForbidden
	}
	if rule.AdminBypass && p.IsAdmin() {
		return nil
	}
	if !slices.Contains(rule.Roles, p.Role) {
		return ErrForbidden
	}
	if rule.Ownership == OwnResource && !slices.Contains(owners, p.UserID) {
		return ErrForbidden
	}
	return nil
}
