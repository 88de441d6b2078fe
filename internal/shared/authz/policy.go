package authz

import "errors"

var (
	// ErrUnauthorized signals that the operation needs an authenticated principal.
	ErrUnauthorized = errors.New("authentication credentials were not provided")
	// ErrForbidden signals that the principal lacks the privilege for the operation.
	ErrForbidden = errors.New("you do not have permission to perform this action")
)

// Resource names the kind of entity an action targets.
type Resource string

const (
	ResourceBook  Resource = "book"
	ResourceOrder Resource = "order"
)

// Action names an operation on a resource.
type Action string

const (
	ActionRead    Action = "read"
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionRestock Action = "restock"
)

// Requirement is the minimum standing a principal needs for a rule.
type Requirement int

const (
	// RequirePublic allows every principal, anonymous included.
	RequirePublic Requirement = iota
	// RequireAuthenticated denies anonymous principals with ErrUnauthorized.
	RequireAuthenticated
	// RequireStaff denies every non-staff principal with ErrForbidden.
	RequireStaff
	// RequireAuthenticatedStaff denies anonymous principals with ErrUnauthorized
	// and authenticated non-staff with ErrForbidden.
	RequireAuthenticatedStaff
)

// Rule keys the policy table.
type Rule struct {
	Resource Resource
	Action   Action
}

// DefaultRules is the access table for the inventory API.
var DefaultRules = map[Rule]Requirement{
	{ResourceBook, ActionRead}:    RequirePublic,
	{ResourceBook, ActionCreate}:  RequireStaff,
	{ResourceBook, ActionUpdate}:  RequireStaff,
	{ResourceBook, ActionDelete}:  RequireStaff,
	{ResourceBook, ActionRestock}: RequireStaff,

	{ResourceOrder, ActionRead}:   RequirePublic,
	{ResourceOrder, ActionCreate}: RequireAuthenticated,
	{ResourceOrder, ActionUpdate}: RequireAuthenticatedStaff,
}

// Policy decides whether a principal may perform an action. It has no side effects.
type Policy struct {
	rules map[Rule]Requirement
}

// NewPolicy builds a policy over the supplied table, or DefaultRules when nil.
func NewPolicy(rules map[Rule]Requirement) Policy {
	if rules == nil {
		rules = DefaultRules
	}
	copied := make(map[Rule]Requirement, len(rules))
	for rule, req := range rules {
		copied[rule] = req
	}
	return Policy{rules: copied}
}

// DefaultPolicy is the policy used by services that are not given one explicitly.
var DefaultPolicy = NewPolicy(nil)

// Permits reports whether the principal may perform action on resource.
func (p Policy) Permits(principal Principal, action Action, resource Resource) bool {
	return p.Authorize(principal, action, resource) == nil
}

// Authorize returns nil when permitted, otherwise ErrUnauthorized or ErrForbidden.
// Pairs missing from the table are denied.
func (p Policy) Authorize(principal Principal, action Action, resource Resource) error {
	rules := p.rules
	if rules == nil {
		rules = DefaultRules
	}
	req, ok := rules[Rule{Resource: resource, Action: action}]
	if !ok {
		return ErrForbidden
	}
	switch req {
	case RequirePublic:
		return nil
	case RequireAuthenticated:
		if !principal.IsAuthenticated() {
			return ErrUnauthorized
		}
		return nil
	case RequireStaff:
		if !principal.IsStaff() {
			return ErrForbidden
		}
		return nil
	case RequireAuthenticatedStaff:
		if !principal.IsAuthenticated() {
			return ErrUnauthorized
		}
		if !principal.IsStaff() {
			return ErrForbidden
		}
		return nil
	default:
		return ErrForbidden
	}
}
