// Package access combines the role gate and the ownership predicates
// into per-endpoint allow/deny decisions.
package access

import (
	"context"

	"campusgate.org/internal/auth"
)

// Reason explains a decision. Allowed decisions carry ReasonAllowed;
// every denial names the stage that rejected the request.
type Reason string

const (
	ReasonAllowed       Reason = "allowed"
	ReasonNoIdentity    Reason = "no_identity"
	ReasonRoleMismatch  Reason = "role_mismatch"
	ReasonNotOwner      Reason = "not_owner"
	ReasonNotEnrolled   Reason = "not_enrolled"
	ReasonIndeterminate Reason = "indeterminate"
)

// Decision is the ephemeral per-request outcome. Never persisted.
type Decision struct {
	Allowed bool
	Reason  Reason
}

func allow() Decision        { return Decision{Allowed: true, Reason: ReasonAllowed} }
func deny(r Reason) Decision { return Decision{Allowed: false, Reason: r} }

// Rule selects which ownership predicate, if any, guards a resource
// instance.
type Rule int

const (
	// RuleNone skips the ownership stage entirely.
	RuleNone Rule = iota
	// RuleTeaches requires a teaching assignment for the course.
	RuleTeaches
	// RuleEnrolled requires an enrollment for the course.
	RuleEnrolled
	// RuleByRole picks the predicate from the caller's role: admin
	// bypasses ownership, teacher needs a teaching assignment, student
	// needs an enrollment. This is the shared resource-download shape.
	RuleByRole
)

// Policy is the declarative guard an endpoint registers: which roles
// may call it, and which ownership relationship the caller must hold
// to the course instance, if any.
type Policy struct {
	Roles     auth.RoleSet
	Ownership Rule
}

// MembershipResolver answers the two data-dependent relationship
// questions. Each call issues exactly one lookup; results are never
// cached across requests, so an ownership change is visible on the
// next call. A lookup error means the relationship is indeterminate.
type MembershipResolver interface {
	Teaches(ctx context.Context, teacherID, courseID int64) (bool, error)
	Enrolled(ctx context.Context, studentID, courseID int64) (bool, error)
}

// Composer evaluates policies against verified identities.
type Composer struct {
	resolver MembershipResolver
}

// NewComposer wires the composer to its membership resolver.
func NewComposer(resolver MembershipResolver) *Composer {
	return &Composer{resolver: resolver}
}

// Evaluate runs the decision state machine for one request. courseID is
// the course the guarded resource belongs to; it is ignored when the
// policy carries no ownership rule. Identity must already be verified;
// callers pass ok=false when authentication failed upstream.
//
// A resolver failure denies with ReasonIndeterminate. Fail-closed: an
// unanswerable ownership question is never an implicit allow.
func (c *Composer) Evaluate(ctx context.Context, identity auth.Identity, ok bool, policy Policy, courseID int64) Decision {
	if !ok {
		return deny(ReasonNoIdentity)
	}
	if !policy.Roles.Contains(identity.Role) {
		return deny(ReasonRoleMismatch)
	}

	rule := policy.Ownership
	if rule == RuleNone {
		return allow()
	}

	// Admin overrides ownership on resources that otherwise require it.
	if identity.Role == auth.RoleAdmin {
		return allow()
	}
	if rule == RuleByRole {
		switch identity.Role {
		case auth.RoleTeacher:
			rule = RuleTeaches
		case auth.RoleStudent:
			rule = RuleEnrolled
		}
	}

	switch rule {
	case RuleTeaches:
		held, err := c.resolver.Teaches(ctx, identity.UserID, courseID)
		if err != nil {
			return deny(ReasonIndeterminate)
		}
		if !held {
			return deny(ReasonNotOwner)
		}
	case RuleEnrolled:
		held, err := c.resolver.Enrolled(ctx, identity.UserID, courseID)
		if err != nil {
			return deny(ReasonIndeterminate)
		}
		if !held {
			return deny(ReasonNotEnrolled)
		}
	}
	return allow()
}
