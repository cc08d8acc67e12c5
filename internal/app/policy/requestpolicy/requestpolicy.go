// internal/app/policy/requestpolicy/requestpolicy.go
package requestpolicy

import (
	"fmt"
	"strings"

	"github.com/dalemusser/volunteerhub/internal/app/system/actor"
	"github.com/dalemusser/volunteerhub/internal/app/system/apperr"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
)

// ActivationRule decides who may toggle or set a request's activation flag.
type ActivationRule string

const (
	// ActivationAuthenticated lets any signed-in actor change activation.
	ActivationAuthenticated ActivationRule = "authenticated"
	// ActivationAdmin restricts activation changes to admins.
	ActivationAdmin ActivationRule = "admin"
)

// ParseActivationRule accepts "authenticated" or "admin", case-insensitively.
func ParseActivationRule(s string) (ActivationRule, error) {
	switch r := ActivationRule(strings.ToLower(strings.TrimSpace(s))); r {
	case ActivationAuthenticated, ActivationAdmin:
		return r, nil
	case "":
		return ActivationAuthenticated, nil
	default:
		return "", fmt.Errorf("unknown activation policy %q (want authenticated|admin)", s)
	}
}

// Policy holds the configurable parts of the lifecycle rules.
type Policy struct {
	Activation ActivationRule
	// EnforceOwnership restricts update and delete to the requester.
	EnforceOwnership bool
}

// Default returns the production policy.
func Default() Policy {
	return Policy{Activation: ActivationAuthenticated, EnforceOwnership: true}
}

func requireSignedIn(a *actor.Actor) error {
	if a == nil {
		return apperr.Unauthorized("sign in required")
	}
	return nil
}

// CanCreate: any signed-in actor.
func (p Policy) CanCreate(a *actor.Actor) error {
	return requireSignedIn(a)
}

// CanEdit covers update and delete. With ownership enforced only the
// requester may edit; admins get no bypass.
func (p Policy) CanEdit(a *actor.Actor, r models.Request) error {
	if err := requireSignedIn(a); err != nil {
		return err
	}
	if !p.EnforceOwnership || a.ID == r.Requester {
		return nil
	}
	return apperr.Forbidden("only the requester can modify this request")
}

// CanChangeActivation covers toggle and set.
func (p Policy) CanChangeActivation(a *actor.Actor) error {
	if err := requireSignedIn(a); err != nil {
		return err
	}
	if p.Activation == ActivationAdmin && !a.IsAdmin() {
		return apperr.Forbidden("only admins can change activation")
	}
	return nil
}

// CanAccept: a signed-in, non-admin actor who is not the requester.
// Duplicate membership is detected by the store, not here.
func (p Policy) CanAccept(a *actor.Actor, r models.Request) error {
	if err := requireSignedIn(a); err != nil {
		return err
	}
	if a.IsAdmin() {
		return apperr.Forbidden("admins cannot volunteer")
	}
	if a.ID == r.Requester {
		return apperr.Forbidden("requester cannot volunteer on their own request")
	}
	return nil
}

// CanReject: any signed-in actor; it only ever affects their own membership.
func (p Policy) CanReject(a *actor.Actor) error {
	return requireSignedIn(a)
}

// CanChat covers reading and posting chat messages.
func (p Policy) CanChat(a *actor.Actor) error {
	return requireSignedIn(a)
}

// CanViewAnalytics: admins only.
func (p Policy) CanViewAnalytics(a *actor.Actor) error {
	if err := requireSignedIn(a); err != nil {
		return err
	}
	if !a.IsAdmin() {
		return apperr.Forbidden("admin access required")
	}
	return nil
}
