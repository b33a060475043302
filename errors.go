package caproute

import (
	"errors"
	"fmt"
)

// Sentinel errors for routing failures. All of them are permanent
// manifest/topology defects; retrying without correcting the manifest cannot
// succeed. Check with errors.Is().
var (
	// ErrInvalidName indicates a malformed capability name.
	ErrInvalidName = errors.New("invalid capability name")

	// ErrSourceKindNotAllowed indicates the Sources policy does not permit
	// the source kind the route terminated at.
	ErrSourceKindNotAllowed = errors.New("source kind not allowed for this capability type")

	// ErrUseFromParentNotFound indicates a `use from parent` had no matching
	// offer in the parent.
	ErrUseFromParentNotFound = errors.New("used capability not offered by parent")

	// ErrRegisterFromParentNotFound is the registration-phase analogue of
	// ErrUseFromParentNotFound.
	ErrRegisterFromParentNotFound = errors.New("registered capability not offered by parent")

	// ErrOfferFromParentNotFound indicates an `offer from parent` had no
	// matching offer one level up.
	ErrOfferFromParentNotFound = errors.New("offered capability not offered by parent")

	// ErrExposeFromChildNotFound indicates a child named as a capability
	// source does not expose the capability.
	ErrExposeFromChildNotFound = errors.New("capability not exposed by child")

	// ErrOfferFromChildInstanceNotFound indicates an offer names a child
	// that does not exist as a live instance.
	ErrOfferFromChildInstanceNotFound = errors.New("offer source child does not exist")

	// ErrExposeFromChildInstanceNotFound indicates an expose names a child
	// that does not exist as a live instance.
	ErrExposeFromChildInstanceNotFound = errors.New("expose source child does not exist")

	// ErrRegisterFromChildInstanceNotFound indicates an environment
	// registration names a child that does not exist as a live instance.
	ErrRegisterFromChildInstanceNotFound = errors.New("registration source child does not exist")

	// ErrOfferFromChildNoExposePhase indicates a route without an expose
	// phase terminated at a child-sourced offer. Routes for capability kinds
	// that may come from children must declare the expose phase.
	ErrOfferFromChildNoExposePhase = errors.New("offer is sourced from a child but the route has no expose phase")

	// ErrDebugRouting indicates a `use from debug`, which resolves through
	// environments rather than the component tree.
	ErrDebugRouting = errors.New("debug capabilities do not route through the component tree")

	// ErrInstanceGone indicates a weak instance handle whose component has
	// been destroyed.
	ErrInstanceGone = errors.New("component instance is gone")
)

func offerNotFound(sentinel error, moniker AbsoluteMoniker, name Name) error {
	return fmt.Errorf("%w: capability %q requested by %s", sentinel, name, moniker)
}

func exposeNotFound(moniker AbsoluteMoniker, name Name) error {
	return fmt.Errorf("%w: capability %q not exposed by %s", ErrExposeFromChildNotFound, name, moniker)
}

func childInstanceNotFound(sentinel error, moniker AbsoluteMoniker, child PartialMoniker, name Name) error {
	return fmt.Errorf("%w: child %s of %s, capability %q", sentinel, child, moniker, name)
}

func sourceKindNotAllowed(op string, name Name) error {
	return fmt.Errorf("%w: %s source for capability %q", ErrSourceKindNotAllowed, op, name)
}
