package caproute

import (
	"context"
)

// Instance is the router's read-only view of a component instance. It is
// supplied by the component model; the router never mutates an instance and
// never keeps one alive past a Route call (see WeakInstance).
type Instance interface {
	// Moniker returns the absolute moniker of this instance.
	Moniker() AbsoluteMoniker

	// ChildMoniker returns the child step this instance occupies under its
	// parent, or false for the root instance.
	ChildMoniker() (ChildMoniker, bool)

	// Parent returns the parent link. May suspend on ctx while the component
	// model resolves it; fails if the link cannot be determined.
	Parent(ctx context.Context) (ExtendedInstance, error)

	// ResolvedState returns the instance's resolved manifest state. May
	// suspend on ctx while resolution is in progress; fails if the instance
	// cannot be resolved.
	ResolvedState(ctx context.Context) (ResolvedState, error)

	// AsWeak returns a weak handle that does not keep the instance alive.
	AsWeak() WeakInstance
}

// ExtendedInstance is the result of following a parent link: either an
// ordinary component instance, or the top of the tree (the runtime above the
// root). Exactly one field is non-nil.
type ExtendedInstance struct {
	Component Instance
	Top       TopInstance
}

// AboveRoot reports whether the parent link leads above the root of the tree.
func (e ExtendedInstance) AboveRoot() bool { return e.Top != nil }

// TopInstance represents the runtime above the root of the component tree.
// Capabilities that route past the root terminate against it.
type TopInstance interface {
	// NamespaceCapabilities lists the capability declarations pre-installed
	// in the top-level runtime's namespace.
	NamespaceCapabilities() []CapabilityDecl
}

// ResolvedState is a consistent snapshot of a component's resolved manifest.
// The snapshot stays internally consistent for the duration of one read; the
// router performs one such read per hop.
type ResolvedState interface {
	Offers() []OfferDecl
	Exposes() []ExposeDecl
	Capabilities() []CapabilityDecl

	// GetChild looks up a live child by partial moniker.
	GetChild(m PartialMoniker) (Instance, bool)
}

// WeakInstance is a non-owning reference to a component instance. A routing
// result can outlive the instant the instance was resolved, so terminal
// sources carry weak references only.
type WeakInstance interface {
	// Moniker returns the moniker the handle was taken at.
	Moniker() AbsoluteMoniker

	// Upgrade returns the live instance, or ErrInstanceGone if it has been
	// destroyed since the handle was taken.
	Upgrade() (Instance, error)
}
