package caproute

import (
	"fmt"
)

// InternalCapability is a capability supplied by the framework or the
// top-level runtime rather than by a component in the tree. Each capability
// kind provides its own concrete type via the constructors installed on the
// Sources policy.
type InternalCapability interface {
	CapabilityName() Name
}

// CapabilitySource is the resolved origin of a capability. Exactly one
// variant is produced per successful Route call.
//
// The variant set is closed: FrameworkSource, BuiltinSource, NamespaceSource,
// ComponentSource, BackingCapabilitySource.
type CapabilitySource interface {
	fmt.Stringer
	isCapabilitySource()
}

// FrameworkSource is a capability provided by the framework itself, scoped
// to the component whose declaration named the framework as its source.
type FrameworkSource struct {
	Capability   InternalCapability
	ScopeMoniker AbsoluteMoniker
}

// BuiltinSource is a capability supplied by the top-level runtime, above the
// root of the tree.
type BuiltinSource struct {
	Capability InternalCapability
}

// NamespaceSource is a capability pre-installed in the top-level runtime's
// namespace.
type NamespaceSource struct {
	Capability CapabilityDecl
}

// ComponentSource is a capability declared by a specific component instance.
// The reference is weak: the router does not keep the instance alive.
type ComponentSource struct {
	Capability CapabilityDecl
	Component  WeakInstance
}

// BackingCapabilitySource is a capability backed by another capability
// declared on the same component (capability-on-capability layering, e.g. a
// storage capability backed by a directory).
type BackingCapabilitySource struct {
	SourceCapabilityName Name
	Component            WeakInstance
}

func (FrameworkSource) isCapabilitySource()         {}
func (BuiltinSource) isCapabilitySource()           {}
func (NamespaceSource) isCapabilitySource()         {}
func (ComponentSource) isCapabilitySource()         {}
func (BackingCapabilitySource) isCapabilitySource() {}

func (s FrameworkSource) String() string {
	return fmt.Sprintf("framework capability %q scoped to %s", s.Capability.CapabilityName(), s.ScopeMoniker)
}

func (s BuiltinSource) String() string {
	return fmt.Sprintf("builtin capability %q", s.Capability.CapabilityName())
}

func (s NamespaceSource) String() string {
	return fmt.Sprintf("namespace capability %q", s.Capability.CapabilityName())
}

func (s ComponentSource) String() string {
	return fmt.Sprintf("capability %q declared by %s", s.Capability.CapabilityName(), s.Component.Moniker())
}

func (s BackingCapabilitySource) String() string {
	return fmt.Sprintf("capability backed by %q at %s", s.SourceCapabilityName, s.Component.Moniker())
}
