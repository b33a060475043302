package caproute

import (
	"fmt"
	"strings"
)

// Name is a capability name as it appears in a manifest declaration.
// Names must be non-empty and cannot contain whitespace or '/'.
type Name string

// Validate checks if the Name is valid.
// Returns ErrInvalidName if the name is empty or contains illegal characters.
func (n Name) Validate() error {
	if n == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}
	if strings.ContainsAny(string(n), " \t\n\r/") {
		return fmt.Errorf("%w: name %q cannot contain whitespace or '/'", ErrInvalidName, n)
	}
	return nil
}

// RefKind discriminates the source/target reference of a declaration.
type RefKind int

const (
	RefKindParent RefKind = iota
	RefKindSelf
	RefKindFramework
	RefKindDebug
	RefKindChild
	RefKindCollection
	RefKindCapability
)

func (k RefKind) String() string {
	switch k {
	case RefKindParent:
		return "parent"
	case RefKindSelf:
		return "self"
	case RefKindFramework:
		return "framework"
	case RefKindDebug:
		return "debug"
	case RefKindChild:
		return "child"
	case RefKindCollection:
		return "collection"
	case RefKindCapability:
		return "capability"
	default:
		return "unknown"
	}
}

// Ref is a source or target reference carried by a declaration. Name is set
// for child, collection and capability references and empty otherwise.
// Which kinds are legal for which declaration is enforced by the manifest
// compiler; the router treats refs as pre-validated input.
type Ref struct {
	Kind RefKind
	Name Name
}

func ParentRef() Ref              { return Ref{Kind: RefKindParent} }
func SelfRef() Ref                { return Ref{Kind: RefKindSelf} }
func FrameworkRef() Ref           { return Ref{Kind: RefKindFramework} }
func DebugRef() Ref               { return Ref{Kind: RefKindDebug} }
func ChildRef(name Name) Ref      { return Ref{Kind: RefKindChild, Name: name} }
func CollectionRef(name Name) Ref { return Ref{Kind: RefKindCollection, Name: name} }
func CapabilityRef(name Name) Ref { return Ref{Kind: RefKindCapability, Name: name} }

func (r Ref) String() string {
	if r.Name == "" {
		return r.Kind.String()
	}
	return fmt.Sprintf("%s(%s)", r.Kind, r.Name)
}

// UseDecl is a component's own statement that it depends on a capability.
// Source kinds: framework, parent, debug, capability.
type UseDecl interface {
	Source() Ref
	SourceName() Name
}

// RegistrationDecl is an environment's statement of where a capability used
// for a structural purpose (e.g. a runner or resolver) comes from.
// Source kinds: self, parent, child.
type RegistrationDecl interface {
	Source() Ref
	SourceName() Name
}

// OfferDecl is a statement that a capability is available to one child or
// collection. Source kinds: framework, self, capability, child, parent;
// target kinds: child, collection.
type OfferDecl interface {
	Source() Ref
	SourceName() Name
	Target() Ref
	TargetName() Name
}

// ExposeDecl is a statement that a capability (the component's own or a
// child's) is visible to the parent. Source kinds: self, framework,
// capability, child. The target is always the parent, so only the target
// name is modeled.
type ExposeDecl interface {
	Source() Ref
	SourceName() Name
	TargetName() Name
}

// CapabilityDecl is a component's own declared capability, e.g. the protocol
// or directory backing a route that terminates at that component.
type CapabilityDecl interface {
	CapabilityName() Name
}
