package caproute

import (
	"fmt"
)

// Sources is the per-capability-type policy of which origin kinds are legal
// terminals of routing. Build one with AllowedSources (framework, builtin and
// capability terminals) or AllowedSourcesOf[C] (adds namespace and component
// terminals, which need a concrete declaration type to scan for).
type Sources interface {
	// FrameworkSource constructs the framework capability handle for name,
	// or fails with ErrSourceKindNotAllowed if framework terminals were not
	// enabled.
	FrameworkSource(name Name) (InternalCapability, error)

	// BuiltinSource constructs the builtin capability handle for name, or
	// fails with ErrSourceKindNotAllowed.
	BuiltinSource(name Name) (InternalCapability, error)

	// CapabilitySource fails with ErrSourceKindNotAllowed unless
	// capability-backed terminals were enabled. On success the caller
	// constructs the BackingCapabilitySource itself.
	CapabilitySource(name Name) error

	// FindNamespaceSource scans capabilities for a declaration named name,
	// visits it, and returns it. A missing declaration is not an error: the
	// caller falls back to BuiltinSource. Fails with ErrSourceKindNotAllowed
	// unless namespace terminals were enabled.
	FindNamespaceSource(name Name, capabilities []CapabilityDecl, visitor CapabilityVisitor) (CapabilityDecl, error)

	// FindComponentSource scans capabilities for a declaration named name,
	// visits it, and returns it. The declaration is expected to exist: a
	// missing match means the manifest passed validation with a dangling
	// self-sourced route, and FindComponentSource panics. Fails with
	// ErrSourceKindNotAllowed unless component terminals were enabled.
	FindComponentSource(name Name, capabilities []CapabilityDecl, visitor CapabilityVisitor) (CapabilityDecl, error)
}

// InternalCapabilityCtor constructs a framework or builtin capability handle
// from a capability name. Each capability kind supplies its own.
type InternalCapabilityCtor func(name Name) InternalCapability

// AllowedSourcesBuilder configures a Sources policy limited to framework,
// builtin and capability-backed terminals. Not safe for concurrent use; the
// built Sources is immutable and safe to share.
type AllowedSourcesBuilder struct {
	cfg allowedSources
}

// AllowedSources creates a builder for capability types that can never
// terminate at a namespace or component declaration.
func AllowedSources() *AllowedSourcesBuilder {
	return &AllowedSourcesBuilder{}
}

// Framework enables framework terminals, constructed via ctor.
func (b *AllowedSourcesBuilder) Framework(ctor InternalCapabilityCtor) *AllowedSourcesBuilder {
	b.cfg.framework = ctor
	return b
}

// Builtin enables builtin terminals, constructed via ctor.
func (b *AllowedSourcesBuilder) Builtin(ctor InternalCapabilityCtor) *AllowedSourcesBuilder {
	b.cfg.builtin = ctor
	return b
}

// Capability enables capability-backed terminals.
func (b *AllowedSourcesBuilder) Capability() *AllowedSourcesBuilder {
	b.cfg.capability = true
	return b
}

// Build finalizes the policy.
func (b *AllowedSourcesBuilder) Build() Sources {
	cfg := b.cfg
	return &cfg
}

// TypedAllowedSourcesBuilder configures a Sources policy for a concrete
// capability declaration type C, which additionally permits namespace and
// component terminals. Locating those terminals requires scanning a list of
// declarations for a C with a matching name, hence the type parameter.
type TypedAllowedSourcesBuilder[C CapabilityDecl] struct {
	cfg typedAllowedSources[C]
}

// AllowedSourcesOf creates a builder for capability types whose routes may
// terminate at a namespace or component declaration of type C.
func AllowedSourcesOf[C CapabilityDecl]() *TypedAllowedSourcesBuilder[C] {
	return &TypedAllowedSourcesBuilder[C]{}
}

// Framework enables framework terminals, constructed via ctor.
func (b *TypedAllowedSourcesBuilder[C]) Framework(ctor InternalCapabilityCtor) *TypedAllowedSourcesBuilder[C] {
	b.cfg.framework = ctor
	return b
}

// Builtin enables builtin terminals, constructed via ctor.
func (b *TypedAllowedSourcesBuilder[C]) Builtin(ctor InternalCapabilityCtor) *TypedAllowedSourcesBuilder[C] {
	b.cfg.builtin = ctor
	return b
}

// Capability enables capability-backed terminals.
func (b *TypedAllowedSourcesBuilder[C]) Capability() *TypedAllowedSourcesBuilder[C] {
	b.cfg.capability = true
	return b
}

// Namespace enables namespace terminals.
func (b *TypedAllowedSourcesBuilder[C]) Namespace() *TypedAllowedSourcesBuilder[C] {
	b.cfg.namespace = true
	return b
}

// Component enables component terminals.
func (b *TypedAllowedSourcesBuilder[C]) Component() *TypedAllowedSourcesBuilder[C] {
	b.cfg.component = true
	return b
}

// Build finalizes the policy.
func (b *TypedAllowedSourcesBuilder[C]) Build() Sources {
	cfg := b.cfg
	return &cfg
}

type allowedSources struct {
	framework  InternalCapabilityCtor
	builtin    InternalCapabilityCtor
	capability bool
}

func (s *allowedSources) FrameworkSource(name Name) (InternalCapability, error) {
	if s.framework == nil {
		return nil, sourceKindNotAllowed("framework", name)
	}
	return s.framework(name), nil
}

func (s *allowedSources) BuiltinSource(name Name) (InternalCapability, error) {
	if s.builtin == nil {
		return nil, sourceKindNotAllowed("builtin", name)
	}
	return s.builtin(name), nil
}

func (s *allowedSources) CapabilitySource(name Name) error {
	if !s.capability {
		return sourceKindNotAllowed("capability", name)
	}
	return nil
}

func (s *allowedSources) FindNamespaceSource(name Name, _ []CapabilityDecl, _ CapabilityVisitor) (CapabilityDecl, error) {
	return nil, sourceKindNotAllowed("namespace", name)
}

func (s *allowedSources) FindComponentSource(name Name, _ []CapabilityDecl, _ CapabilityVisitor) (CapabilityDecl, error) {
	return nil, sourceKindNotAllowed("component", name)
}

type typedAllowedSources[C CapabilityDecl] struct {
	framework  InternalCapabilityCtor
	builtin    InternalCapabilityCtor
	capability bool
	namespace  bool
	component  bool
}

func (s *typedAllowedSources[C]) FrameworkSource(name Name) (InternalCapability, error) {
	if s.framework == nil {
		return nil, sourceKindNotAllowed("framework", name)
	}
	return s.framework(name), nil
}

func (s *typedAllowedSources[C]) BuiltinSource(name Name) (InternalCapability, error) {
	if s.builtin == nil {
		return nil, sourceKindNotAllowed("builtin", name)
	}
	return s.builtin(name), nil
}

func (s *typedAllowedSources[C]) CapabilitySource(name Name) error {
	if !s.capability {
		return sourceKindNotAllowed("capability", name)
	}
	return nil
}

func (s *typedAllowedSources[C]) FindNamespaceSource(name Name, capabilities []CapabilityDecl, visitor CapabilityVisitor) (CapabilityDecl, error) {
	if !s.namespace {
		return nil, sourceKindNotAllowed("namespace", name)
	}
	decl, ok := findDecl[C](name, capabilities)
	if !ok {
		return nil, nil
	}
	if err := visitor.VisitCapability(decl); err != nil {
		return nil, err
	}
	return decl, nil
}

func (s *typedAllowedSources[C]) FindComponentSource(name Name, capabilities []CapabilityDecl, visitor CapabilityVisitor) (CapabilityDecl, error) {
	if !s.component {
		return nil, sourceKindNotAllowed("component", name)
	}
	decl, ok := findDecl[C](name, capabilities)
	if !ok {
		// A self-sourced route to an undeclared capability cannot pass
		// manifest validation; reaching this point is a bug upstream.
		panic(fmt.Sprintf("no capability declaration %q in a validated manifest", name))
	}
	if err := visitor.VisitCapability(decl); err != nil {
		return nil, err
	}
	return decl, nil
}

func findDecl[C CapabilityDecl](name Name, capabilities []CapabilityDecl) (CapabilityDecl, bool) {
	for _, c := range capabilities {
		decl, ok := c.(C)
		if !ok {
			continue
		}
		if decl.CapabilityName() == name {
			return decl, true
		}
	}
	return nil, false
}
