package topology

import (
	"context"
	"errors"
	"fmt"

	"github.com/vsrinivas/caproute"
)

// Kind is a capability kind supported by this model.
type Kind string

const (
	KindProtocol  Kind = "protocol"
	KindDirectory Kind = "directory"
	KindRunner    Kind = "runner"
)

// Sentinel errors for route helpers.
var (
	ErrUnknownKind             = errors.New("unknown capability kind")
	ErrUseNotDeclared          = errors.New("component does not use the capability")
	ErrRegistrationNotDeclared = errors.New("component does not register the capability")
)

// ProtocolSources is the origin policy for protocol capabilities: framework,
// namespace, component, or another capability, never builtin.
func ProtocolSources() caproute.Sources {
	return caproute.AllowedSourcesOf[ProtocolDecl]().
		Framework(NewInternalCapability).
		Namespace().
		Component().
		Capability().
		Build()
}

// DirectorySources is the origin policy for directory capabilities:
// framework, namespace, or component.
func DirectorySources() caproute.Sources {
	return caproute.AllowedSourcesOf[DirectoryDecl]().
		Framework(NewInternalCapability).
		Namespace().
		Component().
		Build()
}

// RunnerSources is the origin policy for runner capabilities: builtin or
// component.
func RunnerSources() caproute.Sources {
	return caproute.AllowedSourcesOf[RunnerDecl]().
		Builtin(NewInternalCapability).
		Component().
		Build()
}

// SourcesFor returns the default policy for a kind.
func SourcesFor(kind Kind) (caproute.Sources, error) {
	switch kind {
	case KindProtocol:
		return ProtocolSources(), nil
	case KindDirectory:
		return DirectorySources(), nil
	case KindRunner:
		return RunnerSources(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// RouteUse finds the use declaration of the given kind and capability name
// on c and routes it with the kind's default policy.
func RouteUse(ctx context.Context, c *Component, kind Kind, name caproute.Name, visitor caproute.Visitor, opts ...caproute.RouteOption) (caproute.CapabilitySource, error) {
	sources, err := SourcesFor(kind)
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindProtocol:
		use, ok := findUse[UseProtocol](c, name)
		if !ok {
			return nil, fmt.Errorf("%w: protocol %q at %s", ErrUseNotDeclared, name, c.Moniker())
		}
		route := caproute.UseOfferExpose[ExposeProtocol](
			caproute.UseOffer[OfferProtocol](caproute.NewUseRoute(use, c, opts...)),
		)
		return route.Route(ctx, sources, visitor)
	case KindDirectory:
		use, ok := findUse[UseDirectory](c, name)
		if !ok {
			return nil, fmt.Errorf("%w: directory %q at %s", ErrUseNotDeclared, name, c.Moniker())
		}
		route := caproute.UseOfferExpose[ExposeDirectory](
			caproute.UseOffer[OfferDirectory](caproute.NewUseRoute(use, c, opts...)),
		)
		return route.Route(ctx, sources, visitor)
	default:
		return nil, fmt.Errorf("%w: %q is not useable", ErrUnknownKind, kind)
	}
}

// RouteRegistration finds the runner registration for the given capability
// name on c and routes it with the runner policy.
func RouteRegistration(ctx context.Context, c *Component, name caproute.Name, visitor caproute.Visitor, opts ...caproute.RouteOption) (caproute.CapabilitySource, error) {
	reg, ok := findRegistration[RunnerRegistration](c, name)
	if !ok {
		return nil, fmt.Errorf("%w: runner %q at %s", ErrRegistrationNotDeclared, name, c.Moniker())
	}
	route := caproute.RegistrationOfferExpose[ExposeRunner](
		caproute.RegistrationOffer[OfferRunner](caproute.NewRegistrationRoute(reg, c, opts...)),
	)
	return route.Route(ctx, RunnerSources(), visitor)
}

func findUse[U caproute.UseDecl](c *Component, name caproute.Name) (U, bool) {
	for _, d := range c.Uses() {
		use, ok := d.(U)
		if !ok {
			continue
		}
		if use.SourceName() == name {
			return use, true
		}
	}
	var zero U
	return zero, false
}

func findRegistration[R caproute.RegistrationDecl](c *Component, name caproute.Name) (R, bool) {
	for _, d := range c.Registrations() {
		reg, ok := d.(R)
		if !ok {
			continue
		}
		if reg.SourceName() == name {
			return reg, true
		}
	}
	var zero R
	return zero, false
}
