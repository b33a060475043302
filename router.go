package caproute

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-logr/logr"
)

// RouteOption configures a route seed.
type RouteOption func(*routeConfig)

type routeConfig struct {
	log logr.Logger
}

// WithLogger attaches a logger to the route. Hops are traced at V(1).
var WithLogger = func(log logr.Logger) RouteOption {
	return func(c *routeConfig) {
		c.log = log
	}
}

func newRouteConfig(opts []RouteOption) routeConfig {
	cfg := routeConfig{log: logr.Discard()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Route composition works like the registration functions in a typed graph
// builder: methods cannot introduce type parameters, so each transit phase is
// a generic free function that consumes the previous phase and returns the
// next. Only the four legal topologies carry a Route method:
//
//	NewUseRoute → UseOffer → Route                     (use, offer)
//	NewUseRoute → UseOffer → UseOfferExpose → Route    (use, offer, expose)
//	NewRegistrationRoute → RegistrationOffer →
//	    RegistrationOfferExpose → Route               (registration, offer, expose)
//	NewExposeRoute → Route                             (expose only)
//
// An incomplete composition (for example a RegistrationOfferRoute) has no
// Route method and cannot be routed, which is checked at compile time.

// UseRoute is the entry phase for routing a use declaration. It has no Route
// method; compose it with UseOffer first.
type UseRoute[U UseDecl] struct {
	use    U
	target Instance
	cfg    routeConfig
}

// NewUseRoute seeds a route at a component's use declaration.
func NewUseRoute[U UseDecl](use U, target Instance, opts ...RouteOption) UseRoute[U] {
	return UseRoute[U]{use: use, target: target, cfg: newRouteConfig(opts)}
}

// RegistrationRoute is the entry phase for routing an environment
// registration. It has no Route method; compose it with RegistrationOffer
// and RegistrationOfferExpose first.
type RegistrationRoute[R RegistrationDecl] struct {
	reg    R
	target Instance
	cfg    routeConfig
}

// NewRegistrationRoute seeds a route at an environment registration declared
// by target.
func NewRegistrationRoute[R RegistrationDecl](reg R, target Instance, opts ...RouteOption) RegistrationRoute[R] {
	return RegistrationRoute[R]{reg: reg, target: target, cfg: newRouteConfig(opts)}
}

// ExposeRoute routes starting directly from an expose declaration of target.
// This is the one topology with no transit phase before the entry
// declaration, so Route visits the seed expose itself before walking.
type ExposeRoute[E ExposeDecl] struct {
	expose E
	target Instance
	cfg    routeConfig
}

// NewExposeRoute seeds a route at an expose declaration.
func NewExposeRoute[E ExposeDecl](expose E, target Instance, opts ...RouteOption) ExposeRoute[E] {
	return ExposeRoute[E]{expose: expose, target: target, cfg: newRouteConfig(opts)}
}

// UseOfferRoute is a use route that traverses offers of concrete type O and
// terminates without an expose phase.
type UseOfferRoute[U UseDecl, O OfferDecl] struct {
	from UseRoute[U]
}

// UseOffer declares the concrete offer type the route traverses.
func UseOffer[O OfferDecl, U UseDecl](r UseRoute[U]) UseOfferRoute[U, O] {
	return UseOfferRoute[U, O]{from: r}
}

// UseOfferExposeRoute is a use route that traverses offers of type O and
// exposes of type E.
type UseOfferExposeRoute[U UseDecl, O OfferDecl, E ExposeDecl] struct {
	from UseRoute[U]
}

// UseOfferExpose declares the concrete expose type the route traverses.
func UseOfferExpose[E ExposeDecl, U UseDecl, O OfferDecl](r UseOfferRoute[U, O]) UseOfferExposeRoute[U, O, E] {
	return UseOfferExposeRoute[U, O, E]{from: r.from}
}

// RegistrationOfferRoute is an intermediate phase; registrations always
// declare an expose phase, so it has no Route method.
type RegistrationOfferRoute[R RegistrationDecl, O OfferDecl] struct {
	from RegistrationRoute[R]
}

// RegistrationOffer declares the concrete offer type the route traverses.
func RegistrationOffer[O OfferDecl, R RegistrationDecl](r RegistrationRoute[R]) RegistrationOfferRoute[R, O] {
	return RegistrationOfferRoute[R, O]{from: r}
}

// RegistrationOfferExposeRoute is a registration route that traverses offers
// of type O and exposes of type E.
type RegistrationOfferExposeRoute[R RegistrationDecl, O OfferDecl, E ExposeDecl] struct {
	from RegistrationRoute[R]
}

// RegistrationOfferExpose declares the concrete expose type the route
// traverses.
func RegistrationOfferExpose[E ExposeDecl, R RegistrationDecl, O OfferDecl](r RegistrationOfferRoute[R, O]) RegistrationOfferExposeRoute[R, O, E] {
	return RegistrationOfferExposeRoute[R, O, E]{from: r.from}
}

// childTerminal is an offer chain that ended at a child-sourced offer held by
// component; the route continues (or fails) depending on whether an expose
// phase was declared.
type childTerminal[O OfferDecl] struct {
	component Instance
	offer     O
}

// Route resolves the use declaration without an expose phase. A terminal
// offer sourced from a child fails with ErrOfferFromChildNoExposePhase:
// capability kinds that may legally come from children must declare the
// expose phase.
func (r UseOfferRoute[U, O]) Route(ctx context.Context, sources Sources, visitor Visitor) (CapabilitySource, error) {
	src, terminal, err := routeUseEntry[O](ctx, r.from, sources, visitor)
	if err != nil {
		return nil, err
	}
	if terminal != nil {
		return nil, fmt.Errorf("%w: capability %q offered by %s",
			ErrOfferFromChildNoExposePhase, terminal.offer.SourceName(), terminal.component.Moniker())
	}
	return src, nil
}

// Route resolves the use declaration, descending into expose chains when the
// offer chain terminates at a child-sourced offer.
func (r UseOfferExposeRoute[U, O, E]) Route(ctx context.Context, sources Sources, visitor Visitor) (CapabilitySource, error) {
	src, terminal, err := routeUseEntry[O](ctx, r.from, sources, visitor)
	if err != nil {
		return nil, err
	}
	if terminal != nil {
		return descendFromOffer[E](ctx, r.from.cfg.log, terminal.component, terminal.offer, sources, visitor)
	}
	return src, nil
}

// Route resolves the environment registration. A self-sourced registration
// terminates at the registering component's own capabilities; a
// parent-sourced one ascends like a use; a child-sourced one skips the offer
// phase entirely and descends from the named child.
func (r RegistrationOfferExposeRoute[R, O, E]) Route(ctx context.Context, sources Sources, visitor Visitor) (CapabilitySource, error) {
	seed := r.from
	reg := seed.reg
	log := seed.cfg.log
	log.V(1).Info("routing registration", "capability", reg.SourceName(), "target", seed.target.Moniker())

	switch reg.Source().Kind {
	case RefKindSelf:
		state, err := seed.target.ResolvedState(ctx)
		if err != nil {
			return nil, err
		}
		decl, err := sources.FindComponentSource(reg.SourceName(), state.Capabilities(), visitor)
		if err != nil {
			return nil, err
		}
		return ComponentSource{Capability: decl, Component: seed.target.AsWeak()}, nil

	case RefKindParent:
		parent, err := seed.target.Parent(ctx)
		if err != nil {
			return nil, err
		}
		if parent.AboveRoot() {
			return classifyAboveRoot(reg.SourceName(), parent.Top, sources, visitor)
		}
		step, _ := seed.target.ChildMoniker()
		res, err := ascendOfferChain[O](ctx, log, parent.Component, step, reg.SourceName(), ErrRegisterFromParentNotFound, visitor)
		if err != nil {
			return nil, err
		}
		if res.top != nil {
			return classifyAboveRoot(res.offer.SourceName(), res.top, sources, visitor)
		}
		if res.offer.Source().Kind == RefKindChild {
			return descendFromOffer[E](ctx, log, res.component, res.offer, sources, visitor)
		}
		return classifyOfferTerminal(ctx, res.component, res.offer, sources, visitor)

	case RefKindChild:
		state, err := seed.target.ResolvedState(ctx)
		if err != nil {
			return nil, err
		}
		childStep := NewPartialMoniker(string(reg.Source().Name), "")
		child, ok := state.GetChild(childStep)
		if !ok {
			return nil, childInstanceNotFound(ErrRegisterFromChildInstanceNotFound, seed.target.Moniker(), childStep, reg.SourceName())
		}
		component, expose, err := descendExposeChain[E](ctx, log, child, reg.SourceName(), visitor)
		if err != nil {
			return nil, err
		}
		return classifyExposeTerminal(ctx, component, expose, sources, visitor)

	default:
		panic(fmt.Sprintf("registration source %s escaped manifest validation", reg.Source()))
	}
}

// Route resolves the seed expose declaration, visiting it first and then
// dispatching on its source exactly as the descend loop would.
func (r ExposeRoute[E]) Route(ctx context.Context, sources Sources, visitor Visitor) (CapabilitySource, error) {
	log := r.cfg.log
	log.V(1).Info("routing expose", "capability", r.expose.SourceName(), "target", r.target.Moniker())

	if err := visitor.VisitExpose(r.expose); err != nil {
		return nil, err
	}
	if r.expose.Source().Kind == RefKindChild {
		state, err := r.target.ResolvedState(ctx)
		if err != nil {
			return nil, err
		}
		childStep := NewPartialMoniker(string(r.expose.Source().Name), "")
		child, ok := state.GetChild(childStep)
		if !ok {
			return nil, childInstanceNotFound(ErrExposeFromChildInstanceNotFound, r.target.Moniker(), childStep, r.expose.SourceName())
		}
		component, expose, err := descendExposeChain[E](ctx, log, child, r.expose.SourceName(), visitor)
		if err != nil {
			return nil, err
		}
		return classifyExposeTerminal(ctx, component, expose, sources, visitor)
	}
	return classifyExposeTerminal(ctx, r.target, r.expose, sources, visitor)
}

// routeUseEntry resolves the entry phase of a use route and runs the offer
// chain. It returns either a terminal source, or a childTerminal when the
// chain stopped at a child-sourced offer and the caller decides whether an
// expose phase is available.
func routeUseEntry[O OfferDecl, U UseDecl](ctx context.Context, seed UseRoute[U], sources Sources, visitor Visitor) (CapabilitySource, *childTerminal[O], error) {
	use := seed.use
	log := seed.cfg.log
	log.V(1).Info("routing use", "capability", use.SourceName(), "target", seed.target.Moniker())

	switch use.Source().Kind {
	case RefKindFramework:
		capability, err := sources.FrameworkSource(use.SourceName())
		if err != nil {
			return nil, nil, err
		}
		return FrameworkSource{Capability: capability, ScopeMoniker: seed.target.Moniker()}, nil, nil

	case RefKindDebug:
		return nil, nil, fmt.Errorf("%w: capability %q used by %s", ErrDebugRouting, use.SourceName(), seed.target.Moniker())

	case RefKindCapability:
		if err := sources.CapabilitySource(use.SourceName()); err != nil {
			return nil, nil, err
		}
		return BackingCapabilitySource{SourceCapabilityName: use.Source().Name, Component: seed.target.AsWeak()}, nil, nil

	case RefKindParent:
		parent, err := seed.target.Parent(ctx)
		if err != nil {
			return nil, nil, err
		}
		if parent.AboveRoot() {
			src, err := classifyAboveRoot(use.SourceName(), parent.Top, sources, visitor)
			return src, nil, err
		}
		step, _ := seed.target.ChildMoniker()
		res, err := ascendOfferChain[O](ctx, log, parent.Component, step, use.SourceName(), ErrUseFromParentNotFound, visitor)
		if err != nil {
			return nil, nil, err
		}
		if res.top != nil {
			src, err := classifyAboveRoot(res.offer.SourceName(), res.top, sources, visitor)
			return src, nil, err
		}
		if res.offer.Source().Kind == RefKindChild {
			return nil, &childTerminal[O]{component: res.component, offer: res.offer}, nil
		}
		src, err := classifyOfferTerminal(ctx, res.component, res.offer, sources, visitor)
		return src, nil, err

	default:
		panic(fmt.Sprintf("use source %s escaped manifest validation", use.Source()))
	}
}

// descendFromOffer resolves the child instance a terminal offer names and
// runs the expose chain from it.
func descendFromOffer[E ExposeDecl, O OfferDecl](ctx context.Context, log logr.Logger, component Instance, offer O, sources Sources, visitor Visitor) (CapabilitySource, error) {
	state, err := component.ResolvedState(ctx)
	if err != nil {
		return nil, err
	}
	childStep := NewPartialMoniker(string(offer.Source().Name), "")
	child, ok := state.GetChild(childStep)
	if !ok {
		return nil, childInstanceNotFound(ErrOfferFromChildInstanceNotFound, component.Moniker(), childStep, offer.SourceName())
	}
	terminal, expose, err := descendExposeChain[E](ctx, log, child, offer.SourceName(), visitor)
	if err != nil {
		return nil, err
	}
	return classifyExposeTerminal(ctx, terminal, expose, sources, visitor)
}

// classifyAboveRoot resolves a capability that routed past the root of the
// tree: a namespace declaration if the top-level runtime carries one, else a
// builtin capability. A policy without namespace terminals may still resolve
// builtins here, but only when no namespace declaration shadows the name;
// a shadowed name stays an unsupported-source failure.
func classifyAboveRoot(name Name, top TopInstance, sources Sources, visitor Visitor) (CapabilitySource, error) {
	namespace := top.NamespaceCapabilities()
	decl, err := sources.FindNamespaceSource(name, namespace, visitor)
	if err != nil {
		if !errors.Is(err, ErrSourceKindNotAllowed) || namespaceContains(namespace, name) {
			return nil, err
		}
	}
	if decl != nil {
		return NamespaceSource{Capability: decl}, nil
	}
	capability, err := sources.BuiltinSource(name)
	if err != nil {
		return nil, err
	}
	return BuiltinSource{Capability: capability}, nil
}

func namespaceContains(capabilities []CapabilityDecl, name Name) bool {
	for _, c := range capabilities {
		if c.CapabilityName() == name {
			return true
		}
	}
	return false
}

// classifyOfferTerminal resolves an offer chain that stopped at component
// with a self-, framework- or capability-sourced offer.
func classifyOfferTerminal[O OfferDecl](ctx context.Context, component Instance, offer O, sources Sources, visitor Visitor) (CapabilitySource, error) {
	switch offer.Source().Kind {
	case RefKindSelf:
		state, err := component.ResolvedState(ctx)
		if err != nil {
			return nil, err
		}
		decl, err := sources.FindComponentSource(offer.SourceName(), state.Capabilities(), visitor)
		if err != nil {
			return nil, err
		}
		return ComponentSource{Capability: decl, Component: component.AsWeak()}, nil

	case RefKindFramework:
		capability, err := sources.FrameworkSource(offer.SourceName())
		if err != nil {
			return nil, err
		}
		return FrameworkSource{Capability: capability, ScopeMoniker: component.Moniker()}, nil

	case RefKindCapability:
		if err := sources.CapabilitySource(offer.SourceName()); err != nil {
			return nil, err
		}
		return BackingCapabilitySource{SourceCapabilityName: offer.Source().Name, Component: component.AsWeak()}, nil

	default:
		panic(fmt.Sprintf("offer source %s escaped manifest validation", offer.Source()))
	}
}

// classifyExposeTerminal resolves an expose chain that stopped at component
// with a self-, framework- or capability-sourced expose.
func classifyExposeTerminal[E ExposeDecl](ctx context.Context, component Instance, expose E, sources Sources, visitor Visitor) (CapabilitySource, error) {
	switch expose.Source().Kind {
	case RefKindSelf:
		state, err := component.ResolvedState(ctx)
		if err != nil {
			return nil, err
		}
		decl, err := sources.FindComponentSource(expose.SourceName(), state.Capabilities(), visitor)
		if err != nil {
			return nil, err
		}
		return ComponentSource{Capability: decl, Component: component.AsWeak()}, nil

	case RefKindFramework:
		capability, err := sources.FrameworkSource(expose.SourceName())
		if err != nil {
			return nil, err
		}
		return FrameworkSource{Capability: capability, ScopeMoniker: component.Moniker()}, nil

	case RefKindCapability:
		if err := sources.CapabilitySource(expose.SourceName()); err != nil {
			return nil, err
		}
		return BackingCapabilitySource{SourceCapabilityName: expose.Source().Name, Component: component.AsWeak()}, nil

	default:
		panic(fmt.Sprintf("expose source %s escaped manifest validation", expose.Source()))
	}
}
