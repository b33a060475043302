package caproute

import (
	"context"

	"github.com/go-logr/logr"
)

// ascendResult is the outcome of a completed offer chain. Either component is
// non-nil (the chain stopped at a component whose offer has a non-parent
// source) or top is non-nil (the chain climbed past the root).
type ascendResult[O OfferDecl] struct {
	offer     O
	component Instance
	top       TopInstance
}

// ascendOfferChain climbs the tree from current, which is the parent of the
// component identified by the child step from, following offers whose source
// is the parent. name is the capability name as the previous declaration
// refers to it; each matched offer may rename it for the next hop via its
// source name. firstHop is the sentinel used when the very first lookup
// fails; subsequent hops fail with ErrOfferFromParentNotFound.
//
// The walk is an explicit loop so stack depth stays constant regardless of
// tree depth. Each iteration performs one resolved-state read, which may
// suspend on ctx.
func ascendOfferChain[O OfferDecl](ctx context.Context, log logr.Logger, current Instance, from ChildMoniker, name Name, firstHop error, visitor OfferVisitor) (ascendResult[O], error) {
	var zero ascendResult[O]
	sentinel := firstHop
	for {
		state, err := current.ResolvedState(ctx)
		if err != nil {
			return zero, err
		}
		offer, ok := matchOffer[O](state.Offers(), from, name)
		if !ok {
			return zero, offerNotFound(sentinel, current.Moniker().Child(from), name)
		}
		if err := visitor.VisitOffer(offer); err != nil {
			return zero, err
		}
		if offer.Source().Kind != RefKindParent {
			log.V(1).Info("offer chain ended", "component", current.Moniker(), "source", offer.Source())
			return ascendResult[O]{offer: offer, component: current}, nil
		}

		parent, err := current.Parent(ctx)
		if err != nil {
			return zero, err
		}
		if parent.AboveRoot() {
			log.V(1).Info("offer chain ended above root", "capability", offer.SourceName())
			return ascendResult[O]{offer: offer, top: parent.Top}, nil
		}
		step, ok := current.ChildMoniker()
		if !ok {
			// A component with a parent component always occupies a child slot.
			panic("component has a parent but no child moniker")
		}
		log.V(1).Info("ascending", "from", current.Moniker(), "capability", offer.SourceName())
		from = step
		name = offer.SourceName()
		current = parent.Component
		sentinel = ErrOfferFromParentNotFound
	}
}

// matchOffer finds the offer of concrete type O whose target matches the
// child step and whose target name equals name. A child-targeted offer
// matches a step with no collection and the same name; a collection-targeted
// offer matches any step in that collection.
func matchOffer[O OfferDecl](offers []OfferDecl, step ChildMoniker, name Name) (O, bool) {
	for _, d := range offers {
		offer, ok := d.(O)
		if !ok {
			continue
		}
		if offer.TargetName() != name {
			continue
		}
		target := offer.Target()
		switch target.Kind {
		case RefKindChild:
			if step.Collection() == "" && Name(step.Name()) == target.Name {
				return offer, true
			}
		case RefKindCollection:
			if step.Collection() != "" && Name(step.Collection()) == target.Name {
				return offer, true
			}
		}
	}
	var zero O
	return zero, false
}

// descendExposeChain walks down the tree from current, following exposes
// whose source is a child, until it finds one sourced from the component
// itself, the framework, or another capability. name is the capability name
// as the previous declaration refers to it; renames apply per hop as in
// ascendOfferChain.
func descendExposeChain[E ExposeDecl](ctx context.Context, log logr.Logger, current Instance, name Name, visitor ExposeVisitor) (Instance, E, error) {
	var zero E
	for {
		state, err := current.ResolvedState(ctx)
		if err != nil {
			return nil, zero, err
		}
		expose, ok := matchExpose[E](state.Exposes(), name)
		if !ok {
			return nil, zero, exposeNotFound(current.Moniker(), name)
		}
		if err := visitor.VisitExpose(expose); err != nil {
			return nil, zero, err
		}
		if expose.Source().Kind != RefKindChild {
			log.V(1).Info("expose chain ended", "component", current.Moniker(), "source", expose.Source())
			return current, expose, nil
		}

		childStep := NewPartialMoniker(string(expose.Source().Name), "")
		child, ok := state.GetChild(childStep)
		if !ok {
			return nil, zero, childInstanceNotFound(ErrExposeFromChildInstanceNotFound, current.Moniker(), childStep, expose.SourceName())
		}
		log.V(1).Info("descending", "into", child.Moniker(), "capability", expose.SourceName())
		name = expose.SourceName()
		current = child
	}
}

// matchExpose finds the expose of concrete type E whose target name equals
// name. Exposes in this core always target the parent.
func matchExpose[E ExposeDecl](exposes []ExposeDecl, name Name) (E, bool) {
	for _, d := range exposes {
		expose, ok := d.(E)
		if !ok {
			continue
		}
		if expose.TargetName() == name {
			return expose, true
		}
	}
	var zero E
	return zero, false
}
