package caproute

import (
	"context"
	"errors"
)

// In-package test doubles for the declaration contracts. The full tree-walk
// paths are covered by the external router tests against the topology
// package; these minimal fakes keep the policy and matching tests free of
// that dependency.

type fakeCapability struct {
	name Name
}

func (c fakeCapability) CapabilityName() Name { return c.name }

// otherCapability is a second declaration type so type-filtered scans can be
// exercised.
type otherCapability struct {
	name Name
}

func (c otherCapability) CapabilityName() Name { return c.name }

type fakeInternal struct {
	name Name
}

func (c fakeInternal) CapabilityName() Name { return c.name }

func newFakeInternal(name Name) InternalCapability {
	return fakeInternal{name: name}
}

type fakeOffer struct {
	from Ref
	name Name
	to   Ref
	as   Name
}

func (o fakeOffer) Source() Ref      { return o.from }
func (o fakeOffer) SourceName() Name { return o.name }
func (o fakeOffer) Target() Ref      { return o.to }
func (o fakeOffer) TargetName() Name { return o.as }

// otherOffer is a second offer type for type-filter tests.
type otherOffer struct {
	fakeOffer
}

type fakeExpose struct {
	from Ref
	name Name
	as   Name
}

func (e fakeExpose) Source() Ref      { return e.from }
func (e fakeExpose) SourceName() Name { return e.name }
func (e fakeExpose) TargetName() Name { return e.as }

type otherExpose struct {
	fakeExpose
}

// fakeInstance is a minimal resolved component for driving the walk loops
// directly, without a full tree behind it.
type fakeInstance struct {
	moniker AbsoluteMoniker
	exposes []ExposeDecl
}

func (f *fakeInstance) Moniker() AbsoluteMoniker { return f.moniker }

func (f *fakeInstance) ChildMoniker() (ChildMoniker, bool) {
	return f.moniker.Leaf()
}

func (f *fakeInstance) Parent(context.Context) (ExtendedInstance, error) {
	return ExtendedInstance{}, errors.New("parent link not wired")
}

func (f *fakeInstance) ResolvedState(context.Context) (ResolvedState, error) {
	return f, nil
}

func (f *fakeInstance) AsWeak() WeakInstance { return fakeWeak{instance: f} }

func (f *fakeInstance) Offers() []OfferDecl            { return nil }
func (f *fakeInstance) Exposes() []ExposeDecl          { return f.exposes }
func (f *fakeInstance) Capabilities() []CapabilityDecl { return nil }

func (f *fakeInstance) GetChild(PartialMoniker) (Instance, bool) { return nil, false }

type fakeWeak struct {
	instance *fakeInstance
}

func (w fakeWeak) Moniker() AbsoluteMoniker   { return w.instance.moniker }
func (w fakeWeak) Upgrade() (Instance, error) { return w.instance, nil }

// countingCapabilityVisitor records visited capability declarations.
type countingCapabilityVisitor struct {
	visited []CapabilityDecl
	err     error
}

func (v *countingCapabilityVisitor) VisitCapability(c CapabilityDecl) error {
	v.visited = append(v.visited, c)
	return v.err
}
