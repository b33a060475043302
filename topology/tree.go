package topology

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/vsrinivas/caproute"
)

// Sentinel errors for tree construction.
var (
	ErrChildAlreadyExists = errors.New("child already exists")
	ErrChildNotFound      = errors.New("child not found")
)

// Tree is an in-memory component topology implementing the caproute
// collaborator contracts. Construction is not safe for concurrent use; a
// fully built tree is read-only with respect to routing and safe to route
// against concurrently.
type Tree struct {
	root      *Component
	namespace []caproute.CapabilityDecl
}

// New creates a tree with an empty root component. The given capability
// declarations form the top-level runtime's namespace.
func New(namespace ...caproute.CapabilityDecl) *Tree {
	t := &Tree{namespace: namespace}
	t.root = &Component{
		tree:     t,
		moniker:  caproute.RootMoniker(),
		children: map[caproute.PartialMoniker]*Component{},
	}
	return t
}

// Root returns the root component.
func (t *Tree) Root() *Component { return t.root }

// Find walks the tree to the component at moniker, or false if no such
// instance exists.
func (t *Tree) Find(m caproute.AbsoluteMoniker) (*Component, bool) {
	current := t.root
	for _, step := range m.Path() {
		child, ok := current.children[step.ToPartial()]
		if !ok {
			return nil, false
		}
		current = child
	}
	return current, true
}

type topInstance struct {
	tree *Tree
}

func (t topInstance) NamespaceCapabilities() []caproute.CapabilityDecl {
	return t.tree.namespace
}

// Component is one instance in the tree. It implements both
// caproute.Instance and caproute.ResolvedState: the model is always
// "resolved", so the state snapshot is the component itself.
type Component struct {
	tree    *Tree
	parent  *Component
	step    caproute.ChildMoniker
	moniker caproute.AbsoluteMoniker

	children   map[caproute.PartialMoniker]*Component
	childOrder []caproute.PartialMoniker

	uses          []caproute.UseDecl
	offers        []caproute.OfferDecl
	exposes       []caproute.ExposeDecl
	capabilities  []caproute.CapabilityDecl
	registrations []caproute.RegistrationDecl

	removed bool
}

// AddChild creates a child component. collection may be empty for statically
// declared children.
func (c *Component) AddChild(name, collection string) (*Component, error) {
	step := caproute.NewChildMoniker(name, collection)
	key := step.ToPartial()
	if _, exists := c.children[key]; exists {
		return nil, fmt.Errorf("%w: %s under %s", ErrChildAlreadyExists, key, c.moniker)
	}
	child := &Component{
		tree:     c.tree,
		parent:   c,
		step:     step,
		moniker:  c.moniker.Child(step),
		children: map[caproute.PartialMoniker]*Component{},
	}
	c.children[key] = child
	c.childOrder = append(c.childOrder, key)
	return child, nil
}

// MustAddChild is like AddChild but panics on error.
func (c *Component) MustAddChild(name, collection string) *Component {
	child, err := c.AddChild(name, collection)
	if err != nil {
		panic(err)
	}
	return child
}

// RemoveChild destroys a child and its whole subtree. Weak handles taken at
// removed instances fail to upgrade afterwards.
func (c *Component) RemoveChild(m caproute.PartialMoniker) error {
	child, ok := c.children[m]
	if !ok {
		return fmt.Errorf("%w: %s under %s", ErrChildNotFound, m, c.moniker)
	}
	child.markRemoved()
	delete(c.children, m)
	if i := slices.Index(c.childOrder, m); i >= 0 {
		c.childOrder = slices.Delete(c.childOrder, i, i+1)
	}
	return nil
}

func (c *Component) markRemoved() {
	c.removed = true
	for _, child := range c.children {
		child.markRemoved()
	}
}

// AddUse appends a use declaration.
func (c *Component) AddUse(d caproute.UseDecl) *Component {
	c.uses = append(c.uses, d)
	return c
}

// AddOffer appends an offer declaration.
func (c *Component) AddOffer(d caproute.OfferDecl) *Component {
	c.offers = append(c.offers, d)
	return c
}

// AddExpose appends an expose declaration.
func (c *Component) AddExpose(d caproute.ExposeDecl) *Component {
	c.exposes = append(c.exposes, d)
	return c
}

// AddCapability appends a capability declaration.
func (c *Component) AddCapability(d caproute.CapabilityDecl) *Component {
	c.capabilities = append(c.capabilities, d)
	return c
}

// AddRegistration appends an environment registration.
func (c *Component) AddRegistration(d caproute.RegistrationDecl) *Component {
	c.registrations = append(c.registrations, d)
	return c
}

// Uses returns the component's use declarations.
func (c *Component) Uses() []caproute.UseDecl { return c.uses }

// Registrations returns the component's environment registrations.
func (c *Component) Registrations() []caproute.RegistrationDecl { return c.registrations }

// Children returns the live children in insertion order.
func (c *Component) Children() []*Component {
	out := make([]*Component, 0, len(c.childOrder))
	for _, key := range c.childOrder {
		out = append(out, c.children[key])
	}
	return out
}

// caproute.Instance implementation.

func (c *Component) Moniker() caproute.AbsoluteMoniker { return c.moniker }

func (c *Component) ChildMoniker() (caproute.ChildMoniker, bool) {
	if c.parent == nil {
		return caproute.ChildMoniker{}, false
	}
	return c.step, true
}

func (c *Component) Parent(ctx context.Context) (caproute.ExtendedInstance, error) {
	if err := ctx.Err(); err != nil {
		return caproute.ExtendedInstance{}, err
	}
	if c.parent == nil {
		return caproute.ExtendedInstance{Top: topInstance{tree: c.tree}}, nil
	}
	return caproute.ExtendedInstance{Component: c.parent}, nil
}

func (c *Component) ResolvedState(ctx context.Context) (caproute.ResolvedState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Component) AsWeak() caproute.WeakInstance {
	return weakComponent{component: c}
}

// caproute.ResolvedState implementation.

func (c *Component) Offers() []caproute.OfferDecl            { return c.offers }
func (c *Component) Exposes() []caproute.ExposeDecl          { return c.exposes }
func (c *Component) Capabilities() []caproute.CapabilityDecl { return c.capabilities }

func (c *Component) GetChild(m caproute.PartialMoniker) (caproute.Instance, bool) {
	child, ok := c.children[m]
	if !ok {
		return nil, false
	}
	return child, true
}

type weakComponent struct {
	component *Component
}

func (w weakComponent) Moniker() caproute.AbsoluteMoniker { return w.component.moniker }

func (w weakComponent) Upgrade() (caproute.Instance, error) {
	if w.component.removed {
		return nil, fmt.Errorf("%w: %s", caproute.ErrInstanceGone, w.component.moniker)
	}
	return w.component, nil
}
