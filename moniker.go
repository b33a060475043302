package caproute

import (
	"strings"
)

// ChildMoniker identifies one child slot of a component: a name plus an
// optional collection. Immutable value; equality is structural.
type ChildMoniker struct {
	name       string
	collection string
}

// NewChildMoniker creates a child moniker. collection may be empty for
// statically declared children.
func NewChildMoniker(name, collection string) ChildMoniker {
	return ChildMoniker{name: name, collection: collection}
}

func (m ChildMoniker) Name() string       { return m.name }
func (m ChildMoniker) Collection() string { return m.collection }

// ToPartial drops nothing today but keeps call sites honest about which
// identifier space they are in: live-child lookup happens by PartialMoniker.
func (m ChildMoniker) ToPartial() PartialMoniker {
	return PartialMoniker{name: m.name, collection: m.collection}
}

func (m ChildMoniker) String() string {
	if m.collection == "" {
		return m.name
	}
	return m.collection + ":" + m.name
}

// Compare orders by collection, then name.
func (m ChildMoniker) Compare(o ChildMoniker) int {
	if c := strings.Compare(m.collection, o.collection); c != 0 {
		return c
	}
	return strings.Compare(m.name, o.name)
}

// PartialMoniker identifies a child without a persistent instance id. It is
// the key used to look up live children in a resolved component state.
type PartialMoniker struct {
	name       string
	collection string
}

// NewPartialMoniker creates a partial moniker.
func NewPartialMoniker(name, collection string) PartialMoniker {
	return PartialMoniker{name: name, collection: collection}
}

func (m PartialMoniker) Name() string       { return m.name }
func (m PartialMoniker) Collection() string { return m.collection }

func (m PartialMoniker) String() string {
	if m.collection == "" {
		return m.name
	}
	return m.collection + ":" + m.name
}

// AbsoluteMoniker locates a component instance by its path of child steps
// from the root. The zero value is the root moniker. Immutable value type;
// Child and Parent return new monikers.
type AbsoluteMoniker struct {
	path []ChildMoniker
}

// RootMoniker returns the moniker of the root component.
func RootMoniker() AbsoluteMoniker {
	return AbsoluteMoniker{}
}

// NewAbsoluteMoniker creates a moniker from the given path of child steps.
func NewAbsoluteMoniker(path ...ChildMoniker) AbsoluteMoniker {
	p := make([]ChildMoniker, len(path))
	copy(p, path)
	return AbsoluteMoniker{path: p}
}

// IsRoot reports whether this is the root moniker.
func (m AbsoluteMoniker) IsRoot() bool { return len(m.path) == 0 }

// Path returns a copy of the child steps.
func (m AbsoluteMoniker) Path() []ChildMoniker {
	p := make([]ChildMoniker, len(m.path))
	copy(p, m.path)
	return p
}

// Child returns the moniker of a child of this instance.
func (m AbsoluteMoniker) Child(step ChildMoniker) AbsoluteMoniker {
	p := make([]ChildMoniker, 0, len(m.path)+1)
	p = append(p, m.path...)
	p = append(p, step)
	return AbsoluteMoniker{path: p}
}

// Parent returns the moniker of the parent instance, or false at the root.
func (m AbsoluteMoniker) Parent() (AbsoluteMoniker, bool) {
	if m.IsRoot() {
		return AbsoluteMoniker{}, false
	}
	p := make([]ChildMoniker, len(m.path)-1)
	copy(p, m.path[:len(m.path)-1])
	return AbsoluteMoniker{path: p}, true
}

// Leaf returns the last child step, or false at the root.
func (m AbsoluteMoniker) Leaf() (ChildMoniker, bool) {
	if m.IsRoot() {
		return ChildMoniker{}, false
	}
	return m.path[len(m.path)-1], true
}

// Equal reports structural equality.
func (m AbsoluteMoniker) Equal(o AbsoluteMoniker) bool {
	return m.Compare(o) == 0
}

// Compare orders monikers lexicographically by child steps; a prefix sorts
// before its extensions.
func (m AbsoluteMoniker) Compare(o AbsoluteMoniker) int {
	n := len(m.path)
	if len(o.path) < n {
		n = len(o.path)
	}
	for i := 0; i < n; i++ {
		if c := m.path[i].Compare(o.path[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(m.path) < len(o.path):
		return -1
	case len(m.path) > len(o.path):
		return 1
	default:
		return 0
	}
}

func (m AbsoluteMoniker) String() string {
	if m.IsRoot() {
		return "/"
	}
	var b strings.Builder
	for _, step := range m.path {
		b.WriteByte('/')
		b.WriteString(step.String())
	}
	return b.String()
}
