package topology

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/vsrinivas/caproute"
)

// Sentinel errors for fixture loading.
var (
	ErrBadRef  = errors.New("malformed reference")
	ErrBadDecl = errors.New("malformed declaration")
)

// File-level YAML schema:
//
//	namespace:
//	  - kind: protocol
//	    name: fuchsia.logger.LogSink
//	root:
//	  offers:
//	    - kind: protocol
//	      from: self
//	      capability: fonts
//	      to: child:consumer
//	      as: fonts
//	  children:
//	    consumer:
//	      uses:
//	        - kind: protocol
//	          from: parent
//	          capability: fonts
//
// Child keys take the form "name" or "collection:name". References take the
// form "parent", "self", "framework", "debug", "child:NAME",
// "collection:NAME" or "capability:NAME".

type fileDoc struct {
	Namespace []capabilityDoc `yaml:"namespace"`
	Root      componentDoc    `yaml:"root"`
}

type componentDoc struct {
	Uses          []declDoc               `yaml:"uses"`
	Offers        []declDoc               `yaml:"offers"`
	Exposes       []declDoc               `yaml:"exposes"`
	Capabilities  []capabilityDoc         `yaml:"capabilities"`
	Registrations []declDoc               `yaml:"registrations"`
	Children      map[string]componentDoc `yaml:"children"`
}

type declDoc struct {
	Kind       string `yaml:"kind"`
	From       string `yaml:"from"`
	Capability string `yaml:"capability"`
	To         string `yaml:"to"`
	As         string `yaml:"as"`
}

type capabilityDoc struct {
	Kind string `yaml:"kind"`
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// Load reads a YAML topology fixture, builds the tree and validates it.
func Load(r io.Reader) (*Tree, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// Parse builds a tree from YAML bytes and validates it.
func Parse(raw []byte) (*Tree, error) {
	var doc fileDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decoding topology: %w", err)
	}

	namespace := make([]caproute.CapabilityDecl, 0, len(doc.Namespace))
	for _, c := range doc.Namespace {
		decl, err := parseCapability(c)
		if err != nil {
			return nil, err
		}
		namespace = append(namespace, decl)
	}

	tree := New(namespace...)
	if err := populate(tree.Root(), doc.Root); err != nil {
		return nil, err
	}
	if err := tree.Validate(); err != nil {
		return nil, err
	}
	return tree, nil
}

func populate(c *Component, doc componentDoc) error {
	for _, d := range doc.Uses {
		use, err := parseUse(d)
		if err != nil {
			return fmt.Errorf("%s: %w", c.Moniker(), err)
		}
		c.AddUse(use)
	}
	for _, d := range doc.Offers {
		offer, err := parseOffer(d)
		if err != nil {
			return fmt.Errorf("%s: %w", c.Moniker(), err)
		}
		c.AddOffer(offer)
	}
	for _, d := range doc.Exposes {
		expose, err := parseExpose(d)
		if err != nil {
			return fmt.Errorf("%s: %w", c.Moniker(), err)
		}
		c.AddExpose(expose)
	}
	for _, d := range doc.Capabilities {
		decl, err := parseCapability(d)
		if err != nil {
			return fmt.Errorf("%s: %w", c.Moniker(), err)
		}
		c.AddCapability(decl)
	}
	for _, d := range doc.Registrations {
		reg, err := parseRegistration(d)
		if err != nil {
			return fmt.Errorf("%s: %w", c.Moniker(), err)
		}
		c.AddRegistration(reg)
	}
	for key, childDoc := range doc.Children {
		name, collection := splitChildKey(key)
		child, err := c.AddChild(name, collection)
		if err != nil {
			return err
		}
		if err := populate(child, childDoc); err != nil {
			return err
		}
	}
	return nil
}

func splitChildKey(key string) (name, collection string) {
	if i := strings.IndexByte(key, ':'); i >= 0 {
		return key[i+1:], key[:i]
	}
	return key, ""
}

func parseRef(s string) (caproute.Ref, error) {
	head, arg := s, ""
	if i := strings.IndexByte(s, ':'); i >= 0 {
		head, arg = s[:i], s[i+1:]
	}
	switch head {
	case "parent":
		return caproute.ParentRef(), nil
	case "self":
		return caproute.SelfRef(), nil
	case "framework":
		return caproute.FrameworkRef(), nil
	case "debug":
		return caproute.DebugRef(), nil
	case "child":
		if arg == "" {
			return caproute.Ref{}, fmt.Errorf("%w: child ref needs a name", ErrBadRef)
		}
		return caproute.ChildRef(caproute.Name(arg)), nil
	case "collection":
		if arg == "" {
			return caproute.Ref{}, fmt.Errorf("%w: collection ref needs a name", ErrBadRef)
		}
		return caproute.CollectionRef(caproute.Name(arg)), nil
	case "capability":
		if arg == "" {
			return caproute.Ref{}, fmt.Errorf("%w: capability ref needs a name", ErrBadRef)
		}
		return caproute.CapabilityRef(caproute.Name(arg)), nil
	default:
		return caproute.Ref{}, fmt.Errorf("%w: %q", ErrBadRef, s)
	}
}

func parseUse(d declDoc) (caproute.UseDecl, error) {
	from, err := parseRef(d.From)
	if err != nil {
		return nil, err
	}
	name := caproute.Name(d.Capability)
	switch Kind(d.Kind) {
	case KindProtocol:
		return UseProtocol{From: from, Capability: name}, nil
	case KindDirectory:
		return UseDirectory{From: from, Capability: name}, nil
	default:
		return nil, fmt.Errorf("%w: use of kind %q", ErrBadDecl, d.Kind)
	}
}

func parseOffer(d declDoc) (caproute.OfferDecl, error) {
	from, err := parseRef(d.From)
	if err != nil {
		return nil, err
	}
	to, err := parseRef(d.To)
	if err != nil {
		return nil, err
	}
	name := caproute.Name(d.Capability)
	as := caproute.Name(d.As)
	if as == "" {
		as = name
	}
	switch Kind(d.Kind) {
	case KindProtocol:
		return OfferProtocol{From: from, Capability: name, To: to, As: as}, nil
	case KindDirectory:
		return OfferDirectory{From: from, Capability: name, To: to, As: as}, nil
	case KindRunner:
		return OfferRunner{From: from, Capability: name, To: to, As: as}, nil
	default:
		return nil, fmt.Errorf("%w: offer of kind %q", ErrBadDecl, d.Kind)
	}
}

func parseExpose(d declDoc) (caproute.ExposeDecl, error) {
	from, err := parseRef(d.From)
	if err != nil {
		return nil, err
	}
	name := caproute.Name(d.Capability)
	as := caproute.Name(d.As)
	if as == "" {
		as = name
	}
	switch Kind(d.Kind) {
	case KindProtocol:
		return ExposeProtocol{From: from, Capability: name, As: as}, nil
	case KindDirectory:
		return ExposeDirectory{From: from, Capability: name, As: as}, nil
	case KindRunner:
		return ExposeRunner{From: from, Capability: name, As: as}, nil
	default:
		return nil, fmt.Errorf("%w: expose of kind %q", ErrBadDecl, d.Kind)
	}
}

func parseRegistration(d declDoc) (caproute.RegistrationDecl, error) {
	from, err := parseRef(d.From)
	if err != nil {
		return nil, err
	}
	if Kind(d.Kind) != KindRunner {
		return nil, fmt.Errorf("%w: registration of kind %q", ErrBadDecl, d.Kind)
	}
	return RunnerRegistration{From: from, Capability: caproute.Name(d.Capability)}, nil
}

func parseCapability(d capabilityDoc) (caproute.CapabilityDecl, error) {
	name := caproute.Name(d.Name)
	switch Kind(d.Kind) {
	case KindProtocol:
		return ProtocolDecl{Name: name, Path: d.Path}, nil
	case KindDirectory:
		return DirectoryDecl{Name: name, Path: d.Path}, nil
	case KindRunner:
		return RunnerDecl{Name: name, Path: d.Path}, nil
	default:
		return nil, fmt.Errorf("%w: capability of kind %q", ErrBadDecl, d.Kind)
	}
}

// Validate checks the whole tree for structural defects, accumulating every
// finding rather than stopping at the first.
func (t *Tree) Validate() error {
	var errs error
	t.root.validate(&errs)
	return errs
}

func (c *Component) validate(errs *error) {
	appendErr := func(err error) {
		*errs = multierr.Append(*errs, fmt.Errorf("%s: %w", c.Moniker(), err))
	}

	for _, d := range c.uses {
		if err := d.SourceName().Validate(); err != nil {
			appendErr(err)
		}
	}
	for _, d := range c.registrations {
		if err := d.SourceName().Validate(); err != nil {
			appendErr(err)
		}
	}
	for _, d := range c.offers {
		if err := d.SourceName().Validate(); err != nil {
			appendErr(err)
		}
		if err := d.TargetName().Validate(); err != nil {
			appendErr(err)
		}
		if target := d.Target(); target.Kind == caproute.RefKindChild {
			key := caproute.NewPartialMoniker(string(target.Name), "")
			if _, ok := c.children[key]; !ok {
				appendErr(fmt.Errorf("offer of %q targets unknown child %q", d.TargetName(), target.Name))
			}
		}
		if source := d.Source(); source.Kind == caproute.RefKindChild {
			key := caproute.NewPartialMoniker(string(source.Name), "")
			if _, ok := c.children[key]; !ok {
				appendErr(fmt.Errorf("offer of %q sourced from unknown child %q", d.TargetName(), source.Name))
			}
		}
	}
	for _, d := range c.exposes {
		if err := d.SourceName().Validate(); err != nil {
			appendErr(err)
		}
		if err := d.TargetName().Validate(); err != nil {
			appendErr(err)
		}
		if source := d.Source(); source.Kind == caproute.RefKindChild {
			key := caproute.NewPartialMoniker(string(source.Name), "")
			if _, ok := c.children[key]; !ok {
				appendErr(fmt.Errorf("expose of %q sourced from unknown child %q", d.TargetName(), source.Name))
			}
		}
	}
	for _, d := range c.capabilities {
		if err := d.CapabilityName().Validate(); err != nil {
			appendErr(err)
		}
	}

	for _, key := range c.childOrder {
		c.children[key].validate(errs)
	}
}
