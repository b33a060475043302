package topology

import (
	"github.com/vsrinivas/caproute"
)

// Concrete declaration types for the capability kinds the in-memory model
// supports. Each kind gets its own Go type so routes filter offers and
// exposes by kind: a protocol offer named "data" never matches a directory
// route for "data".

// UseProtocol declares a dependency on a protocol capability.
type UseProtocol struct {
	From       caproute.Ref
	Capability caproute.Name
}

func (u UseProtocol) Source() caproute.Ref      { return u.From }
func (u UseProtocol) SourceName() caproute.Name { return u.Capability }

// OfferProtocol makes a protocol capability available to one child or
// collection, possibly under a new name.
type OfferProtocol struct {
	From       caproute.Ref
	Capability caproute.Name
	To         caproute.Ref
	As         caproute.Name
}

func (o OfferProtocol) Source() caproute.Ref      { return o.From }
func (o OfferProtocol) SourceName() caproute.Name { return o.Capability }
func (o OfferProtocol) Target() caproute.Ref      { return o.To }
func (o OfferProtocol) TargetName() caproute.Name { return o.As }

// ExposeProtocol makes a protocol capability visible to the parent.
type ExposeProtocol struct {
	From       caproute.Ref
	Capability caproute.Name
	As         caproute.Name
}

func (e ExposeProtocol) Source() caproute.Ref      { return e.From }
func (e ExposeProtocol) SourceName() caproute.Name { return e.Capability }
func (e ExposeProtocol) TargetName() caproute.Name { return e.As }

// ProtocolDecl is a component's own protocol capability.
type ProtocolDecl struct {
	Name caproute.Name
	Path string
}

func (d ProtocolDecl) CapabilityName() caproute.Name { return d.Name }

// UseDirectory declares a dependency on a directory capability.
type UseDirectory struct {
	From       caproute.Ref
	Capability caproute.Name
}

func (u UseDirectory) Source() caproute.Ref      { return u.From }
func (u UseDirectory) SourceName() caproute.Name { return u.Capability }

// OfferDirectory makes a directory capability available to one child or
// collection.
type OfferDirectory struct {
	From       caproute.Ref
	Capability caproute.Name
	To         caproute.Ref
	As         caproute.Name
}

func (o OfferDirectory) Source() caproute.Ref      { return o.From }
func (o OfferDirectory) SourceName() caproute.Name { return o.Capability }
func (o OfferDirectory) Target() caproute.Ref      { return o.To }
func (o OfferDirectory) TargetName() caproute.Name { return o.As }

// ExposeDirectory makes a directory capability visible to the parent.
type ExposeDirectory struct {
	From       caproute.Ref
	Capability caproute.Name
	As         caproute.Name
}

func (e ExposeDirectory) Source() caproute.Ref      { return e.From }
func (e ExposeDirectory) SourceName() caproute.Name { return e.Capability }
func (e ExposeDirectory) TargetName() caproute.Name { return e.As }

// DirectoryDecl is a component's own directory capability.
type DirectoryDecl struct {
	Name caproute.Name
	Path string
}

func (d DirectoryDecl) CapabilityName() caproute.Name { return d.Name }

// RunnerRegistration registers a runner capability in an environment.
// Source kinds: self, parent, child.
type RunnerRegistration struct {
	From       caproute.Ref
	Capability caproute.Name
}

func (r RunnerRegistration) Source() caproute.Ref      { return r.From }
func (r RunnerRegistration) SourceName() caproute.Name { return r.Capability }

// OfferRunner makes a runner capability available to one child or collection.
type OfferRunner struct {
	From       caproute.Ref
	Capability caproute.Name
	To         caproute.Ref
	As         caproute.Name
}

func (o OfferRunner) Source() caproute.Ref      { return o.From }
func (o OfferRunner) SourceName() caproute.Name { return o.Capability }
func (o OfferRunner) Target() caproute.Ref      { return o.To }
func (o OfferRunner) TargetName() caproute.Name { return o.As }

// ExposeRunner makes a runner capability visible to the parent.
type ExposeRunner struct {
	From       caproute.Ref
	Capability caproute.Name
	As         caproute.Name
}

func (e ExposeRunner) Source() caproute.Ref      { return e.From }
func (e ExposeRunner) SourceName() caproute.Name { return e.Capability }
func (e ExposeRunner) TargetName() caproute.Name { return e.As }

// RunnerDecl is a component's own runner capability.
type RunnerDecl struct {
	Name caproute.Name
	Path string
}

func (d RunnerDecl) CapabilityName() caproute.Name { return d.Name }

// InternalCapability is the framework/builtin capability handle used by the
// default policies of this model.
type InternalCapability struct {
	Name caproute.Name
}

func (c InternalCapability) CapabilityName() caproute.Name { return c.Name }

// NewInternalCapability is the InternalCapabilityCtor for this model.
func NewInternalCapability(name caproute.Name) caproute.InternalCapability {
	return InternalCapability{Name: name}
}
