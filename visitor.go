package caproute

// OfferVisitor observes each offer declaration traversed along a route. A
// returned error aborts the route immediately and is surfaced verbatim.
type OfferVisitor interface {
	VisitOffer(offer OfferDecl) error
}

// ExposeVisitor observes each expose declaration traversed along a route.
type ExposeVisitor interface {
	VisitExpose(expose ExposeDecl) error
}

// CapabilityVisitor observes the capability declaration a route terminates
// at when the terminal is a component or namespace source. Embed
// NopCapabilityVisitor when the capability kind does not care.
type CapabilityVisitor interface {
	VisitCapability(capability CapabilityDecl) error
}

// Visitor is the full callback contract a Route call takes: one visit per
// declaration actually traversed, in traversal order, never concurrently
// within a single Route call.
type Visitor interface {
	OfferVisitor
	ExposeVisitor
	CapabilityVisitor
}

// NopCapabilityVisitor is the default no-op CapabilityVisitor.
type NopCapabilityVisitor struct{}

func (NopCapabilityVisitor) VisitCapability(CapabilityDecl) error { return nil }

// NopVisitor is a Visitor that observes nothing. Useful when only the
// terminal source matters.
type NopVisitor struct{ NopCapabilityVisitor }

func (NopVisitor) VisitOffer(OfferDecl) error   { return nil }
func (NopVisitor) VisitExpose(ExposeDecl) error { return nil }
