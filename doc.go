// Package caproute routes capabilities through a static component tree.
//
// # Overview
//
// A component declares that it uses, offers, or exposes named capabilities.
// caproute answers one question about those declarations: given a starting
// declaration, which component (or runtime-supplied facility) is the
// authoritative origin of the capability? It does so by walking the offer
// chain toward the root and the expose chain toward the leaves, following
// the matching and rename rules of each declaration.
//
// # Composing a route
//
// Routes are composed from an entry phase and zero or more transit phases.
// Because Go methods cannot introduce type parameters, transit phases are
// generic free functions that consume the previous phase:
//
//	route := caproute.UseOfferExpose[ExposeProtocol](
//	    caproute.UseOffer[OfferProtocol](
//	        caproute.NewUseRoute(useDecl, component),
//	    ),
//	)
//	source, err := route.Route(ctx, sources, visitor)
//
// Only the four legal topologies carry a Route method:
//
//   - use → offer
//   - use → offer → expose
//   - registration → offer → expose
//   - expose only
//
// Illegal sequences (for example routing a registration without an expose
// phase) do not compile.
//
// # Sources policy
//
// A Sources value declares which origin kinds may legally terminate a route
// for one capability type. Build it once per capability kind:
//
//	sources := caproute.AllowedSourcesOf[ProtocolDecl]().
//	    Framework(newFrameworkProtocol).
//	    Namespace().
//	    Component().
//	    Build()
//
// Namespace and component terminals need a concrete declaration type to scan
// for, so they are only available on the typed builder.
//
// # Visitors
//
// The Visitor passed to Route is invoked exactly once per declaration
// traversed on the successful path, in traversal order. A visitor error
// aborts the route immediately.
//
// # Results and errors
//
// A successful route yields exactly one CapabilitySource variant: framework,
// builtin, namespace, component, or capability-backed. Component references
// in results are weak; upgrade them with WeakInstance.Upgrade. All routing
// errors are permanent manifest defects and can be classified with
// errors.Is against the package sentinels.
//
// # Concurrency
//
// Routing holds no shared mutable state. Concurrent Route calls are fully
// independent; the only suspension points are the component model's
// resolved-state and parent-link reads. RouteAll fans independent requests
// out over an errgroup.
package caproute
