// Package topology provides an in-memory component tree implementing the
// caproute collaborator contracts, along with concrete declaration types for
// protocol, directory and runner capabilities, default origin policies per
// kind, and a YAML loader for topology fixtures.
//
// The tree is the reference component model for tests and for the routectl
// tool; a real component manager supplies its own caproute.Instance
// implementation with lazy resolution.
//
// Construction is not safe for concurrent use. A fully built tree is
// read-only with respect to routing and may serve concurrent Route calls.
package topology
