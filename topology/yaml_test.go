package topology

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"go.uber.org/multierr"

	"github.com/vsrinivas/caproute"
)

const fixtureYAML = `
namespace:
  - kind: protocol
    name: fuchsia.logger.LogSink
    path: /svc
root:
  offers:
    - kind: protocol
      from: child:provider
      capability: echo
      to: child:consumer
  children:
    provider:
      exposes:
        - kind: protocol
          from: self
          capability: echo-impl
          as: echo
      capabilities:
        - kind: protocol
          name: echo-impl
          path: /svc/echo
    consumer:
      uses:
        - kind: protocol
          from: parent
          capability: echo
`

func TestLoadFixture(t *testing.T) {
	tree, err := Load(strings.NewReader(fixtureYAML))
	assert.NoError(t, err)

	consumer, ok := tree.Find(caproute.RootMoniker().Child(caproute.NewChildMoniker("consumer", "")))
	assert.True(t, ok)
	assert.Equal(t, 1, len(consumer.Uses()))

	// The loaded tree routes end to end.
	src, err := RouteUse(context.Background(), consumer, KindProtocol, "echo", caproute.NopVisitor{})
	assert.NoError(t, err)
	component, ok := src.(caproute.ComponentSource)
	assert.True(t, ok)
	assert.Equal(t, caproute.Name("echo-impl"), component.Capability.CapabilityName())
	assert.Equal(t, "/provider", component.Component.Moniker().String())
}

func TestLoadNamespace(t *testing.T) {
	tree, err := Parse([]byte(`
namespace:
  - kind: protocol
    name: fuchsia.logger.LogSink
    path: /svc
root:
  uses:
    - kind: protocol
      from: parent
      capability: fuchsia.logger.LogSink
`))
	assert.NoError(t, err)

	src, err := RouteUse(context.Background(), tree.Root(), KindProtocol, "fuchsia.logger.LogSink", caproute.NopVisitor{})
	assert.NoError(t, err)
	_, ok := src.(caproute.NamespaceSource)
	assert.True(t, ok)
}

func TestLoadCollections(t *testing.T) {
	tree, err := Parse([]byte(`
root:
  offers:
    - kind: directory
      from: self
      capability: data
      to: collection:agents
  capabilities:
    - kind: directory
      name: data
      path: /data
  children:
    agents:worker:
      uses:
        - kind: directory
          from: parent
          capability: data
`))
	assert.NoError(t, err)

	worker, ok := tree.Find(caproute.RootMoniker().Child(caproute.NewChildMoniker("worker", "agents")))
	assert.True(t, ok)

	src, err := RouteUse(context.Background(), worker, KindDirectory, "data", caproute.NopVisitor{})
	assert.NoError(t, err)
	_, ok = src.(caproute.ComponentSource)
	assert.True(t, ok)
}

func TestParseErrors(t *testing.T) {
	t.Run("bad reference", func(t *testing.T) {
		_, err := Parse([]byte(`
root:
  uses:
    - kind: protocol
      from: sibling:foo
      capability: echo
`))
		assert.True(t, errors.Is(err, ErrBadRef))
	})

	t.Run("child ref without a name", func(t *testing.T) {
		_, err := Parse([]byte(`
root:
  offers:
    - kind: protocol
      from: child
      capability: echo
      to: child:consumer
`))
		assert.True(t, errors.Is(err, ErrBadRef))
	})

	t.Run("unknown declaration kind", func(t *testing.T) {
		_, err := Parse([]byte(`
root:
  uses:
    - kind: socket
      from: parent
      capability: echo
`))
		assert.True(t, errors.Is(err, ErrBadDecl))
	})

	t.Run("registration must be a runner", func(t *testing.T) {
		_, err := Parse([]byte(`
root:
  registrations:
    - kind: protocol
      from: self
      capability: echo
`))
		assert.True(t, errors.Is(err, ErrBadDecl))
	})

	t.Run("not yaml", func(t *testing.T) {
		_, err := Parse([]byte("{"))
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	t.Run("accumulates every defect", func(t *testing.T) {
		tree := New()
		root := tree.Root()
		root.AddOffer(OfferProtocol{
			From: caproute.ChildRef("ghost"), Capability: "echo",
			To: caproute.ChildRef("phantom"), As: "echo",
		})
		root.AddExpose(ExposeProtocol{
			From: caproute.ChildRef("specter"), Capability: "echo", As: "echo",
		})

		err := tree.Validate()
		assert.Error(t, err)
		// Unknown offer source, unknown offer target, unknown expose source.
		assert.Equal(t, 3, len(multierr.Errors(err)))
	})

	t.Run("invalid names are reported per declaration", func(t *testing.T) {
		tree := New()
		tree.Root().AddUse(UseProtocol{From: caproute.ParentRef(), Capability: ""})
		tree.Root().AddCapability(ProtocolDecl{Name: "bad name", Path: "/svc"})

		err := tree.Validate()
		assert.Error(t, err)
		unpacked := multierr.Errors(err)
		assert.Equal(t, 2, len(unpacked))
		for _, e := range unpacked {
			assert.True(t, errors.Is(e, caproute.ErrInvalidName))
		}
	})

	t.Run("clean tree passes", func(t *testing.T) {
		tree := New()
		root := tree.Root()
		root.AddCapability(ProtocolDecl{Name: "echo", Path: "/svc/echo"})
		root.AddOffer(OfferProtocol{
			From: caproute.SelfRef(), Capability: "echo",
			To: caproute.ChildRef("consumer"), As: "echo",
		})
		root.MustAddChild("consumer", "")
		assert.NoError(t, tree.Validate())
	})
}
