// Package main implements routectl, a small tool for inspecting capability
// routes in a YAML topology fixture. It resolves a capability the same way
// the routing engine would at runtime and prints the terminal source, which
// makes it useful for debugging manifest defects offline.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/go-logr/logr/funcr"
	"github.com/spf13/cobra"

	"github.com/vsrinivas/caproute"
	"github.com/vsrinivas/caproute/topology"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routectl",
		Short: "Inspect capability routes in a component topology",
	}
	cmd.AddCommand(routeCmd(), validateCmd())
	return cmd
}

func routeCmd() *cobra.Command {
	var (
		topologyPath string
		componentRaw string
		kind         string
		capability   string
		verbose      bool
	)

	cmd := &cobra.Command{
		Use:   "route",
		Short: "Resolve the origin of a capability used by a component",
		Long: `Resolve the origin of a capability used by a component.

The component is named by its moniker, e.g. /shell/console. The capability
must appear in the component's use declarations (or, for --kind runner, its
environment registrations).

Examples:
  routectl route -t topo.yaml -c /consumer -k protocol -n fonts
  routectl route -t topo.yaml -c /env-host -k runner -n elf --verbose
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := loadTree(topologyPath)
			if err != nil {
				return err
			}
			component, err := findComponent(tree, componentRaw)
			if err != nil {
				return err
			}

			var opts []caproute.RouteOption
			if verbose {
				log := funcr.New(func(prefix, args string) {
					fmt.Fprintln(os.Stderr, prefix, args)
				}, funcr.Options{Verbosity: 1})
				opts = append(opts, caproute.WithLogger(log))
			}

			ctx := context.Background()
			var visitor caproute.Visitor = caproute.NopVisitor{}
			var source caproute.CapabilitySource
			if topology.Kind(kind) == topology.KindRunner {
				source, err = topology.RouteRegistration(ctx, component, caproute.Name(capability), visitor, opts...)
			} else {
				source, err = topology.RouteUse(ctx, component, topology.Kind(kind), caproute.Name(capability), visitor, opts...)
			}
			if err != nil {
				return err
			}
			fmt.Println(source)
			return nil
		},
	}

	cmd.Flags().StringVarP(&topologyPath, "topology", "t", "", "path to the YAML topology fixture")
	cmd.Flags().StringVarP(&componentRaw, "component", "c", "", "moniker of the component making the request")
	cmd.Flags().StringVarP(&kind, "kind", "k", "protocol", "capability kind: protocol, directory or runner")
	cmd.Flags().StringVarP(&capability, "capability", "n", "", "capability name")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "trace every hop to stderr")
	_ = cmd.MarkFlagRequired("topology")
	_ = cmd.MarkFlagRequired("component")
	_ = cmd.MarkFlagRequired("capability")
	return cmd
}

func validateCmd() *cobra.Command {
	var topologyPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a topology fixture for structural defects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadTree(topologyPath); err != nil {
				return err
			}
			fmt.Println("ok")
			return nil
		},
	}

	cmd.Flags().StringVarP(&topologyPath, "topology", "t", "", "path to the YAML topology fixture")
	_ = cmd.MarkFlagRequired("topology")
	return cmd
}

func loadTree(path string) (*topology.Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return topology.Load(f)
}

// findComponent resolves a moniker string such as /shell/console or
// /agents/coll:worker to a component in the tree.
func findComponent(tree *topology.Tree, raw string) (*topology.Component, error) {
	trimmed := strings.Trim(raw, "/")
	moniker := caproute.RootMoniker()
	if trimmed != "" {
		for _, part := range strings.Split(trimmed, "/") {
			name, collection := part, ""
			if i := strings.IndexByte(part, ':'); i >= 0 {
				collection, name = part[:i], part[i+1:]
			}
			moniker = moniker.Child(caproute.NewChildMoniker(name, collection))
		}
	}
	component, ok := tree.Find(moniker)
	if !ok {
		return nil, fmt.Errorf("no component at %s", moniker)
	}
	return component, nil
}
