package caproute

import (
	"context"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// Routable is the terminal operation shared by the four legal route
// topologies. Any fully composed route satisfies it.
type Routable interface {
	Route(ctx context.Context, sources Sources, visitor Visitor) (CapabilitySource, error)
}

// RouteRequest pairs a composed route with the policy and visitor it should
// be resolved against. Each request carries its own visitor because a single
// visitor is never invoked concurrently within one Route call, but RouteAll
// runs requests in parallel.
type RouteRequest struct {
	Route   Routable
	Sources Sources
	Visitor Visitor
}

// RouteAll resolves independent routes concurrently. Routes share no state,
// so the only coordination is the errgroup itself. The result slice is
// indexed like reqs; on failure all routes still run to completion and the
// combined error reports every failed request.
func RouteAll(ctx context.Context, reqs []RouteRequest) ([]CapabilitySource, error) {
	results := make([]CapabilitySource, len(reqs))
	errs := make([]error, len(reqs))

	grp, ctx := errgroup.WithContext(ctx)
	for i, req := range reqs {
		i, req := i, req
		grp.Go(func() error {
			src, err := req.Route.Route(ctx, req.Sources, req.Visitor)
			if err != nil {
				errs[i] = err
				// Collected in errs; don't cancel sibling routes.
				return nil
			}
			results[i] = src
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	var combined error
	for _, err := range errs {
		combined = multierr.Append(combined, err)
	}
	if combined != nil {
		return nil, combined
	}
	return results, nil
}
