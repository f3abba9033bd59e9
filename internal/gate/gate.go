// Package gate decides the first screen at launch from the onboarding
// completion flag.
package gate

import (
	"context"
	"fmt"

	"github.com/zarlcorp/zlemon/internal/profile"
	"github.com/zarlcorp/zlemon/internal/securestore"
)

// Route is the gate's state.
type Route int

const (
	RouteUnknown Route = iota
	RouteLoading
	RouteOnboarding
	RouteHome
)

func (r Route) String() string {
	switch r {
	case RouteLoading:
		return "loading"
	case RouteOnboarding:
		return "onboarding"
	case RouteHome:
		return "home"
	}
	return "unknown"
}

// Decide maps a stored flag value to a route. Only the literal "true"
// reaches Home.
func Decide(value string) Route {
	if value == "true" {
		return RouteHome
	}
	return RouteOnboarding
}

// Gate reads the completion flag once per process and remembers the
// outcome. Onboarding and logout update it explicitly.
type Gate struct {
	store securestore.Store
	route Route
}

// New creates a gate in the unknown state.
func New(s securestore.Store) *Gate {
	return &Gate{store: s}
}

// Route returns the current state without touching the store.
func (g *Gate) Route() Route {
	return g.route
}

// Resolve reads the flag on first call and returns the cached route after.
// A read failure routes to onboarding and is returned for logging.
func (g *Gate) Resolve(ctx context.Context) (Route, error) {
	if g.route == RouteOnboarding || g.route == RouteHome {
		return g.route, nil
	}

	g.route = RouteLoading
	v, _, err := securestore.Lookup(ctx, g.store, profile.KeyOnboardingCompleted)
	if err != nil {
		g.route = RouteOnboarding
		return g.route, fmt.Errorf("resolve route: %w", err)
	}

	g.route = Decide(v)
	return g.route, nil
}

// MarkCompleted records a finished onboarding.
func (g *Gate) MarkCompleted() {
	g.route = RouteHome
}

// Reset records a logout.
func (g *Gate) Reset() {
	g.route = RouteOnboarding
}
