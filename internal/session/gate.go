// Package session implements the route gate: a state machine over the
// authenticated session that decides which root screen set is
// reachable. The routing decision is a pure function of the session
// record, so the gate has no memory beyond it.
package session

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/np-mndp/book-my-seat/internal/models"
)

// Route identifies a navigation root.
type Route string

const (
	// RouteLogin is reachable when no auth token is present.
	RouteLogin Route = "login"
	// RouteSetLocation is reachable for a customer without a home location.
	RouteSetLocation Route = "set_location"
	// RouteCustomerHome is the customer root: discovery and bookings.
	RouteCustomerHome Route = "customer_home"
	// RouteManagerHome is the manager root, reachable regardless of location.
	RouteManagerHome Route = "manager_home"
)

// Resolve maps a session to its route. It is deterministic and free of
// side effects; the gate calls it on every mutation.
func Resolve(s *models.Session) Route {
	switch {
	case !s.HasToken():
		return RouteLogin
	case s.Role == models.RoleManager:
		return RouteManagerHome
	case s.HomeLocation == nil:
		return RouteSetLocation
	default:
		return RouteCustomerHome
	}
}

// NavigateFunc is invoked when the resolved route changes.
type NavigateFunc func(from, to Route)

// SessionEndFunc is invoked on logout, after the session is cleared.
// Callers use it to discard reminder bookkeeping; the gate never
// cancels anything OS-side.
type SessionEndFunc func()

// Gate owns the session record and the three actions that may mutate
// it. Each action re-resolves the route; the navigation hook fires
// only when the route actually changed, so re-entering a state is a
// no-op.
type Gate struct {
	mu      sync.Mutex
	session models.Session
	route   Route
	onNav   NavigateFunc
	onEnd   SessionEndFunc
	logger  zerolog.Logger
}

// NewGate returns a gate in the no-session state.
func NewGate(logger zerolog.Logger) *Gate {
	return &Gate{
		route:  RouteLogin,
		logger: logger,
	}
}

// OnNavigate registers the navigation hook.
func (g *Gate) OnNavigate(fn NavigateFunc) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onNav = fn
}

// OnSessionEnd registers the logout hook.
func (g *Gate) OnSessionEnd(fn SessionEndFunc) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onEnd = fn
}

// Session returns a copy of the current session record.
func (g *Gate) Session() models.Session {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session
}

// Route returns the currently resolved route.
func (g *Gate) Route() Route {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.route
}

// LoginSuccess installs the authenticated user and token. The home
// location may be nil; a customer then lands on the set-location
// screen, a manager goes straight to the manager root.
func (g *Gate) LoginSuccess(user models.User, token string, home *models.Location) Route {
	g.mu.Lock()
	g.session = models.Session{
		UserID:       user.ID,
		DisplayName:  user.Name,
		Role:         user.Role,
		AuthToken:    token,
		HomeLocation: home,
	}
	route, notify := g.reevaluate()
	g.mu.Unlock()

	notify()
	return route
}

// ConfirmLocation records the chosen home location. It only has an
// effect on an authenticated session.
func (g *Gate) ConfirmLocation(loc models.Location) Route {
	g.mu.Lock()
	if g.session.HasToken() {
		g.session.HomeLocation = &loc
	}
	route, notify := g.reevaluate()
	g.mu.Unlock()

	notify()
	return route
}

// Logout clears the session from any state and fires the session-end
// hook so callers can drop transient reminder state.
func (g *Gate) Logout() Route {
	g.mu.Lock()
	onEnd := g.onEnd
	g.session = models.Session{}
	route, notify := g.reevaluate()
	g.mu.Unlock()

	notify()
	if onEnd != nil {
		onEnd()
	}
	return route
}

// reevaluate resolves the route and, when it changed, returns the
// pending navigation hook call. Caller holds the lock and must invoke
// the returned func after releasing it, so hooks may read gate state.
func (g *Gate) reevaluate() (Route, func()) {
	next := Resolve(&g.session)
	if next == g.route {
		return next, func() {}
	}

	prev := g.route
	g.route = next
	g.logger.Info().
		Str("from", string(prev)).
		Str("to", string(next)).
		Msg("route changed")

	if g.onNav == nil {
		return next, func() {}
	}
	fn := g.onNav
	return next, func() { fn(prev, next) }
}
