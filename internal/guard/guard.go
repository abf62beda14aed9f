// Package guard decides, per navigation, whether a protected view may
// render. Each navigation runs a fresh state machine over the current
// credential state; decisions are never cached across navigations.
package guard

import (
	"context"
	"sync"

	"github.com/slimenefellah/myguide/internal/clients/myguide"
	"github.com/slimenefellah/myguide/internal/common"
	"github.com/slimenefellah/myguide/internal/models"
)

// State is the navigation check state.
type State int

const (
	StateInit State = iota
	StateChecking
	StateRefreshing
	StateAllowed
	StateDenied
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateChecking:
		return "checking"
	case StateRefreshing:
		return "refreshing"
	case StateAllowed:
		return "allowed"
	case StateDenied:
		return "denied"
	default:
		return "unknown"
	}
}

// Default destinations, mirroring the app's route map.
const (
	LoginDestination   = "/login"
	DefaultDestination = "/dashboard"
)

// Authenticator is the slice of the token lifecycle manager the guard needs.
type Authenticator interface {
	Credentials() models.Credentials
	Probe(ctx context.Context) error
	Refresh(ctx context.Context) error
	SessionExpired() bool
}

// Route names a protected destination.
type Route struct {
	Path         string
	RequireAdmin bool
}

// Guard produces navigation checks.
type Guard struct {
	auth   Authenticator
	logger *common.Logger
}

// Option configures the guard
type Option func(*Guard)

// WithLogger sets the logger
func WithLogger(logger *common.Logger) Option {
	return func(g *Guard) {
		g.logger = logger
	}
}

// NewGuard creates a route guard over an authenticator.
func NewGuard(auth Authenticator, opts ...Option) *Guard {
	g := &Guard{
		auth:   auth,
		logger: common.NewSilentLogger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Navigation is one navigation's check. The protected view must not mount
// until Resolve returns (or Done closes); until then the caller shows a
// transient loading representation.
type Navigation struct {
	guard *Guard
	route Route

	mu     sync.Mutex
	state  State
	result models.AuthCheckResult
	err    error
	done   chan struct{}
}

// Navigate begins a fresh check for a protected destination.
func (g *Guard) Navigate(route Route) *Navigation {
	return &Navigation{
		guard: g,
		route: route,
		state: StateInit,
		done:  make(chan struct{}),
	}
}

// State returns the current machine state.
func (n *Navigation) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Done closes when the navigation reaches a terminal state.
func (n *Navigation) Done() <-chan struct{} {
	return n.done
}

func (n *Navigation) transition(s State) {
	n.mu.Lock()
	n.state = s
	n.mu.Unlock()
}

// Resolve runs the check to a terminal state. A nil error with DecisionAllow
// permits the mount; DecisionRedirect names where to go instead. A non-nil
// error is a visible error state, never a silent pass-through.
func (n *Navigation) Resolve(ctx context.Context) (models.AuthCheckResult, error) {
	n.transition(StateChecking)

	result, err := n.check(ctx, true)

	n.mu.Lock()
	n.result = result
	n.err = err
	if err == nil && result.Decision == models.DecisionAllow {
		n.state = StateAllowed
	} else {
		n.state = StateDenied
	}
	n.mu.Unlock()
	close(n.done)

	n.guard.logger.Debug().
		Str("path", n.route.Path).
		Str("decision", result.Decision.String()).
		Msg("Navigation resolved")

	return result, err
}

// check computes the decision. allowRefresh permits at most one
// refresh-then-recheck cycle per navigation.
func (n *Navigation) check(ctx context.Context, allowRefresh bool) (models.AuthCheckResult, error) {
	g := n.guard

	// A terminal refresh failure earlier in the process short-circuits every
	// later navigation straight to login, with no further probe.
	if g.auth.SessionExpired() {
		return models.AuthCheckResult{Decision: models.DecisionRedirect, Destination: LoginDestination}, nil
	}

	creds := g.auth.Credentials()
	if creds.Anonymous() {
		return models.AuthCheckResult{Decision: models.DecisionRedirect, Destination: LoginDestination}, nil
	}

	if n.route.RequireAdmin && (creds.User == nil || !creds.User.IsAdmin) {
		return models.AuthCheckResult{Decision: models.DecisionRedirect, Destination: DefaultDestination}, nil
	}

	err := g.auth.Probe(ctx)
	switch {
	case err == nil:
		return models.AuthCheckResult{Decision: models.DecisionAllow}, nil

	case myguide.IsUnauthorized(err):
		if !allowRefresh {
			return models.AuthCheckResult{Decision: models.DecisionRedirect, Destination: LoginDestination}, nil
		}
		n.transition(StateRefreshing)
		if refreshErr := g.auth.Refresh(ctx); refreshErr != nil {
			// A rejected refresh has already cleared credentials; either
			// way the user goes back through login.
			return models.AuthCheckResult{Decision: models.DecisionRedirect, Destination: LoginDestination}, nil
		}
		n.transition(StateChecking)
		return n.check(ctx, false)

	case myguide.IsForbidden(err):
		return models.AuthCheckResult{Decision: models.DecisionRedirect, Destination: DefaultDestination}, nil

	default:
		// Network or other failure: surface a visible error state rather
		// than letting the view mount or silently redirecting.
		return models.AuthCheckResult{Decision: models.DecisionRedirect, Destination: LoginDestination}, err
	}
}
