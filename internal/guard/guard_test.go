package guard

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slimenefellah/myguide/internal/clients/myguide"
	"github.com/slimenefellah/myguide/internal/models"
)

// fakeAuth is a scriptable Authenticator.
type fakeAuth struct {
	mu      sync.Mutex
	creds   models.Credentials
	expired bool

	probeFn   func(ctx context.Context) error
	refreshFn func(ctx context.Context) error

	probeCalls   int
	refreshCalls int
}

func (f *fakeAuth) Credentials() models.Credentials {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.creds
}

func (f *fakeAuth) Probe(ctx context.Context) error {
	f.mu.Lock()
	f.probeCalls++
	fn := f.probeFn
	f.mu.Unlock()
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (f *fakeAuth) Refresh(ctx context.Context) error {
	f.mu.Lock()
	f.refreshCalls++
	fn := f.refreshFn
	f.mu.Unlock()
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (f *fakeAuth) SessionExpired() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.expired
}

func (f *fakeAuth) counts() (probes, refreshes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.probeCalls, f.refreshCalls
}

func memberCreds(admin bool) models.Credentials {
	return models.Credentials{
		AccessToken:  "access",
		RefreshToken: "refresh",
		User:         &models.User{ID: 1, Username: "amira", IsAdmin: admin},
	}
}

func unauthorized() error {
	return &myguide.APIError{StatusCode: 401, Message: "token expired", Endpoint: "/auth/profile/"}
}

func forbidden() error {
	return &myguide.APIError{StatusCode: 403, Message: "admin only", Endpoint: "/auth/profile/"}
}

func TestNavigate_AnonymousRedirectsToLoginWithoutProbe(t *testing.T) {
	auth := &fakeAuth{}
	g := NewGuard(auth)

	nav := g.Navigate(Route{Path: "/chat"})
	result, err := nav.Resolve(context.Background())

	require.NoError(t, err)
	assert.Equal(t, models.DecisionRedirect, result.Decision)
	assert.Equal(t, LoginDestination, result.Destination)
	assert.Equal(t, StateDenied, nav.State())

	probes, _ := auth.counts()
	assert.Equal(t, 0, probes, "no network probe for an anonymous navigation")
}

func TestNavigate_ValidCredentialsAllow(t *testing.T) {
	auth := &fakeAuth{creds: memberCreds(false)}
	g := NewGuard(auth)

	nav := g.Navigate(Route{Path: "/chat"})
	result, err := nav.Resolve(context.Background())

	require.NoError(t, err)
	assert.Equal(t, models.DecisionAllow, result.Decision)
	assert.Equal(t, StateAllowed, nav.State())

	select {
	case <-nav.Done():
	default:
		t.Fatal("Done must be closed after Resolve returns")
	}
}

func TestNavigate_AdminRouteDeniesNonAdmin(t *testing.T) {
	auth := &fakeAuth{creds: memberCreds(false)}
	g := NewGuard(auth)

	nav := g.Navigate(Route{Path: "/admin", RequireAdmin: true})
	result, err := nav.Resolve(context.Background())

	require.NoError(t, err)
	assert.Equal(t, models.DecisionRedirect, result.Decision)
	assert.Equal(t, DefaultDestination, result.Destination, "non-admins land on the dashboard, not login")

	probes, _ := auth.counts()
	assert.Equal(t, 0, probes, "the role check settles before any probe")
}

func TestNavigate_AdminRouteAllowsAdmin(t *testing.T) {
	auth := &fakeAuth{creds: memberCreds(true)}
	g := NewGuard(auth)

	nav := g.Navigate(Route{Path: "/admin", RequireAdmin: true})
	result, err := nav.Resolve(context.Background())

	require.NoError(t, err)
	assert.Equal(t, models.DecisionAllow, result.Decision)
}

func TestNavigate_StaleTokenRefreshesOnceThenAllows(t *testing.T) {
	auth := &fakeAuth{creds: memberCreds(false)}
	auth.probeFn = func(ctx context.Context) error {
		auth.mu.Lock()
		defer auth.mu.Unlock()
		if auth.refreshCalls == 0 {
			return unauthorized()
		}
		return nil
	}
	g := NewGuard(auth)

	nav := g.Navigate(Route{Path: "/chat"})
	result, err := nav.Resolve(context.Background())

	require.NoError(t, err)
	assert.Equal(t, models.DecisionAllow, result.Decision)

	probes, refreshes := auth.counts()
	assert.Equal(t, 2, probes, "probe, refresh, re-probe")
	assert.Equal(t, 1, refreshes)
}

func TestNavigate_RefreshFailureRedirectsToLogin(t *testing.T) {
	auth := &fakeAuth{creds: memberCreds(false)}
	auth.probeFn = func(ctx context.Context) error { return unauthorized() }
	auth.refreshFn = func(ctx context.Context) error { return unauthorized() }
	g := NewGuard(auth)

	nav := g.Navigate(Route{Path: "/chat"})
	result, err := nav.Resolve(context.Background())

	require.NoError(t, err)
	assert.Equal(t, models.DecisionRedirect, result.Decision)
	assert.Equal(t, LoginDestination, result.Destination)
	assert.Equal(t, StateDenied, nav.State())
}

func TestNavigate_SecondRejectionAfterRefreshIsTerminal(t *testing.T) {
	auth := &fakeAuth{creds: memberCreds(false)}
	auth.probeFn = func(ctx context.Context) error { return unauthorized() }
	g := NewGuard(auth)

	nav := g.Navigate(Route{Path: "/chat"})
	result, err := nav.Resolve(context.Background())

	require.NoError(t, err)
	assert.Equal(t, models.DecisionRedirect, result.Decision)
	assert.Equal(t, LoginDestination, result.Destination)

	probes, refreshes := auth.counts()
	assert.Equal(t, 2, probes)
	assert.Equal(t, 1, refreshes, "one refresh-then-recheck cycle per navigation, never more")
}

func TestNavigate_ExpiredLatchShortCircuits(t *testing.T) {
	auth := &fakeAuth{creds: memberCreds(false), expired: true}
	g := NewGuard(auth)

	nav := g.Navigate(Route{Path: "/chat"})
	result, err := nav.Resolve(context.Background())

	require.NoError(t, err)
	assert.Equal(t, models.DecisionRedirect, result.Decision)
	assert.Equal(t, LoginDestination, result.Destination)

	probes, refreshes := auth.counts()
	assert.Equal(t, 0, probes)
	assert.Equal(t, 0, refreshes)
}

func TestNavigate_ForbiddenProbeRedirectsToDashboard(t *testing.T) {
	auth := &fakeAuth{creds: memberCreds(false)}
	auth.probeFn = func(ctx context.Context) error { return forbidden() }
	g := NewGuard(auth)

	nav := g.Navigate(Route{Path: "/chat"})
	result, err := nav.Resolve(context.Background())

	require.NoError(t, err)
	assert.Equal(t, models.DecisionRedirect, result.Decision)
	assert.Equal(t, DefaultDestination, result.Destination)
}

func TestNavigate_NetworkFailureIsVisibleError(t *testing.T) {
	auth := &fakeAuth{creds: memberCreds(false)}
	auth.probeFn = func(ctx context.Context) error {
		return &myguide.NetworkError{Endpoint: "/auth/profile/", Err: context.DeadlineExceeded}
	}
	g := NewGuard(auth)

	nav := g.Navigate(Route{Path: "/chat"})
	result, err := nav.Resolve(context.Background())

	require.Error(t, err, "a network failure must surface, never silently pass")
	assert.Equal(t, models.DecisionRedirect, result.Decision)
	assert.Equal(t, StateDenied, nav.State())

	_, refreshes := auth.counts()
	assert.Equal(t, 0, refreshes, "network failures do not trigger refresh")
}

func TestNavigate_NoMountBeforeResolution(t *testing.T) {
	release := make(chan struct{})
	auth := &fakeAuth{creds: memberCreds(false)}
	auth.probeFn = func(ctx context.Context) error {
		<-release
		return nil
	}
	g := NewGuard(auth)

	nav := g.Navigate(Route{Path: "/chat"})
	assert.Equal(t, StateInit, nav.State())

	go nav.Resolve(context.Background())

	require.Eventually(t, func() bool {
		return nav.State() == StateChecking
	}, 5*time.Second, 5*time.Millisecond)

	select {
	case <-nav.Done():
		t.Fatal("navigation resolved while the probe was still in flight")
	default:
	}

	close(release)
	select {
	case <-nav.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("navigation never resolved")
	}
	assert.Equal(t, StateAllowed, nav.State())
}

func TestNavigate_FreshDecisionPerNavigation(t *testing.T) {
	auth := &fakeAuth{creds: memberCreds(false)}
	g := NewGuard(auth)

	first := g.Navigate(Route{Path: "/chat"})
	result, err := first.Resolve(context.Background())
	require.NoError(t, err)
	require.Equal(t, models.DecisionAllow, result.Decision)

	// Logging out between navigations must be observed by the next check.
	auth.mu.Lock()
	auth.creds = models.Credentials{}
	auth.mu.Unlock()

	second := g.Navigate(Route{Path: "/chat"})
	result, err = second.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.DecisionRedirect, result.Decision)
	assert.Equal(t, LoginDestination, result.Destination)
}
