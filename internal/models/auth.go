package models

// Credentials is the process-wide credential snapshot held by the credential
// store. An access token is never kept without its refresh counterpart;
// absence of both means anonymous.
type Credentials struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user,omitempty"`
}

// Anonymous reports whether no credentials are held.
func (c Credentials) Anonymous() bool {
	return c.AccessToken == "" && c.RefreshToken == ""
}

// Complete reports whether the snapshot satisfies the pairing invariant:
// an access token implies a refresh token.
func (c Credentials) Complete() bool {
	if c.AccessToken != "" && c.RefreshToken == "" {
		return false
	}
	return true
}

// AuthDecision is the outcome kind of a route guard check.
type AuthDecision int

const (
	// DecisionAllow permits the protected view to mount.
	DecisionAllow AuthDecision = iota
	// DecisionRedirect denies the view and names a destination. The guard
	// runs its one refresh-then-recheck cycle internally; a check only ever
	// settles to one of these two.
	DecisionRedirect
)

func (d AuthDecision) String() string {
	switch d {
	case DecisionAllow:
		return "allow"
	case DecisionRedirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// AuthCheckResult is produced fresh on every navigation to a protected
// destination; it is never cached across navigations.
type AuthCheckResult struct {
	Decision    AuthDecision
	Destination string // set only for DecisionRedirect
}
