package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/slimenefellah/myguide/internal/app"
	"github.com/slimenefellah/myguide/internal/guard"
	"github.com/slimenefellah/myguide/internal/models"
)

// resolveRoute runs the route guard for a protected command. It returns a
// nil result when the command should not proceed; redirect decisions are
// explained to the user instead of mounting the command body.
func resolveRoute(cmd *cobra.Command, a *app.App, path string, requireAdmin bool) (*models.AuthCheckResult, error) {
	nav := a.Guard.Navigate(guard.Route{Path: path, RequireAdmin: requireAdmin})

	result, err := nav.Resolve(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("could not verify session: %w", err)
	}

	if result.Decision == models.DecisionRedirect {
		switch result.Destination {
		case guard.LoginDestination:
			fmt.Fprintln(cmd.OutOrStdout(), "Your session has expired. Run 'myguide login' first.")
		default:
			fmt.Fprintf(cmd.OutOrStdout(), "Not permitted here; go to %s instead.\n", result.Destination)
		}
		return nil, nil
	}

	return &result, nil
}
