package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/slimenefellah/myguide/internal/models"
)

var tripsCmd = &cobra.Command{
	Use:   "trips",
	Short: "Work with trip plans",
}

var tripsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved trip plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := resolveRoute(cmd, a, "/trips", false)
		if err != nil || result == nil {
			return err
		}

		var plans []*models.TripPlan
		err = a.Auth.Do(cmd.Context(), func(ctx context.Context, token string) error {
			var err error
			plans, err = a.Client.GetTripPlans(ctx, token)
			return err
		})
		if err != nil {
			return err
		}

		for _, p := range plans {
			fmt.Fprintf(cmd.OutOrStdout(), "%-6d %-30s %s to %s\n", p.ID, p.Title, p.StartDate, p.EndDate)
		}
		return nil
	},
}

var (
	tripProvince  string
	tripStart     string
	tripEnd       string
	tripBudget    float64
	tripInterests string
)

var tripsGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Ask the planner for a new itinerary",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := resolveRoute(cmd, a, "/trips/new", false)
		if err != nil || result == nil {
			return err
		}

		req := models.TripRequest{
			Province:  tripProvince,
			StartDate: tripStart,
			EndDate:   tripEnd,
			Budget:    tripBudget,
		}
		if tripInterests != "" {
			req.Interests = strings.Split(tripInterests, ",")
		}

		var plan *models.TripPlan
		err = a.Auth.Do(cmd.Context(), func(ctx context.Context, token string) error {
			var err error
			plan, err = a.Client.GenerateTripPlan(ctx, token, req)
			return err
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Trip %d: %s (%d days)\n", plan.ID, plan.Title, len(plan.Days))
		return nil
	},
}

func init() {
	tripsGenerateCmd.Flags().StringVar(&tripProvince, "province", "", "Destination province")
	tripsGenerateCmd.Flags().StringVar(&tripStart, "start", "", "Start date (YYYY-MM-DD)")
	tripsGenerateCmd.Flags().StringVar(&tripEnd, "end", "", "End date (YYYY-MM-DD)")
	tripsGenerateCmd.Flags().Float64Var(&tripBudget, "budget", 0, "Budget")
	tripsGenerateCmd.Flags().StringVar(&tripInterests, "interests", "", "Comma-separated interests")
	tripsCmd.AddCommand(tripsListCmd, tripsGenerateCmd)
	rootCmd.AddCommand(tripsCmd)
}
