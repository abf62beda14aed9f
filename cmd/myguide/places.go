package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/slimenefellah/myguide/internal/clients/myguide"
	"github.com/slimenefellah/myguide/internal/models"
)

var (
	placeProvince string
	placeCategory string
	placeSearch   string
	placeLimit    int
)

var placesCmd = &cobra.Command{
	Use:   "places",
	Short: "Browse destinations",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := resolveRoute(cmd, a, "/places", false)
		if err != nil || result == nil {
			return err
		}

		var places []*models.Place
		err = a.Auth.Do(cmd.Context(), func(ctx context.Context, token string) error {
			var err error
			places, err = a.Client.GetPlaces(ctx, token, myguide.PlaceFilter{
				Province: placeProvince,
				Category: placeCategory,
				Search:   placeSearch,
				Limit:    placeLimit,
			})
			return err
		})
		if err != nil {
			return err
		}

		for _, p := range places {
			fmt.Fprintf(cmd.OutOrStdout(), "%-6d %-30s %-15s %.1f\n", p.ID, p.Name, p.Category, p.Rating)
		}
		return nil
	},
}

func init() {
	placesCmd.Flags().StringVar(&placeProvince, "province", "", "Filter by province")
	placesCmd.Flags().StringVar(&placeCategory, "category", "", "Filter by category")
	placesCmd.Flags().StringVar(&placeSearch, "search", "", "Search term")
	placesCmd.Flags().IntVar(&placeLimit, "limit", 20, "Maximum results")
	rootCmd.AddCommand(placesCmd)
}
