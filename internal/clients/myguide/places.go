package myguide

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/slimenefellah/myguide/internal/models"
)

// PlaceFilter narrows place listings.
type PlaceFilter struct {
	Province string
	Category string
	Search   string
	Limit    int
}

// GetPlaces lists places matching the filter.
func (c *Client) GetPlaces(ctx context.Context, token string, filter PlaceFilter) ([]*models.Place, error) {
	params := url.Values{}
	if filter.Province != "" {
		params.Set("province", filter.Province)
	}
	if filter.Category != "" {
		params.Set("category", filter.Category)
	}
	if filter.Search != "" {
		params.Set("search", filter.Search)
	}
	if filter.Limit > 0 {
		params.Set("limit", strconv.Itoa(filter.Limit))
	}

	path := "/places/"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var places []*models.Place
	if err := c.get(ctx, path, token, &places); err != nil {
		return nil, err
	}
	return places, nil
}

// GetPlace fetches a single place by ID.
func (c *Client) GetPlace(ctx context.Context, token string, id int64) (*models.Place, error) {
	var place models.Place
	if err := c.get(ctx, fmt.Sprintf("/places/%d/", id), token, &place); err != nil {
		return nil, err
	}
	return &place, nil
}

// GetPopularPlaces lists the most visited places.
func (c *Client) GetPopularPlaces(ctx context.Context, token string, limit int) ([]*models.Place, error) {
	path := "/places/popular/"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	var places []*models.Place
	if err := c.get(ctx, path, token, &places); err != nil {
		return nil, err
	}
	return places, nil
}

// GenerateTripPlan asks the remote planner for an itinerary. Generation is
// opaque to the client; this call just round-trips the request.
func (c *Client) GenerateTripPlan(ctx context.Context, token string, req models.TripRequest) (*models.TripPlan, error) {
	var plan models.TripPlan
	if err := c.post(ctx, "/trips/generate/", token, req, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// GetTripPlans lists the account's saved trip plans.
func (c *Client) GetTripPlans(ctx context.Context, token string) ([]*models.TripPlan, error) {
	var plans []*models.TripPlan
	if err := c.get(ctx, "/trips/", token, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// GetTripPlan fetches a single trip plan by ID.
func (c *Client) GetTripPlan(ctx context.Context, token string, id int64) (*models.TripPlan, error) {
	var plan models.TripPlan
	if err := c.get(ctx, fmt.Sprintf("/trips/%d/", id), token, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// DeleteTripPlan removes a trip plan.
func (c *Client) DeleteTripPlan(ctx context.Context, token string, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/trips/%d/", id), token, nil, nil)
}
