package models

import "time"

// Place is a browsable destination returned by the tourism endpoints.
type Place struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Province    string  `json:"province"`
	District    string  `json:"district"`
	Description string  `json:"description,omitempty"`
	Rating      float64 `json:"rating"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// TripPlan is an itinerary produced by the remote planner. Generation is an
// opaque server operation; the client only lists, fetches and deletes plans.
type TripPlan struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	Budget    float64   `json:"budget,omitempty"`
	Days      []TripDay `json:"days,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TripDay is one day of a trip plan.
type TripDay struct {
	Day        int            `json:"day"`
	Activities []TripActivity `json:"activities"`
}

// TripActivity is a single scheduled stop within a trip day.
type TripActivity struct {
	PlaceID   int64  `json:"place_id"`
	PlaceName string `json:"place_name"`
	StartTime string `json:"start_time"`
	Notes     string `json:"notes,omitempty"`
}

// TripRequest describes the inputs to trip generation.
type TripRequest struct {
	Province  string   `json:"province"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	Budget    float64  `json:"budget,omitempty"`
	Interests []string `json:"interests,omitempty"`
}
