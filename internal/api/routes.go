package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/travelapp/go-travel-client/internal/domain"
)

// RouteAPI is the façade over the /api/routes endpoints, including the
// route↔place association operations which are mutated independently of
// the route's own fields.
type RouteAPI struct {
	client *Client
}

// NewRouteAPI creates a route façade on the shared client.
func NewRouteAPI(client *Client) *RouteAPI {
	return &RouteAPI{client: client}
}

// List fetches all routes. List payloads may carry an empty place set; the
// detail endpoint is authoritative for place membership.
func (a *RouteAPI) List(ctx context.Context) ([]domain.Route, error) {
	var routes []domain.Route
	if err := a.client.do(ctx, http.MethodGet, "/api/routes", nil, &routes, "route", 0); err != nil {
		return nil, err
	}
	return routes, nil
}

// ListWithMinPlaces fetches routes having more than minPlaces places.
func (a *RouteAPI) ListWithMinPlaces(ctx context.Context, minPlaces int) ([]domain.Route, error) {
	var routes []domain.Route
	path := fmt.Sprintf("/api/routes/more-than?minPlaces=%d", minPlaces)
	if err := a.client.do(ctx, http.MethodGet, path, nil, &routes, "route", 0); err != nil {
		return nil, err
	}
	return routes, nil
}

// Get fetches a single route by id with its place set populated.
func (a *RouteAPI) Get(ctx context.Context, id int64) (*domain.Route, error) {
	var route domain.Route
	path := fmt.Sprintf("/api/routes/%d", id)
	if err := a.client.do(ctx, http.MethodGet, path, nil, &route, "route", id); err != nil {
		return nil, err
	}
	return &route, nil
}

// Create submits a new route. AuthorID must reference an existing user at
// creation time; the store rejects unknown authors.
func (a *RouteAPI) Create(ctx context.Context, req domain.RouteRequest) (*domain.Route, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var route domain.Route
	if err := a.client.do(ctx, http.MethodPost, "/api/routes", req, &route, "route", 0); err != nil {
		return nil, err
	}
	return &route, nil
}

// Update replaces all editable fields of the route. The place set is not
// part of the update payload; use AddPlace/RemovePlace.
func (a *RouteAPI) Update(ctx context.Context, id int64, req domain.RouteRequest) (*domain.Route, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var route domain.Route
	path := fmt.Sprintf("/api/routes/%d", id)
	if err := a.client.do(ctx, http.MethodPut, path, req, &route, "route", id); err != nil {
		return nil, err
	}
	return &route, nil
}

// Delete removes the route. The places on it are untouched.
func (a *RouteAPI) Delete(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/routes/%d", id)
	return a.client.do(ctx, http.MethodDelete, path, nil, nil, "route", id)
}

// AddPlace adds a place to the route's place set. Adding an already
// attached place does not duplicate it.
func (a *RouteAPI) AddPlace(ctx context.Context, routeID, placeID int64) error {
	path := fmt.Sprintf("/api/routes/%d/add/%d", routeID, placeID)
	return a.client.do(ctx, http.MethodPost, path, nil, nil, "route", routeID)
}

// RemovePlace removes a place from the route's place set without deleting
// the place itself.
func (a *RouteAPI) RemovePlace(ctx context.Context, routeID, placeID int64) error {
	path := fmt.Sprintf("/api/routes/%d/remove/%d", routeID, placeID)
	return a.client.do(ctx, http.MethodDelete, path, nil, nil, "route", routeID)
}
