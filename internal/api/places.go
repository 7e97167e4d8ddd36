package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/travelapp/go-travel-client/internal/domain"
)

// PlaceAPI is the façade over the /api/places endpoints.
type PlaceAPI struct {
	client *Client
}

// NewPlaceAPI creates a place façade on the shared client.
func NewPlaceAPI(client *Client) *PlaceAPI {
	return &PlaceAPI{client: client}
}

// List fetches all places.
func (a *PlaceAPI) List(ctx context.Context) ([]domain.Place, error) {
	var places []domain.Place
	if err := a.client.do(ctx, http.MethodGet, "/api/places", nil, &places, "place", 0); err != nil {
		return nil, err
	}
	return places, nil
}

// ListNotVisited fetches the places not on any route authored by the user.
func (a *PlaceAPI) ListNotVisited(ctx context.Context, userID int64) ([]domain.Place, error) {
	var places []domain.Place
	path := fmt.Sprintf("/api/places/not-visited?userId=%d", userID)
	if err := a.client.do(ctx, http.MethodGet, path, nil, &places, "place", 0); err != nil {
		return nil, err
	}
	return places, nil
}

// Get fetches a single place by id.
func (a *PlaceAPI) Get(ctx context.Context, id int64) (*domain.Place, error) {
	var place domain.Place
	path := fmt.Sprintf("/api/places/%d", id)
	if err := a.client.do(ctx, http.MethodGet, path, nil, &place, "place", id); err != nil {
		return nil, err
	}
	return &place, nil
}

// Routes fetches the routes that pass through the place (reverse lookup).
func (a *PlaceAPI) Routes(ctx context.Context, id int64) ([]domain.Route, error) {
	var routes []domain.Route
	path := fmt.Sprintf("/api/places/%d/routes", id)
	if err := a.client.do(ctx, http.MethodGet, path, nil, &routes, "place", id); err != nil {
		return nil, err
	}
	return routes, nil
}

// Create submits a new place.
func (a *PlaceAPI) Create(ctx context.Context, req domain.PlaceRequest) (*domain.Place, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var place domain.Place
	if err := a.client.do(ctx, http.MethodPost, "/api/places", req, &place, "place", 0); err != nil {
		return nil, err
	}
	return &place, nil
}

// CreateBulk submits several places in one call. Every payload is
// validated locally before anything reaches the network.
func (a *PlaceAPI) CreateBulk(ctx context.Context, reqs []domain.PlaceRequest) ([]domain.Place, error) {
	for _, req := range reqs {
		if err := req.Validate(); err != nil {
			return nil, err
		}
	}
	var places []domain.Place
	if err := a.client.do(ctx, http.MethodPost, "/api/places/bulk", reqs, &places, "place", 0); err != nil {
		return nil, err
	}
	return places, nil
}

// Update replaces all editable fields of the place.
func (a *PlaceAPI) Update(ctx context.Context, id int64, req domain.PlaceRequest) (*domain.Place, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var place domain.Place
	path := fmt.Sprintf("/api/places/%d", id)
	if err := a.client.do(ctx, http.MethodPut, path, req, &place, "place", id); err != nil {
		return nil, err
	}
	return &place, nil
}

// Delete removes the place. Routes still listing it keep a dangling
// reference until their next detail fetch.
func (a *PlaceAPI) Delete(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/places/%d", id)
	return a.client.do(ctx, http.MethodDelete, path, nil, nil, "place", id)
}
