package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/travelapp/go-travel-client/internal/domain"
)

// UserAPI is the façade over the /api/users endpoints.
type UserAPI struct {
	client *Client
}

// NewUserAPI creates a user façade on the shared client.
func NewUserAPI(client *Client) *UserAPI {
	return &UserAPI{client: client}
}

// List fetches all users. The slice is either complete or nil on error.
func (a *UserAPI) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := a.client.do(ctx, http.MethodGet, "/api/users", nil, &users, "user", 0); err != nil {
		return nil, err
	}
	return users, nil
}

// Get fetches a single user by id, including its authored routes.
func (a *UserAPI) Get(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	path := fmt.Sprintf("/api/users/%d", id)
	if err := a.client.do(ctx, http.MethodGet, path, nil, &user, "user", id); err != nil {
		return nil, err
	}
	return &user, nil
}

// Create submits a new user and returns the stored record with its
// server-assigned id. The payload is validated locally first.
func (a *UserAPI) Create(ctx context.Context, req domain.UserRequest) (*domain.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var user domain.User
	if err := a.client.do(ctx, http.MethodPost, "/api/users", req, &user, "user", 0); err != nil {
		return nil, err
	}
	return &user, nil
}

// Update replaces all editable fields of the user. Fields omitted from the
// payload are not preserved.
func (a *UserAPI) Update(ctx context.Context, id int64, req domain.UserRequest) (*domain.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var user domain.User
	path := fmt.Sprintf("/api/users/%d", id)
	if err := a.client.do(ctx, http.MethodPut, path, req, &user, "user", id); err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete removes the user. Deleting a nonexistent id returns NotFoundError.
// Routes referencing the user keep their authorId; the dangling reference
// is an accepted inconsistency resolved by the fallback author label.
func (a *UserAPI) Delete(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/users/%d", id)
	return a.client.do(ctx, http.MethodDelete, path, nil, nil, "user", id)
}
