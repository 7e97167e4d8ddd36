package domain

import (
	"regexp"
	"strings"
)

// User represents a user account together with the routes it authored.
// Routes is a read-only projection; list endpoints may leave it empty.
type User struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Routes []Route `json:"routes"`
}

// Route represents a travel route authored by a single user. Places is the
// synchronized view of the route's place associations; the authoritative
// source is the route detail endpoint and the add/remove operations.
type Route struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	AuthorID    int64   `json:"authorId"`
	Places      []Place `json:"places"`
}

// Place represents a visitable place. A place may appear on any number of
// routes; removing it from a route does not delete it.
type Place struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

// UserRequest is the create/update payload for a user.
type UserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RouteRequest is the create/update payload for a route. AuthorID is set at
// creation and not changed afterward; updates must carry the original value.
type RouteRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	AuthorID    int64  `json:"authorId"`
}

// PlaceRequest is the create/update payload for a place.
type PlaceRequest struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+$`)

// Validate checks the payload structurally before it is submitted.
func (r UserRequest) Validate() error {
	var fields []FieldError
	if strings.TrimSpace(r.Name) == "" {
		fields = append(fields, FieldError{Field: "name", Message: "must not be empty"})
	}
	if strings.TrimSpace(r.Email) == "" {
		fields = append(fields, FieldError{Field: "email", Message: "must not be empty"})
	} else if !emailPattern.MatchString(r.Email) {
		fields = append(fields, FieldError{Field: "email", Message: "must match local@domain"})
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Validate checks the payload structurally before it is submitted.
func (r RouteRequest) Validate() error {
	var fields []FieldError
	if strings.TrimSpace(r.Name) == "" {
		fields = append(fields, FieldError{Field: "name", Message: "must not be empty"})
	}
	if strings.TrimSpace(r.Description) == "" {
		fields = append(fields, FieldError{Field: "description", Message: "must not be empty"})
	}
	if r.AuthorID <= 0 {
		fields = append(fields, FieldError{Field: "authorId", Message: "must reference an existing user"})
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Validate checks the payload structurally before it is submitted.
func (r PlaceRequest) Validate() error {
	var fields []FieldError
	if strings.TrimSpace(r.Name) == "" {
		fields = append(fields, FieldError{Field: "name", Message: "must not be empty"})
	}
	if strings.TrimSpace(r.Address) == "" {
		fields = append(fields, FieldError{Field: "address", Message: "must not be empty"})
	}
	if strings.TrimSpace(r.Description) == "" {
		fields = append(fields, FieldError{Field: "description", Message: "must not be empty"})
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// HasPlace reports whether the route's place set contains the given place.
func (r Route) HasPlace(placeID int64) bool {
	for _, p := range r.Places {
		if p.ID == placeID {
			return true
		}
	}
	return false
}
