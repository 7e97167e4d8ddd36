package view

import (
	"context"
	"sync"

	"github.com/travelapp/go-travel-client/internal/domain"
)

// PlaceService is the slice of the place façade the controller needs.
type PlaceService interface {
	List(ctx context.Context) ([]domain.Place, error)
	ListNotVisited(ctx context.Context, userID int64) ([]domain.Place, error)
	Get(ctx context.Context, id int64) (*domain.Place, error)
	Routes(ctx context.Context, id int64) ([]domain.Route, error)
	Create(ctx context.Context, req domain.PlaceRequest) (*domain.Place, error)
	CreateBulk(ctx context.Context, reqs []domain.PlaceRequest) ([]domain.Place, error)
	Update(ctx context.Context, id int64, req domain.PlaceRequest) (*domain.Place, error)
	Delete(ctx context.Context, id int64) error
}

// PlacesController orchestrates the place list and detail views. Place
// details carry no embedded collections, so it needs no resolver; the
// reverse route lookup is fetched on demand for the selection.
type PlacesController struct {
	places PlaceService
	notify Notifier

	mu         sync.Mutex
	state      ListState
	list       []domain.Place
	lastErr    error
	refreshing bool
	listSeq    uint64

	selected      *domain.Place
	routesThrough []domain.Route
	selSeq        uint64

	editing bool
	mode    FormMode
	editID  int64
	draft   domain.PlaceRequest
}

// NewPlacesController creates an idle controller. notify may be nil.
func NewPlacesController(places PlaceService, notify Notifier) *PlacesController {
	return &PlacesController{
		places: places,
		notify: notify,
		state:  StateIdle,
	}
}

func (c *PlacesController) notifyErr(op string, err error) {
	if c.notify != nil {
		c.notify(op, err)
	}
}

// Refresh reloads the place list, joining any cycle already in flight.
func (c *PlacesController) Refresh(ctx context.Context) error {
	return c.listCycle(ctx, "refresh places", func(ctx context.Context) ([]domain.Place, error) {
		return c.places.List(ctx)
	})
}

// FilterNotVisited replaces the list with the places not yet on any route
// authored by the given user.
func (c *PlacesController) FilterNotVisited(ctx context.Context, userID int64) error {
	return c.listCycle(ctx, "filter places", func(ctx context.Context) ([]domain.Place, error) {
		return c.places.ListNotVisited(ctx, userID)
	})
}

func (c *PlacesController) listCycle(ctx context.Context, op string, fetch func(context.Context) ([]domain.Place, error)) error {
	c.mu.Lock()
	if c.refreshing {
		c.mu.Unlock()
		return nil
	}
	c.refreshing = true
	c.listSeq++
	token := c.listSeq
	c.state = StateLoading
	c.mu.Unlock()

	places, err := fetch(ctx)

	c.mu.Lock()
	if token == c.listSeq {
		if err != nil {
			c.state = StateError
			c.lastErr = err
		} else {
			c.list = places
			c.state = StateReady
			c.lastErr = nil
		}
	}
	c.refreshing = false
	c.mu.Unlock()

	if err != nil {
		c.notifyErr(op, err)
	}
	return err
}

// Select moves to viewing the given place and fetches the routes passing
// through it. The reverse lookup degrades to an empty list on failure so
// the detail view still renders.
func (c *PlacesController) Select(ctx context.Context, id int64) error {
	c.mu.Lock()
	c.selSeq++
	token := c.selSeq
	c.mu.Unlock()

	place, err := c.places.Get(ctx, id)
	if err != nil {
		c.notifyErr("select place", err)
		return err
	}
	routes, rerr := c.places.Routes(ctx, id)
	if rerr != nil {
		routes = []domain.Route{}
	}

	c.mu.Lock()
	if token == c.selSeq {
		c.selected = place
		c.routesThrough = routes
		c.editing = false
	}
	c.mu.Unlock()
	return nil
}

// ClearSelection returns to the no-selection sub-state.
func (c *PlacesController) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selSeq++
	c.selected = nil
	c.routesThrough = nil
	c.editing = false
}

// BeginCreate opens an empty create form.
func (c *PlacesController) BeginCreate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editing = true
	c.mode = ModeCreate
	c.editID = 0
	c.draft = domain.PlaceRequest{}
}

// BeginEdit opens an edit form pre-filled from the place.
func (c *PlacesController) BeginEdit(place domain.Place) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editing = true
	c.mode = ModeEdit
	c.editID = place.ID
	c.draft = domain.PlaceRequest{
		Name:        place.Name,
		Address:     place.Address,
		Description: place.Description,
	}
}

// Submit creates or updates depending on the form mode; see
// RoutesController.Submit for the shared contract.
func (c *PlacesController) Submit(ctx context.Context, req domain.PlaceRequest) (*domain.Place, error) {
	c.mu.Lock()
	if !c.editing {
		c.mu.Unlock()
		return nil, ErrNotEditing
	}
	mode := c.mode
	editID := c.editID
	c.draft = req
	c.mu.Unlock()

	var place *domain.Place
	var err error
	if mode == ModeCreate {
		place, err = c.places.Create(ctx, req)
	} else {
		place, err = c.places.Update(ctx, editID, req)
	}
	if err != nil {
		c.notifyErr("submit place", err)
		return nil, err
	}

	c.mu.Lock()
	c.editing = false
	reselect := mode == ModeEdit && c.selected != nil && c.selected.ID == editID
	c.mu.Unlock()

	if reselect {
		_ = c.Select(ctx, editID)
	}
	_ = c.Refresh(ctx)
	return place, nil
}

// SubmitBulk creates several places in one call and refreshes the list.
// It is not tied to the form sub-state; bulk import has no edit mode.
func (c *PlacesController) SubmitBulk(ctx context.Context, reqs []domain.PlaceRequest) ([]domain.Place, error) {
	places, err := c.places.CreateBulk(ctx, reqs)
	if err != nil {
		c.notifyErr("bulk create places", err)
		return nil, err
	}
	_ = c.Refresh(ctx)
	return places, nil
}

// Destroy deletes the place and refreshes the list. Routes that listed it
// drop it on their next detail fetch.
func (c *PlacesController) Destroy(ctx context.Context, id int64) error {
	if err := c.places.Delete(ctx, id); err != nil {
		c.notifyErr("delete place", err)
		return err
	}
	c.mu.Lock()
	if c.selected != nil && c.selected.ID == id {
		c.selSeq++
		c.selected = nil
		c.routesThrough = nil
	}
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// State returns the list lifecycle state.
func (c *PlacesController) State() ListState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// List returns a copy of the current place list.
func (c *PlacesController) List() []domain.Place {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Place, len(c.list))
	copy(out, c.list)
	return out
}

// Selected returns the current detail selection, or nil.
func (c *PlacesController) Selected() *domain.Place {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == nil {
		return nil
	}
	out := *c.selected
	return &out
}

// RoutesThrough returns the routes passing through the selected place.
func (c *PlacesController) RoutesThrough() []domain.Route {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Route, len(c.routesThrough))
	copy(out, c.routesThrough)
	return out
}

// Editing reports whether a form is open and in which mode.
func (c *PlacesController) Editing() (bool, FormMode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editing, c.mode
}

// Draft returns the in-progress form payload.
func (c *PlacesController) Draft() domain.PlaceRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// LastError returns the error that put the list into StateError, if any.
func (c *PlacesController) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}
