package view

import (
	"context"
	"sync"

	"github.com/travelapp/go-travel-client/internal/domain"
	"github.com/travelapp/go-travel-client/internal/resolve"
)

// RouteService is the slice of the route façade the controller needs.
type RouteService interface {
	List(ctx context.Context) ([]domain.Route, error)
	ListWithMinPlaces(ctx context.Context, minPlaces int) ([]domain.Route, error)
	Get(ctx context.Context, id int64) (*domain.Route, error)
	Create(ctx context.Context, req domain.RouteRequest) (*domain.Route, error)
	Update(ctx context.Context, id int64, req domain.RouteRequest) (*domain.Route, error)
	Delete(ctx context.Context, id int64) error
	AddPlace(ctx context.Context, routeID, placeID int64) error
	RemovePlace(ctx context.Context, routeID, placeID int64) error
}

// RouteResolver resolves the denormalized display data for routes.
type RouteResolver interface {
	RouteAuthor(ctx context.Context, route *domain.Route) resolve.AuthorLabel
	AuthorsForRoutes(ctx context.Context, routes []domain.Route) map[int64]resolve.AuthorLabel
	RoutePlaces(ctx context.Context, route *domain.Route) []domain.Place
}

// RoutesController orchestrates the route list and detail views.
type RoutesController struct {
	routes   RouteService
	resolver RouteResolver
	notify   Notifier

	mu         sync.Mutex
	state      ListState
	list       []domain.Route
	authors    map[int64]resolve.AuthorLabel
	lastErr    error
	refreshing bool
	listSeq    uint64

	selected       *domain.Route
	selectedAuthor resolve.AuthorLabel
	selectedPlaces []domain.Place
	selSeq         uint64

	editing bool
	mode    FormMode
	editID  int64
	draft   domain.RouteRequest
}

// NewRoutesController creates an idle controller. notify may be nil.
func NewRoutesController(routes RouteService, resolver RouteResolver, notify Notifier) *RoutesController {
	return &RoutesController{
		routes:   routes,
		resolver: resolver,
		notify:   notify,
		state:    StateIdle,
	}
}

func (c *RoutesController) notifyErr(op string, err error) {
	if c.notify != nil {
		c.notify(op, err)
	}
}

// Refresh reloads the route list and its author labels. A Refresh issued
// while one is already in flight joins that cycle instead of starting a
// second one, so two overlapping refreshes never interleave results.
func (c *RoutesController) Refresh(ctx context.Context) error {
	return c.listCycle(ctx, func(ctx context.Context) ([]domain.Route, error) {
		return c.routes.List(ctx)
	})
}

// FilterMinPlaces replaces the list with the routes having more than
// minPlaces places. It follows the same single-flight cycle as Refresh.
func (c *RoutesController) FilterMinPlaces(ctx context.Context, minPlaces int) error {
	return c.listCycle(ctx, func(ctx context.Context) ([]domain.Route, error) {
		return c.routes.ListWithMinPlaces(ctx, minPlaces)
	})
}

func (c *RoutesController) listCycle(ctx context.Context, fetch func(context.Context) ([]domain.Route, error)) error {
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

	routes, err := fetch(ctx)
	if err != nil {
		c.mu.Lock()
		if token == c.listSeq {
			c.state = StateError
			c.lastErr = err
		}
		c.refreshing = false
		c.mu.Unlock()
		c.notifyErr("refresh routes", err)
		return err
	}

	labels := c.resolver.AuthorsForRoutes(ctx, routes)

	c.mu.Lock()
	if token == c.listSeq {
		c.list = routes
		c.authors = labels
		c.state = StateReady
		c.lastErr = nil
	}
	c.refreshing = false
	c.mu.Unlock()
	return nil
}

// Select moves to viewing the given route, fetching its detail plus the
// author and place resolutions. A slower Select superseded by a newer one
// never overwrites the newer selection.
func (c *RoutesController) Select(ctx context.Context, id int64) error {
	c.mu.Lock()
	c.selSeq++
	token := c.selSeq
	c.mu.Unlock()

	route, err := c.routes.Get(ctx, id)
	if err != nil {
		c.notifyErr("select route", err)
		return err
	}
	author := c.resolver.RouteAuthor(ctx, route)
	places := c.resolver.RoutePlaces(ctx, route)

	c.mu.Lock()
	if token == c.selSeq {
		c.selected = route
		c.selectedAuthor = author
		c.selectedPlaces = places
		c.editing = false
	}
	c.mu.Unlock()
	return nil
}

// ClearSelection returns to the no-selection sub-state.
func (c *RoutesController) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selSeq++
	c.selected = nil
	c.selectedPlaces = nil
	c.selectedAuthor = resolve.AuthorLabel{}
	c.editing = false
}

// BeginCreate opens an empty create form.
func (c *RoutesController) BeginCreate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editing = true
	c.mode = ModeCreate
	c.editID = 0
	c.draft = domain.RouteRequest{}
}

// BeginEdit opens an edit form pre-filled from the route. The place set is
// not editable here; it is mutated through AttachPlace/DetachPlace.
func (c *RoutesController) BeginEdit(route domain.Route) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editing = true
	c.mode = ModeEdit
	c.editID = route.ID
	c.draft = domain.RouteRequest{
		Name:        route.Name,
		Description: route.Description,
		AuthorID:    route.AuthorID,
	}
}

// Submit creates or updates depending on the form mode. On success the
// form closes and the list is refreshed; on failure the form stays open
// with the submitted payload kept as the draft.
func (c *RoutesController) Submit(ctx context.Context, req domain.RouteRequest) (*domain.Route, error) {
	c.mu.Lock()
	if !c.editing {
		c.mu.Unlock()
		return nil, ErrNotEditing
	}
	mode := c.mode
	editID := c.editID
	c.draft = req
	c.mu.Unlock()

	var route *domain.Route
	var err error
	if mode == ModeCreate {
		route, err = c.routes.Create(ctx, req)
	} else {
		route, err = c.routes.Update(ctx, editID, req)
	}
	if err != nil {
		c.notifyErr("submit route", err)
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
	return route, nil
}

// Destroy deletes the route and refreshes the list. On failure the stale
// entry stays until the next successful refresh.
func (c *RoutesController) Destroy(ctx context.Context, id int64) error {
	if err := c.routes.Delete(ctx, id); err != nil {
		c.notifyErr("delete route", err)
		return err
	}
	c.mu.Lock()
	if c.selected != nil && c.selected.ID == id {
		c.selSeq++
		c.selected = nil
		c.selectedPlaces = nil
		c.selectedAuthor = resolve.AuthorLabel{}
	}
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// AttachPlace adds a place to the route and re-fetches that single route's
// detail rather than the whole list.
func (c *RoutesController) AttachPlace(ctx context.Context, routeID, placeID int64) error {
	if err := c.routes.AddPlace(ctx, routeID, placeID); err != nil {
		c.notifyErr("attach place", err)
		return err
	}
	return c.refetchRoute(ctx, routeID)
}

// DetachPlace removes a place from the route and re-fetches its detail.
func (c *RoutesController) DetachPlace(ctx context.Context, routeID, placeID int64) error {
	if err := c.routes.RemovePlace(ctx, routeID, placeID); err != nil {
		c.notifyErr("detach place", err)
		return err
	}
	return c.refetchRoute(ctx, routeID)
}

func (c *RoutesController) refetchRoute(ctx context.Context, id int64) error {
	route, err := c.routes.Get(ctx, id)
	if err != nil {
		c.notifyErr("refresh route", err)
		return err
	}
	places := c.resolver.RoutePlaces(ctx, route)

	c.mu.Lock()
	for i := range c.list {
		if c.list[i].ID == id {
			c.list[i] = *route
		}
	}
	if c.selected != nil && c.selected.ID == id {
		c.selected = route
		c.selectedPlaces = places
	}
	c.mu.Unlock()
	return nil
}

// State returns the list lifecycle state.
func (c *RoutesController) State() ListState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// List returns a copy of the current route list.
func (c *RoutesController) List() []domain.Route {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Route, len(c.list))
	copy(out, c.list)
	return out
}

// AuthorLabel returns the display label for an author id. Authors that
// never resolved (or were never fetched) get the deterministic fallback.
func (c *RoutesController) AuthorLabel(authorID int64) resolve.AuthorLabel {
	c.mu.Lock()
	defer c.mu.Unlock()
	if label, ok := c.authors[authorID]; ok {
		return label
	}
	return resolve.FallbackLabel(authorID)
}

// Selected returns the current detail selection, or nil.
func (c *RoutesController) Selected() *domain.Route {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == nil {
		return nil
	}
	out := *c.selected
	return &out
}

// SelectedAuthor returns the resolved author label for the selection.
func (c *RoutesController) SelectedAuthor() resolve.AuthorLabel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedAuthor
}

// SelectedPlaces returns the resolved place set for the selection.
func (c *RoutesController) SelectedPlaces() []domain.Place {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Place, len(c.selectedPlaces))
	copy(out, c.selectedPlaces)
	return out
}

// Editing reports whether a form is open and in which mode.
func (c *RoutesController) Editing() (bool, FormMode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editing, c.mode
}

// Draft returns the in-progress form payload.
func (c *RoutesController) Draft() domain.RouteRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// LastError returns the error that put the list into StateError, if any.
func (c *RoutesController) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}
