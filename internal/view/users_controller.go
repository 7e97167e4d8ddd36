package view

import (
	"context"
	"sync"

	"github.com/travelapp/go-travel-client/internal/domain"
)

// UserService is the slice of the user façade the controller needs.
type UserService interface {
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	Create(ctx context.Context, req domain.UserRequest) (*domain.User, error)
	Update(ctx context.Context, id int64, req domain.UserRequest) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
}

// UserResolver hydrates a user's authored routes when the list payload
// left them unpopulated.
type UserResolver interface {
	UserRoutes(ctx context.Context, user *domain.User) []domain.Route
}

// UsersController orchestrates the user list and detail views.
type UsersController struct {
	users    UserService
	resolver UserResolver
	notify   Notifier

	mu         sync.Mutex
	state      ListState
	list       []domain.User
	lastErr    error
	refreshing bool
	listSeq    uint64

	selected       *domain.User
	selectedRoutes []domain.Route
	selSeq         uint64

	editing bool
	mode    FormMode
	editID  int64
	draft   domain.UserRequest
}

// NewUsersController creates an idle controller. notify may be nil.
func NewUsersController(users UserService, resolver UserResolver, notify Notifier) *UsersController {
	return &UsersController{
		users:    users,
		resolver: resolver,
		notify:   notify,
		state:    StateIdle,
	}
}

func (c *UsersController) notifyErr(op string, err error) {
	if c.notify != nil {
		c.notify(op, err)
	}
}

// Refresh reloads the user list, joining any cycle already in flight.
func (c *UsersController) Refresh(ctx context.Context) error {
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

	users, err := c.users.List(ctx)

	c.mu.Lock()
	if token == c.listSeq {
		if err != nil {
			c.state = StateError
			c.lastErr = err
		} else {
			c.list = users
			c.state = StateReady
			c.lastErr = nil
		}
	}
	c.refreshing = false
	c.mu.Unlock()

	if err != nil {
		c.notifyErr("refresh users", err)
	}
	return err
}

// Select moves to viewing the given user with its authored routes resolved.
func (c *UsersController) Select(ctx context.Context, id int64) error {
	c.mu.Lock()
	c.selSeq++
	token := c.selSeq
	c.mu.Unlock()

	user, err := c.users.Get(ctx, id)
	if err != nil {
		c.notifyErr("select user", err)
		return err
	}
	routes := c.resolver.UserRoutes(ctx, user)

	c.mu.Lock()
	if token == c.selSeq {
		c.selected = user
		c.selectedRoutes = routes
		c.editing = false
	}
	c.mu.Unlock()
	return nil
}

// ClearSelection returns to the no-selection sub-state.
func (c *UsersController) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selSeq++
	c.selected = nil
	c.selectedRoutes = nil
	c.editing = false
}

// BeginCreate opens an empty create form.
func (c *UsersController) BeginCreate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editing = true
	c.mode = ModeCreate
	c.editID = 0
	c.draft = domain.UserRequest{}
}

// BeginEdit opens an edit form pre-filled from the user.
func (c *UsersController) BeginEdit(user domain.User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editing = true
	c.mode = ModeEdit
	c.editID = user.ID
	c.draft = domain.UserRequest{Name: user.Name, Email: user.Email}
}

// Submit creates or updates depending on the form mode; see
// RoutesController.Submit for the shared contract.
func (c *UsersController) Submit(ctx context.Context, req domain.UserRequest) (*domain.User, error) {
	c.mu.Lock()
	if !c.editing {
		c.mu.Unlock()
		return nil, ErrNotEditing
	}
	mode := c.mode
	editID := c.editID
	c.draft = req
	c.mu.Unlock()

	var user *domain.User
	var err error
	if mode == ModeCreate {
		user, err = c.users.Create(ctx, req)
	} else {
		user, err = c.users.Update(ctx, editID, req)
	}
	if err != nil {
		c.notifyErr("submit user", err)
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
	return user, nil
}

// Destroy deletes the user and refreshes the list. Routes authored by the
// user keep their authorId; their author labels degrade to the fallback on
// the next routes refresh.
func (c *UsersController) Destroy(ctx context.Context, id int64) error {
	if err := c.users.Delete(ctx, id); err != nil {
		c.notifyErr("delete user", err)
		return err
	}
	c.mu.Lock()
	if c.selected != nil && c.selected.ID == id {
		c.selSeq++
		c.selected = nil
		c.selectedRoutes = nil
	}
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// State returns the list lifecycle state.
func (c *UsersController) State() ListState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// List returns a copy of the current user list.
func (c *UsersController) List() []domain.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.User, len(c.list))
	copy(out, c.list)
	return out
}

// Selected returns the current detail selection, or nil.
func (c *UsersController) Selected() *domain.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == nil {
		return nil
	}
	out := *c.selected
	return &out
}

// SelectedRoutes returns the resolved authored routes for the selection.
func (c *UsersController) SelectedRoutes() []domain.Route {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Route, len(c.selectedRoutes))
	copy(out, c.selectedRoutes)
	return out
}

// Editing reports whether a form is open and in which mode.
func (c *UsersController) Editing() (bool, FormMode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editing, c.mode
}

// Draft returns the in-progress form payload.
func (c *UsersController) Draft() domain.UserRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// LastError returns the error that put the list into StateError, if any.
func (c *UsersController) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}
