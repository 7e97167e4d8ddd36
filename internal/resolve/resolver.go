// Package resolve assembles display-ready composites from data the store
// returns only by reference. It issues the secondary fetches needed to
// embed author names, place sets and route sets, and degrades to fallback
// values instead of failing the whole view when a secondary fetch fails.
package resolve

import (
	"context"
	"fmt"
	"sync"

	"github.com/travelapp/go-travel-client/internal/domain"
	"github.com/travelapp/go-travel-client/internal/logger"
)

// UserGetter fetches a single user by id.
type UserGetter interface {
	Get(ctx context.Context, id int64) (*domain.User, error)
}

// RouteGetter fetches a single route by id.
type RouteGetter interface {
	Get(ctx context.Context, id int64) (*domain.Route, error)
}

// AuthorLabel is the display value for a route's author. Resolved is false
// when the author fetch failed and Name carries the fallback label.
type AuthorLabel struct {
	Name     string
	Resolved bool
}

// Resolver performs cross-entity resolution. It holds no cache and does no
// retries; each call reflects a point-in-time snapshot.
type Resolver struct {
	users  UserGetter
	routes RouteGetter
}

// NewResolver creates a resolver over the user and route façades.
func NewResolver(users UserGetter, routes RouteGetter) *Resolver {
	return &Resolver{users: users, routes: routes}
}

// FallbackLabel is the deterministic placeholder for an unresolvable
// author, used so composite views always render.
func FallbackLabel(authorID int64) AuthorLabel {
	return AuthorLabel{Name: fmt.Sprintf("User #%d", authorID), Resolved: false}
}

// RouteAuthor resolves the author name for a single route. A fetch failure
// (including a deleted author) yields the fallback label, never an error.
func (r *Resolver) RouteAuthor(ctx context.Context, route *domain.Route) AuthorLabel {
	user, err := r.users.Get(ctx, route.AuthorID)
	if err != nil {
		recordFallback()
		logger.FromContext(ctx).WithError(err).
			Warnf("author %d for route %d did not resolve", route.AuthorID, route.ID)
		return FallbackLabel(route.AuthorID)
	}
	recordResolution()
	return AuthorLabel{Name: user.Name, Resolved: true}
}

// AuthorsForRoutes resolves author labels for a whole route list with one
// fetch per distinct author id. Fetches run concurrently and independently:
// a failure on one author falls back for that entry only.
func (r *Resolver) AuthorsForRoutes(ctx context.Context, routes []domain.Route) map[int64]AuthorLabel {
	distinct := make(map[int64]struct{})
	for _, route := range routes {
		distinct[route.AuthorID] = struct{}{}
	}

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		labels = make(map[int64]AuthorLabel, len(distinct))
	)
	for authorID := range distinct {
		wg.Add(1)
		go func(authorID int64) {
			defer wg.Done()
			user, err := r.users.Get(ctx, authorID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				recordFallback()
				logger.FromContext(ctx).WithError(err).
					Warnf("author %d did not resolve", authorID)
				labels[authorID] = FallbackLabel(authorID)
				return
			}
			recordResolution()
			labels[authorID] = AuthorLabel{Name: user.Name, Resolved: true}
		}(authorID)
	}
	wg.Wait()
	return labels
}

// RoutePlaces returns the route's place set. A detail payload that already
// carries the set is returned verbatim; list payloads leave it nil and
// trigger a secondary detail fetch. On fetch failure the view degrades to
// an empty set rather than failing.
func (r *Resolver) RoutePlaces(ctx context.Context, route *domain.Route) []domain.Place {
	if route.Places != nil {
		return route.Places
	}
	detail, err := r.routes.Get(ctx, route.ID)
	if err != nil {
		recordFallback()
		logger.FromContext(ctx).WithError(err).
			Warnf("places for route %d did not resolve", route.ID)
		return []domain.Place{}
	}
	recordResolution()
	if detail.Places == nil {
		return []domain.Place{}
	}
	return detail.Places
}

// UserRoutes returns the user's authored routes, hydrating from the user
// detail endpoint when the list payload left them unpopulated.
func (r *Resolver) UserRoutes(ctx context.Context, user *domain.User) []domain.Route {
	if user.Routes != nil {
		return user.Routes
	}
	detail, err := r.users.Get(ctx, user.ID)
	if err != nil {
		recordFallback()
		logger.FromContext(ctx).WithError(err).
			Warnf("routes for user %d did not resolve", user.ID)
		return []domain.Route{}
	}
	recordResolution()
	if detail.Routes == nil {
		return []domain.Route{}
	}
	return detail.Routes
}
