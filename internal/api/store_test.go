package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/travelapp/go-travel-client/internal/domain"
)

// fakeStore is an in-memory travel store behind httptest. Detail endpoints
// populate embedded collections; list endpoints leave them null, matching
// the backing store contract the client is written against.
type fakeStore struct {
	t      *testing.T
	server *httptest.Server

	mu       sync.Mutex
	nextID   int64
	users    map[int64]*domain.User
	routes   map[int64]*domain.Route
	places   map[int64]*domain.Place
	members  map[int64][]int64 // routeID -> ordered place ids
	requests int
}

func newFakeStore(t *testing.T) *fakeStore {
	s := &fakeStore{
		t:       t,
		nextID:  1,
		users:   make(map[int64]*domain.User),
		routes:  make(map[int64]*domain.Route),
		places:  make(map[int64]*domain.Place),
		members: make(map[int64][]int64),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/users", s.listUsers)
	mux.HandleFunc("GET /api/users/{id}", s.getUser)
	mux.HandleFunc("POST /api/users", s.createUser)
	mux.HandleFunc("PUT /api/users/{id}", s.updateUser)
	mux.HandleFunc("DELETE /api/users/{id}", s.deleteUser)

	mux.HandleFunc("GET /api/routes", s.listRoutes)
	mux.HandleFunc("GET /api/routes/more-than", s.listRoutesMoreThan)
	mux.HandleFunc("GET /api/routes/{id}", s.getRoute)
	mux.HandleFunc("POST /api/routes", s.createRoute)
	mux.HandleFunc("PUT /api/routes/{id}", s.updateRoute)
	mux.HandleFunc("DELETE /api/routes/{id}", s.deleteRoute)
	mux.HandleFunc("POST /api/routes/{routeId}/add/{placeId}", s.addPlace)
	mux.HandleFunc("DELETE /api/routes/{routeId}/remove/{placeId}", s.removePlace)

	mux.HandleFunc("GET /api/places", s.listPlaces)
	mux.HandleFunc("GET /api/places/not-visited", s.listNotVisited)
	mux.HandleFunc("GET /api/places/{id}", s.getPlace)
	mux.HandleFunc("GET /api/places/{id}/routes", s.placeRoutes)
	mux.HandleFunc("POST /api/places", s.createPlace)
	mux.HandleFunc("POST /api/places/bulk", s.createPlacesBulk)
	mux.HandleFunc("PUT /api/places/{id}", s.updatePlace)
	mux.HandleFunc("DELETE /api/places/{id}", s.deletePlace)

	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests++
		s.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(s.server.Close)
	return s
}

func (s *fakeStore) requestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

func (s *fakeStore) allocID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

// routeDetail builds the detail view of a route with its place set.
func (s *fakeStore) routeDetail(route *domain.Route) domain.Route {
	detail := *route
	detail.Places = []domain.Place{}
	for _, pid := range s.members[route.ID] {
		if p, ok := s.places[pid]; ok {
			detail.Places = append(detail.Places, *p)
		}
	}
	return detail
}

func (s *fakeStore) userDetail(user *domain.User) domain.User {
	detail := *user
	detail.Routes = []domain.Route{}
	for _, route := range s.routes {
		if route.AuthorID == user.ID {
			detail.Routes = append(detail.Routes, s.routeDetail(route))
		}
	}
	return detail
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	return id, err == nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *fakeStore) listUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.User{}
	for _, u := range s.users {
		out = append(out, *u) // routes left null in list payloads
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *fakeStore) getUser(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, _ := pathID(r, "id")
	u, ok := s.users[id]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, s.userDetail(u))
}

func (s *fakeStore) createUser(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var req domain.UserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	u := &domain.User{ID: s.allocID(), Name: req.Name, Email: req.Email}
	s.users[u.ID] = u
	writeJSON(w, http.StatusCreated, s.userDetail(u))
}

func (s *fakeStore) updateUser(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, _ := pathID(r, "id")
	u, ok := s.users[id]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	var req domain.UserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	u.Name = req.Name
	u.Email = req.Email
	writeJSON(w, http.StatusOK, s.userDetail(u))
}

func (s *fakeStore) deleteUser(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, _ := pathID(r, "id")
	if _, ok := s.users[id]; !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	// No referential cleanup: routes keep their dangling authorId.
	delete(s.users, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *fakeStore) listRoutes(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Route{}
	for _, rt := range s.routes {
		out = append(out, *rt) // places left null in list payloads
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *fakeStore) listRoutesMoreThan(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	min, _ := strconv.Atoi(r.URL.Query().Get("minPlaces"))
	out := []domain.Route{}
	for _, rt := range s.routes {
		if len(s.members[rt.ID]) > min {
			out = append(out, s.routeDetail(rt))
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *fakeStore) getRoute(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, _ := pathID(r, "id")
	rt, ok := s.routes[id]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, s.routeDetail(rt))
}

func (s *fakeStore) createRoute(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var req domain.RouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if _, ok := s.users[req.AuthorID]; !ok {
		w.WriteHeader(http.StatusUnprocessableEntity)
		return
	}
	rt := &domain.Route{ID: s.allocID(), Name: req.Name, Description: req.Description, AuthorID: req.AuthorID}
	s.routes[rt.ID] = rt
	writeJSON(w, http.StatusCreated, s.routeDetail(rt))
}

func (s *fakeStore) updateRoute(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, _ := pathID(r, "id")
	rt, ok := s.routes[id]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	var req domain.RouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	rt.Name = req.Name
	rt.Description = req.Description
	rt.AuthorID = req.AuthorID
	writeJSON(w, http.StatusOK, s.routeDetail(rt))
}

func (s *fakeStore) deleteRoute(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, _ := pathID(r, "id")
	if _, ok := s.routes[id]; !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	delete(s.routes, id)
	delete(s.members, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *fakeStore) addPlace(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	routeID, _ := pathID(r, "routeId")
	placeID, _ := pathID(r, "placeId")
	if _, ok := s.routes[routeID]; !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if _, ok := s.places[placeID]; !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	for _, pid := range s.members[routeID] {
		if pid == placeID {
			w.WriteHeader(http.StatusOK) // set semantics, no duplicate
			return
		}
	}
	s.members[routeID] = append(s.members[routeID], placeID)
	w.WriteHeader(http.StatusOK)
}

func (s *fakeStore) removePlace(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	routeID, _ := pathID(r, "routeId")
	placeID, _ := pathID(r, "placeId")
	if _, ok := s.routes[routeID]; !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	kept := s.members[routeID][:0]
	for _, pid := range s.members[routeID] {
		if pid != placeID {
			kept = append(kept, pid)
		}
	}
	s.members[routeID] = kept
	w.WriteHeader(http.StatusOK)
}

func (s *fakeStore) listPlaces(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Place{}
	for _, p := range s.places {
		out = append(out, *p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *fakeStore) listNotVisited(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID, _ := strconv.ParseInt(r.URL.Query().Get("userId"), 10, 64)
	visited := make(map[int64]bool)
	for _, rt := range s.routes {
		if rt.AuthorID != userID {
			continue
		}
		for _, pid := range s.members[rt.ID] {
			visited[pid] = true
		}
	}
	out := []domain.Place{}
	for _, p := range s.places {
		if !visited[p.ID] {
			out = append(out, *p)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *fakeStore) getPlace(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, _ := pathID(r, "id")
	p, ok := s.places[id]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, *p)
}

func (s *fakeStore) placeRoutes(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, _ := pathID(r, "id")
	if _, ok := s.places[id]; !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	out := []domain.Route{}
	for _, rt := range s.routes {
		for _, pid := range s.members[rt.ID] {
			if pid == id {
				out = append(out, s.routeDetail(rt))
				break
			}
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *fakeStore) createPlace(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var req domain.PlaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	p := &domain.Place{ID: s.allocID(), Name: req.Name, Address: req.Address, Description: req.Description}
	s.places[p.ID] = p
	writeJSON(w, http.StatusCreated, *p)
}

func (s *fakeStore) createPlacesBulk(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var reqs []domain.PlaceRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	out := []domain.Place{}
	for _, req := range reqs {
		p := &domain.Place{ID: s.allocID(), Name: req.Name, Address: req.Address, Description: req.Description}
		s.places[p.ID] = p
		out = append(out, *p)
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *fakeStore) updatePlace(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, _ := pathID(r, "id")
	p, ok := s.places[id]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	var req domain.PlaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	p.Name = req.Name
	p.Address = req.Address
	p.Description = req.Description
	writeJSON(w, http.StatusOK, *p)
}

func (s *fakeStore) deletePlace(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, _ := pathID(r, "id")
	if _, ok := s.places[id]; !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	delete(s.places, id)
	w.WriteHeader(http.StatusNoContent)
}
