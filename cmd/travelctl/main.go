package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/docopt/docopt-go"
	"github.com/google/uuid"
	logrus "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/travelapp/go-travel-client/config"
	"github.com/travelapp/go-travel-client/internal/api"
	"github.com/travelapp/go-travel-client/internal/domain"
	"github.com/travelapp/go-travel-client/internal/logger"
	"github.com/travelapp/go-travel-client/internal/resolve"
	"github.com/travelapp/go-travel-client/internal/scheduler"
	"github.com/travelapp/go-travel-client/internal/view"
)

const TravelCtlVersion = "0.1.0"

type app struct {
	users  *view.UsersController
	routes *view.RoutesController
	places *view.PlacesController
}

func main() {
	usage := `Travel store control.

Usage:
    travelctl users list
    travelctl users get <id>
    travelctl users create --name=<name> --email=<email>
    travelctl users update <id> --name=<name> --email=<email>
    travelctl users delete <id>
    travelctl routes list [--min-places=<n>]
    travelctl routes get <id>
    travelctl routes create --name=<name> --description=<text> --author=<userId>
    travelctl routes update <id> --name=<name> --description=<text> --author=<userId>
    travelctl routes delete <id>
    travelctl routes add-place <routeId> <placeId>
    travelctl routes remove-place <routeId> <placeId>
    travelctl places list [--not-visited=<userId>]
    travelctl places get <id>
    travelctl places routes <id>
    travelctl places create --name=<name> --address=<address> --description=<text>
    travelctl places update <id> --name=<name> --address=<address> --description=<text>
    travelctl places delete <id>
    travelctl watch

Options:
    -h --help                  Show this screen.
    --version                  Show version.
    --name=<name>
    --email=<email>
    --description=<text>
    --address=<address>
    --author=<userId>          Author user id for a route.
    --min-places=<n>           Keep only routes with more than n places.
    --not-visited=<userId>     Keep only places the user has not visited.`

	opts, err := docopt.ParseArgs(usage, os.Args[1:], TravelCtlVersion)
	if err != nil {
		panic(err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.App.LogLevel, cfg.App.LogFile)

	client := api.NewClient(cfg.Store.BaseURL,
		api.WithTimeout(time.Duration(cfg.Store.TimeoutSeconds)*time.Second),
		api.WithRateLimit(rate.Limit(cfg.Store.RateLimit), cfg.Store.RateBurst),
	)
	userAPI := api.NewUserAPI(client)
	routeAPI := api.NewRouteAPI(client)
	placeAPI := api.NewPlaceAPI(client)
	resolver := resolve.NewResolver(userAPI, routeAPI)

	notify := func(op string, err error) {
		fmt.Fprintf(os.Stderr, "! %s: %v\n", op, err)
	}

	a := &app{
		users:  view.NewUsersController(userAPI, resolver, notify),
		routes: view.NewRoutesController(routeAPI, resolver, notify),
		places: view.NewPlacesController(placeAPI, notify),
	}

	ctx := logger.NewContext(context.Background(), uuid.New().String())

	switch {
	case flag(opts, "users"):
		a.runUsers(ctx, opts)
	case flag(opts, "routes") && !flag(opts, "places"):
		a.runRoutes(ctx, opts)
	case flag(opts, "places"):
		a.runPlaces(ctx, opts)
	case flag(opts, "watch"):
		a.runWatch(cfg)
	}
}

func flag(opts docopt.Opts, name string) bool {
	v, _ := opts.Bool(name)
	return v
}

func argID(opts docopt.Opts, name string) int64 {
	raw, _ := opts.String(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid id %q\n", raw)
		os.Exit(1)
	}
	return id
}

func optStr(opts docopt.Opts, name string) string {
	v, _ := opts.String(name)
	return v
}

func (a *app) runUsers(ctx context.Context, opts docopt.Opts) {
	switch {
	case flag(opts, "list"):
		if err := a.users.Refresh(ctx); err != nil {
			os.Exit(1)
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tEMAIL")
		for _, u := range a.users.List() {
			fmt.Fprintf(w, "%d\t%s\t%s\n", u.ID, u.Name, u.Email)
		}
		w.Flush()
	case flag(opts, "get"):
		if err := a.users.Select(ctx, argID(opts, "<id>")); err != nil {
			os.Exit(1)
		}
		u := a.users.Selected()
		fmt.Printf("#%d %s <%s>\n", u.ID, u.Name, u.Email)
		for _, r := range a.users.SelectedRoutes() {
			fmt.Printf("  route #%d %s\n", r.ID, r.Name)
		}
	case flag(opts, "create"):
		a.users.BeginCreate()
		u, err := a.users.Submit(ctx, domain.UserRequest{
			Name:  optStr(opts, "--name"),
			Email: optStr(opts, "--email"),
		})
		if err != nil {
			os.Exit(1)
		}
		fmt.Printf("created user #%d\n", u.ID)
	case flag(opts, "update"):
		id := argID(opts, "<id>")
		if err := a.users.Select(ctx, id); err != nil {
			os.Exit(1)
		}
		a.users.BeginEdit(*a.users.Selected())
		if _, err := a.users.Submit(ctx, domain.UserRequest{
			Name:  optStr(opts, "--name"),
			Email: optStr(opts, "--email"),
		}); err != nil {
			os.Exit(1)
		}
		fmt.Printf("updated user #%d\n", id)
	case flag(opts, "delete"):
		id := argID(opts, "<id>")
		if err := a.users.Destroy(ctx, id); err != nil {
			os.Exit(1)
		}
		fmt.Printf("deleted user #%d\n", id)
	}
}

func (a *app) runRoutes(ctx context.Context, opts docopt.Opts) {
	switch {
	case flag(opts, "list"):
		var err error
		if raw := optStr(opts, "--min-places"); raw != "" {
			min, perr := strconv.Atoi(raw)
			if perr != nil {
				fmt.Fprintf(os.Stderr, "invalid --min-places %q\n", raw)
				os.Exit(1)
			}
			err = a.routes.FilterMinPlaces(ctx, min)
		} else {
			err = a.routes.Refresh(ctx)
		}
		if err != nil {
			os.Exit(1)
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tAUTHOR\tPLACES")
		for _, r := range a.routes.List() {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", r.ID, r.Name, a.routes.AuthorLabel(r.AuthorID).Name, len(r.Places))
		}
		w.Flush()
	case flag(opts, "get"):
		if err := a.routes.Select(ctx, argID(opts, "<id>")); err != nil {
			os.Exit(1)
		}
		r := a.routes.Selected()
		fmt.Printf("#%d %s by %s\n%s\n", r.ID, r.Name, a.routes.SelectedAuthor().Name, r.Description)
		for _, p := range a.routes.SelectedPlaces() {
			fmt.Printf("  place #%d %s (%s)\n", p.ID, p.Name, p.Address)
		}
	case flag(opts, "create"):
		a.routes.BeginCreate()
		r, err := a.routes.Submit(ctx, domain.RouteRequest{
			Name:        optStr(opts, "--name"),
			Description: optStr(opts, "--description"),
			AuthorID:    authorID(opts),
		})
		if err != nil {
			os.Exit(1)
		}
		fmt.Printf("created route #%d\n", r.ID)
	case flag(opts, "update"):
		id := argID(opts, "<id>")
		if err := a.routes.Select(ctx, id); err != nil {
			os.Exit(1)
		}
		a.routes.BeginEdit(*a.routes.Selected())
		if _, err := a.routes.Submit(ctx, domain.RouteRequest{
			Name:        optStr(opts, "--name"),
			Description: optStr(opts, "--description"),
			AuthorID:    authorID(opts),
		}); err != nil {
			os.Exit(1)
		}
		fmt.Printf("updated route #%d\n", id)
	case flag(opts, "delete"):
		id := argID(opts, "<id>")
		if err := a.routes.Destroy(ctx, id); err != nil {
			os.Exit(1)
		}
		fmt.Printf("deleted route #%d\n", id)
	case flag(opts, "add-place"):
		if err := a.routes.AttachPlace(ctx, argID(opts, "<routeId>"), argID(opts, "<placeId>")); err != nil {
			os.Exit(1)
		}
		fmt.Println("place attached")
	case flag(opts, "remove-place"):
		if err := a.routes.DetachPlace(ctx, argID(opts, "<routeId>"), argID(opts, "<placeId>")); err != nil {
			os.Exit(1)
		}
		fmt.Println("place detached")
	}
}

func (a *app) runPlaces(ctx context.Context, opts docopt.Opts) {
	switch {
	case flag(opts, "list"):
		var err error
		if raw := optStr(opts, "--not-visited"); raw != "" {
			userID, perr := strconv.ParseInt(raw, 10, 64)
			if perr != nil {
				fmt.Fprintf(os.Stderr, "invalid --not-visited %q\n", raw)
				os.Exit(1)
			}
			err = a.places.FilterNotVisited(ctx, userID)
		} else {
			err = a.places.Refresh(ctx)
		}
		if err != nil {
			os.Exit(1)
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tADDRESS")
		for _, p := range a.places.List() {
			fmt.Fprintf(w, "%d\t%s\t%s\n", p.ID, p.Name, p.Address)
		}
		w.Flush()
	case flag(opts, "routes"):
		if err := a.places.Select(ctx, argID(opts, "<id>")); err != nil {
			os.Exit(1)
		}
		for _, r := range a.places.RoutesThrough() {
			fmt.Printf("route #%d %s\n", r.ID, r.Name)
		}
	case flag(opts, "get"):
		if err := a.places.Select(ctx, argID(opts, "<id>")); err != nil {
			os.Exit(1)
		}
		p := a.places.Selected()
		fmt.Printf("#%d %s\n%s\n%s\n", p.ID, p.Name, p.Address, p.Description)
	case flag(opts, "create"):
		a.places.BeginCreate()
		p, err := a.places.Submit(ctx, domain.PlaceRequest{
			Name:        optStr(opts, "--name"),
			Address:     optStr(opts, "--address"),
			Description: optStr(opts, "--description"),
		})
		if err != nil {
			os.Exit(1)
		}
		fmt.Printf("created place #%d\n", p.ID)
	case flag(opts, "update"):
		id := argID(opts, "<id>")
		if err := a.places.Select(ctx, id); err != nil {
			os.Exit(1)
		}
		a.places.BeginEdit(*a.places.Selected())
		if _, err := a.places.Submit(ctx, domain.PlaceRequest{
			Name:        optStr(opts, "--name"),
			Address:     optStr(opts, "--address"),
			Description: optStr(opts, "--description"),
		}); err != nil {
			os.Exit(1)
		}
		fmt.Printf("updated place #%d\n", id)
	case flag(opts, "delete"):
		id := argID(opts, "<id>")
		if err := a.places.Destroy(ctx, id); err != nil {
			os.Exit(1)
		}
		fmt.Printf("deleted place #%d\n", id)
	}
}

func (a *app) runWatch(cfg *config.Config) {
	if !cfg.Refresh.Enabled {
		fmt.Fprintln(os.Stderr, "refresh is disabled, nothing to watch")
		os.Exit(1)
	}
	sched := scheduler.New(cfg.Refresh.Spec)
	sched.Add("users", a.users)
	sched.Add("routes", a.routes)
	sched.Add("places", a.places)
	if err := sched.Start(); err != nil {
		logrus.WithError(err).Error("scheduler failed to start")
		os.Exit(1)
	}
	defer sched.Stop()

	fmt.Printf("watching %s (refresh %q), Ctrl-C to stop\n", cfg.Store.BaseURL, cfg.Refresh.Spec)
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
}

func authorID(opts docopt.Opts) int64 {
	raw := optStr(opts, "--author")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid --author %q\n", raw)
		os.Exit(1)
	}
	return id
}
