package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"elasticroute-client/internal/adapters/elasticroute"
	"elasticroute-client/internal/adapters/store"
	"elasticroute-client/internal/config"
	"elasticroute-client/internal/domain"
	"elasticroute-client/internal/planfile"
	"elasticroute-client/internal/platform/obs"
	"elasticroute-client/internal/ports"
	"elasticroute-client/internal/services"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

type app struct {
	cfg    *config.Config
	client *elasticroute.Client
	out    io.Writer
}

func newApp(cfg *config.Config, out io.Writer) *app {
	return &app{
		cfg: cfg,
		client: elasticroute.NewClient(elasticroute.Config{
			APIKey:            cfg.APIKey,
			DefaultAPIKey:     cfg.DefaultAPIKey,
			PlannerURL:        cfg.PlannerURL,
			DashboardURL:      cfg.DashboardURL,
			Timeout:           cfg.Timeout,
			RequestsPerSecond: cfg.RequestsPerSecond,
			Burst:             cfg.Burst,
			MaxAttempts:       cfg.MaxAttempts,
		}),
		out: out,
	}
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%s: %v: %w", fs.Name(), err, errUsage)
	}
	return nil
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) solve(ctx context.Context, args []string) error {
	fs := newFlagSet("solve")
	file := fs.String("f", "", "plan file (YAML or JSON)")
	id := fs.String("id", "", "plan id, overrides the file")
	mode := fs.String("mode", "", "connection type: sync, poll or webhook")
	wait := fs.Bool("wait", false, "refresh until the plan is planned")
	interval := fs.Duration("interval", 5*time.Second, "time between refreshes with -wait")
	timeout := fs.Duration("timeout", 10*time.Minute, "give up waiting after this long")
	dsn := fs.String("store", "", "archive the solution in this store")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *file == "" {
		return fmt.Errorf("solve: -f is required: %w", errUsage)
	}

	plan, err := planfile.Load(*file)
	if err != nil {
		return err
	}
	if *id != "" {
		plan.ID = *id
	}
	if plan.ID == "" {
		plan.ID = "plan_" + uuid.NewString()
	}
	if *mode != "" {
		ct, err := domain.ParseConnectionType(*mode)
		if err != nil {
			return err
		}
		plan.ConnectionType = ct
	}

	sol, err := services.SolvePlan(ctx, a.client, plan)
	if err != nil {
		return err
	}

	if *wait && !sol.Status.Terminal() {
		if plan.ConnectionType == domain.ConnectionWebhook {
			obs.Log(ctx).Warn("plan result goes to the webhook, polling anyway")
		}
		waitCtx, cancel := context.WithTimeout(ctx, *timeout)
		defer cancel()
		if err := waitPlanned(waitCtx, a.client, sol, *interval); err != nil {
			return err
		}
	}

	if *dsn != "" {
		if err := a.archive(ctx, *dsn, sol); err != nil {
			return err
		}
	}
	return a.print(sol)
}

// waitPlanned refreshes sol at most once per interval until it is planned.
func waitPlanned(ctx context.Context, api ports.PlanAPI, sol *domain.Solution, interval time.Duration) error {
	lim := rate.NewLimiter(rate.Every(interval), 1)
	lim.Allow()

	for !sol.Status.Terminal() {
		if err := lim.Wait(ctx); err != nil {
			return fmt.Errorf("wait for plan %q: %w", sol.PlanID, err)
		}
		if err := services.RefreshSolution(ctx, api, sol); err != nil {
			return err
		}
		obs.Log(ctx).WithField("stage", sol.Status).WithField("progress", sol.Progress).Info("waiting for plan")
	}
	return nil
}

func (a *app) archive(ctx context.Context, dsn string, sols ...*domain.Solution) error {
	st, closeStore, err := store.Open(ctx, dsn, a.cfg.SolutionTTL)
	if err != nil {
		return err
	}
	defer closeStore()

	for _, sol := range sols {
		if err := st.SaveSolution(ctx, sol); err != nil {
			return err
		}
	}
	return nil
}

type idList []string

func (l *idList) String() string { return strings.Join(*l, ",") }

func (l *idList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// status refreshes archived plans, or plans never archived here when their
// id is known.
func (a *app) status(ctx context.Context, args []string) error {
	fs := newFlagSet("status")
	var ids idList
	fs.Var(&ids, "id", "plan id (repeatable)")
	dsn := fs.String("store", a.cfg.SolutionStore, "solution store")
	concurrency := fs.Int("concurrency", 4, "refreshes in flight")
	if err := parse(fs, args); err != nil {
		return err
	}
	ids = append(ids, fs.Args()...)
	if len(ids) == 0 {
		return fmt.Errorf("status: at least one -id is required: %w", errUsage)
	}

	st, closeStore, err := store.Open(ctx, *dsn, a.cfg.SolutionTTL)
	if err != nil {
		return err
	}
	defer closeStore()

	sols := make([]*domain.Solution, 0, len(ids))
	for _, id := range ids {
		sol, err := st.GetSolution(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			sol = &domain.Solution{PlanID: id, GeneralSettings: domain.DefaultGeneralSettings()}
		} else if err != nil {
			return err
		}
		sols = append(sols, sol)
	}

	if err := services.RefreshSolutions(ctx, a.client, sols, *concurrency); err != nil {
		return err
	}
	for _, sol := range sols {
		if err := st.SaveSolution(ctx, sol); err != nil {
			return err
		}
	}

	if len(sols) == 1 {
		return a.print(sols[0])
	}
	return a.print(sols)
}

func (a *app) stops(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("stops: missing subcommand: %w", errUsage)
	}
	sub := args[0]

	fs := newFlagSet("stops " + sub)
	date := fs.String("date", time.Now().Format("2006-01-02"), "dashboard date, YYYY-MM-DD")
	file := fs.String("f", "", "stops file for upload")
	limit := fs.Int("limit", 0, "page size for list")
	if err := parse(fs, args[1:]); err != nil {
		return err
	}

	switch sub {
	case "upload":
		if *file == "" {
			return fmt.Errorf("stops upload: -f is required: %w", errUsage)
		}
		stops, err := planfile.LoadStops(*file)
		if err != nil {
			return err
		}
		if err := a.client.UploadStopsOnDate(ctx, *date, stops); err != nil {
			return err
		}
		return a.print(map[string]any{"date": *date, "uploaded": len(stops)})

	case "list":
		stops, err := a.client.ListStopsOnDate(ctx, *date, *limit)
		if err != nil {
			return err
		}
		if stops == nil {
			stops = []*domain.Stop{}
		}
		return a.print(stops)

	case "clear":
		if err := a.client.DeleteAllStopsOnDate(ctx, *date); err != nil {
			return err
		}
		return a.print(map[string]any{"date": *date, "cleared": true})

	case "plan":
		if err := a.client.StartPlanningOnDate(ctx, *date); err != nil {
			return err
		}
		return a.print(map[string]any{"date": *date, "stage": domain.StatusPlanning})

	case "status":
		stage, err := a.client.PlanningStatusOnDate(ctx, *date)
		if err != nil {
			return err
		}
		return a.print(map[string]any{"date": *date, "stage": stage})

	default:
		return fmt.Errorf("stops: unknown subcommand %q: %w", sub, errUsage)
	}
}

func (a *app) vehicles(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] != "upload" {
		return fmt.Errorf("vehicles: want upload: %w", errUsage)
	}

	fs := newFlagSet("vehicles upload")
	file := fs.String("f", "", "vehicles file")
	if err := parse(fs, args[1:]); err != nil {
		return err
	}
	if *file == "" {
		return fmt.Errorf("vehicles upload: -f is required: %w", errUsage)
	}

	vehicles, err := planfile.LoadVehicles(*file)
	if err != nil {
		return err
	}
	if err := a.client.UploadVehicles(ctx, vehicles); err != nil {
		return err
	}
	return a.print(map[string]any{"uploaded": len(vehicles)})
}
