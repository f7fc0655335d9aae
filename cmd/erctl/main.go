// Command erctl submits plans to the ElasticRoute planner and manages
// stops and vehicles on the dashboard.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"elasticroute-client/internal/config"
	"elasticroute-client/internal/platform/logger"
	"elasticroute-client/internal/platform/obs"
)

const usage = `usage: erctl <command> [flags]

commands:
  solve     -f plan.yaml [-id ID] [-mode sync|poll|webhook] [-wait] [-interval 5s] [-store DSN]
  status    [-store DSN] [-concurrency N] -id ID [ID...]
  stops     upload|list|clear|plan|status -date YYYY-MM-DD [-f stops.yaml] [-limit N]
  vehicles  upload -f vehicles.yaml
`

var errUsage = errors.New("bad usage")

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Logger)
	obs.SetLogger(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, cfg, os.Args[1:], os.Stdout)
	if errors.Is(err, errUsage) {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.WithError(err).Error("erctl failed")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	a := newApp(cfg, out)
	switch args[0] {
	case "solve":
		return a.solve(ctx, args[1:])
	case "status":
		return a.status(ctx, args[1:])
	case "stops":
		return a.stops(ctx, args[1:])
	case "vehicles":
		return a.vehicles(ctx, args[1:])
	case "help", "-h", "--help":
		fmt.Fprint(out, usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
	}
}
