package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"elasticroute-client/internal/domain"
	"elasticroute-client/internal/metrics"
	"elasticroute-client/internal/platform/obs"
	"elasticroute-client/internal/ports"
)

// RefreshSolution fetches the planner's current view of sol's plan and
// overwrites sol with it. It does not poll; call it again until
// sol.Status.Terminal().
func RefreshSolution(ctx context.Context, api ports.PlanAPI, sol *domain.Solution) (err error) {
	defer obs.Time(ctx, "services.RefreshSolution")(&err)

	if strings.TrimSpace(sol.PlanID) == "" {
		return domain.NewBadFieldError(missingPlanID, nil)
	}

	body, err := api.FetchPlan(ctx, sol.PlanID)
	if err != nil {
		return fmt.Errorf("refresh solution: %w", err)
	}

	before := sol.Status
	if err := sol.Apply(body); err != nil {
		return fmt.Errorf("refresh solution: %w", err)
	}
	metrics.SolutionRefreshes.WithLabelValues(string(sol.Status)).Inc()

	entry := obs.Log(ctx).WithField("plan_id", sol.PlanID).WithField("stage", sol.Status)
	switch {
	case before.Regresses(sol.Status):
		entry.WithField("previous", before).Warn("plan stage went backwards")
	case before != sol.Status:
		entry.WithField("previous", before).Info("plan stage changed")
	}
	return nil
}

type refreshResult struct {
	planID string
	err    error
}

// RefreshSolutions is a caller-side helper for refreshing many solutions
// with at most concurrency requests in flight. Nothing else in the client
// starts goroutines; callers that want parallel refreshes opt in here. It returns once every refresh has finished; the first
// error is returned and the remaining refreshes are cancelled.
func RefreshSolutions(ctx context.Context, api ports.PlanAPI, sols []*domain.Solution, concurrency int) error {
	if len(sols) == 0 {
		return nil
	}
	if concurrency < 1 {
		concurrency = 1
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := make(chan struct{}, concurrency)
	resultsCh := make(chan refreshResult, len(sols))
	var wg sync.WaitGroup

	for _, sol := range sols {
		wg.Add(1)
		go func(s *domain.Solution) {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			if err := RefreshSolution(ctx, api, s); err != nil {
				resultsCh <- refreshResult{planID: s.PlanID, err: err}
				cancel()
				return
			}
			resultsCh <- refreshResult{planID: s.PlanID}
		}(sol)
	}

	wg.Wait()
	close(resultsCh)

	var firstErr error
	for res := range resultsCh {
		if res.err != nil && firstErr == nil {
			firstErr = fmt.Errorf("refresh %q: %w", res.planID, res.err)
		}
	}
	return firstErr
}
