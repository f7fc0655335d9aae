package ports

import (
	"context"

	"elasticroute-client/internal/domain"
)

// SolutionStore archives the latest known state of each plan.
type SolutionStore interface {
	SaveSolution(ctx context.Context, sol *domain.Solution) error
	// GetSolution returns domain.ErrNotFound for unknown plan ids.
	GetSolution(ctx context.Context, planID string) (*domain.Solution, error)
}

// Optional extension of SolutionStore for stores that index per-stop
// results and can answer without decoding the whole solution.
type UnsolvedStopLister interface {
	UnsolvedStopNames(ctx context.Context, planID string) ([]string, error)
}
