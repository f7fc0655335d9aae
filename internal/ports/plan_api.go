package ports

import (
	"context"

	"elasticroute-client/internal/domain"
)

// PlanAPI is the planner boundary: submit a plan, fetch its current state.
// Both return the raw response body.
type PlanAPI interface {
	SubmitPlan(ctx context.Context, plan *domain.Plan) ([]byte, error)
	FetchPlan(ctx context.Context, planID string) ([]byte, error)
}
