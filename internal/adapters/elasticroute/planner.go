package elasticroute

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"elasticroute-client/internal/domain"
	"elasticroute-client/internal/platform/obs"
)

// SubmitPlan sends plan to the planner and returns the raw response body.
// Sync plans are solved before the planner answers; poll and webhook plans
// come back at the submitted stage.
func (c *Client) SubmitPlan(ctx context.Context, plan *domain.Plan) (_ []byte, err error) {
	defer obs.Time(ctx, "elasticroute.SubmitPlan")(&err)

	endpoint := c.plannerURL + "/plan/" + url.PathEscape(plan.ID)
	if plan.ConnectionType == domain.ConnectionSync || plan.ConnectionType == "" {
		endpoint += "?c=sync"
	}

	b, err := c.send(ctx, call{
		service: servicePlanner,
		method:  http.MethodPost,
		url:     endpoint,
		payload: plan,
		apiKey:  plan.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("submit plan %q: %w", plan.ID, err)
	}
	return b, nil
}

// FetchPlan returns the planner's current view of a submitted plan.
func (c *Client) FetchPlan(ctx context.Context, planID string) (_ []byte, err error) {
	defer obs.Time(ctx, "elasticroute.FetchPlan")(&err)

	b, err := c.send(ctx, call{
		service: servicePlanner,
		method:  http.MethodGet,
		url:     c.plannerURL + "/plan/" + url.PathEscape(planID),
	})
	if err != nil {
		return nil, fmt.Errorf("fetch plan %q: %w", planID, err)
	}
	return b, nil
}
