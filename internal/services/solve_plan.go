package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"elasticroute-client/internal/domain"
	"elasticroute-client/internal/metrics"
	"elasticroute-client/internal/platform/obs"
	"elasticroute-client/internal/ports"
	"elasticroute-client/internal/validation"
)

const missingPlanID = "You need to create an id for this plan!"

// SolvePlan normalizes and validates plan, submits it and returns the
// planner's answer as a Solution. Sync plans come back planned; poll and
// webhook plans come back submitted and are advanced with RefreshSolution
// or by the planner calling webhook_url.
func SolvePlan(ctx context.Context, api ports.PlanAPI, plan *domain.Plan) (_ *domain.Solution, err error) {
	defer obs.Time(ctx, "services.SolvePlan")(&err)

	if strings.TrimSpace(plan.ID) == "" {
		return nil, domain.NewBadFieldError(missingPlanID, nil)
	}

	NormalizePlan(plan)

	if err := validation.Plan(plan); err != nil {
		var bad *domain.BadFieldError
		if errors.As(err, &bad) {
			metrics.ValidationFailures.WithLabelValues(failedKind(bad.Message)).Inc()
		}
		return nil, err
	}

	mode := plan.ConnectionType
	if mode == "" {
		mode = domain.ConnectionSync
	}
	if mode == domain.ConnectionWebhook && !plan.GeneralSettings.HasWebhook() {
		obs.Log(ctx).WithField("plan_id", plan.ID).
			Warn("webhook connection without generalSettings.webhook_url")
	}

	body, err := api.SubmitPlan(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("solve plan: %w", err)
	}
	metrics.PlanSubmissions.WithLabelValues(string(mode)).Inc()

	sol, err := domain.ParseSolution(body, plan.GeneralSettings)
	if err != nil {
		return nil, fmt.Errorf("solve plan: %w", err)
	}
	if sol.PlanID == "" {
		sol.PlanID = plan.ID
	}

	obs.Log(ctx).WithField("plan_id", sol.PlanID).WithField("stage", sol.Status).Info("plan submitted")
	return sol, nil
}

func failedKind(msg string) string {
	for _, kind := range []string{"stop", "vehicle", "depot"} {
		if strings.Contains(strings.ToLower(msg), kind) {
			return kind
		}
	}
	return "other"
}
