package elasticroute

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"elasticroute-client/internal/domain"
	"elasticroute-client/internal/platform/obs"
	"elasticroute-client/internal/validation"
)

type dataBody struct {
	Data any `json:"data"`
}

// Create stores a new entity on the dashboard and loads the server's copy
// back into it.
func (c *Client) Create(ctx context.Context, e domain.Entity) (err error) {
	defer obs.Time(ctx, "elasticroute.Create")(&err)

	res, err := resourceFor(e)
	if err != nil {
		return err
	}
	path, err := res.collectionPath(c.dashboardURL, e.Record())
	if err != nil {
		return err
	}
	if res.checkBody != nil {
		if err := res.checkBody(e); err != nil {
			return err
		}
	}

	b, err := c.send(ctx, call{
		service: serviceDashboard,
		method:  http.MethodPost,
		url:     path,
		payload: dataBody{Data: e.Record().Payload()},
	})
	if err != nil {
		return fmt.Errorf("create %s: %w", e.Kind(), err)
	}
	return replaceFromResponse(e, b)
}

// Retrieve reloads an entity by its name (and date, for stops). It reports
// false without touching the entity when the dashboard has no such record.
func (c *Client) Retrieve(ctx context.Context, e domain.Entity) (_ bool, err error) {
	defer obs.Time(ctx, "elasticroute.Retrieve")(&err)

	res, err := resourceFor(e)
	if err != nil {
		return false, err
	}
	path, err := res.itemPath(c.dashboardURL, e.Record())
	if err != nil {
		return false, err
	}

	b, err := c.send(ctx, call{service: serviceDashboard, method: http.MethodGet, url: path})
	if domain.IsStatus(err, http.StatusNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("retrieve %s: %w", e.Kind(), err)
	}
	return true, replaceFromResponse(e, b)
}

// Update sends the entity's changed fields. A renamed entity is addressed
// by its old name so the rename happens in place.
func (c *Client) Update(ctx context.Context, e domain.Entity) (err error) {
	defer obs.Time(ctx, "elasticroute.Update")(&err)

	res, err := resourceFor(e)
	if err != nil {
		return err
	}
	path, err := res.itemPath(c.dashboardURL, e.Record())
	if err != nil {
		return err
	}
	if res.checkBody != nil {
		if err := res.checkBody(e); err != nil {
			return err
		}
	}

	b, err := c.send(ctx, call{
		service: serviceDashboard,
		method:  http.MethodPut,
		url:     path,
		payload: dataBody{Data: e.Record().Payload()},
	})
	if err != nil {
		return fmt.Errorf("update %s: %w", e.Kind(), err)
	}
	return replaceFromResponse(e, b)
}

// Delete removes the entity from the dashboard. Deleting a record that does
// not exist is an error.
func (c *Client) Delete(ctx context.Context, e domain.Entity) (err error) {
	defer obs.Time(ctx, "elasticroute.Delete")(&err)

	res, err := resourceFor(e)
	if err != nil {
		return err
	}
	path, err := res.itemPath(c.dashboardURL, e.Record())
	if err != nil {
		return err
	}

	if _, err := c.send(ctx, call{service: serviceDashboard, method: http.MethodDelete, url: path}); err != nil {
		return fmt.Errorf("delete %s: %w", e.Kind(), err)
	}
	return nil
}

func replaceFromResponse(e domain.Entity, b []byte) error {
	var data map[string]any
	if err := decodeData(b, &data); err != nil {
		return fmt.Errorf("%s response: %w", e.Kind(), err)
	}
	e.Record().Replace(data)
	return nil
}

// UploadStopsOnDate adds stops to a date in one request.
func (c *Client) UploadStopsOnDate(ctx context.Context, date string, stops []*domain.Stop) (err error) {
	defer obs.Time(ctx, "elasticroute.UploadStopsOnDate")(&err)

	if err := checkDate(date); err != nil {
		return err
	}
	if err := validation.DashboardStops(stops); err != nil {
		return err
	}

	_, err = c.send(ctx, call{
		service: serviceDashboard,
		method:  http.MethodPost,
		url:     c.dashboardURL + "/account/stops/" + date + "/bulk",
		payload: dataBody{Data: nonNilStops(stops)},
	})
	if err != nil {
		return fmt.Errorf("upload stops on %s: %w", date, err)
	}
	return nil
}

// ListStopsOnDate returns the stops stored for a date. limit <= 0 leaves
// paging to the server.
func (c *Client) ListStopsOnDate(ctx context.Context, date string, limit int) (_ []*domain.Stop, err error) {
	defer obs.Time(ctx, "elasticroute.ListStopsOnDate")(&err)

	if err := checkDate(date); err != nil {
		return nil, err
	}
	endpoint := c.dashboardURL + "/account/stops/" + date
	if limit > 0 {
		endpoint += "?" + url.Values{"limit": {strconv.Itoa(limit)}}.Encode()
	}

	b, err := c.send(ctx, call{service: serviceDashboard, method: http.MethodGet, url: endpoint})
	if err != nil {
		return nil, fmt.Errorf("list stops on %s: %w", date, err)
	}
	var raw []map[string]any
	if err := decodeData(b, &raw); err != nil {
		return nil, fmt.Errorf("list stops on %s: %w", date, err)
	}
	return domain.NewStops(raw), nil
}

func (c *Client) DeleteAllStopsOnDate(ctx context.Context, date string) (err error) {
	defer obs.Time(ctx, "elasticroute.DeleteAllStopsOnDate")(&err)

	if err := checkDate(date); err != nil {
		return err
	}
	_, err = c.send(ctx, call{
		service: serviceDashboard,
		method:  http.MethodDelete,
		url:     c.dashboardURL + "/account/stops/" + date,
	})
	if err != nil {
		return fmt.Errorf("delete stops on %s: %w", date, err)
	}
	return nil
}

// StartPlanningOnDate asks the dashboard to plan every stop on a date with
// the account's vehicles.
func (c *Client) StartPlanningOnDate(ctx context.Context, date string) (err error) {
	defer obs.Time(ctx, "elasticroute.StartPlanningOnDate")(&err)

	if err := checkDate(date); err != nil {
		return err
	}
	_, err = c.send(ctx, call{
		service: serviceDashboard,
		method:  http.MethodPost,
		url:     c.dashboardURL + "/account/stops/" + date + "/plan",
	})
	if err != nil {
		return fmt.Errorf("start planning on %s: %w", date, err)
	}
	return nil
}

func (c *Client) PlanningStatusOnDate(ctx context.Context, date string) (_ domain.Status, err error) {
	defer obs.Time(ctx, "elasticroute.PlanningStatusOnDate")(&err)

	if err := checkDate(date); err != nil {
		return "", err
	}
	b, err := c.send(ctx, call{
		service: serviceDashboard,
		method:  http.MethodGet,
		url:     c.dashboardURL + "/account/stops/" + date + "/plan/status",
	})
	if err != nil {
		return "", fmt.Errorf("planning status on %s: %w", date, err)
	}
	var data struct {
		Stage string `json:"stage"`
	}
	if err := decodeData(b, &data); err != nil {
		return "", fmt.Errorf("planning status on %s: %w", date, err)
	}
	return domain.Status(data.Stage), nil
}

func (c *Client) UploadVehicles(ctx context.Context, vehicles []*domain.Vehicle) (err error) {
	defer obs.Time(ctx, "elasticroute.UploadVehicles")(&err)

	if err := validation.DashboardVehicles(vehicles); err != nil {
		return err
	}
	if vehicles == nil {
		vehicles = []*domain.Vehicle{}
	}
	_, err = c.send(ctx, call{
		service: serviceDashboard,
		method:  http.MethodPost,
		url:     c.dashboardURL + "/account/vehicles/bulk",
		payload: dataBody{Data: vehicles},
	})
	if err != nil {
		return fmt.Errorf("upload vehicles: %w", err)
	}
	return nil
}

func nonNilStops(stops []*domain.Stop) []*domain.Stop {
	if stops == nil {
		return []*domain.Stop{}
	}
	return stops
}
