package elasticroute

import (
	"fmt"
	"net/url"
	"time"

	"elasticroute-client/internal/domain"
	"elasticroute-client/internal/validation"
)

const dateLayout = "2006-01-02"

// resource describes how one entity kind maps onto dashboard endpoints.
// collectionPath is used for create; itemPath for retrieve, update and
// delete. checkBody runs before create and update bodies are sent.
type resource struct {
	collectionPath func(base string, r *domain.Record) (string, error)
	itemPath       func(base string, r *domain.Record) (string, error)
	checkBody      func(e domain.Entity) error
}

var resources = map[domain.Kind]resource{
	domain.KindStop: {
		collectionPath: stopCollectionPath,
		itemPath: func(base string, r *domain.Record) (string, error) {
			p, err := stopCollectionPath(base, r)
			if err != nil {
				return "", err
			}
			name, err := identityName(r, domain.KindStop)
			if err != nil {
				return "", err
			}
			return p + "/" + url.PathEscape(name), nil
		},
		checkBody: func(e domain.Entity) error {
			return validation.DashboardStops([]*domain.Stop{e.(*domain.Stop)})
		},
	},
	domain.KindVehicle: {
		collectionPath: func(base string, _ *domain.Record) (string, error) {
			return base + "/account/vehicles", nil
		},
		itemPath: func(base string, r *domain.Record) (string, error) {
			name, err := identityName(r, domain.KindVehicle)
			if err != nil {
				return "", err
			}
			return base + "/account/vehicles/" + url.PathEscape(name), nil
		},
	},
}

func resourceFor(e domain.Entity) (resource, error) {
	res, ok := resources[e.Kind()]
	if !ok {
		return resource{}, fmt.Errorf("no dashboard resource for %s", e.Kind())
	}
	return res, nil
}

func stopCollectionPath(base string, r *domain.Record) (string, error) {
	date := domain.Text(r.Identity("date"))
	if err := checkDate(date); err != nil {
		return "", err
	}
	return base + "/account/stops/" + date, nil
}

func identityName(r *domain.Record, kind domain.Kind) (string, error) {
	name := domain.Text(r.Identity("name"))
	if name == "" {
		return "", domain.NewBadFieldError(kind.String()+" name cannot be null", r.Payload())
	}
	return name, nil
}

// checkDate accepts only dates that survive a YYYY-MM-DD round trip.
func checkDate(date string) error {
	t, err := time.Parse(dateLayout, date)
	if err != nil || t.Format(dateLayout) != date {
		return domain.NewBadFieldError("Please use YYYY-MM-DD as the format of the date!", nil)
	}
	return nil
}
