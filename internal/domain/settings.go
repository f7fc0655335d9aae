package domain

import "strings"

// GeneralSettings are plan-wide solver options. Pointer fields are sent as
// null when unset.
type GeneralSettings struct {
	Country       string   `json:"country" yaml:"country"`
	Timezone      string   `json:"timezone" yaml:"timezone"`
	Map           string   `json:"map" yaml:"map"`
	MapAPIKey     *string  `json:"map_api_key" yaml:"map_api_key"`
	RouteOSM      int      `json:"route_osm" yaml:"route_osm"`
	LoadingTime   int      `json:"loading_time" yaml:"loading_time"`
	Buffer        int      `json:"buffer" yaml:"buffer"`
	ServiceTime   int      `json:"service_time" yaml:"service_time"`
	DistanceUnit  string   `json:"distance_unit" yaml:"distance_unit"`
	MaxTime       *int     `json:"max_time" yaml:"max_time"`
	MaxDistance   *float64 `json:"max_distance" yaml:"max_distance"`
	MaxStops      int      `json:"max_stops" yaml:"max_stops"`
	MaxRuns       int      `json:"max_runs" yaml:"max_runs"`
	ExcludeGroups *string  `json:"exclude_groups" yaml:"exclude_groups"`
	AvailFrom     int      `json:"avail_from" yaml:"avail_from"`
	AvailTill     int      `json:"avail_till" yaml:"avail_till"`
	WebhookURL    *string  `json:"webhook_url" yaml:"webhook_url"`
}

func DefaultGeneralSettings() GeneralSettings {
	return GeneralSettings{
		Country:      "SG",
		Timezone:     "Asia/Singapore",
		Map:          "OpenStreetMap",
		RouteOSM:     0,
		LoadingTime:  20,
		Buffer:       40,
		ServiceTime:  5,
		DistanceUnit: "km",
		MaxStops:     30,
		MaxRuns:      1,
		AvailFrom:    900,
		AvailTill:    1700,
	}
}

// HasWebhook reports whether a non-blank webhook URL is configured.
func (g GeneralSettings) HasWebhook() bool {
	return g.WebhookURL != nil && strings.TrimSpace(*g.WebhookURL) != ""
}
