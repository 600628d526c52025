package models

import "encoding/json"

// Condition is the provider's weather classification.
type Condition struct {
	Code        int    `json:"code"`
	Description string `json:"description"`
}

// CurrentConditions is one observation from the current endpoint.
// Numeric fields keep the provider's literal text for rendering.
type CurrentConditions struct {
	CityName      string      `json:"city_name"`
	Lat           json.Number `json:"lat"`
	Lon           json.Number `json:"lon"`
	Timezone      string      `json:"timezone"`
	Temp          json.Number `json:"temp"`
	AppTemp       json.Number `json:"app_temp"`
	RH            json.Number `json:"rh"`
	WindSpeed     float64     `json:"wind_spd"`
	WindDirection string      `json:"wind_cdir_full"`
	Weather       Condition   `json:"weather"`
	ObTime        string      `json:"ob_time"`
	Sources       []string    `json:"sources"`
}

// ForecastDay is one entry of the daily forecast.
type ForecastDay struct {
	ValidDate string      `json:"valid_date"`
	MinTemp   json.Number `json:"min_temp"`
	MaxTemp   json.Number `json:"max_temp"`
	Weather   Condition   `json:"weather"`
	Pop       json.Number `json:"pop"`
}

// Alert is a severe weather alert attached to a response.
type Alert struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Severity    string `json:"severity,omitempty"`
}

// Current bundles the observation with any active alerts.
type Current struct {
	Conditions CurrentConditions
	Alerts     []Alert
}

// AlertTitle returns the first alert's title, or "" when there are none.
func (c Current) AlertTitle() string {
	if len(c.Alerts) == 0 {
		return ""
	}
	return c.Alerts[0].Title
}
