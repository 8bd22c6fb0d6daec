package models

// PlanTripRequest is the body of POST /v1/route.
// TankRange and MPG are optional; the handler applies vehicle defaults.
type PlanTripRequest struct {
	Start     string   `json:"start"`
	End       string   `json:"end"`
	TankRange *float64 `json:"tank_range,omitempty"`
	MPG       *float64 `json:"mpg,omitempty"`
}

// FuelStopResponse is a single committed refueling stop on the trip.
type FuelStopResponse struct {
	OPISID            int64   `json:"opis_id"`
	Name              string  `json:"name"`
	Lat               float64 `json:"lat"`
	Lon               float64 `json:"lon"`
	PricePerGallon    float64 `json:"price_per_gallon"`
	DistanceFromStart float64 `json:"distance_from_start"`
	Gallons           float64 `json:"gallons"`
	Cost              float64 `json:"cost"`
}

// TripSummaryResponse aggregates the committed stops.
type TripSummaryResponse struct {
	StopCount    int     `json:"stop_count"`
	TotalGallons float64 `json:"total_gallons"`
	AveragePrice float64 `json:"average_price"`
}

// PlanTripResponse is the 200 body of POST /v1/route.
type PlanTripResponse struct {
	Start         string              `json:"start"`
	End           string              `json:"end"`
	StartLat      float64             `json:"start_lat"`
	StartLon      float64             `json:"start_lon"`
	EndLat        float64             `json:"end_lat"`
	EndLon        float64             `json:"end_lon"`
	FuelStops     []FuelStopResponse  `json:"fuel_stops"`
	TotalCost     float64             `json:"total_cost"`
	TotalDistance float64             `json:"total_distance"`
	MapURL        string              `json:"map_url"`
	Summary       TripSummaryResponse `json:"summary"`
	Infeasible    bool                `json:"infeasible"`
}

// TripError is the flat 400 body of the trip-planning endpoint. The rest of
// the API speaks problem+json; this endpoint keeps the legacy contract.
type TripError struct {
	Error string `json:"error"`
}
