package models

// StationResponse is a single catalog entry in GET /v1/stations.
type StationResponse struct {
	OPISID      int64   `json:"opis_id"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	City        string  `json:"city"`
	State       string  `json:"state"`
	RackID      int64   `json:"rack_id"`
	RetailPrice float64 `json:"retail_price"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
}

// StationListResponse is the body of GET /v1/stations.
type StationListResponse struct {
	Stations []StationResponse `json:"stations"`
	Count    int               `json:"count"`
}

// UpdatePriceRequest is the body of PUT /v1/admin/stations/{opisID}/price.
type UpdatePriceRequest struct {
	RetailPrice float64 `json:"retail_price"`
}
