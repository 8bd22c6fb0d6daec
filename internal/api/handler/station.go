package handler

import (
	"context"
	"net/http"

	"github.com/fuelroute/fuelroute/internal/api/models"
	"github.com/fuelroute/fuelroute/internal/api/response"
	"github.com/fuelroute/fuelroute/internal/station"
)

// StationCatalog exposes the read side of the station catalog.
type StationCatalog interface {
	Snapshot(ctx context.Context) ([]station.Station, error)
}

// StationHandler handles the public station catalog endpoint.
type StationHandler struct {
	catalog StationCatalog
}

// NewStationHandler creates a new StationHandler.
func NewStationHandler(catalog StationCatalog) *StationHandler {
	return &StationHandler{catalog: catalog}
}

// ListStations handles GET /v1/stations - the current catalog snapshot.
func (h *StationHandler) ListStations(w http.ResponseWriter, r *http.Request) {
	stations, err := h.catalog.Snapshot(r.Context())
	if err != nil {
		response.ServiceUnavailable(w, r, "station catalog is unavailable")
		return
	}

	items := make([]models.StationResponse, 0, len(stations))
	for _, st := range stations {
		items = append(items, models.StationResponse{
			OPISID:      st.OPISID,
			Name:        st.Name,
			Address:     st.Address,
			City:        st.City,
			State:       st.State,
			RackID:      st.RackID,
			RetailPrice: st.RetailPrice,
			Lat:         st.Coordinate.Lat,
			Lon:         st.Coordinate.Lon,
		})
	}

	response.JSON(w, r, http.StatusOK, models.StationListResponse{
		Stations: items,
		Count:    len(items),
	})
}
