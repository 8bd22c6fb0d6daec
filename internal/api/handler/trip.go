package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fuelroute/fuelroute/internal/api/models"
	"github.com/fuelroute/fuelroute/internal/api/response"
	"github.com/fuelroute/fuelroute/internal/trip"
)

// TripPlanner plans trips for the route endpoint.
type TripPlanner interface {
	Plan(ctx context.Context, input trip.PlanInput) (*trip.Trip, error)
}

// TripHandler handles the trip planning endpoint.
type TripHandler struct {
	planner TripPlanner
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(planner TripPlanner) *TripHandler {
	return &TripHandler{planner: planner}
}

// PlanTrip handles POST /v1/route - plan a trip with fuel stops.
// Every failure on this endpoint surfaces as 400 with a flat {error} body.
func (h *TripHandler) PlanTrip(w http.ResponseWriter, r *http.Request) {
	var input models.PlanTripRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.TripError(w, r, "invalid JSON body")
		return
	}

	planInput := trip.PlanInput{
		Start: input.Start,
		End:   input.End,
	}
	if input.TankRange != nil {
		if *input.TankRange <= 0 {
			response.TripError(w, r, trip.ErrInvalidVehicle.Error())
			return
		}
		planInput.TankRangeMiles = *input.TankRange
	}
	if input.MPG != nil {
		if *input.MPG <= 0 {
			response.TripError(w, r, trip.ErrInvalidVehicle.Error())
			return
		}
		planInput.MPG = *input.MPG
	}

	result, err := h.planner.Plan(r.Context(), planInput)
	if err != nil {
		response.TripError(w, r, err.Error())
		return
	}

	response.JSON(w, r, http.StatusOK, toPlanTripResponse(result))
}

func toPlanTripResponse(t *trip.Trip) models.PlanTripResponse {
	stops := make([]models.FuelStopResponse, 0, len(t.Plan.Stops))
	for _, stop := range t.Plan.Stops {
		stops = append(stops, models.FuelStopResponse{
			OPISID:            stop.OPISID,
			Name:              stop.Name,
			Lat:               stop.Coordinate.Lat,
			Lon:               stop.Coordinate.Lon,
			PricePerGallon:    stop.PricePerGallon,
			DistanceFromStart: stop.DistanceFromStart,
			Gallons:           stop.Gallons,
			Cost:              stop.Cost,
		})
	}

	return models.PlanTripResponse{
		Start:         t.StartQuery,
		End:           t.EndQuery,
		StartLat:      t.StartCoord.Lat,
		StartLon:      t.StartCoord.Lon,
		EndLat:        t.EndCoord.Lat,
		EndLon:        t.EndCoord.Lon,
		FuelStops:     stops,
		TotalCost:     t.Plan.TotalCost,
		TotalDistance: t.Plan.TotalDistance,
		MapURL:        t.MapURL,
		Summary: models.TripSummaryResponse{
			StopCount:    t.Summary.Count,
			TotalGallons: t.Summary.TotalGallons,
			AveragePrice: t.Summary.AveragePrice,
		},
		Infeasible: t.Plan.Infeasible,
	}
}
