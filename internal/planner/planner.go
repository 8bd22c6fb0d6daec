// Package planner selects fuel stops along a route so the vehicle never
// runs out of range while minimizing total fuel spend.
package planner

import (
	"github.com/rs/zerolog"

	"github.com/fuelroute/fuelroute/internal/geo"
	"github.com/fuelroute/fuelroute/internal/station"
)

// Policy constants for the greedy stop selection.
const (
	// lowFuelFraction triggers a station search when remaining range drops
	// below this fraction of tank range.
	lowFuelFraction = 0.25

	// searchRadiusFraction bounds the candidate search radius as a fraction
	// of tank range.
	searchRadiusFraction = 0.20

	// deviationWeight penalizes route deviation in the candidate score,
	// in price units per mile.
	deviationWeight = 0.1
)

// VehicleProfile describes the vehicle being routed.
type VehicleProfile struct {
	// TankRangeMiles is the maximum distance on a full tank. Must be > 0.
	TankRangeMiles float64

	// MPG is the fuel economy in miles per gallon. Must be > 0.
	MPG float64
}

// FuelStop is a committed purchase at a station along the route.
type FuelStop struct {
	// OPISID identifies the station.
	OPISID int64

	// Name is the station display name.
	Name string

	// Coordinate is the station location.
	Coordinate geo.Coordinate

	// PricePerGallon is the station's retail price at planning time.
	PricePerGallon float64

	// DistanceFromStart is the route progress in miles when the stop was
	// committed.
	DistanceFromStart float64

	// Gallons is the purchase quantity.
	Gallons float64

	// Cost is PricePerGallon times Gallons.
	Cost float64
}

// TripPlan is the result of one planning run.
type TripPlan struct {
	// Stops is the ordered fuel stop sequence.
	Stops []FuelStop

	// TotalCost is the sum of all stop costs.
	TotalCost float64

	// TotalDistance echoes the trip distance in miles.
	TotalDistance float64

	// Infeasible is set when remaining range dropped below zero at some
	// point without a reachable station, meaning the vehicle would run dry
	// on this route with this catalog.
	Infeasible bool
}

// PlanRequest carries the inputs for one planning run. Geometry and
// Stations are read-only borrows for the duration of the call.
type PlanRequest struct {
	Start         geo.Coordinate
	End           geo.Coordinate
	Geometry      []geo.Coordinate
	TotalDistance float64
	Vehicle       VehicleProfile
	Stations      []station.Station
}

// Planner walks sampled route points, tracks remaining range and commits
// the best-scoring station whenever fuel runs low. It holds no per-trip
// state; concurrent Plan calls are safe as long as the distance function is.
type Planner struct {
	distance geo.DistanceFunc
	logger   zerolog.Logger
}

// Config holds configuration for the planner.
type Config struct {
	// Distance computes miles between two coordinates, typically the shared
	// distance cache.
	Distance geo.DistanceFunc

	// Logger for planning runs.
	Logger zerolog.Logger
}

// New creates a new planner.
func New(cfg Config) *Planner {
	distance := cfg.Distance
	if distance == nil {
		distance = geo.Miles
	}
	return &Planner{
		distance: distance,
		logger:   cfg.Logger,
	}
}

// plannerState is the loop-carried state of one planning run. It is owned
// exclusively by that run and discarded when Plan returns.
type plannerState struct {
	remainingRange float64
	lastStop       geo.Coordinate
	stops          []FuelStop
	wentDry        bool
}

// candidate is a station within the search radius, scored for selection.
type candidate struct {
	station   station.Station
	deviation float64
	score     float64
}

// Plan selects fuel stops along the sampled route.
func (p *Planner) Plan(req PlanRequest) *TripPlan {
	tank := req.Vehicle.TankRangeMiles

	samples := SamplePoints(req.Geometry, req.TotalDistance)

	state := plannerState{
		remainingRange: tank,
		lastStop:       req.Start,
	}

	for i, point := range samples {
		progress := float64(i) / float64(len(samples)) * req.TotalDistance

		if state.remainingRange < tank*lowFuelFraction && progress < req.TotalDistance {
			p.attemptStop(&state, req, point, progress)
		}

		// Range decreases every iteration after the stop check, including
		// the iteration a tank was just filled.
		if i > 0 {
			state.remainingRange -= p.distance(samples[i-1], point)
			if state.remainingRange < 0 {
				state.wentDry = true
			}
		}
	}

	plan := &TripPlan{
		Stops:         state.stops,
		TotalDistance: req.TotalDistance,
		Infeasible:    state.wentDry,
	}
	for _, stop := range plan.Stops {
		plan.TotalCost += stop.Cost
	}

	p.logger.Debug().
		Int("stop_count", len(plan.Stops)).
		Float64("total_cost", plan.TotalCost).
		Float64("total_distance", plan.TotalDistance).
		Bool("infeasible", plan.Infeasible).
		Msg("fuel stop planning completed")

	return plan
}

// attemptStop scans the catalog for stations near the current point and
// commits the best-scoring one, if any lies within the search radius.
func (p *Planner) attemptStop(state *plannerState, req PlanRequest, point geo.Coordinate, progress float64) {
	searchRadius := req.Vehicle.TankRangeMiles * searchRadiusFraction

	best, found := p.bestCandidate(req, point, searchRadius)
	if !found {
		// No reachable station; range keeps draining on later iterations.
		return
	}

	distanceSinceLast := p.distance(state.lastStop, best.station.Coordinate)
	gallons := distanceSinceLast / req.Vehicle.MPG

	state.stops = append(state.stops, FuelStop{
		OPISID:            best.station.OPISID,
		Name:              best.station.Name,
		Coordinate:        best.station.Coordinate,
		PricePerGallon:    best.station.RetailPrice,
		DistanceFromStart: progress,
		Gallons:           gallons,
		Cost:              best.station.RetailPrice * gallons,
	})
	state.lastStop = best.station.Coordinate
	state.remainingRange = req.Vehicle.TankRangeMiles
}

// bestCandidate returns the minimum-score station within the search radius.
// Ties resolve to the first-encountered candidate in catalog order, kept
// deterministic by the strict less-than comparison.
func (p *Planner) bestCandidate(req PlanRequest, point geo.Coordinate, searchRadius float64) (candidate, bool) {
	var best candidate
	found := false

	for _, st := range req.Stations {
		d := p.distance(point, st.Coordinate)
		if d > searchRadius {
			continue
		}

		// Extra travel incurred by detouring through the station versus
		// going straight to the destination.
		deviation := d + p.distance(st.Coordinate, req.End) - p.distance(point, req.End)
		score := st.RetailPrice + deviation*deviationWeight

		if !found || score < best.score {
			best = candidate{station: st, deviation: deviation, score: score}
			found = true
		}
	}

	return best, found
}
