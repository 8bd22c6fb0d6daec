package planner_test

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuelroute/fuelroute/internal/geo"
	"github.com/fuelroute/fuelroute/internal/planner"
	"github.com/fuelroute/fuelroute/internal/station"
)

// stubDistance resolves distances from a fixed table, falling back to a
// Manhattan metric over (Lat=mile position, Lon=lateral offset) so route
// legs behave like straight-line mileage.
type stubDistance struct {
	pairs map[string]float64
}

func newStubDistance() *stubDistance {
	return &stubDistance{pairs: make(map[string]float64)}
}

func (s *stubDistance) set(a, b geo.Coordinate, miles float64) {
	s.pairs[pairString(a, b)] = miles
}

func (s *stubDistance) fn(a, b geo.Coordinate) float64 {
	if miles, ok := s.pairs[pairString(a, b)]; ok {
		return miles
	}
	if miles, ok := s.pairs[pairString(b, a)]; ok {
		return miles
	}
	dLat := a.Lat - b.Lat
	if dLat < 0 {
		dLat = -dLat
	}
	dLon := a.Lon - b.Lon
	if dLon < 0 {
		dLon = -dLon
	}
	return dLat + dLon
}

func pairString(a, b geo.Coordinate) string {
	return fmt.Sprintf("%.4f,%.4f|%.4f,%.4f", a.Lat, a.Lon, b.Lat, b.Lon)
}

// milepost places a route point at the given mile on a straight west-east
// trip, with Lon as lateral offset from the road.
func milepost(mile float64) geo.Coordinate {
	return geo.Coordinate{Lat: mile, Lon: 0}
}

func mileposts(spacing float64, count int) []geo.Coordinate {
	points := make([]geo.Coordinate, count)
	for i := range points {
		points[i] = milepost(float64(i) * spacing)
	}
	return points
}

func newPlanner(distance geo.DistanceFunc) *planner.Planner {
	return planner.New(planner.Config{
		Distance: distance,
		Logger:   zerolog.Nop(),
	})
}

func TestPlanner_SelectsLowestScoreCandidate(t *testing.T) {
	// Two candidates at a low-fuel trigger: price 3.50 with deviation 5
	// scores 4.00; price 3.40 with deviation 20 scores 5.40. The first
	// must win despite the higher pump price.
	stationA := station.Station{OPISID: 1, Name: "Scored Best", RetailPrice: 3.50, Coordinate: geo.Coordinate{Lat: 100, Lon: 1}}
	stationB := station.Station{OPISID: 2, Name: "Cheaper Pump", RetailPrice: 3.40, Coordinate: geo.Coordinate{Lat: 100, Lon: 2}}

	geometry := mileposts(50, 10) // stride 1 at 500 miles, samples = geometry
	start := geometry[0]
	end := geo.Coordinate{Lat: 999, Lon: 0}
	trigger := geometry[9]

	dist := newStubDistance()
	for i := 1; i < len(geometry); i++ {
		dist.set(geometry[i-1], geometry[i], 50)
	}
	dist.set(trigger, stationA.Coordinate, 80)
	dist.set(trigger, stationB.Coordinate, 90)
	dist.set(trigger, end, 100)
	dist.set(stationA.Coordinate, end, 25) // deviation 80+25-100 = 5
	dist.set(stationB.Coordinate, end, 30) // deviation 90+30-100 = 20
	dist.set(start, stationA.Coordinate, 430)

	plan := newPlanner(dist.fn).Plan(planner.PlanRequest{
		Start:         start,
		End:           end,
		Geometry:      geometry,
		TotalDistance: 500,
		Vehicle:       planner.VehicleProfile{TankRangeMiles: 500, MPG: 10},
		Stations:      []station.Station{stationB, stationA},
	})

	require.Len(t, plan.Stops, 1)
	stop := plan.Stops[0]
	assert.Equal(t, int64(1), stop.OPISID)
	assert.Equal(t, 3.50, stop.PricePerGallon)
	assert.InDelta(t, 43.0, stop.Gallons, 1e-9) // 430 miles since start / 10 mpg
	assert.InDelta(t, 3.50*43.0, stop.Cost, 1e-9)
	assert.InDelta(t, 450.0, stop.DistanceFromStart, 1e-9) // progress 9/10 * 500
	assert.InDelta(t, stop.Cost, plan.TotalCost, 1e-9)
	assert.Equal(t, 500.0, plan.TotalDistance)
	assert.False(t, plan.Infeasible)
}

func TestPlanner_RangeResetsAfterStop(t *testing.T) {
	// A 1000-mile trip with stations on the road at miles 450 and 900.
	// After committing the first stop the range resets to a full tank, so
	// the second trigger lands eight samples later at mile 900.
	stationA := station.Station{OPISID: 10, Name: "Mile 450", RetailPrice: 3.00, Coordinate: milepost(450)}
	stationB := station.Station{OPISID: 20, Name: "Mile 900", RetailPrice: 3.20, Coordinate: milepost(900)}

	geometry := mileposts(50, 20)
	dist := newStubDistance()

	plan := newPlanner(dist.fn).Plan(planner.PlanRequest{
		Start:         geometry[0],
		End:           milepost(1000),
		Geometry:      geometry,
		TotalDistance: 1000,
		Vehicle:       planner.VehicleProfile{TankRangeMiles: 500, MPG: 10},
		Stations:      []station.Station{stationA, stationB},
	})

	require.Len(t, plan.Stops, 2)

	first, second := plan.Stops[0], plan.Stops[1]
	assert.Equal(t, int64(10), first.OPISID)
	assert.InDelta(t, 45.0, first.Gallons, 1e-9) // 450 miles from trip start
	assert.InDelta(t, 450.0, first.DistanceFromStart, 1e-9)

	assert.Equal(t, int64(20), second.OPISID)
	assert.InDelta(t, 45.0, second.Gallons, 1e-9) // 450 miles from the first stop
	assert.InDelta(t, 900.0, second.DistanceFromStart, 1e-9)

	assert.InDelta(t, first.Cost+second.Cost, plan.TotalCost, 1e-9)
	assert.False(t, plan.Infeasible)

	for _, stop := range plan.Stops {
		assert.InDelta(t, stop.PricePerGallon*stop.Gallons, stop.Cost, 1e-9)
	}
}

func TestPlanner_RespectsSearchRadius(t *testing.T) {
	// A dirt-cheap station one mile beyond the 100-mile search radius must
	// never be considered; the pricier one inside the radius wins.
	tooFar := station.Station{OPISID: 1, Name: "Too Far", RetailPrice: 1.00, Coordinate: geo.Coordinate{Lat: 450, Lon: 101}}
	inRange := station.Station{OPISID: 2, Name: "In Range", RetailPrice: 4.00, Coordinate: geo.Coordinate{Lat: 450, Lon: 50}}

	geometry := mileposts(50, 10)
	dist := newStubDistance()

	plan := newPlanner(dist.fn).Plan(planner.PlanRequest{
		Start:         geometry[0],
		End:           milepost(500),
		Geometry:      geometry,
		TotalDistance: 500,
		Vehicle:       planner.VehicleProfile{TankRangeMiles: 500, MPG: 10},
		Stations:      []station.Station{tooFar, inRange},
	})

	require.Len(t, plan.Stops, 1)
	assert.Equal(t, int64(2), plan.Stops[0].OPISID)
}

func TestPlanner_NoStopAboveLowFuelThreshold(t *testing.T) {
	// With a 2200-mile tank the remaining range never drops below 25%, so
	// no stop is committed even with stations on the road.
	nearby := station.Station{OPISID: 1, Name: "On Route", RetailPrice: 2.00, Coordinate: milepost(250)}

	geometry := mileposts(50, 10)
	dist := newStubDistance()

	plan := newPlanner(dist.fn).Plan(planner.PlanRequest{
		Start:         geometry[0],
		End:           milepost(500),
		Geometry:      geometry,
		TotalDistance: 500,
		Vehicle:       planner.VehicleProfile{TankRangeMiles: 2200, MPG: 10},
		Stations:      []station.Station{nearby},
	})

	assert.Empty(t, plan.Stops)
	assert.InDelta(t, 0.0, plan.TotalCost, 1e-9)
}

func TestPlanner_FuelDesertMarksInfeasible(t *testing.T) {
	// No station within reach anywhere: no stop is appended, the range
	// keeps draining below zero and the plan is flagged infeasible.
	geometry := mileposts(50, 15)
	dist := newStubDistance()

	plan := newPlanner(dist.fn).Plan(planner.PlanRequest{
		Start:         geometry[0],
		End:           milepost(750),
		Geometry:      geometry,
		TotalDistance: 750,
		Vehicle:       planner.VehicleProfile{TankRangeMiles: 500, MPG: 10},
		Stations:      nil,
	})

	assert.Empty(t, plan.Stops)
	assert.InDelta(t, 0.0, plan.TotalCost, 1e-9)
	assert.True(t, plan.Infeasible)
}

func TestPlanner_TiesResolveToFirstEncountered(t *testing.T) {
	// Identical price and position: the catalog-order first candidate wins
	// under the strict less-than comparison.
	first := station.Station{OPISID: 1, Name: "First", RetailPrice: 3.00, Coordinate: milepost(450)}
	second := station.Station{OPISID: 2, Name: "Second", RetailPrice: 3.00, Coordinate: milepost(450)}

	geometry := mileposts(50, 10)
	dist := newStubDistance()

	plan := newPlanner(dist.fn).Plan(planner.PlanRequest{
		Start:         geometry[0],
		End:           milepost(500),
		Geometry:      geometry,
		TotalDistance: 500,
		Vehicle:       planner.VehicleProfile{TankRangeMiles: 500, MPG: 10},
		Stations:      []station.Station{first, second},
	})

	require.Len(t, plan.Stops, 1)
	assert.Equal(t, int64(1), plan.Stops[0].OPISID)
}
