package planner

// Summary aggregates the committed stops of a trip plan.
type Summary struct {
	// Count is the number of stops.
	Count int

	// TotalGallons is the sum of purchase quantities.
	TotalGallons float64

	// AveragePrice is the arithmetic mean of stop prices, 0 when there are
	// no stops.
	AveragePrice float64

	// Stops echoes the stop sequence.
	Stops []FuelStop
}

// Summarize aggregates a stop sequence. Pure, no side effects.
func Summarize(stops []FuelStop) Summary {
	summary := Summary{
		Count: len(stops),
		Stops: stops,
	}

	if len(stops) == 0 {
		return summary
	}

	var priceSum float64
	for _, stop := range stops {
		summary.TotalGallons += stop.Gallons
		priceSum += stop.PricePerGallon
	}
	summary.AveragePrice = priceSum / float64(len(stops))

	return summary
}
