package engine

import (
	"sync"

	"github.com/piwi3910/LotLayout/internal/geometry"
	"github.com/piwi3910/LotLayout/internal/model"
)

// ComparisonResult holds the layout and computed statistics for one
// orientation.
type ComparisonResult struct {
	Orientation model.Orientation      `json:"orientation"`
	Layout      model.Layout           `json:"layout"`
	Stalls      int                    `json:"stalls"`
	StallArea   float64                `json:"stall_area"` // m², manoeuvring space excluded
	Density     float64                `json:"density"`    // Stalls per 100 m² of lot
	Coverage    float64                `json:"coverage"`   // Percent of lot area covered by stalls
	Estimate    model.CapacityEstimate `json:"estimate"`
}

// CompareOrientations plans every supported orientation over the same
// boundary and returns the results in ascending angle order. Each run works
// on its own snapshot, so the runs proceed in parallel.
func (p *Planner) CompareOrientations(b *model.Boundary) []ComparisonResult {
	snap := b.Snapshot()
	lotPx := snap.Polygon().Area()
	lotM2 := lotPx / (geometry.PixelsPerMetre * geometry.PixelsPerMetre)

	results := make([]ComparisonResult, len(model.Orientations))
	var wg sync.WaitGroup
	for i, o := range model.Orientations {
		wg.Add(1)
		go func(i int, o model.Orientation) {
			defer wg.Done()
			own := snap.Snapshot()
			layout := p.Plan(&own, o)

			stallArea := float64(layout.Count()) * p.Dimensions.StallArea(o)
			var coverage float64
			if lotM2 > 0 {
				coverage = stallArea / lotM2 * 100
			}
			results[i] = ComparisonResult{
				Orientation: o,
				Layout:      layout,
				Stalls:      layout.Count(),
				StallArea:   stallArea,
				Density:     model.Density(layout.Count(), lotM2),
				Coverage:    coverage,
				Estimate:    model.EstimateCapacity(lotPx, p.Dimensions, o),
			}
		}(i, o)
	}
	wg.Wait()
	return results
}

// CompareOrientations is a convenience wrapper using the default clearance mode.
func CompareOrientations(b *model.Boundary, dims model.Dimensions) []ComparisonResult {
	return New(dims).CompareOrientations(b)
}

// Best returns the result with the most stalls. Ties go to the lower angle.
// It returns false for an empty slice.
func Best(results []ComparisonResult) (ComparisonResult, bool) {
	if len(results) == 0 {
		return ComparisonResult{}, false
	}
	best := results[0]
	for _, r := range results[1:] {
		if r.Stalls > best.Stalls || (r.Stalls == best.Stalls && r.Orientation < best.Orientation) {
			best = r
		}
	}
	return best, true
}
