package model

import (
	"math"

	"github.com/piwi3910/LotLayout/internal/geometry"
)

// CapacityEstimate is a quick upper bound on how many stalls a lot can hold.
type CapacityEstimate struct {
	Orientation   Orientation `json:"orientation"`
	LotArea       float64     `json:"lot_area"`       // Square metres inside the boundary
	FootprintArea float64     `json:"footprint_area"` // Square metres claimed per stall by the scan, aisle included
	StallArea     float64     `json:"stall_area"`     // Square metres per stall, aisle excluded
	UpperBound    int         `json:"upper_bound"`    // floor(LotArea / FootprintArea)
}

// EstimateCapacity divides the lot area (in square pixels) by the area each
// stall claims in the scan: one horizontal step by the footprint height.
// Angled stalls nest, so their step is narrower than their footprint. A
// zero-area footprint gives a zero bound.
func EstimateCapacity(areaPx float64, dims Dimensions, o Orientation) CapacityEstimate {
	o = o.Normalize()
	f := dims.Footprint(o)
	perM2 := geometry.PixelsPerMetre * geometry.PixelsPerMetre

	est := CapacityEstimate{
		Orientation:   o,
		LotArea:       areaPx / perM2,
		FootprintArea: float64(f.StepX) * f.Height / perM2,
		StallArea:     dims.StallArea(o),
	}
	if est.FootprintArea <= 0 {
		return est
	}
	est.UpperBound = int(math.Floor(est.LotArea / est.FootprintArea))
	return est
}

// Density returns stalls per 100 square metres of lot, or 0 for an empty lot.
func Density(stalls int, lotAreaM2 float64) float64 {
	if lotAreaM2 <= 0 {
		return 0
	}
	return float64(stalls) / lotAreaM2 * 100
}
