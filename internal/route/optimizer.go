package route

import (
	"math"

	"github.com/tolo017/eco-sawa/internal/geo"
	"github.com/tolo017/eco-sawa/internal/urgency"
	"github.com/tolo017/eco-sawa/internal/utils"
)

// PickupPoint is a candidate stop on a rescuer's trip.
type PickupPoint struct {
	ID               string         `json:"id"`
	Location         geo.Coordinate `json:"location"`
	PerishabilityTag string         `json:"perishability_tag,omitempty"`
	TimeWindow       string         `json:"time_window,omitempty"`
}

// SkippedPoint is a point excluded from optimization, with the reason.
type SkippedPoint struct {
	Point  PickupPoint `json:"point"`
	Reason string      `json:"reason"`
}

// Result is the ordered trip produced by Optimize.
type Result struct {
	Order           []PickupPoint  `json:"order"`
	TotalDistanceKm float64        `json:"total_distance_km"`
	Skipped         []SkippedPoint `json:"skipped,omitempty"`
}

// Options tunes the optimizer. The zero value uses defaults.
type Options struct {
	// TimeBlendDivisor scales the earliest-time term blended into the
	// distance score within an urgency tier. Larger values weaken the time
	// nudge. Defaults to one month in milliseconds.
	TimeBlendDivisor float64
}

// DefaultTimeBlendDivisor is one month in milliseconds.
const DefaultTimeBlendDivisor = float64(1000 * 60 * 60 * 24 * 30)

const unknownUrgencyScore = 3

type scoredPoint struct {
	point        PickupPoint
	urgencyScore int
	earliestTime float64
}

// Optimize orders pickup points into a single trip from start using a
// perishability-tiered greedy nearest-neighbor: the most urgent tier is always
// exhausted before any less urgent point is visited, and within a tier the
// nearest point wins, nudged toward earlier time windows. Points with invalid
// coordinates are reported in Result.Skipped instead of failing the trip.
func Optimize(start geo.Coordinate, points []PickupPoint, opts Options) Result {
	divisor := opts.TimeBlendDivisor
	if divisor <= 0 {
		divisor = DefaultTimeBlendDivisor
	}

	res := Result{Order: []PickupPoint{}}

	remaining := make([]scoredPoint, 0, len(points))
	for _, p := range points {
		if !p.Location.Valid() {
			res.Skipped = append(res.Skipped, SkippedPoint{Point: p, Reason: "invalid coordinates"})
			continue
		}
		remaining = append(remaining, scoredPoint{
			point:        p,
			urgencyScore: urgencyScore(p.PerishabilityTag),
			earliestTime: float64(utils.WindowStartMillis(p.TimeWindow)),
		})
	}

	cur := start
	for len(remaining) > 0 {
		bestTier := remaining[0].urgencyScore
		for _, sp := range remaining[1:] {
			if sp.urgencyScore < bestTier {
				bestTier = sp.urgencyScore
			}
		}

		bestIdx := -1
		bestScore := math.Inf(1)
		for i, sp := range remaining {
			if sp.urgencyScore != bestTier {
				continue
			}
			score := geo.HaversineKm(cur, sp.point.Location) + sp.earliestTime/divisor
			// Strict less-than keeps input order on ties
			if score < bestScore {
				bestScore = score
				bestIdx = i
			}
		}

		if bestIdx == -1 {
			// A NaN score never compares less, so a pathological distance
			// could leave no winner. Fall back to the tier's first point.
			for i, sp := range remaining {
				if sp.urgencyScore == bestTier {
					bestIdx = i
					break
				}
			}
		}

		next := remaining[bestIdx]
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
		res.TotalDistanceKm += geo.HaversineKm(cur, next.point.Location)
		res.Order = append(res.Order, next.point)
		cur = next.point.Location
	}

	return res
}

// urgencyScore ranks a perishability tag for tiering. A missing tag ranks
// below every classified tier so tagged points are always visited first.
func urgencyScore(tag string) int {
	if tag == "" {
		return unknownUrgencyScore
	}
	return urgency.Classify(tag).Rank()
}
