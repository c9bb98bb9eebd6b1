package forge

import (
	"math/rand/v2"
)

// diversityCap bounds a single randomized draw at diversityCap/N so the
// first templates cannot swallow most of the probability mass.
const diversityCap = 5.0

// Interval pairs a template with the upper end of its sampling interval. The
// lower end is the previous interval's threshold (0 for the first).
type Interval struct {
	Threshold float64
	Template  Template
}

// Distribution is a cumulative distribution over templates: thresholds
// strictly increase and the last one is exactly 1.
type Distribution []Interval

// BuildDistribution assigns cumulative thresholds to templates, in order.
//
// Uniform mode steps the threshold by 1/N. Randomized mode draws r in (0,1),
// caps it at diversityCap/N and moves the threshold by r times the mass still
// unassigned. Either way the last template closes the distribution at 1.
func BuildDistribution(templates []Template, uniform bool, rng *rand.Rand) (Distribution, error) {
	n := len(templates)
	if n == 0 {
		return nil, ErrNoTemplates
	}

	dist := make(Distribution, 0, n)
	threshold := 0.0
	for i := 0; i < n-1; i++ {
		if uniform {
			threshold += 1 / float64(n)
		} else {
			r := rng.Float64()
			for r == 0 {
				r = rng.Float64()
			}
			if limit := diversityCap / float64(n); r > limit {
				r = limit
			}
			threshold += r * (1 - threshold)
		}
		dist = append(dist, Interval{Threshold: threshold, Template: templates[i]})
	}
	dist = append(dist, Interval{Threshold: 1, Template: templates[n-1]})
	return dist, nil
}

// Sample returns the template of the first interval whose threshold exceeds
// r. r is expected in [0,1).
func (d Distribution) Sample(r float64) Template {
	for _, iv := range d {
		if r < iv.Threshold {
			return iv.Template
		}
	}
	return d[len(d)-1].Template
}

// Probabilities returns each template's probability mass, in order.
func (d Distribution) Probabilities() []float64 {
	out := make([]float64, len(d))
	prev := 0.0
	for i, iv := range d {
		out[i] = iv.Threshold - prev
		prev = iv.Threshold
	}
	return out
}
