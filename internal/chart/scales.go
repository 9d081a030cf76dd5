// =============================================================================
// Crime Chart - Scales
// =============================================================================
//
// This module maps data onto pixels: a band scale for the year labels and
// a linear scale, backed by go-moremath, for the counts.
//
// =============================================================================

package chart

import (
	"math"

	"github.com/aclements/go-moremath/scale"
)

// BandScale maps discrete labels onto evenly spaced bands of a range.
// Inner and outer padding are the same fraction of the step and the
// bands are centred in the range.
type BandScale struct {
	domain    []string
	index     map[string]int
	start     float64
	step      float64
	bandwidth float64
}

// NewBandScale builds a band scale over domain spanning [start, stop].
// Repeated labels keep their first position.
func NewBandScale(domain []string, start, stop, padding float64) *BandScale {
	b := &BandScale{index: make(map[string]int, len(domain))}
	for _, label := range domain {
		if _, ok := b.index[label]; ok {
			continue
		}
		b.index[label] = len(b.domain)
		b.domain = append(b.domain, label)
	}

	n := float64(len(b.domain))
	b.step = (stop - start) / math.Max(1, n-padding+2*padding)
	b.start = start + (stop-start-b.step*(n-padding))*0.5
	b.bandwidth = b.step * (1 - padding)
	return b
}

// Position returns the start of the band for label.
func (b *BandScale) Position(label string) (float64, bool) {
	i, ok := b.index[label]
	if !ok {
		return 0, false
	}
	return b.start + b.step*float64(i), true
}

// Bandwidth returns the width of every band.
func (b *BandScale) Bandwidth() float64 {
	return b.bandwidth
}

// Step returns the distance between the starts of adjacent bands.
func (b *BandScale) Step() float64 {
	return b.step
}

// Domain returns the distinct labels in band order.
func (b *BandScale) Domain() []string {
	return append([]string(nil), b.domain...)
}

// LinearScale maps a continuous domain onto a pixel range.
type LinearScale struct {
	s      scale.Linear
	r0, r1 float64
}

// NewLinearScale maps [min, max] onto [r0, r1]. r0 may be greater than r1
// for an axis that grows upwards.
func NewLinearScale(min, max, r0, r1 float64) *LinearScale {
	return &LinearScale{s: scale.Linear{Min: min, Max: max}, r0: r0, r1: r1}
}

// Map converts a domain value to a range position.
func (l *LinearScale) Map(v float64) float64 {
	return l.r0 + l.s.Map(v)*(l.r1-l.r0)
}

// Domain returns the current domain bounds.
func (l *LinearScale) Domain() (min, max float64) {
	return l.s.Min, l.s.Max
}

// Nice widens the domain to round tick values for about n intervals.
func (l *LinearScale) Nice(n int) {
	l.s.Nice(tickOptions(n))
}

// Ticks returns round tick values inside the domain for about n
// intervals.
func (l *LinearScale) Ticks(n int) []float64 {
	major, _ := l.s.Ticks(tickOptions(n))
	return major
}

// tickOptions counts both ends of the axis, so n intervals need n+1
// ticks.
func tickOptions(n int) scale.TickOptions {
	if n < 1 {
		n = 1
	}
	return scale.TickOptions{Max: n + 1}
}
