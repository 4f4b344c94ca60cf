package domain

import (
	"fmt"
	"math"
)

// Lerp interpolates linearly between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp01 limits progress to [0, 1]. NaN maps to 0.
func Clamp01(p float64) float64 {
	switch {
	case math.IsNaN(p), p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}

// Mapping turns a scroll progress into a value between From and To. Opacity
// and scale are plain mappings; composing several per element is up to the
// caller.
type Mapping struct {
	From float64
	To   float64
}

func (m Mapping) At(progress float64) float64 {
	return Lerp(m.From, m.To, Clamp01(progress))
}

// Parallax maps the element's viewport transit to a vertical translation.
// Start and End are offsets in px, Distance the full translation.
type Parallax struct {
	Start    float64
	End      float64
	Distance float64
}

func DefaultParallax() Parallax {
	return Parallax{Start: 0, End: 400, Distance: 60}
}

// Offset returns the translation in px for progress.
func (p Parallax) Offset(progress float64) float64 {
	if p.End == 0 {
		return 0
	}
	raw := Mapping{From: p.Start, To: -p.End}.At(progress)
	return raw / p.End * p.Distance
}

// Transform renders Offset as a CSS transform.
func (p Parallax) Transform(progress float64) string {
	return fmt.Sprintf("translateY(%spx)", formatPx(p.Offset(progress)))
}

func formatPx(v float64) string {
	if v == 0 {
		return "0"
	}
	return fmt.Sprintf("%g", v)
}
