package report

import (
	"fmt"
	"math"
)

const (
	DefaultPassThreshold = 10
	DefaultGoodThreshold = 12
	// MaxNote is the top of the grading scale.
	MaxNote = 20
)

type Thresholds struct {
	Pass float64
	Good float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		Pass: DefaultPassThreshold,
		Good: DefaultGoodThreshold,
	}
}

func (t Thresholds) Validate() error {
	if t.Pass < 0 || t.Pass > MaxNote {
		return fmt.Errorf("pass threshold %v is outside [0, %d]", t.Pass, MaxNote)
	}
	if t.Good < 0 || t.Good > MaxNote {
		return fmt.Errorf("good threshold %v is outside [0, %d]", t.Good, MaxNote)
	}
	if t.Good < t.Pass {
		return fmt.Errorf("good threshold %v is below pass threshold %v", t.Good, t.Pass)
	}

	return nil
}

// Palette decides the emphasis of grades and credits. A value equal to a
// threshold belongs to the band above it.
type Palette struct {
	thresholds Thresholds
}

func NewPalette(thresholds Thresholds) Palette {
	return Palette{thresholds: thresholds}
}

// Grade classifies a grade, rounded to one decimal, into the low, mid or high band.
func (p Palette) Grade(note *float64) Emphasis {
	if note == nil {
		return EmphasisNeutral
	}

	return p.band(roundTo(*note, 1))
}

// Credit is a pass/fail signal on the raw grade.
func (p Palette) Credit(note *float64) Emphasis {
	if note == nil {
		return EmphasisInfo
	}
	if *note < p.thresholds.Pass {
		return EmphasisLow
	}

	return EmphasisHigh
}

func (p Palette) Mnemonic(note *float64) Emphasis {
	if note == nil {
		return EmphasisNone
	}

	return EmphasisFlagged
}

func (p Palette) band(value float64) Emphasis {
	switch {
	case value < p.thresholds.Pass:
		return EmphasisLow
	case value < p.thresholds.Good:
		return EmphasisMid
	default:
		return EmphasisHigh
	}
}

func roundTo(value float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(value*scale) / scale
}
