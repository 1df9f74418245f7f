package report

import (
	"math"
	"strings"

	"github.com/ilyadubrovsky/gradebar/internal/domain"
)

const (
	barFiller = "."
	barMarker = "*"
)

// Bar draws the 0-20 scale as BarWidth cells. The filled span covers the
// admissible range of the row and the cell of the rounded grade is bold.
// Ungraded rows get a dotted bar.
func (f *Formatter) Bar(row domain.Row) []Span {
	if row.Note == nil {
		return []Span{{Text: strings.Repeat(barFiller, BarWidth)}}
	}

	lower, upper := barCell(row.LowerNote), barCell(row.UpperNote)
	if lower > upper {
		lower, upper = upper, lower
	}
	if lower > 0 {
		lower--
	}
	note := int(math.Round(*row.Note))

	spans := make([]Span, 0, upper-lower+2)
	if lower > 0 {
		spans = append(spans, Span{Text: strings.Repeat(" ", lower)})
	}
	for i := lower; i < upper; i++ {
		spans = append(spans, Span{
			Text:     barMarker,
			Emphasis: f.palette.band(float64(i + 1)),
			Bold:     i+1 == note,
		})
	}
	if upper < BarWidth {
		spans = append(spans, Span{Text: strings.Repeat(" ", BarWidth-upper)})
	}

	return spans
}

// barCell rounds a note to a cell boundary. Notes outside the scale are
// drawn at its edges.
func barCell(note float64) int {
	cell := math.Round(note)
	switch {
	case math.IsNaN(cell) || cell < 0:
		return 0
	case cell > BarWidth:
		return BarWidth
	default:
		return int(cell)
	}
}
