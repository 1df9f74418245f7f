package report

import (
	"fmt"
	"strings"

	"github.com/ilyadubrovsky/gradebar/internal/domain"
)

const (
	MnemonicWidth = 10
	NoteWidth     = 4
	CreditsWidth  = 2
	BarWidth      = 20
	nameRuleWidth = 52

	DefaultColumnSeparator = " | "
	ruleJoint              = "-+-"
	ruleChar               = "-"
	ungradedNote           = "----"
)

var columnTitles = []string{"Mnemonique", "Note", "Cr", "Histogramme", "Nom du cours"}

// Formatter lays out transcript rows as styled lines.
type Formatter struct {
	palette   Palette
	separator string
}

func NewFormatter(palette Palette, separator string) *Formatter {
	return &Formatter{
		palette:   palette,
		separator: separator,
	}
}

func (f *Formatter) Line(row domain.Row) Line {
	line := Line{f.Mnemonic(row)}
	line = append(line, f.sep(), f.Note(row), f.sep(), f.Credits(row), f.sep())
	line = append(line, f.Bar(row)...)
	line = append(line, f.sep(), Span{Text: row.Name})

	return line
}

func (f *Formatter) Mnemonic(row domain.Row) Span {
	return Span{
		Text:     fmt.Sprintf("%*s", MnemonicWidth, row.Mnemonic),
		Emphasis: f.palette.Mnemonic(row.Note),
	}
}

func (f *Formatter) Note(row domain.Row) Span {
	if row.Note == nil {
		return Span{Text: ungradedNote, Emphasis: f.palette.Grade(nil)}
	}

	return Span{
		Text:     fmt.Sprintf("%*.1f", NoteWidth, roundTo(*row.Note, 1)),
		Emphasis: f.palette.Grade(row.Note),
	}
}

func (f *Formatter) Credits(row domain.Row) Span {
	return Span{
		Text:     fmt.Sprintf("%*d", CreditsWidth, row.ECTS),
		Emphasis: f.palette.Credit(row.Note),
	}
}

// Titles is the header line naming each column.
func (f *Formatter) Titles() Line {
	line := make(Line, 0, 2*len(columnTitles)-1)
	for i, title := range columnTitles {
		if i > 0 {
			line = append(line, f.sep())
		}
		if i == 3 {
			title = fmt.Sprintf("%-*s", BarWidth, title)
		}
		line = append(line, Span{Text: title, Emphasis: EmphasisTitle})
	}

	return line
}

// Rule is the dashed line under the header and above the aggregates.
func (f *Formatter) Rule(strong bool) Line {
	segments := []string{
		strings.Repeat(ruleChar, MnemonicWidth),
		strings.Repeat(ruleChar, NoteWidth),
		strings.Repeat(ruleChar, CreditsWidth),
		strings.Repeat(ruleChar, BarWidth),
		strings.Repeat(ruleChar, nameRuleWidth),
	}

	span := Span{Text: strings.Join(segments, ruleJoint)}
	if strong {
		span.Emphasis = EmphasisStrong
	}

	return Line{span}
}

func (f *Formatter) sep() Span {
	return Span{Text: f.separator}
}
