package report

import (
	"fmt"
	"strings"
)

// Emphasis is the visual weight of a piece of report text. It is mapped to
// terminal escapes only when a line is styled.
type Emphasis int

const (
	EmphasisNone Emphasis = iota
	// EmphasisNeutral marks a value that has no grade to color.
	EmphasisNeutral
	EmphasisLow
	EmphasisMid
	EmphasisHigh
	// EmphasisInfo is used for credits of ungraded courses.
	EmphasisInfo
	// EmphasisFlagged distinguishes graded rows from ungraded ones.
	EmphasisFlagged
	EmphasisTitle
	// EmphasisStrong is used for the rule and the average row of a fully graded term.
	EmphasisStrong
)

const (
	ansiReset  = 0
	ansiBold   = 1
	ansiRed    = 31
	ansiGreen  = 32
	ansiYellow = 33
	ansiBlue   = 34
)

type Span struct {
	Text     string
	Emphasis Emphasis
	Bold     bool
}

type Line []Span

// Text returns the line without any styling.
func (l Line) Text() string {
	var b strings.Builder
	for _, span := range l {
		b.WriteString(span.Text)
	}
	return b.String()
}

// Width is the number of characters the line occupies on screen.
func (l Line) Width() int {
	width := 0
	for _, span := range l {
		width += len([]rune(span.Text))
	}
	return width
}

// Strong returns a copy of the line with every span set in bold.
func (l Line) Strong() Line {
	strong := make(Line, len(l))
	for i, span := range l {
		span.Bold = true
		strong[i] = span
	}
	return strong
}

// Styler turns lines into text, with ANSI escapes when Color is set.
type Styler struct {
	Color bool
}

func (s Styler) Line(line Line) string {
	var b strings.Builder
	for _, span := range line {
		b.WriteString(s.Span(span))
	}
	return b.String()
}

func (s Styler) Span(span Span) string {
	if !s.Color || span.Text == "" {
		return span.Text
	}

	text := span.Text
	if span.Bold || isBold(span.Emphasis) {
		text = escape(ansiBold, text)
	}
	if code, ok := colorCode(span.Emphasis); ok {
		text = escape(code, text)
	}

	return text
}

func isBold(emphasis Emphasis) bool {
	switch emphasis {
	case EmphasisFlagged, EmphasisTitle, EmphasisStrong:
		return true
	default:
		return false
	}
}

func colorCode(emphasis Emphasis) (int, bool) {
	switch emphasis {
	case EmphasisLow:
		return ansiRed, true
	case EmphasisMid, EmphasisFlagged:
		return ansiYellow, true
	case EmphasisHigh:
		return ansiGreen, true
	case EmphasisInfo, EmphasisStrong:
		return ansiBlue, true
	default:
		return 0, false
	}
}

func escape(code int, text string) string {
	return fmt.Sprintf("\033[%dm%s\033[%dm", code, text, ansiReset)
}
