package domain

// Course is one enrollment line of a transcript. Note is nil while the
// course has not been graded yet.
type Course struct {
	Mnemonic string
	Name     string
	ECTS     int
	Note     *float64
}

// Graded reports whether the course carries a grade.
func (c *Course) Graded() bool {
	return c.Note != nil
}

// DefaultNote returns the grade of the course, or fallback when it is ungraded.
func (c *Course) DefaultNote(fallback float64) float64 {
	if c.Note == nil {
		return fallback
	}
	return *c.Note
}

func (c *Course) Display() Row {
	row := Row{
		Mnemonic: c.Mnemonic,
		Name:     c.Name,
		ECTS:     c.ECTS,
		Note:     c.Note,
	}
	if c.Note != nil {
		row.LowerNote = *c.Note
		row.UpperNote = *c.Note
	}

	return row
}

type AggregateKind int

const (
	AggregateAverage AggregateKind = iota
	AggregatePassed
)

// Aggregate is a synthetic summary row computed over the courses of a term.
type Aggregate struct {
	Kind      AggregateKind
	Mnemonic  string
	Name      string
	ECTS      int
	Note      float64
	LowerNote float64
	UpperNote float64
}

func (a *Aggregate) Display() Row {
	note := a.Note
	return Row{
		Mnemonic:  a.Mnemonic,
		Name:      a.Name,
		ECTS:      a.ECTS,
		Note:      &note,
		LowerNote: a.LowerNote,
		UpperNote: a.UpperNote,
	}
}

// Row is the common shape every transcript line is laid out from.
// LowerNote and UpperNote are meaningful only when Note is set.
type Row struct {
	Mnemonic  string
	Name      string
	ECTS      int
	Note      *float64
	LowerNote float64
	UpperNote float64
}

type Displayable interface {
	Display() Row
}

// NewNote is a convenience for building graded courses.
func NewNote(v float64) *float64 {
	return &v
}
