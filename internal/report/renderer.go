package report

import (
	"fmt"
	"strings"

	"github.com/ilyadubrovsky/gradebar/internal/domain"
)

type Options struct {
	Color           bool
	Thresholds      Thresholds
	ColumnSeparator string
}

func DefaultOptions() Options {
	return Options{
		Color:           true,
		Thresholds:      DefaultThresholds(),
		ColumnSeparator: DefaultColumnSeparator,
	}
}

// Renderer builds the transcript report of one enrollment. It holds no
// state besides its options and can be shared.
type Renderer struct {
	opts      Options
	formatter *Formatter
	styler    Styler
}

func New(opts Options) *Renderer {
	if opts.ColumnSeparator == "" {
		opts.ColumnSeparator = DefaultColumnSeparator
	}

	return &Renderer{
		opts:      opts,
		formatter: NewFormatter(NewPalette(opts.Thresholds), opts.ColumnSeparator),
		styler:    Styler{Color: opts.Color},
	}
}

// Report is the unstyled report of one enrollment.
type Report struct {
	Title      Line
	Header     []Line
	Courses    []Line
	Aggregates []Line
}

// Lines returns every line of the report in print order, the trailing
// blank line included.
func (r *Report) Lines() []Line {
	lines := make([]Line, 0, 1+len(r.Header)+len(r.Courses)+len(r.Aggregates)+1)
	lines = append(lines, r.Title)
	lines = append(lines, r.Header...)
	lines = append(lines, r.Courses...)
	lines = append(lines, r.Aggregates...)
	lines = append(lines, Line{})

	return lines
}

func (r *Renderer) Build(enrollment domain.Enrollment, courses []*domain.Course) (*Report, error) {
	aggregates, err := BuildAggregates(courses, r.opts.Thresholds)
	if err != nil {
		return nil, fmt.Errorf("BuildAggregates: %w", err)
	}

	report := &Report{
		Title: Line{{
			Text:     fmt.Sprintf("%s - %s (session %d)", enrollment.Area, enrollment.TermDesc, enrollment.SessionNum),
			Emphasis: EmphasisTitle,
		}},
		Header: []Line{
			r.formatter.Titles(),
			r.formatter.Rule(false),
		},
		Courses: make([]Line, 0, len(courses)),
	}

	for _, course := range courses {
		report.Courses = append(report.Courses, r.formatter.Line(course.Display()))
	}

	if aggregates.Average != nil {
		average := r.formatter.Line(aggregates.Average.Display())
		if aggregates.Complete {
			average = average.Strong()
		}
		report.Aggregates = append(report.Aggregates, r.formatter.Rule(aggregates.Complete), average)
	}
	if aggregates.Passed != nil {
		report.Aggregates = append(report.Aggregates, r.formatter.Line(aggregates.Passed.Display()))
	}

	return report, nil
}

// Render returns the report text of one enrollment, styled according to the
// renderer options.
func (r *Renderer) Render(enrollment domain.Enrollment, courses []*domain.Course) (string, error) {
	report, err := r.Build(enrollment, courses)
	if err != nil {
		return "", err
	}

	return r.Text(report), nil
}

func (r *Renderer) Text(report *Report) string {
	return report.Text(r.styler)
}

// Text joins the lines of the report styled by styler.
func (r *Report) Text(styler Styler) string {
	lines := r.Lines()
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = styler.Line(line)
	}

	return strings.Join(out, "\n") + "\n"
}

// CourseLine is the styled transcript line of a single course.
func (r *Renderer) CourseLine(course *domain.Course) string {
	return r.styler.Line(r.formatter.Line(course.Display()))
}
