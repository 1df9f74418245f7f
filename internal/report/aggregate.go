package report

import (
	"fmt"
	"strconv"

	"github.com/ilyadubrovsky/gradebar/internal/domain"
	ierrors "github.com/ilyadubrovsky/gradebar/internal/errors"
)

const (
	averageMnemonic = "Average"
	averageName     = "Final grade"
	passedMnemonic  = "Passed"
)

// Aggregates holds the summary rows of a term. Both rows are nil when no
// course of the term is graded.
type Aggregates struct {
	Average *domain.Aggregate
	Passed  *domain.Aggregate
	// Complete is set when every course of the term is graded.
	Complete bool
}

// BuildAggregates computes the "Average" and "Passed" rows. The average row
// is bounded by assuming every ungraded course scores 0 or MaxNote.
func BuildAggregates(courses []*domain.Course, thresholds Thresholds) (*Aggregates, error) {
	evaluated := make([]*domain.Course, 0, len(courses))
	for _, course := range courses {
		if course.Graded() {
			evaluated = append(evaluated, course)
		}
	}

	aggregates := &Aggregates{}
	if len(evaluated) == 0 {
		return aggregates, nil
	}
	aggregates.Complete = len(evaluated) == len(courses)

	evaluatedECTS, evaluatedMean, err := weightedMean(evaluated, func(c *domain.Course) float64 {
		return *c.Note
	})
	if err != nil {
		return nil, fmt.Errorf("weightedMean (evaluated): %w", err)
	}

	allECTS, pessimistic, err := weightedMean(courses, func(c *domain.Course) float64 {
		return c.DefaultNote(0)
	})
	if err != nil {
		return nil, fmt.Errorf("weightedMean (pessimistic): %w", err)
	}

	_, optimistic, err := weightedMean(courses, func(c *domain.Course) float64 {
		return c.DefaultNote(MaxNote)
	})
	if err != nil {
		return nil, fmt.Errorf("weightedMean (optimistic): %w", err)
	}
	pessimistic, optimistic = roundTo(pessimistic, 1), roundTo(optimistic, 1)

	name := averageName
	if allECTS != evaluatedECTS {
		name += fmt.Sprintf(" between %.1f and %.1f", pessimistic, optimistic)
	}
	aggregates.Average = &domain.Aggregate{
		Kind:      domain.AggregateAverage,
		Mnemonic:  averageMnemonic,
		Name:      name,
		ECTS:      evaluatedECTS,
		Note:      evaluatedMean,
		LowerNote: pessimistic,
		UpperNote: optimistic,
	}

	passed := make([]*domain.Course, 0, len(evaluated))
	for _, course := range evaluated {
		if *course.Note >= thresholds.Pass {
			passed = append(passed, course)
		}
	}
	if len(passed) == 0 {
		return aggregates, nil
	}

	passedECTS, passedMean, err := weightedMean(passed, func(c *domain.Course) float64 {
		return *c.Note
	})
	if err != nil {
		return nil, fmt.Errorf("weightedMean (passed): %w", err)
	}
	aggregates.Passed = &domain.Aggregate{
		Kind:      domain.AggregatePassed,
		Mnemonic:  passedMnemonic,
		Name:      fmt.Sprintf("Courses graded >= %s/%d", strconv.FormatFloat(thresholds.Pass, 'f', -1, 64), MaxNote),
		ECTS:      passedECTS,
		Note:      passedMean,
		LowerNote: passedMean,
		UpperNote: passedMean,
	}

	return aggregates, nil
}

// Rows returns the summary rows in display order.
func (a *Aggregates) Rows() []*domain.Aggregate {
	rows := make([]*domain.Aggregate, 0, 2)
	if a.Average != nil {
		rows = append(rows, a.Average)
	}
	if a.Passed != nil {
		rows = append(rows, a.Passed)
	}
	return rows
}

func weightedMean(courses []*domain.Course, note func(*domain.Course) float64) (int, float64, error) {
	ects := 0
	sum := 0.0
	for _, course := range courses {
		ects += course.ECTS
		sum += note(course) * float64(course.ECTS)
	}
	if ects == 0 {
		return 0, 0, ierrors.ErrNoCredits
	}

	return ects, sum / float64(ects), nil
}
