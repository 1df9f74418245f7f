package report

import (
	"testing"

	"github.com/ilyadubrovsky/gradebar/internal/domain"
	ierrors "github.com/ilyadubrovsky/gradebar/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAggregatesAllGraded(t *testing.T) {
	courses := []*domain.Course{
		{Mnemonic: "CS101", Name: "Intro", ECTS: 5, Note: domain.NewNote(14)},
		{Mnemonic: "MA201", Name: "Calc", ECTS: 5, Note: domain.NewNote(8)},
	}

	aggregates, err := BuildAggregates(courses, DefaultThresholds())
	require.NoError(t, err)
	require.NotNil(t, aggregates.Average)
	require.NotNil(t, aggregates.Passed)

	assert.True(t, aggregates.Complete)
	assert.Equal(t, "Average", aggregates.Average.Mnemonic)
	assert.Equal(t, "Final grade", aggregates.Average.Name)
	assert.Equal(t, 10, aggregates.Average.ECTS)
	assert.InDelta(t, 11.0, aggregates.Average.Note, 1e-9)
	assert.InDelta(t, 11.0, aggregates.Average.LowerNote, 1e-9)
	assert.InDelta(t, 11.0, aggregates.Average.UpperNote, 1e-9)

	assert.Equal(t, "Passed", aggregates.Passed.Mnemonic)
	assert.Equal(t, "Courses graded >= 10/20", aggregates.Passed.Name)
	assert.Equal(t, 5, aggregates.Passed.ECTS)
	assert.InDelta(t, 14.0, aggregates.Passed.Note, 1e-9)
	assert.Equal(t, aggregates.Passed.Note, aggregates.Passed.LowerNote)
	assert.Equal(t, aggregates.Passed.Note, aggregates.Passed.UpperNote)
}

func TestBuildAggregatesBounded(t *testing.T) {
	courses := []*domain.Course{
		{Mnemonic: "CS101", Name: "Intro", ECTS: 3, Note: domain.NewNote(14)},
		{Mnemonic: "MA201", Name: "Calc", ECTS: 3, Note: domain.NewNote(8)},
		{Mnemonic: "PH301", Name: "Physics", ECTS: 4},
	}

	aggregates, err := BuildAggregates(courses, DefaultThresholds())
	require.NoError(t, err)
	require.NotNil(t, aggregates.Average)

	average := aggregates.Average
	assert.False(t, aggregates.Complete)
	assert.Equal(t, 6, average.ECTS)
	assert.InDelta(t, 11.0, average.Note, 1e-9)
	assert.InDelta(t, 6.6, average.LowerNote, 1e-9)
	assert.InDelta(t, 14.6, average.UpperNote, 1e-9)
	assert.Equal(t, "Final grade between 6.6 and 14.6", average.Name)

	assert.GreaterOrEqual(t, average.UpperNote, average.Note)
	assert.GreaterOrEqual(t, average.Note, average.LowerNote)
}

func TestBuildAggregatesNothingGraded(t *testing.T) {
	courses := []*domain.Course{
		{Mnemonic: "PH301", Name: "Physics", ECTS: 6},
	}

	aggregates, err := BuildAggregates(courses, DefaultThresholds())
	require.NoError(t, err)
	assert.Nil(t, aggregates.Average)
	assert.Nil(t, aggregates.Passed)
	assert.Empty(t, aggregates.Rows())

	aggregates, err = BuildAggregates(nil, DefaultThresholds())
	require.NoError(t, err)
	assert.Empty(t, aggregates.Rows())
}

func TestBuildAggregatesNothingPassed(t *testing.T) {
	courses := []*domain.Course{
		{Mnemonic: "MA201", Name: "Calc", ECTS: 5, Note: domain.NewNote(8)},
		{Mnemonic: "PH301", Name: "Physics", ECTS: 5, Note: domain.NewNote(9.99)},
	}

	aggregates, err := BuildAggregates(courses, DefaultThresholds())
	require.NoError(t, err)
	assert.NotNil(t, aggregates.Average)
	assert.Nil(t, aggregates.Passed)
	assert.Len(t, aggregates.Rows(), 1)
}

func TestBuildAggregatesUsesPassThreshold(t *testing.T) {
	courses := []*domain.Course{
		{Mnemonic: "MA201", Name: "Calc", ECTS: 2, Note: domain.NewNote(8)},
		{Mnemonic: "CS101", Name: "Intro", ECTS: 4, Note: domain.NewNote(14)},
	}

	aggregates, err := BuildAggregates(courses, Thresholds{Pass: 8, Good: 12})
	require.NoError(t, err)
	require.NotNil(t, aggregates.Passed)
	assert.Equal(t, 6, aggregates.Passed.ECTS)
	assert.Equal(t, "Courses graded >= 8/20", aggregates.Passed.Name)
}

func TestBuildAggregatesBoundsOrdering(t *testing.T) {
	for _, notes := range [][]float64{{0}, {20}, {10, 12}, {3.3, 17.7, 12}} {
		courses := []*domain.Course{{Mnemonic: "XX000", ECTS: 7}}
		for i, note := range notes {
			courses = append(courses, &domain.Course{Mnemonic: "CS10" + string(rune('0'+i)), ECTS: i + 2, Note: domain.NewNote(note)})
		}

		aggregates, err := BuildAggregates(courses, DefaultThresholds())
		require.NoError(t, err)

		average := aggregates.Average
		assert.GreaterOrEqual(t, average.UpperNote, average.Note, "notes %v", notes)
		assert.GreaterOrEqual(t, average.Note, average.LowerNote, "notes %v", notes)
		assert.Contains(t, average.Name, " between ")
	}
}

func TestBuildAggregatesZeroCredits(t *testing.T) {
	courses := []*domain.Course{
		{Mnemonic: "CS101", Name: "Intro", ECTS: 0, Note: domain.NewNote(14)},
	}

	_, err := BuildAggregates(courses, DefaultThresholds())
	assert.ErrorIs(t, err, ierrors.ErrNoCredits)
}
