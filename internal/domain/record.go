package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	ierrors "github.com/ilyadubrovsky/gradebar/internal/errors"
)

const (
	RecordKeyMnemonic      = "mnemonique"
	RecordKeyCourseTitle   = "course_title"
	RecordKeyCredits       = "credits"
	RecordKeyQualityPoints = "quality_points"
)

// Record is a raw grade record as decoded from the grade service.
type Record map[string]any

// CourseFromRecord adapts a raw grade record into a Course.
// A missing or null quality_points means the course is not graded yet.
func CourseFromRecord(record Record) (*Course, error) {
	mnemonic, err := requiredString(record, RecordKeyMnemonic)
	if err != nil {
		return nil, err
	}

	name, err := requiredString(record, RecordKeyCourseTitle)
	if err != nil {
		return nil, err
	}

	rawCredits, ok := record[RecordKeyCredits]
	if !ok || rawCredits == nil {
		return nil, &ierrors.MalformedRecordError{Field: RecordKeyCredits, Reason: "missing"}
	}
	ects, err := parseCredits(rawCredits)
	if err != nil {
		return nil, &ierrors.MalformedRecordError{Field: RecordKeyCredits, Reason: err.Error()}
	}
	if ects <= 0 {
		return nil, &ierrors.MalformedRecordError{
			Field:  RecordKeyCredits,
			Reason: fmt.Sprintf("must be positive, got %d", ects),
		}
	}

	note, err := parseNote(record[RecordKeyQualityPoints])
	if err != nil {
		return nil, &ierrors.MalformedRecordError{Field: RecordKeyQualityPoints, Reason: err.Error()}
	}

	return &Course{
		Mnemonic: mnemonic,
		Name:     name,
		ECTS:     ects,
		Note:     note,
	}, nil
}

func requiredString(record Record, key string) (string, error) {
	raw, ok := record[key]
	if !ok || raw == nil {
		return "", &ierrors.MalformedRecordError{Field: key, Reason: "missing"}
	}

	s, ok := raw.(string)
	if !ok {
		return "", &ierrors.MalformedRecordError{Field: key, Reason: fmt.Sprintf("expected a string, got %T", raw)}
	}

	return s, nil
}

func parseCredits(raw any) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("not a finite number: %v", v)
		}
		return int(v), nil
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n), nil
		}
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("json.Number.Float64: %w", err)
		}
		return int(f), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("strconv.Atoi: %w", err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("cannot use %T as an integer", raw)
	}
}

func parseNote(raw any) (*float64, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case float64:
		return NewNote(v), nil
	case int:
		return NewNote(float64(v)), nil
	case int64:
		return NewNote(float64(v)), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, fmt.Errorf("json.Number.Float64: %w", err)
		}
		return NewNote(f), nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("strconv.ParseFloat: %w", err)
		}
		return NewNote(f), nil
	default:
		return nil, fmt.Errorf("cannot use %T as a grade", raw)
	}
}
