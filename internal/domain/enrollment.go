package domain

import (
	"fmt"
	"time"
)

type Enrollment struct {
	Area       string
	TermDesc   string
	SessionNum int
	TermCode   string
}

// AcademicYearCode returns the term code of the academic year running at now,
// e.g. "202627" from September 2026 to August 2027.
func AcademicYearCode(now time.Time) string {
	year := now.Year()
	if now.Month() < time.September {
		year--
	}

	return fmt.Sprintf("%d%02d", year, (year+1)%100)
}
