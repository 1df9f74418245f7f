package transcript

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ilyadubrovsky/gradebar/internal/domain"
	ierrors "github.com/ilyadubrovsky/gradebar/internal/errors"
	"github.com/ilyadubrovsky/gradebar/internal/report"
	"github.com/ilyadubrovsky/gradebar/pkg/gradebook"
	"github.com/jellydator/ttlcache/v3"
	"github.com/rs/zerolog/log"
)

// svc fetches the grades of one student and renders them. The gradebook
// client keeps the session in a cookie jar, so calls are serialized.
type svc struct {
	gradebookClient  gradebook.Client
	renderer         *report.Renderer
	enrollmentsCache *ttlcache.Cache[string, []gradebook.Enrollment]
	skipMalformed    bool

	mu       sync.Mutex
	netID    string
	password string
}

func NewService(
	gradebookClient gradebook.Client,
	renderer *report.Renderer,
	enrollmentsCache *ttlcache.Cache[string, []gradebook.Enrollment],
	skipMalformed bool,
) *svc {
	return &svc{
		gradebookClient:  gradebookClient,
		renderer:         renderer,
		enrollmentsCache: enrollmentsCache,
		skipMalformed:    skipMalformed,
	}
}

func (s *svc) Authorization(ctx context.Context, netID, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gradebookClient.Clear()
	if err := s.gradebookClient.Authorization(ctx, netID, password); err != nil {
		return fmt.Errorf("gradebookClient.Authorization: %w", err)
	}

	s.netID = netID
	s.password = password

	return nil
}

// Build returns the report of every enrollment of the term, in the order
// the grade service lists them.
func (s *svc) Build(ctx context.Context, termCode string) ([]*report.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	enrollments, err := s.enrollments(ctx)
	if err != nil {
		return nil, fmt.Errorf("enrollments: %w", err)
	}

	reports := make([]*report.Report, 0, len(enrollments))
	for _, enrollment := range enrollments {
		if enrollment.TermCode != termCode {
			continue
		}

		courses, err := s.courses(ctx, enrollment)
		if err != nil {
			return nil, fmt.Errorf("courses (%s %s): %w", enrollment.Area, enrollment.TermDesc, err)
		}

		rep, err := s.renderer.Build(toDomain(enrollment), courses)
		if err != nil {
			return nil, fmt.Errorf("renderer.Build (%s %s): %w", enrollment.Area, enrollment.TermDesc, err)
		}
		reports = append(reports, rep)
	}

	if len(reports) == 0 {
		return nil, fmt.Errorf("term %s: %w", termCode, ierrors.ErrNoEnrollments)
	}

	return reports, nil
}

func (s *svc) Report(ctx context.Context, termCode string) (string, error) {
	reports, err := s.Build(ctx, termCode)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, rep := range reports {
		b.WriteString(s.renderer.Text(rep))
	}

	return b.String(), nil
}

func (s *svc) enrollments(ctx context.Context) ([]gradebook.Enrollment, error) {
	if item := s.enrollmentsCache.Get(s.netID); item != nil {
		return item.Value(), nil
	}

	var enrollments []gradebook.Enrollment
	err := s.withSession(ctx, func() error {
		var err error
		enrollments, err = s.gradebookClient.Enrollments(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("gradebookClient.Enrollments: %w", err)
	}

	log.Debug().Str("netid", s.netID).Int("enrollments", len(enrollments)).Msg("enrollments fetched")
	s.enrollmentsCache.Set(s.netID, enrollments, ttlcache.DefaultTTL)

	return enrollments, nil
}

func (s *svc) courses(ctx context.Context, enrollment gradebook.Enrollment) ([]*domain.Course, error) {
	var records []gradebook.Record
	err := s.withSession(ctx, func() error {
		var err error
		records, err = s.gradebookClient.Grades(ctx, enrollment)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("gradebookClient.Grades: %w", err)
	}

	courses := make([]*domain.Course, 0, len(records))
	for i, record := range records {
		course, err := domain.CourseFromRecord(domain.Record(record))
		if err != nil {
			if s.skipMalformed && errors.Is(err, ierrors.ErrMalformedRecord) {
				log.Warn().
					Str("term", enrollment.TermCode).
					Str("area", enrollment.Area).
					Int("record", i).
					Msgf("skipping grade record: %v", err)
				continue
			}
			return nil, fmt.Errorf("domain.CourseFromRecord (record %d): %w", i, err)
		}
		courses = append(courses, course)
	}

	log.Debug().
		Str("term", enrollment.TermCode).
		Str("area", enrollment.Area).
		Int("records", len(records)).
		Int("courses", len(courses)).
		Msg("grades fetched")

	return courses, nil
}

// withSession runs call and, when the session has expired, logs in again
// and retries it once.
func (s *svc) withSession(ctx context.Context, call func() error) error {
	err := call()
	if !errors.Is(err, gradebook.ErrAuthorizationFailed) || s.netID == "" {
		return err
	}

	log.Info().Str("netid", s.netID).Msg("grade service session expired, logging in again")
	s.gradebookClient.Clear()
	if err = s.gradebookClient.Authorization(ctx, s.netID, s.password); err != nil {
		return fmt.Errorf("gradebookClient.Authorization: %w", err)
	}

	return call()
}

func toDomain(enrollment gradebook.Enrollment) domain.Enrollment {
	return domain.Enrollment{
		Area:       enrollment.Area,
		TermDesc:   enrollment.TermDesc,
		SessionNum: enrollment.SessionNum,
		TermCode:   enrollment.TermCode,
	}
}
