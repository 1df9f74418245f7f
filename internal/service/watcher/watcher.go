package watcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ilyadubrovsky/gradebar/internal/report"
	"github.com/ilyadubrovsky/gradebar/internal/service"
	"github.com/ilyadubrovsky/gradebar/pkg/gradebook"
	"github.com/rs/zerolog/log"
)

// svc rebuilds the transcript periodically, prints it when it changes and
// pushes the change to the notifier.
type svc struct {
	transcriptSvc service.Transcript
	notifier      service.Notifier
	renderer      *report.Renderer
	out           io.Writer
	delay         time.Duration
	termCode      func() string

	last     string
	stopFunc func()
}

// NewService builds a watcher. notifier may be nil.
func NewService(
	transcriptSvc service.Transcript,
	notifier service.Notifier,
	renderer *report.Renderer,
	out io.Writer,
	delay time.Duration,
	termCode func() string,
) *svc {
	return &svc{
		transcriptSvc: transcriptSvc,
		notifier:      notifier,
		renderer:      renderer,
		out:           out,
		delay:         delay,
		termCode:      termCode,
	}
}

// Start blocks until ctx is done, Stop is called or the grade service
// rejects the credentials.
func (s *svc) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	s.stopFunc = cancel
	defer cancel()

	log.Info().Dur("delay", s.delay).Msg("start transcript watcher")
	for {
		err := s.check(ctx)
		if errors.Is(err, gradebook.ErrAuthorizationFailed) {
			return fmt.Errorf("check: %w", err)
		}
		if err != nil && ctx.Err() == nil {
			log.Error().Msgf("watcher: check: %v", err)
		}

		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			log.Info().Msg("stop transcript watcher")
			return nil
		}
	}
}

func (s *svc) Stop() error {
	if s.stopFunc == nil {
		return errors.New("service is not started")
	}

	s.stopFunc()
	return nil
}

func (s *svc) check(ctx context.Context) error {
	termCode := s.termCode()
	reports, err := s.transcriptSvc.Build(ctx, termCode)
	if err != nil {
		return fmt.Errorf("transcriptSvc.Build: %w", err)
	}

	var plain, styled strings.Builder
	for _, rep := range reports {
		plain.WriteString(rep.Text(report.Styler{}))
		styled.WriteString(s.renderer.Text(rep))
	}

	current := plain.String()
	if current == s.last {
		log.Debug().Str("term", termCode).Msg("transcript unchanged")
		return nil
	}
	previous := s.last
	s.last = current

	if _, err = io.WriteString(s.out, styled.String()); err != nil {
		return fmt.Errorf("io.WriteString: %w", err)
	}

	if previous == "" || s.notifier == nil {
		return nil
	}

	log.Info().Str("term", termCode).Msg("transcript changed")
	if err = s.notifier.Notify(ctx, current); err != nil {
		return fmt.Errorf("notifier.Notify: %w", err)
	}

	return nil
}
