package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ilyadubrovsky/gradebar/internal/config"
	"github.com/ilyadubrovsky/gradebar/internal/domain"
	ierrors "github.com/ilyadubrovsky/gradebar/internal/errors"
	"github.com/ilyadubrovsky/gradebar/internal/report"
	"github.com/ilyadubrovsky/gradebar/internal/service"
	"github.com/ilyadubrovsky/gradebar/internal/service/telegram"
	"github.com/ilyadubrovsky/gradebar/internal/service/transcript"
	"github.com/ilyadubrovsky/gradebar/internal/service/watcher"
	"github.com/ilyadubrovsky/gradebar/pkg/gradebook"
	"github.com/jellydator/ttlcache/v3"
	"github.com/rs/zerolog/log"
)

// RunOptions are the per-invocation inputs of App.Run.
type RunOptions struct {
	In     io.Reader
	Out    io.Writer
	Prompt io.Writer

	NetID    string
	TermCode string
	Watch    time.Duration
	Now      func() time.Time
}

type App struct {
	cfg              *config.Config
	renderer         *report.Renderer
	enrollmentsCache *ttlcache.Cache[string, []gradebook.Enrollment]
	transcriptSvc    service.Transcript
	telegramSvc      service.Telegram
}

func NewApp(cfg *config.Config) (*App, error) {
	a := &App{cfg: cfg}

	log.Debug().Str("login_url", cfg.GradeService.LoginURL).Msg("grade service client initializing")
	gradebookClient := gradebook.NewClient(
		cfg.GradeService.LoginURL,
		cfg.GradeService.APIURL,
		cfg.GradeService.Timeout,
	)

	a.renderer = report.New(cfg.ReportOptions())
	a.enrollmentsCache = transcript.NewEnrollmentsCache(cfg.GradeService.EnrollmentsTTL)
	a.transcriptSvc = transcript.NewService(
		gradebookClient,
		a.renderer,
		a.enrollmentsCache,
		cfg.Report.SkipMalformed,
	)

	if cfg.Telegram.Enabled() {
		log.Debug().Int64("chat", cfg.Telegram.ChatID).Msg("telegram bot initializing")
		telegramSvc, err := telegram.NewService(cfg.Telegram)
		if err != nil {
			return nil, fmt.Errorf("telegram.NewService: %w", err)
		}
		a.telegramSvc = telegramSvc
	}

	return a, nil
}

// Run logs in and prints the transcript of the selected academic year, once
// or, when opts.Watch is positive, every time it changes until ctx is done.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	netID, password, err := newPrompter(opts.In, opts.Prompt).credentials(a.cfg.GradeService, opts.NetID)
	if err != nil {
		return fmt.Errorf("credentials: %w", err)
	}

	if err = a.transcriptSvc.Authorization(ctx, netID, password); err != nil {
		return fmt.Errorf("transcriptSvc.Authorization: %w", err)
	}
	log.Info().Str("netid", netID).Msg("logged in to the grade service")

	termCode := func() string {
		if opts.TermCode != "" {
			return opts.TermCode
		}
		now := time.Now
		if opts.Now != nil {
			now = opts.Now
		}
		return domain.AcademicYearCode(now())
	}

	if opts.Watch <= 0 {
		return a.runOnce(ctx, opts.Out, termCode())
	}

	go a.enrollmentsCache.Start()
	defer a.enrollmentsCache.Stop()

	var notifier service.Notifier
	if a.telegramSvc != nil {
		go a.telegramSvc.Start()
		defer a.telegramSvc.Stop()
		notifier = a.telegramSvc
	}

	watcherSvc := watcher.NewService(a.transcriptSvc, notifier, a.renderer, opts.Out, opts.Watch, termCode)
	if err = watcherSvc.Start(ctx); err != nil {
		return fmt.Errorf("watcherSvc.Start: %w", err)
	}

	return nil
}

func (a *App) runOnce(ctx context.Context, out io.Writer, termCode string) error {
	text, err := a.transcriptSvc.Report(ctx, termCode)
	if errors.Is(err, ierrors.ErrNoEnrollments) {
		log.Warn().Str("term", termCode).Msg("no enrollment for this academic year")
		return nil
	}
	if err != nil {
		return fmt.Errorf("transcriptSvc.Report: %w", err)
	}

	if _, err = io.WriteString(out, text); err != nil {
		return fmt.Errorf("io.WriteString: %w", err)
	}

	return nil
}
