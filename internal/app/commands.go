package app

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ilyadubrovsky/gradebar/internal/app/clierr"
	"github.com/ilyadubrovsky/gradebar/internal/config"
	"github.com/ilyadubrovsky/gradebar/pkg/gradebook"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath    string
	netID         string
	noColor       bool
	skipMalformed bool
	termCode      string
	watch         time.Duration
}

// NewRootCmd constructs the gradebar root command.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "gradebar",
		Short: "Print your transcript with a grade histogram",
		Long: "gradebar logs in to the grade service and prints, for every enrollment of the " +
			"current academic year, the courses with their grades, credits and a histogram bar, " +
			"followed by the weighted average and the credits passed.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRoot(cmd, flags)
		},
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to the yaml config (default "+config.DefaultPath+" when present)")
	cmd.Flags().StringVarP(&flags.netID, "netid", "n", "", "netid to log in with")
	cmd.Flags().BoolVarP(&flags.noColor, "no-color", "C", false, "disable ANSI colors")
	cmd.Flags().BoolVar(&flags.skipMalformed, "skip-malformed", false, "skip malformed grade records instead of failing")
	cmd.Flags().StringVar(&flags.termCode, "term", "", "academic year code, e.g. 202526 (default: current academic year)")
	cmd.Flags().DurationVar(&flags.watch, "watch", 0, "rebuild the transcript every interval and print it when it changes")

	cmd.AddCommand(newEnvCmd())

	return cmd
}

func newEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "List the environment variables read by gradebar",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), config.Description())
		},
	}
}

func runRoot(cmd *cobra.Command, flags *rootFlags) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return clierr.Wrap(clierr.ExitUsage, "load .env", err)
	}

	cfg, err := config.NewConfig(flags.configPath)
	if err != nil {
		return clierr.Wrap(clierr.ExitUsage, "load config", err)
	}
	applyFlags(cmd, flags, cfg)
	if err = cfg.Validate(); err != nil {
		return clierr.Wrap(clierr.ExitUsage, "invalid config", err)
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		return clierr.Wrap(clierr.ExitUsage, "invalid log level", err)
	}
	zerolog.SetGlobalLevel(level)

	a, err := NewApp(cfg)
	if err != nil {
		return clierr.Wrap(clierr.ExitFailure, "init", err)
	}

	err = a.Run(cmd.Context(), RunOptions{
		In:       cmd.InOrStdin(),
		Out:      cmd.OutOrStdout(),
		Prompt:   cmd.ErrOrStderr(),
		NetID:    flags.netID,
		TermCode: flags.termCode,
		Watch:    cfg.Watch.Delay,
	})
	switch {
	case errors.Is(err, gradebook.ErrAuthorizationFailed):
		return clierr.Wrap(clierr.ExitAuth, "login", err)
	case err != nil:
		return clierr.Wrap(clierr.ExitFailure, "transcript", err)
	}

	return nil
}

// applyFlags overrides the configuration with the flags set on the command
// line.
func applyFlags(cmd *cobra.Command, flags *rootFlags, cfg *config.Config) {
	if cmd.Flags().Changed("no-color") {
		cfg.Report.NoColor = flags.noColor
	}
	if cmd.Flags().Changed("skip-malformed") {
		cfg.Report.SkipMalformed = flags.skipMalformed
	}
	if cmd.Flags().Changed("watch") {
		cfg.Watch.Delay = flags.watch
	}
}
