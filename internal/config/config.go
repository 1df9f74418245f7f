package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/ilyadubrovsky/gradebar/internal/report"
)

const DefaultPath = "configs/config.yml"

type Config struct {
	Report       Report       `yaml:"report"`
	GradeService GradeService `yaml:"grade_service"`
	Watch        Watch        `yaml:"watch"`
	Telegram     Telegram     `yaml:"telegram"`
	Log          Log          `yaml:"log"`
}

type Report struct {
	NoColor         bool    `yaml:"no_color" env:"GRADEBAR_NO_COLOR"`
	PassThreshold   float64 `yaml:"pass_threshold" env:"GRADEBAR_PASS_THRESHOLD" env-default:"10"`
	GoodThreshold   float64 `yaml:"good_threshold" env:"GRADEBAR_GOOD_THRESHOLD" env-default:"12"`
	ColumnSeparator string  `yaml:"column_separator" env:"GRADEBAR_COLUMN_SEPARATOR"`
	SkipMalformed   bool    `yaml:"skip_malformed" env:"GRADEBAR_SKIP_MALFORMED" env-default:"false"`
}

type GradeService struct {
	LoginURL       string        `yaml:"login_url" env:"GRADEBAR_LOGIN_URL" env-default:"https://sso.example.edu/cas/login?service=grades"`
	APIURL         string        `yaml:"api_url" env:"GRADEBAR_API_URL" env-default:"https://grades.example.edu/api"`
	NetID          string        `yaml:"netid" env:"GRADEBAR_NETID"`
	Password       string        `yaml:"password" env:"GRADEBAR_PASSWORD"`
	Timeout        time.Duration `yaml:"timeout" env:"GRADEBAR_TIMEOUT" env-default:"15s"`
	EnrollmentsTTL time.Duration `yaml:"enrollments_ttl" env:"GRADEBAR_ENROLLMENTS_TTL" env-default:"10m"`
}

type Watch struct {
	Delay time.Duration `yaml:"delay" env:"GRADEBAR_WATCH_DELAY" env-default:"0s"`
}

type Telegram struct {
	BotToken string `yaml:"bot_token" env:"GRADEBAR_TELEGRAM_TOKEN"`
	ChatID   int64  `yaml:"chat_id" env:"GRADEBAR_TELEGRAM_CHAT_ID"`

	LongPollerDelay time.Duration `yaml:"long_poller_delay" env:"GRADEBAR_TELEGRAM_POLLER_DELAY" env-default:"10s"`
}

// Enabled reports whether reports should be pushed to a Telegram chat.
func (t Telegram) Enabled() bool {
	return t.BotToken != "" && t.ChatID != 0
}

type Log struct {
	Level string `yaml:"level" env:"GRADEBAR_LOG_LEVEL" env-default:"info"`
}

// NewConfig reads the yaml file at path, when it exists, and overlays the
// environment. An empty path falls back to DefaultPath.
func NewConfig(path string) (*Config, error) {
	cfg := &Config{}

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	_, statErr := os.Stat(path)
	switch {
	case statErr == nil:
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("cleanenv.ReadConfig: %w", err)
		}
	case errors.Is(statErr, os.ErrNotExist) && !explicit:
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("cleanenv.ReadEnv: %w", err)
		}
	default:
		return nil, fmt.Errorf("os.Stat: %w", statErr)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("cfg.Validate: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if err := c.Thresholds().Validate(); err != nil {
		return err
	}
	if c.GradeService.Timeout < 0 {
		return fmt.Errorf("negative grade service timeout %v", c.GradeService.Timeout)
	}
	if c.Watch.Delay < 0 {
		return fmt.Errorf("negative watch delay %v", c.Watch.Delay)
	}

	return nil
}

func (c *Config) Thresholds() report.Thresholds {
	return report.Thresholds{
		Pass: c.Report.PassThreshold,
		Good: c.Report.GoodThreshold,
	}
}

// ReportOptions converts the report section into renderer options.
func (c *Config) ReportOptions() report.Options {
	return report.Options{
		Color:           !c.Report.NoColor,
		Thresholds:      c.Thresholds(),
		ColumnSeparator: c.Report.ColumnSeparator,
	}
}

// Description lists the environment variables understood by the config.
func Description() string {
	help, _ := cleanenv.GetDescription(&Config{}, nil)
	return help
}
