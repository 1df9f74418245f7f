package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewConfigFromFile(t *testing.T) {
	path := writeConfig(t, `
report:
  no_color: true
  pass_threshold: 9.5
  good_threshold: 13
  column_separator: " : "
grade_service:
  netid: jdoe
  timeout: 5s
watch:
  delay: 30m
telegram:
  bot_token: token
  chat_id: 42
`)

	cfg, err := NewConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.Report.NoColor)
	assert.Equal(t, 9.5, cfg.Report.PassThreshold)
	assert.Equal(t, 13.0, cfg.Report.GoodThreshold)
	assert.Equal(t, " : ", cfg.Report.ColumnSeparator)
	assert.Equal(t, "jdoe", cfg.GradeService.NetID)
	assert.Equal(t, 5*time.Second, cfg.GradeService.Timeout)
	assert.Equal(t, 10*time.Minute, cfg.GradeService.EnrollmentsTTL)
	assert.Equal(t, 30*time.Minute, cfg.Watch.Delay)
	assert.True(t, cfg.Telegram.Enabled())
	assert.Equal(t, "info", cfg.Log.Level)

	opts := cfg.ReportOptions()
	assert.False(t, opts.Color)
	assert.Equal(t, 9.5, opts.Thresholds.Pass)
	assert.Equal(t, " : ", opts.ColumnSeparator)
}

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := NewConfig("")
	require.NoError(t, err)

	assert.False(t, cfg.Report.NoColor)
	assert.Equal(t, 10.0, cfg.Report.PassThreshold)
	assert.Equal(t, 12.0, cfg.Report.GoodThreshold)
	assert.Equal(t, 15*time.Second, cfg.GradeService.Timeout)
	assert.Equal(t, time.Duration(0), cfg.Watch.Delay)
	assert.False(t, cfg.Telegram.Enabled())
	assert.Equal(t, 10*time.Second, cfg.Telegram.LongPollerDelay)
}

func TestNewConfigEnvOverride(t *testing.T) {
	t.Setenv("GRADEBAR_PASS_THRESHOLD", "11")
	t.Setenv("GRADEBAR_NETID", "envuser")

	cfg, err := NewConfig("")
	require.NoError(t, err)

	assert.Equal(t, 11.0, cfg.Report.PassThreshold)
	assert.Equal(t, "envuser", cfg.GradeService.NetID)
}

func TestNewConfigInvalidThresholds(t *testing.T) {
	path := writeConfig(t, `
report:
  pass_threshold: 14
  good_threshold: 12
`)

	_, err := NewConfig(path)
	assert.Error(t, err)
}

func TestNewConfigMissingExplicitFile(t *testing.T) {
	_, err := NewConfig(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}
