package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ilyadubrovsky/gradebar/internal/app/clierr"
	"github.com/ilyadubrovsky/gradebar/pkg/gradebook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loginPage = `<html><body>
<form method="post" action="/cas/login">
  <input type="text" name="username">
  <input type="password" name="password">
  <input type="hidden" name="execution" value="e1s1">
</form>
</body></html>`

func newGradeService(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/cas/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			_, _ = fmt.Fprint(w, loginPage)
			return
		}
		if r.FormValue(gradebook.FormValueKeyUsername) != "jdoe" || r.FormValue(gradebook.FormValueKeyPassword) != "secret" {
			_, _ = fmt.Fprint(w, `<html><body><div class="errors">Invalid credentials.</div></body></html>`)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "SESSION", Value: "ok", Path: "/"})
		_, _ = fmt.Fprint(w, "<html><body>Welcome</body></html>")
	})
	mux.HandleFunc("/api/inscriptions", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]gradebook.Enrollment{
			{Area: "Computer Science", TermDesc: "BA3", SessionNum: 1, TermCode: "202627"},
		})
	})
	mux.HandleFunc("/api/notes", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]gradebook.Record{
			{"mnemonique": "CS101", "course_title": "Intro", "credits": 5, "quality_points": 14},
			{"mnemonique": "MA201", "course_title": "Calc", "credits": 5, "quality_points": 8},
		})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server
}

func writeConfig(t *testing.T, server *httptest.Server, password string) string {
	t.Helper()

	content := fmt.Sprintf(`
report:
  no_color: true
grade_service:
  login_url: %s/cas/login
  api_url: %s/api
  netid: jdoe
  password: %q
  timeout: 5s
`, server.URL, server.URL, password)

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func execute(t *testing.T, in string, args ...string) (string, string, error) {
	t.Helper()

	cmd := NewRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.SetIn(strings.NewReader(in))
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return stdout.String(), stderr.String(), err
}

func TestRootCmdHelp(t *testing.T) {
	out, _, err := execute(t, "", "--help")
	require.NoError(t, err)

	assert.Contains(t, out, "Usage:")
	for _, flag := range []string{"--netid", "--no-color", "--term", "--skip-malformed", "--watch", "--config"} {
		assert.Contains(t, out, flag)
	}
}

func TestEnvCmd(t *testing.T) {
	out, _, err := execute(t, "", "env")
	require.NoError(t, err)

	assert.Contains(t, out, "GRADEBAR_NETID")
	assert.Contains(t, out, "GRADEBAR_PASS_THRESHOLD")
}

func TestRootCmdPrintsTranscript(t *testing.T) {
	server := newGradeService(t)
	path := writeConfig(t, server, "secret")

	out, _, err := execute(t, "", "--config", path, "--term", "202627")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "Computer Science - BA3 (session 1)\n"))
	assert.Contains(t, out, "     CS101 | 14.0 |  5 |")
	assert.Contains(t, out, "     MA201 |  8.0 |  5 |")
	assert.Contains(t, out, "   Average | 11.0 | 10 |")
	assert.Contains(t, out, "    Passed | 14.0 |  5 |")
	assert.NotContains(t, out, "\033[")
	assert.True(t, strings.HasSuffix(out, "\n\n"))
}

func TestRootCmdPromptsForPassword(t *testing.T) {
	server := newGradeService(t)
	path := writeConfig(t, server, "")

	out, prompts, err := execute(t, "\nsecret\n", "--config", path, "--term", "202627")
	require.NoError(t, err)

	assert.Equal(t, "Password for jdoe: Password for jdoe: ", prompts)
	assert.Contains(t, out, "   Average | 11.0 | 10 |")
}

func TestRootCmdNoEnrollmentForTerm(t *testing.T) {
	server := newGradeService(t)
	path := writeConfig(t, server, "secret")

	out, _, err := execute(t, "", "--config", path, "--term", "199900")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRootCmdExitCodes(t *testing.T) {
	server := newGradeService(t)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{
			name: "wrong password",
			args: []string{"--config", writeConfig(t, server, "wrong"), "--term", "202627"},
			want: clierr.ExitAuth,
		},
		{
			name: "missing config",
			args: []string{"--config", filepath.Join(t.TempDir(), "absent.yml")},
			want: clierr.ExitUsage,
		},
		{
			name: "unexpected argument",
			args: []string{"report"},
			want: clierr.ExitFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, "", tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.want, clierr.ExitCodeOf(err))
		})
	}
}
