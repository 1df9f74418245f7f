package app

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ilyadubrovsky/gradebar/internal/config"
	"golang.org/x/term"
)

var errNoInput = errors.New("no more input while reading credentials")

type prompter struct {
	in       *bufio.Reader
	out      io.Writer
	terminal int
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	if out == nil {
		out = io.Discard
	}

	p := &prompter{
		in:       bufio.NewReader(in),
		out:      out,
		terminal: -1,
	}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.terminal = int(f.Fd())
	}

	return p
}

// credentials asks for whatever the configuration does not provide. The
// configured password only belongs to the configured netid.
func (p *prompter) credentials(cfg config.GradeService, netID string) (string, string, error) {
	if netID == "" {
		netID = cfg.NetID
	}

	var err error
	for netID == "" {
		if netID, err = p.ask("NetID: ", false); err != nil {
			return "", "", fmt.Errorf("ask netid: %w", err)
		}
	}

	password := ""
	if netID == cfg.NetID {
		password = cfg.Password
	}
	for password == "" {
		if password, err = p.ask(fmt.Sprintf("Password for %s: ", netID), true); err != nil {
			return "", "", fmt.Errorf("ask password: %w", err)
		}
	}

	return netID, password, nil
}

func (p *prompter) ask(question string, hidden bool) (string, error) {
	if _, err := io.WriteString(p.out, question); err != nil {
		return "", fmt.Errorf("io.WriteString: %w", err)
	}

	if hidden && p.terminal >= 0 {
		answer, err := term.ReadPassword(p.terminal)
		_, _ = io.WriteString(p.out, "\n")
		if err != nil {
			return "", fmt.Errorf("term.ReadPassword: %w", err)
		}
		return strings.TrimSpace(string(answer)), nil
	}

	line, err := p.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		if errors.Is(err, io.EOF) {
			return "", errNoInput
		}
		return "", fmt.Errorf("ReadString: %w", err)
	}

	return strings.TrimSpace(line), nil
}
