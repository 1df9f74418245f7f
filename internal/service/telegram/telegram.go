package telegram

import (
	"context"
	"fmt"
	"html"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/ilyadubrovsky/gradebar/internal/config"
	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"
	"gopkg.in/telebot.v3/middleware"
)

// MaxMessageLength is the Telegram limit on the text of one message.
const MaxMessageLength = 4096

const (
	preOpen  = "<pre>"
	preClose = "</pre>"

	noTranscript = "No transcript yet."
)

type sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// svc pushes transcripts to a single chat and answers /report there with
// the last one pushed.
type svc struct {
	bot    *tele.Bot
	sender sender
	cfg    config.Telegram

	mu     sync.Mutex
	latest string
}

func NewService(cfg config.Telegram) (*svc, error) {
	bot, err := createBot(cfg)
	if err != nil {
		return nil, fmt.Errorf("createBot: %w", err)
	}

	s := &svc{
		bot:    bot,
		sender: bot,
		cfg:    cfg,
	}

	s.setBotSettings()

	return s, nil
}

func createBot(cfg config.Telegram) (*tele.Bot, error) {
	pref := tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: cfg.LongPollerDelay},
		OnError: func(err error, c tele.Context) {
			log.Error().Fields(extractTelebotFields(c)).
				Msgf("bot.OnError: %v", err.Error())
		},
	}

	abot, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("tele.NewBot: %w", err)
	}

	return abot, nil
}

func (s *svc) setBotSettings() {
	chatGroup := s.bot.Group()
	chatGroup.Use(
		middleware.Whitelist(
			s.cfg.ChatID,
		),
	)

	chatGroup.Handle("/report", s.handleReportCommand)
}

// Notify remembers text and sends it to the configured chat as
// preformatted blocks.
func (s *svc) Notify(_ context.Context, text string) error {
	s.mu.Lock()
	s.latest = text
	s.mu.Unlock()

	return s.send(text)
}

func (s *svc) send(text string) error {
	for _, chunk := range chunks(text, MaxMessageLength-len(preOpen)-len(preClose)) {
		_, err := s.sender.Send(tele.ChatID(s.cfg.ChatID), preOpen+chunk+preClose, tele.ModeHTML)
		if err != nil {
			return fmt.Errorf("sender.Send: %w", err)
		}
	}

	return nil
}

func (s *svc) handleReportCommand(_ tele.Context) error {
	s.mu.Lock()
	latest := s.latest
	s.mu.Unlock()

	if latest == "" {
		_, err := s.sender.Send(tele.ChatID(s.cfg.ChatID), noTranscript)
		return err
	}

	return s.send(latest)
}

func (s *svc) Start() {
	if s.bot != nil {
		s.bot.Start()
	}
}

func (s *svc) Stop() {
	if s.bot != nil {
		s.bot.Stop()
	}
}

// chunks html-escapes text and splits it on line boundaries into pieces of
// at most limit bytes. A single line longer than limit is split on rune
// boundaries.
func chunks(text string, limit int) []string {
	var (
		out     []string
		current strings.Builder
	)

	flush := func() {
		if current.Len() > 0 {
			out = append(out, current.String())
			current.Reset()
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}
		escaped := html.EscapeString(line)
		if current.Len()+len(escaped) > limit {
			flush()
		}
		for len(escaped) > limit {
			cut := splitPoint(escaped, limit)
			out = append(out, escaped[:cut])
			escaped = escaped[cut:]
		}
		current.WriteString(escaped)
	}
	flush()

	return out
}

// splitPoint returns the largest index <= limit that neither splits a rune
// nor an html entity.
func splitPoint(s string, limit int) int {
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	if amp := strings.LastIndexByte(s[:cut], '&'); amp >= 0 && !strings.Contains(s[amp:cut], ";") {
		if amp > 0 {
			cut = amp
		}
	}

	return cut
}

func extractTelebotFields(c tele.Context) map[string]interface{} {
	fields := make(map[string]interface{})
	if c == nil {
		return fields
	}
	if sender := c.Sender(); sender != nil {
		fields["user"] = sender.ID
	}
	if chat := c.Chat(); chat != nil {
		fields["chat"] = chat.ID
	}
	if msg := c.Message(); msg != nil {
		fields["text"] = msg.Text
	}

	return fields
}
