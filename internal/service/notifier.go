package service

import "context"

type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Telegram is a Notifier backed by a bot that also answers commands while
// started.
type Telegram interface {
	Notifier
	Start()
	Stop()
}
