package service

import (
	"context"

	"github.com/ilyadubrovsky/gradebar/internal/report"
)

type Transcript interface {
	Authorization(ctx context.Context, netID, password string) error
	Build(ctx context.Context, termCode string) ([]*report.Report, error)
	Report(ctx context.Context, termCode string) (string, error)
}
