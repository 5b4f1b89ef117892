package alpha

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/claude/fitflow/internal/ingest"
	"github.com/claude/fitflow/internal/models"
)

// Source tags workouts and import logs created from Alpha Progression.
const Source = "alpha_progression"

// Importer stores parsed sessions as completed workouts.
type Importer interface {
	ImportSessions(ctx context.Context, userID int64, source string, sessions []models.ImportedSession) (*models.ImportStats, error)
}

// Provider imports Alpha Progression CSV exports.
type Provider struct {
	importer Importer
	logs     ingest.LogStore
	log      *slog.Logger
}

// NewProvider creates a new Alpha Progression ingest provider.
func NewProvider(importer Importer, logs ingest.LogStore, log *slog.Logger) *Provider {
	return &Provider{importer: importer, logs: logs, log: log}
}

// Ingest parses a CSV export and imports its sessions for userID.
func (p *Provider) Ingest(ctx context.Context, r io.Reader, userID int64) (*models.ImportStats, error) {
	return ingest.Track(ctx, p.logs, p.log, userID, Source, func(ctx context.Context) (*models.ImportStats, error) {
		sessions, err := Parse(r)
		if err != nil {
			return nil, fmt.Errorf("parsing CSV: %w", err)
		}
		if len(sessions) == 0 {
			return nil, fmt.Errorf("%w: no sessions found", ingest.ErrMalformed)
		}
		return p.importer.ImportSessions(ctx, userID, Source, sessions)
	})
}
