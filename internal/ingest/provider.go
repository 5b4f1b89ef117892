// Package ingest records imports of external training logs.
package ingest

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/claude/fitflow/internal/models"
)

// ErrMalformed marks an export that could not be parsed.
var ErrMalformed = errors.New("malformed export")

// LogStore persists one row per import run.
type LogStore interface {
	InsertImportLog(ctx context.Context, log models.ImportLog) (int64, error)
	UpdateImportLog(ctx context.Context, id int64, log models.ImportLog) error
}

// Track wraps an import run with an import log: a running row before run,
// then success or error with the stats and duration. Failing to write the
// log never fails the import.
func Track(ctx context.Context, logs LogStore, log *slog.Logger, userID int64, source string,
	run func(context.Context) (*models.ImportStats, error)) (*models.ImportStats, error) {
	start := time.Now()

	id, logErr := logs.InsertImportLog(ctx, models.ImportLog{
		UserID: userID,
		Source: source,
		Status: models.ImportRunning,
	})
	if logErr != nil {
		log.Error("failed to create import log", "source", source, "error", logErr)
	}

	stats, err := run(ctx)

	if logErr == nil {
		entry := models.ImportLog{Status: models.ImportSuccess}
		if stats != nil {
			entry.ImportStats = *stats
		}
		if err != nil {
			msg := err.Error()
			entry.Status = models.ImportError
			entry.ErrorMessage = &msg
		}
		ms := int(time.Since(start).Milliseconds())
		entry.DurationMs = &ms
		// The row is finalized even when the request went away.
		if uerr := logs.UpdateImportLog(context.WithoutCancel(ctx), id, entry); uerr != nil {
			log.Error("failed to finalize import log", "log_id", id, "error", uerr)
		}
	}
	return stats, err
}
