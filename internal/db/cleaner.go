package db

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// StartHistoryRetention deletes scan-history rows older than retention, on
// the given interval, until ctx is cancelled. History entries are snapshots,
// so nothing references them once they expire.
func StartHistoryRetention(
	ctx context.Context,
	db *sql.DB,
	interval time.Duration,
	retention time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cutoff := time.Now().Add(-retention)
				res, err := db.ExecContext(ctx, `
                    DELETE FROM scan_history
                     WHERE time_scanned < $1
                `, cutoff)
				if err != nil {
					log.Error("failed to expire scan history", zap.Error(err))
					continue
				}
				if rows, _ := res.RowsAffected(); rows > 0 {
					log.Info("expired scan history", zap.Int64("removed", rows))
				}
			}
		}
	}()
}
