package pool

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"
)

// Stats returns a count of videos grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT status, COUNT(1) FROM videos GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("pool stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

// Health aggregates pool state for diagnostic output.
func (s *Store) Health(ctx context.Context) (HealthSummary, error) {
	var health HealthSummary
	err := s.db.QueryRowContext(
		ensureContext(ctx),
		`SELECT COUNT(1),
                COALESCE(SUM(CASE WHEN status = ? AND claim_token IS NULL THEN 1 ELSE 0 END), 0),
                COALESCE(SUM(CASE WHEN status = ? AND claim_token IS NOT NULL THEN 1 ELSE 0 END), 0),
                COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
                COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
                COALESCE(SUM(CASE WHEN published_at IS NOT NULL THEN 1 ELSE 0 END), 0)
         FROM videos`,
		StatusUnassigned,
		StatusUnassigned,
		StatusProcessing,
		StatusReady,
	).Scan(&health.Total, &health.Unassigned, &health.Claimed, &health.Processing, &health.Ready, &health.Published)
	if err != nil {
		return HealthSummary{}, fmt.Errorf("pool health: %w", err)
	}
	return health, nil
}

// CheckHealth returns diagnostic information about the pool database.
func (s *Store) CheckHealth(ctx context.Context) (DatabaseHealth, error) {
	health := DatabaseHealth{DBPath: s.path}

	if s.path == "" {
		return health, errors.New("pool database path is unknown")
	}

	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return health, nil
		}
		return health, fmt.Errorf("stat pool database: %w", err)
	}
	if info.IsDir() {
		return health, fmt.Errorf("pool database path %q is a directory", s.path)
	}
	health.DatabaseExists = true

	connCtx, cancel := context.WithTimeout(ensureContext(ctx), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(connCtx); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("ping pool database: %w", err)
	}
	health.DatabaseReadable = true

	if err := s.db.QueryRowContext(connCtx, "SELECT version FROM schema_version LIMIT 1").Scan(&health.SchemaVersion); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("read schema version: %w", err)
	}

	var integrity string
	if err := s.db.QueryRowContext(connCtx, "PRAGMA integrity_check").Scan(&integrity); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("integrity check: %w", err)
	}
	health.IntegrityCheck = integrity == "ok"

	if err := s.db.QueryRowContext(connCtx, "SELECT COUNT(1) FROM videos").Scan(&health.TotalVideos); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("count videos: %w", err)
	}
	return health, nil
}
