// Package journal persists waypoint activity to SQLite so operators can
// inspect what the coordinator was asked to do and how each goal ended.
// The schema is created automatically; the driver is pure Go.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/fieldrover/waypointd/internal/log"
	"github.com/fieldrover/waypointd/pkg/geometry"
)

// Store is the SQLite-backed journal.
type Store struct {
	db *sql.DB
}

// Open creates or opens the journal at the given path. Parent directories
// are created if needed.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}

	// WAL keeps ingestion writes from blocking reads
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	log.Info("journal opened", "path", path)
	return s, nil
}

func (s *Store) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS waypoints (
			id TEXT PRIMARY KEY,
			frame_id TEXT NOT NULL,
			source TEXT NOT NULL,
			x REAL NOT NULL,
			y REAL NOT NULL,
			z REAL NOT NULL,
			qx REAL NOT NULL,
			qy REAL NOT NULL,
			qz REAL NOT NULL,
			qw REAL NOT NULL,
			created_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_waypoints_created
			ON waypoints(created_at);

		CREATE TABLE IF NOT EXISTS outcomes (
			goal_id TEXT PRIMARY KEY,
			state TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordWaypoint appends an ingested waypoint. Source is "pose" or "point".
func (s *Store) RecordWaypoint(ctx context.Context, wp geometry.PoseStamped, source string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO waypoints (id, frame_id, source, x, y, z, qx, qy, qz, qw, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(),
		wp.Header.FrameID,
		source,
		wp.Pose.Position.X, wp.Pose.Position.Y, wp.Pose.Position.Z,
		wp.Pose.Orientation.X, wp.Pose.Orientation.Y, wp.Pose.Orientation.Z, wp.Pose.Orientation.W,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("recording waypoint: %w", err)
	}
	return nil
}

// RecordOutcome appends the terminal state of a goal episode.
func (s *Store) RecordOutcome(ctx context.Context, goalID, state string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO outcomes (goal_id, state, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(goal_id) DO UPDATE SET state = excluded.state`,
		goalID, state, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("recording outcome: %w", err)
	}
	return nil
}

// WaypointRecord is one journaled ingestion event.
type WaypointRecord struct {
	ID        string
	FrameID   string
	Source    string
	Pose      geometry.Pose
	CreatedAt time.Time
}

// RecentWaypoints returns the most recently ingested waypoints, newest
// first.
func (s *Store) RecentWaypoints(ctx context.Context, limit int) ([]WaypointRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, frame_id, source, x, y, z, qx, qy, qz, qw, created_at
		FROM waypoints
		ORDER BY created_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying waypoints: %w", err)
	}
	defer rows.Close()

	var out []WaypointRecord
	for rows.Next() {
		var r WaypointRecord
		if err := rows.Scan(
			&r.ID, &r.FrameID, &r.Source,
			&r.Pose.Position.X, &r.Pose.Position.Y, &r.Pose.Position.Z,
			&r.Pose.Orientation.X, &r.Pose.Orientation.Y, &r.Pose.Orientation.Z, &r.Pose.Orientation.W,
			&r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning waypoint: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
