// Package tracklog persists validated fixes to SQLite so tracks
// survive restarts and can be queried offline.
package tracklog

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"gpsfeed/internal/gps"
)

const schema = `
CREATE TABLE IF NOT EXISTS fix (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	recorded_at TEXT NOT NULL,
	fix_time    TEXT,
	lat_deg     REAL NOT NULL,
	lon_deg     REAL NOT NULL,
	alt_m       REAL,
	speed_kt    REAL,
	course_deg  REAL,
	satellites  INTEGER,
	hdop        REAL
);
CREATE INDEX IF NOT EXISTS idx_fix_recorded_at ON fix(recorded_at);
`

type Log struct {
	db *sql.DB
}

// Open creates or opens the track log database and ensures the schema
// exists. Use ":memory:" for an ephemeral log.
func Open(path string) (*Log, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open track log: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping track log: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create track log schema: %w", err)
	}
	return &Log{db: db}, nil
}

// Record appends one fix. Snapshots without a valid position are
// skipped silently; they carry nothing worth persisting.
func (l *Log) Record(now time.Time, snap gps.Snapshot) error {
	if !snap.Valid {
		return nil
	}
	_, err := l.db.Exec(
		`INSERT INTO fix (recorded_at, fix_time, lat_deg, lon_deg, alt_m, speed_kt, course_deg, satellites, hdop)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		now.UTC().Format(time.RFC3339Nano),
		snap.FixTimeUTC,
		snap.LatDeg,
		snap.LonDeg,
		nullFloat(snap.AltMeters),
		nullFloat(snap.SpeedKt),
		nullFloat(snap.CourseDeg),
		nullInt(snap.Satellites),
		nullFloat(snap.HDOP),
	)
	if err != nil {
		return fmt.Errorf("insert fix: %w", err)
	}
	return nil
}

// Count returns the number of recorded fixes.
func (l *Log) Count() (int64, error) {
	var n int64
	if err := l.db.QueryRow(`SELECT COUNT(*) FROM fix`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count fixes: %w", err)
	}
	return n, nil
}

// Last returns the most recently recorded fix position.
func (l *Log) Last() (lat, lon float64, err error) {
	row := l.db.QueryRow(`SELECT lat_deg, lon_deg FROM fix ORDER BY id DESC LIMIT 1`)
	if err := row.Scan(&lat, &lon); err != nil {
		return 0, 0, fmt.Errorf("last fix: %w", err)
	}
	return lat, lon, nil
}

func (l *Log) Close() error {
	return l.db.Close()
}

func nullFloat(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
