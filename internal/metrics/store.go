// Package metrics records privacy-conscious visit and interaction counts in
// SQLite. Client addresses are never stored, only salted hashes.
package metrics

import (
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Event kinds.
const (
	PageView   = "page_view"
	CaseExpand = "case_expand"
	CodeView   = "code_view"
)

// Retention is how long events are kept.
const Retention = 365 * 24 * time.Hour

const timeLayout = "2006-01-02 15:04:05"

// Visit is one recorded event.
type Visit struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Event     string    `json:"event"`
	Subject   string    `json:"subject,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Count is a subject with its number of events.
type Count struct {
	Subject string `json:"subject"`
	Count   int64  `json:"count"`
}

type Stats struct {
	TotalVisits      int64   `json:"total_visits"`
	UniqueVisitors   int64   `json:"unique_visitors"`
	VisitorsToday    int64   `json:"visitors_today"`
	VisitorsThisWeek int64   `json:"visitors_this_week"`
	CaseExpansions   int64   `json:"case_expansions"`
	CodeViews        int64   `json:"code_views"`
	TopCases         []Count `json:"top_cases"`
	TopSnippets      []Count `json:"top_snippets"`
	RecentVisits     []Visit `json:"recent_visits"`
}

// Store wraps the metrics database.
type Store struct {
	db   *sql.DB
	salt string
	now  func() time.Time
}

// Open creates or opens the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return newStore(db)
}

// OpenMemory creates an in-memory database, for tests.
func OpenMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}
	// Every pooled connection would get its own empty :memory: database.
	db.SetMaxOpenConns(1)
	return newStore(db)
}

func newStore(db *sql.DB) (*Store, error) {
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return &Store{db: db, salt: newSalt(), now: time.Now}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS visits (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hashed_ip TEXT NOT NULL,
	user_agent TEXT NOT NULL DEFAULT '',
	path TEXT NOT NULL DEFAULT '',
	event TEXT NOT NULL,
	subject TEXT NOT NULL DEFAULT '',
	timestamp TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_visits_timestamp ON visits(timestamp);
CREATE INDEX IF NOT EXISTS idx_visits_event ON visits(event, subject);
`

func (s *Store) Close() error { return s.db.Close() }

func newSalt() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("generating hashing salt: %v", err))
	}
	return hex.EncodeToString(b)
}

// HashIP returns a salted hash of ip that is stable for the life of the
// process.
func (s *Store) HashIP(ip string) string {
	h := sha256.Sum256([]byte(ip + s.salt))
	return hex.EncodeToString(h[:])[:16]
}

// Record stores one event.
func (s *Store) Record(ip, userAgent, path, event, subject string) error {
	_, err := s.db.Exec(`
		INSERT INTO visits (hashed_ip, user_agent, path, event, subject, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)`,
		s.HashIP(ip), userAgent, path, event, subject, s.now().UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("recording %s: %w", event, err)
	}
	return nil
}

// Cleanup deletes events older than Retention and returns how many went.
func (s *Store) Cleanup() (int64, error) {
	cutoff := s.now().Add(-Retention).UTC().Format(timeLayout)
	res, err := s.db.Exec(`DELETE FROM visits WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleaning up old visits: %w", err)
	}
	return res.RowsAffected()
}

// Stats summarises recorded events.
func (s *Store) Stats() (*Stats, error) {
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).Format(timeLayout)
	week := now.Add(-7 * 24 * time.Hour).Format(timeLayout)

	stats := &Stats{}
	counts := []struct {
		dst   *int64
		query string
		args  []interface{}
	}{
		{&stats.TotalVisits, `SELECT COUNT(*) FROM visits WHERE event = ?`, []interface{}{PageView}},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visits`, nil},
		{&stats.VisitorsToday, `SELECT COUNT(DISTINCT hashed_ip) FROM visits WHERE timestamp >= ?`, []interface{}{today}},
		{&stats.VisitorsThisWeek, `SELECT COUNT(DISTINCT hashed_ip) FROM visits WHERE timestamp >= ?`, []interface{}{week}},
		{&stats.CaseExpansions, `SELECT COUNT(*) FROM visits WHERE event = ?`, []interface{}{CaseExpand}},
		{&stats.CodeViews, `SELECT COUNT(*) FROM visits WHERE event = ?`, []interface{}{CodeView}},
	}
	for _, c := range counts {
		if err := s.db.QueryRow(c.query, c.args...).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("querying stats: %w", err)
		}
	}

	var err error
	if stats.TopCases, err = s.top(CaseExpand, 10); err != nil {
		return nil, err
	}
	if stats.TopSnippets, err = s.top(CodeView, 10); err != nil {
		return nil, err
	}
	if stats.RecentVisits, err = s.Recent(50); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Store) top(event string, limit int) ([]Count, error) {
	rows, err := s.db.Query(`
		SELECT subject, COUNT(*) AS n FROM visits
		WHERE event = ?
		GROUP BY subject
		ORDER BY n DESC, subject ASC
		LIMIT ?`, event, limit)
	if err != nil {
		return nil, fmt.Errorf("querying top %s: %w", event, err)
	}
	defer rows.Close()

	var out []Count
	for rows.Next() {
		var c Count
		if err := rows.Scan(&c.Subject, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Recent returns the latest events, newest first.
func (s *Store) Recent(limit int) ([]Visit, error) {
	rows, err := s.db.Query(`
		SELECT id, hashed_ip, user_agent, path, event, subject, timestamp
		FROM visits
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent visits: %w", err)
	}
	defer rows.Close()

	var out []Visit
	for rows.Next() {
		var v Visit
		var ts string
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &v.Event, &v.Subject, &ts); err != nil {
			return nil, err
		}
		t, err := time.Parse(timeLayout, ts)
		if err != nil {
			return nil, fmt.Errorf("parsing timestamp of visit %d: %w", v.ID, err)
		}
		v.Timestamp = t
		out = append(out, v)
	}
	return out, rows.Err()
}
