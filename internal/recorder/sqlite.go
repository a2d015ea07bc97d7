package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"PriceDigest/internal/logger"
	"PriceDigest/internal/model"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder keeps a history of generated documents and an upserted copy
// of every daily record seen per ticker.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log *logger.Logger
	now func() time.Time
}

// Snapshot is one row of document history.
type Snapshot struct {
	ID          string
	Ticker      string
	Price       float64
	Change      float64
	Pct         float64
	Records     int
	GeneratedAt time.Time
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log *logger.Logger) (*SQLiteRecorder, error) {
	if log == nil {
		log = logger.Nop()
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets the API read history while a refresh writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log, now: time.Now}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.WithField("path", dbPath).Info("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id           TEXT PRIMARY KEY,
			ticker       TEXT NOT NULL,
			generated_at INTEGER NOT NULL,
			price        REAL,
			change       REAL,
			pct          REAL,
			records      INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_ticker_ts ON documents(ticker, generated_at)`,

		`CREATE TABLE IF NOT EXISTS daily_records (
			ticker TEXT NOT NULL,
			date   TEXT NOT NULL,
			close  REAL NOT NULL,
			high   REAL NOT NULL,
			low    REAL NOT NULL,
			volume INTEGER NOT NULL,
			UNIQUE(ticker, date)
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", firstLine(s), err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) Record(ctx context.Context, doc *model.MarketDocument) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO documents
		(id, ticker, generated_at, price, change, pct, records)
		VALUES (?,?,?,?,?,?,?)`,
		uuid.NewString(), doc.Ticker, r.now().Unix(),
		doc.Current.Price, doc.Current.Change, doc.Current.Pct, len(doc.Series),
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO daily_records
		(ticker, date, close, high, low, volume) VALUES (?,?,?,?,?,?)
		ON CONFLICT(ticker, date) DO UPDATE SET
			close = excluded.close, high = excluded.high,
			low = excluded.low, volume = excluded.volume`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range doc.Series {
		if _, err := stmt.ExecContext(ctx, doc.Ticker, rec.Date, rec.Close, rec.High, rec.Low, rec.Volume); err != nil {
			return fmt.Errorf("upsert %s %s: %w", doc.Ticker, rec.Date, err)
		}
	}
	return tx.Commit()
}

// History returns the most recent snapshots for ticker, newest first.
func (r *SQLiteRecorder) History(ctx context.Context, ticker string, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx, `SELECT id, ticker, generated_at, price, change, pct, records
		FROM documents WHERE ticker = ? ORDER BY generated_at DESC, rowid DESC LIMIT ?`,
		strings.ToUpper(ticker), limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var s Snapshot
		var ts int64
		if err := rows.Scan(&s.ID, &s.Ticker, &ts, &s.Price, &s.Change, &s.Pct, &s.Records); err != nil {
			return nil, err
		}
		s.GeneratedAt = time.Unix(ts, 0).UTC()
		out = append(out, s)
	}
	return out, rows.Err()
}

// Records returns the stored daily records for ticker in date order.
func (r *SQLiteRecorder) Records(ctx context.Context, ticker string) ([]model.DailyRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT date, close, high, low, volume
		FROM daily_records WHERE ticker = ? ORDER BY date`, strings.ToUpper(ticker))
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var out []model.DailyRecord
	for rows.Next() {
		var rec model.DailyRecord
		if err := rows.Scan(&rec.Date, &rec.Close, &rec.High, &rec.Low, &rec.Volume); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info("closing sqlite recorder")
	return r.db.Close()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
