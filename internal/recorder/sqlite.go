package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"TotoSentinel/internal/backtest"
	"TotoSentinel/internal/sweep"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.WithField("path", dbPath).Info("sqlite recorder opened")
	return r, nil
}

// Open returns a SQLiteRecorder for dbPath, or a NoopRecorder when dbPath is empty
// or the database cannot be opened.
func Open(dbPath string) Recorder {
	if dbPath == "" {
		return NewNoopRecorder()
	}
	r, err := NewSQLiteRecorder(dbPath)
	if err != nil {
		log.WithError(err).Warn("sqlite recorder unavailable, run history disabled")
		return NewNoopRecorder()
	}
	return r
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS backtest_runs (
			run_id      TEXT PRIMARY KEY,
			timestamp   INTEGER NOT NULL,
			source      TEXT,
			lookback    INTEGER,
			decay_floor REAL,
			draws       INTEGER,
			wins        INTEGER,
			total_cost  INTEGER,
			total_prize INTEGER,
			net_profit  INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_backtest_ts ON backtest_runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS backtest_wins (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id    TEXT NOT NULL REFERENCES backtest_runs(run_id),
			draw_id   INTEGER,
			draw_date TEXT,
			picks     TEXT,
			tier      INTEGER,
			prize     INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_backtest_wins_run ON backtest_wins(run_id)`,

		`CREATE TABLE IF NOT EXISTS sweep_runs (
			run_id        TEXT PRIMARY KEY,
			timestamp     INTEGER NOT NULL,
			source        TEXT,
			latest_draw   INTEGER,
			cells         INTEGER,
			best_lookback INTEGER,
			best_floor    REAL,
			best_win_rate REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sweep_ts ON sweep_runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS sweep_cells (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      TEXT NOT NULL REFERENCES sweep_runs(run_id),
			lookback    INTEGER,
			decay_floor REAL,
			avg_profit  REAL,
			win_rate    REAL,
			total_draws INTEGER,
			total_wins  INTEGER,
			total_cost  INTEGER,
			total_prize INTEGER,
			net_profit  INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sweep_cells_run ON sweep_cells(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordBacktest(run *BacktestRun) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := run.Result
	id := uuid.NewString()

	tx, err := r.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO backtest_runs
		(run_id, timestamp, source, lookback, decay_floor, draws, wins, total_cost, total_prize, net_profit)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		id, time.Now().Unix(), run.Source, res.Lookback, res.DecayFloor,
		len(res.Records), res.Wins, res.TotalCost, res.TotalPrize, res.NetProfit(),
	)
	if err != nil {
		return "", fmt.Errorf("insert backtest run: %w", err)
	}

	for _, w := range backtest.Winners(res) {
		_, err = tx.Exec(`INSERT INTO backtest_wins
			(run_id, draw_id, draw_date, picks, tier, prize)
			VALUES (?,?,?,?,?,?)`,
			id, w.DrawID, w.Date.Format("2006-01-02"), fmt.Sprint([]int(w.Picks)), int(w.Tier), w.Prize,
		)
		if err != nil {
			return "", fmt.Errorf("insert backtest win: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

func (r *SQLiteRecorder) RecordSweep(run *SweepRun) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	best, _ := sweep.Best(run.Records, sweep.MetricWinRate)

	tx, err := r.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO sweep_runs
		(run_id, timestamp, source, latest_draw, cells, best_lookback, best_floor, best_win_rate)
		VALUES (?,?,?,?,?,?,?,?)`,
		id, time.Now().Unix(), run.Source, run.LatestDraw, len(run.Records),
		best.Lookback, best.DecayFloor, best.WinRate,
	)
	if err != nil {
		return "", fmt.Errorf("insert sweep run: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO sweep_cells
		(run_id, lookback, decay_floor, avg_profit, win_rate, total_draws, total_wins, total_cost, total_prize, net_profit)
		VALUES (?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return "", fmt.Errorf("prepare sweep cell: %w", err)
	}
	defer stmt.Close()
	for _, c := range run.Records {
		if _, err := stmt.Exec(id, c.Lookback, c.DecayFloor, c.AvgProfit, c.WinRate,
			c.TotalDraws, c.TotalWins, c.TotalCost, c.TotalPrize, c.NetProfit); err != nil {
			return "", fmt.Errorf("insert sweep cell: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// RecentSweeps returns up to limit sweep headers, newest first.
func (r *SQLiteRecorder) RecentSweeps(limit int) ([]SweepSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT run_id, timestamp, source, latest_draw, cells,
		best_lookback, best_floor, best_win_rate
		FROM sweep_runs ORDER BY timestamp DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query sweep runs: %w", err)
	}
	defer rows.Close()

	var out []SweepSummary
	for rows.Next() {
		var s SweepSummary
		var ts int64
		if err := rows.Scan(&s.RunID, &ts, &s.Source, &s.LatestDraw, &s.Cells,
			&s.BestLookback, &s.BestFloor, &s.BestWinRate); err != nil {
			return nil, fmt.Errorf("scan sweep run: %w", err)
		}
		s.Timestamp = time.Unix(ts, 0)
		out = append(out, s)
	}
	return out, rows.Err()
}

// LastSweepDraw is the latest draw id covered by any recorded sweep, 0 when none.
func (r *SQLiteRecorder) LastSweepDraw() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var id sql.NullInt64
	if err := r.db.QueryRow(`SELECT MAX(latest_draw) FROM sweep_runs`).Scan(&id); err != nil {
		return 0, fmt.Errorf("query last sweep: %w", err)
	}
	return int(id.Int64), nil
}

func (r *SQLiteRecorder) Close() error {
	log.Info("closing sqlite recorder")
	return r.db.Close()
}
