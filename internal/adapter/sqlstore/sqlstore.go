// Package sqlstore implements the domain repositories on PostgreSQL or MySQL.
package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"strings"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"weighttracker/internal/domain"
)

// Dialect selects the SQL flavour and the database/sql driver.
type Dialect string

// Supported dialects.
const (
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
)

// ErrUnknownDialect is returned by Open for an unsupported dialect.
var ErrUnknownDialect = errors.New("unknown sql dialect")

//go:embed migrations
var migrations embed.FS

// goose keeps its base FS and dialect in package state.
var gooseMu sync.Mutex

// Options tunes the connection pool.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Logger          *zap.Logger
}

// DB wraps a pooled *sqlx.DB and implements the domain repository interfaces.
type DB struct {
	sql     *sqlx.DB
	dialect Dialect
	q       queries
	log     *zap.Logger
}

var _ domain.WeightRepository = (*DB)(nil)
var _ domain.GoalRepository = (*DB)(nil)

// Open connects, pings, and applies the embedded migrations. Callers beyond
// MaxOpenConns wait for a free connection.
func Open(ctx context.Context, dialect Dialect, dsn string, opts Options) (*DB, error) {
	if dialect != Postgres && dialect != MySQL {
		return nil, errors.Wrapf(ErrUnknownDialect, "%q", dialect)
	}
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = 10
	}
	if opts.MaxIdleConns <= 0 {
		opts.MaxIdleConns = opts.MaxOpenConns / 2
	}
	if opts.ConnMaxLifetime <= 0 {
		opts.ConnMaxLifetime = 5 * time.Minute
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	s, err := sqlx.Open(string(dialect), dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open")
	}
	s.SetMaxOpenConns(opts.MaxOpenConns)
	s.SetMaxIdleConns(opts.MaxIdleConns)
	s.SetConnMaxLifetime(opts.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.PingContext(pingCtx); err != nil {
		_ = s.Close()
		return nil, errors.Wrap(err, "ping")
	}

	d := &DB{sql: s, dialect: dialect, q: newQueries(s, dialect), log: opts.Logger}
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// Dialect reports the SQL flavour in use.
func (d *DB) Dialect() Dialect { return d.dialect }

// Close waits for in-flight queries and closes the pool.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate(ctx context.Context) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{d.log.Sugar()})
	if err := goose.SetDialect(string(d.dialect)); err != nil {
		return errors.Wrap(err, "migrate: dialect")
	}
	if err := goose.UpContext(ctx, d.sql.DB, "migrations/"+string(d.dialect)); err != nil {
		return errors.Wrap(err, "migrate")
	}
	return nil
}

type gooseLogger struct {
	*zap.SugaredLogger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.Infof(strings.TrimSpace(format), v...)
}

// queries holds the statements for one dialect, already rebound to the
// driver's placeholder style.
type queries struct {
	insertEntry string
	listEntries string
	updateEntry string
	deleteEntry string
	upsertGoal  string
	getGoal     string
	deleteGoal  string
}

func newQueries(db *sqlx.DB, dialect Dialect) queries {
	q := queries{
		insertEntry: "INSERT INTO weights (user_sub, value, recorded_at) VALUES (?, ?, ?)",
		listEntries: "SELECT id, user_sub, value, recorded_at FROM weights WHERE user_sub = ? ORDER BY recorded_at DESC, id DESC LIMIT ? OFFSET ?",
		// A NULL argument keeps the column, so one statement serves every field combination.
		updateEntry: "UPDATE weights SET value = COALESCE(?, value), recorded_at = COALESCE(?, recorded_at) WHERE id = ? AND user_sub = ?",
		deleteEntry: "DELETE FROM weights WHERE id = ? AND user_sub = ?",
		getGoal:     "SELECT user_sub, value, recorded_at FROM weight_goals WHERE user_sub = ?",
		deleteGoal:  "DELETE FROM weight_goals WHERE user_sub = ?",
	}

	switch dialect {
	case Postgres:
		q.insertEntry += " RETURNING id"
		q.upsertGoal = `INSERT INTO weight_goals (user_sub, value, recorded_at) VALUES (?, ?, ?)
			ON CONFLICT (user_sub) DO UPDATE SET value = EXCLUDED.value, recorded_at = EXCLUDED.recorded_at
			RETURNING (xmax = 0) AS created`
	case MySQL:
		q.upsertGoal = `INSERT INTO weight_goals (user_sub, value, recorded_at) VALUES (?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE value = new.value, recorded_at = new.recorded_at`
	}

	q.insertEntry = db.Rebind(q.insertEntry)
	q.listEntries = db.Rebind(q.listEntries)
	q.updateEntry = db.Rebind(q.updateEntry)
	q.deleteEntry = db.Rebind(q.deleteEntry)
	q.upsertGoal = db.Rebind(q.upsertGoal)
	q.getGoal = db.Rebind(q.getGoal)
	q.deleteGoal = db.Rebind(q.deleteGoal)
	return q
}

func rowsAffected(res sql.Result, err error) (int64, error) {
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
