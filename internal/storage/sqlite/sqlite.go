package sqlite

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/prodplan/internal/observability"
	"github.com/example/prodplan/internal/storage"
)

// SQLiteStorage implements the Storage interface using SQLite.
//
// Two handles are kept: reads use deferred transactions, writes use
// BEGIN IMMEDIATE so concurrent writers queue on the write lock instead of
// failing at commit time.
type SQLiteStorage struct {
	readDB  *sql.DB
	writeDB *sql.DB
	metrics *observability.Metrics
}

// New creates a new SQLite storage instance.
func New(path string) (*SQLiteStorage, error) {
	return NewWithMetrics(path, observability.NewMetrics())
}

// NewWithMetrics creates a new SQLite storage instance that records
// transaction timings into the given metrics.
func NewWithMetrics(path string, metrics *observability.Metrics) (*SQLiteStorage, error) {
	readDB, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=ON")
	if err != nil {
		return nil, err
	}

	writeDB, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=ON&_txlock=immediate")
	if err != nil {
		readDB.Close()
		return nil, err
	}

	// SQLite works best with a single connection per handle for writes
	writeDB.SetMaxOpenConns(1)
	writeDB.SetMaxIdleConns(1)

	return &SQLiteStorage{readDB: readDB, writeDB: writeDB, metrics: metrics}, nil
}

// Begin starts a read transaction.
func (s *SQLiteStorage) Begin(ctx context.Context) (storage.UnitOfWork, error) {
	return s.begin(ctx, s.readDB)
}

// BeginImmediate starts a write transaction, acquiring the write lock up front.
func (s *SQLiteStorage) BeginImmediate(ctx context.Context) (storage.UnitOfWork, error) {
	return s.begin(ctx, s.writeDB)
}

func (s *SQLiteStorage) begin(ctx context.Context, db *sql.DB) (storage.UnitOfWork, error) {
	start := time.Now()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	s.metrics.DBTransactionBegin().Observe(time.Since(start))
	s.metrics.DBActiveTransactions().Inc()
	return newUnitOfWork(tx, s.metrics), nil
}

// Close closes the database connections.
func (s *SQLiteStorage) Close() error {
	if err := s.writeDB.Close(); err != nil {
		s.readDB.Close()
		return err
	}
	return s.readDB.Close()
}

// Migrate runs database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	return Migrate(ctx, s.writeDB)
}

// unitOfWork implements the UnitOfWork interface.
type unitOfWork struct {
	tx          *sql.Tx
	metrics     *observability.Metrics
	done        bool
	plans       *planRepo
	adjustments *adjustmentRepo
}

func newUnitOfWork(tx *sql.Tx, metrics *observability.Metrics) *unitOfWork {
	return &unitOfWork{
		tx:          tx,
		metrics:     metrics,
		plans:       &planRepo{tx: tx},
		adjustments: &adjustmentRepo{tx: tx},
	}
}

func (u *unitOfWork) Plans() storage.PlanRepository {
	return u.plans
}

func (u *unitOfWork) Adjustments() storage.AdjustmentRepository {
	return u.adjustments
}

func (u *unitOfWork) Commit() error {
	start := time.Now()
	err := u.tx.Commit()
	u.metrics.DBTransactionCommit().Observe(time.Since(start))
	u.finish()
	return err
}

func (u *unitOfWork) Rollback() error {
	err := u.tx.Rollback()
	u.finish()
	return err
}

// finish decrements the active transaction gauge exactly once, so the usual
// "defer Rollback after Commit" pattern doesn't double count.
func (u *unitOfWork) finish() {
	if u.done {
		return
	}
	u.done = true
	u.metrics.DBActiveTransactions().Dec()
}
