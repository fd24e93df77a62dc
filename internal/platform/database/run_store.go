package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/phrazzld/descbench/internal/platform/logger"
	"github.com/phrazzld/descbench/internal/store"
)

const pgUniqueViolationCode = "23505"

// timeLayout is fixed width so that text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const runColumns = `id, experiment_name, descriptor_name, descriptor_type, dataset_path,
	pooling_strategy, match_threshold, max_features, config_hash, parameters, created_at`

// RunStore implements store.RunStore for sqlite and postgres.
type RunStore struct {
	db      store.DBTX
	dialect Dialect
	logger  *slog.Logger
}

// NewRunStore creates a RunStore over db, which may be a connection or a
// transaction. If logger is nil, a default logger will be used.
func NewRunStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *RunStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RunStore{
		db:      db,
		dialect: dialect,
		logger:  logger.With(slog.String("component", "run_store")),
	}
}

var _ store.RunStore = (*RunStore)(nil)

// WithTx implements store.RunStore.WithTx.
func (s *RunStore) WithTx(tx *sql.Tx) store.RunStore {
	return &RunStore{db: tx, dialect: s.dialect, logger: s.logger}
}

// Record implements store.RunStore.Record.
func (s *RunStore) Record(ctx context.Context, run *store.Run) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := run.Validate(); err != nil {
		log.WarnContext(ctx, "run validation failed during record",
			slog.String("error", err.Error()),
			slog.String("descriptor", run.DescriptorName))
		return err
	}

	params := run.Parameters
	if len(params) == 0 {
		params = json.RawMessage("{}")
	}

	query := s.rebind(`INSERT INTO experiment_runs (` + runColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := s.db.ExecContext(ctx, query,
		run.ID.String(),
		run.ExperimentName,
		run.DescriptorName,
		run.DescriptorType,
		run.DatasetPath,
		run.PoolingStrategy,
		run.MatchThreshold,
		run.MaxFeatures,
		run.ConfigHash,
		string(params),
		run.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.NewStoreError("run", "record", "run id already stored",
				fmt.Errorf("%w: %s", store.ErrDuplicate, run.ID))
		}
		log.ErrorContext(ctx, "failed to record run",
			slog.String("error", err.Error()),
			slog.String("run_id", run.ID.String()))
		return store.NewStoreError("run", "record", "insert failed", err)
	}

	log.InfoContext(ctx, "run recorded",
		slog.String("run_id", run.ID.String()),
		slog.String("experiment", run.ExperimentName),
		slog.String("descriptor", run.DescriptorName))
	return nil
}

// Get implements store.RunStore.Get.
func (s *RunStore) Get(ctx context.Context, id uuid.UUID) (*store.Run, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := s.rebind(`SELECT ` + runColumns + ` FROM experiment_runs WHERE id = ?`)
	run, err := scanRun(s.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.DebugContext(ctx, "run not found", slog.String("run_id", id.String()))
			return nil, store.ErrRunNotFound
		}
		return nil, store.NewStoreError("run", "get", "query failed", err)
	}
	return run, nil
}

// ListByExperiment implements store.RunStore.ListByExperiment.
func (s *RunStore) ListByExperiment(ctx context.Context, experimentName string) ([]*store.Run, error) {
	query := s.rebind(`SELECT ` + runColumns + ` FROM experiment_runs
		WHERE experiment_name = ? ORDER BY created_at, id`)
	rows, err := s.db.QueryContext(ctx, query, experimentName)
	if err != nil {
		return nil, store.NewStoreError("run", "list", "query failed", err)
	}
	defer func() { _ = rows.Close() }()

	runs := []*store.Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, store.NewStoreError("run", "list", "scan failed", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("run", "list", "iteration failed", err)
	}
	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*store.Run, error) {
	var (
		run       store.Run
		id        string
		params    string
		createdAt string
	)
	err := row.Scan(
		&id,
		&run.ExperimentName,
		&run.DescriptorName,
		&run.DescriptorType,
		&run.DatasetPath,
		&run.PoolingStrategy,
		&run.MatchThreshold,
		&run.MaxFeatures,
		&run.ConfigHash,
		&params,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if run.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse run id %q: %w", id, err)
	}
	if run.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	run.Parameters = json.RawMessage(params)
	return &run, nil
}

// rebind rewrites ? placeholders to $N for postgres.
func (s *RunStore) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolationCode
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return false
}
