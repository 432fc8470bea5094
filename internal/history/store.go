// Package history keeps saved circuits and their simulation results in SQLite.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver (pure Go)

	"qrtx/internal/wire"
)

// ErrNotFound is returned by Get for an unknown id.
var ErrNotFound = errors.New("run not found")

// Record is one saved circuit. Result is nil when the circuit was saved before
// it was ever simulated.
type Record struct {
	ID        string                 `json:"id"`
	Label     string                 `json:"label"`
	CreatedAt time.Time              `json:"created_at"`
	NumQubits int                    `json:"num_qubits"`
	Gates     int                    `json:"gates"`
	Request   wire.CircuitRequest    `json:"request"`
	Result    *wire.SimulationResult `json:"result,omitempty"`
	QASM      string                 `json:"qasm"`
}

// Store is a SQLite-backed run history.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// Open opens (creating if needed) the database at path and migrates it.
// Use ":memory:" for a throwaway store.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// A single connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Debug("history opened", slog.String("path", path))
	return &Store{db: db, logger: logger, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save records a circuit, its last result (may be nil) and its QASM export.
func (s *Store) Save(ctx context.Context, label string, req wire.CircuitRequest, res *wire.SimulationResult, qasm string) (*Record, error) {
	reqJSON, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	rec := &Record{
		ID:        uuid.New().String(),
		Label:     label,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
		NumQubits: req.NumQubits,
		Gates:     req.GateCount(),
		Request:   req,
		Result:    res,
		QASM:      qasm,
	}

	var (
		success   sql.NullBool
		resJSON   sql.NullString
		errorText sql.NullString
	)
	if res != nil {
		b, err := json.Marshal(res)
		if err != nil {
			return nil, fmt.Errorf("failed to encode result: %w", err)
		}
		success = sql.NullBool{Bool: res.Success, Valid: true}
		resJSON = sql.NullString{String: string(b), Valid: true}
		errorText = sql.NullString{String: res.ErrorMessage, Valid: res.ErrorMessage != ""}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, label, created_at, num_qubits, gate_count, request_json, success, result_json, error_message, qasm)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Label, rec.CreatedAt.UnixMilli(), rec.NumQubits, rec.Gates,
		string(reqJSON), success, resJSON, errorText, rec.QASM,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save run: %w", err)
	}

	s.logger.Info("run saved", slog.String("id", rec.ID), slog.String("label", label))
	return rec, nil
}

const selectRuns = `SELECT id, label, created_at, num_qubits, gate_count, request_json, result_json, qasm FROM runs`

// List returns up to limit records, newest first. limit <= 0 means no limit.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, selectRuns+` ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return out, nil
}

// Get returns the record with the given id.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, selectRuns+` WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (*Record, error) {
	var (
		rec       Record
		createdAt int64
		reqJSON   string
		resJSON   sql.NullString
	)
	if err := sc.Scan(&rec.ID, &rec.Label, &createdAt, &rec.NumQubits, &rec.Gates, &reqJSON, &resJSON, &rec.QASM); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	rec.CreatedAt = time.UnixMilli(createdAt).UTC()
	if err := json.Unmarshal([]byte(reqJSON), &rec.Request); err != nil {
		return nil, fmt.Errorf("failed to decode request of run %s: %w", rec.ID, err)
	}
	if resJSON.Valid {
		rec.Result = &wire.SimulationResult{}
		if err := json.Unmarshal([]byte(resJSON.String), rec.Result); err != nil {
			return nil, fmt.Errorf("failed to decode result of run %s: %w", rec.ID, err)
		}
	}
	return &rec, nil
}
