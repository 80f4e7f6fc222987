// Package store keeps the turn log of practice sessions in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/mathrun/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// MemoryDSN opens a private in-memory database that disappears with the process.
const MemoryDSN = ":memory:"

// Store wraps SQLite access for session data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
// Pass MemoryDSN for a process-local database.
func Open(dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database path is empty")
	}
	if !strings.HasPrefix(dsn, ":memory:") && !strings.HasPrefix(dsn, "file:") {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// Every pooled connection to ":memory:" would see its own empty database.
	db.SetMaxOpenConns(1)
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT,
			operations TEXT NOT NULL,
			time_per_question_ms INTEGER NOT NULL,
			digits INTEGER NOT NULL,
			correct INTEGER NOT NULL DEFAULT 0,
			incorrect INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS turns (
			session_id TEXT NOT NULL,
			turn INTEGER NOT NULL,
			operation INTEGER NOT NULL,
			num1 INTEGER NOT NULL,
			num2 INTEGER NOT NULL,
			answer INTEGER NOT NULL,
			input TEXT NOT NULL,
			correct INTEGER NOT NULL,
			timed_out INTEGER NOT NULL,
			response_ms INTEGER NOT NULL,
			resolved_at TEXT NOT NULL,
			PRIMARY KEY (session_id, turn)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_turns_operation ON turns(session_id, operation);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// BeginSession stores the settings a session was started with.
func (s *Store) BeginSession(ctx context.Context, info model.SessionInfo) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, started_at, operations, time_per_question_ms, digits)
		 VALUES (?, ?, ?, ?, ?)`,
		info.ID,
		info.StartedAt.Format(time.RFC3339Nano),
		model.FormatOperations(info.Settings.Operations),
		info.Settings.TimePerQuestion.Milliseconds(),
		info.Settings.Digits,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// RecordTurn appends one resolved turn.
func (s *Store) RecordTurn(ctx context.Context, r model.TurnResult) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO turns (session_id, turn, operation, num1, num2, answer, input, correct, timed_out, response_ms, resolved_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.SessionID,
		r.Turn,
		int(r.Question.Operation),
		r.Question.Num1,
		r.Question.Num2,
		r.Question.Answer,
		r.Input,
		r.Correct,
		r.TimedOut,
		r.ResponseTime.Milliseconds(),
		r.ResolvedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert turn: %w", err)
	}
	return nil
}

// EndSession stamps the end time and final score of a session.
func (s *Store) EndSession(ctx context.Context, id string, endedAt time.Time, score model.Score) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET ended_at = ?, correct = ?, incorrect = ? WHERE id = ?`,
		endedAt.Format(time.RFC3339Nano), score.Correct, score.Incorrect, id)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("session %s not found", id)
	}
	return nil
}

// Session is a stored session header.
type Session struct {
	ID        string
	StartedAt time.Time
	EndedAt   *time.Time
	Settings  model.Settings
	Score     model.Score
}

// GetSession loads a session header. It returns nil when the session is unknown.
func (s *Store) GetSession(ctx context.Context, id string) (*Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, ended_at, operations, time_per_question_ms, digits, correct, incorrect
		 FROM sessions WHERE id = ?`, id)
	var (
		sess      Session
		startedAt string
		endedAt   sql.NullString
		ops       string
		timeMs    int64
	)
	err := row.Scan(&sess.ID, &startedAt, &endedAt, &ops, &timeMs, &sess.Settings.Digits, &sess.Score.Correct, &sess.Score.Incorrect)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if sess.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
		return nil, err
	}
	if endedAt.Valid {
		parsed, err := time.Parse(time.RFC3339Nano, endedAt.String)
		if err != nil {
			return nil, err
		}
		sess.EndedAt = &parsed
	}
	if sess.Settings.Operations, err = model.ParseOperations(ops); err != nil {
		return nil, err
	}
	sess.Settings.TimePerQuestion = time.Duration(timeMs) * time.Millisecond
	return &sess, nil
}

// ListTurns returns the turns of a session in play order.
func (s *Store) ListTurns(ctx context.Context, sessionID string) ([]model.TurnResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT turn, operation, num1, num2, answer, input, correct, timed_out, response_ms, resolved_at
		 FROM turns WHERE session_id = ? ORDER BY turn ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.TurnResult
	for rows.Next() {
		var (
			r          model.TurnResult
			op         int
			responseMs int64
			resolvedAt string
		)
		if err := rows.Scan(&r.Turn, &op, &r.Question.Num1, &r.Question.Num2, &r.Question.Answer,
			&r.Input, &r.Correct, &r.TimedOut, &responseMs, &resolvedAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, resolvedAt)
		if err != nil {
			return nil, err
		}
		r.SessionID = sessionID
		r.Question.Operation = model.Operation(op)
		r.ResponseTime = time.Duration(responseMs) * time.Millisecond
		r.ResolvedAt = parsed
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// OperationAggregates sums turns per operation for a session.
func (s *Store) OperationAggregates(ctx context.Context, sessionID string) ([]model.OperationAggregate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT operation,
			SUM(CASE WHEN correct THEN 1 ELSE 0 END) AS correct,
			SUM(CASE WHEN correct THEN 0 ELSE 1 END) AS incorrect,
			SUM(CASE WHEN timed_out THEN 1 ELSE 0 END) AS timed_out,
			SUM(CASE WHEN timed_out THEN 0 ELSE response_ms END) AS response_sum_ms,
			SUM(CASE WHEN timed_out THEN 0 ELSE 1 END) AS response_count
		FROM turns
		WHERE session_id = ?
		GROUP BY operation
		ORDER BY operation ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.OperationAggregate
	for rows.Next() {
		var agg model.OperationAggregate
		var op int
		if err := rows.Scan(&op, &agg.Correct, &agg.Incorrect, &agg.TimedOut, &agg.ResponseSumMs, &agg.ResponseCount); err != nil {
			return nil, err
		}
		agg.Operation = model.Operation(op)
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
