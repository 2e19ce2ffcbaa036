package store

import (
	"context"
	"database/sql"
	"fmt"
	"path"
	"path/filepath"

	"golang.org/x/text/unicode/norm"
)

// Invocation describes one completed wrapped-compiler run, ready to be
// recorded. Empty InputFileName/OutputFileName mean classification found
// no input/output; they are stored as NULL, never as "" or 0.
type Invocation struct {
	// InputFileName is the classified source path, relative to the
	// source root. Empty when the input could not be determined.
	InputFileName string

	// OutputFileName is the classified output path, relative to the
	// source root. Empty when the output could not be determined.
	OutputFileName string

	// Cwd is the directory the compiler ran from, relative to the
	// source root.
	Cwd string

	// Command is the full shell-quoted argument vector as one string.
	Command string

	// ExitCode is the wrapped compiler's exit status.
	ExitCode int

	// Duration is the wrapped compiler's wall-clock runtime in seconds.
	Duration float64
}

// RecordInvocation executes one recording unit: resolve the input's
// filename identity (if any) and append one build command row, all
// inside a single exclusive transaction.
//
// Either the whole record, and any new filename row it required, becomes
// visible together, or none of it does. Concurrent units from other
// wrapper processes serialize on the transaction lock; a unit that
// cannot acquire the lock within the busy timeout fails here and leaves
// nothing behind.
func (s *Store) RecordInvocation(ctx context.Context, inv Invocation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record invocation: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var inputID sql.NullInt64
	if inv.InputFileName != "" {
		id, err := resolveFilename(ctx, tx, inv.InputFileName)
		if err != nil {
			return fmt.Errorf("record invocation: %w", err)
		}
		inputID = sql.NullInt64{Int64: id, Valid: true}
	}

	var output sql.NullString
	if inv.OutputFileName != "" {
		output = sql.NullString{String: canonicalName(inv.OutputFileName), Valid: true}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO gcc_build_commands
		(filename_input_id, cwd, command, output_file_name, exit_code, duration)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		inputID,
		inv.Cwd,
		inv.Command,
		output,
		inv.ExitCode,
		inv.Duration,
	)
	if err != nil {
		return fmt.Errorf("record invocation: insert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record invocation: commit: %w", err)
	}

	return nil
}

// ResolveFilename returns the stable identity for a root-relative source
// path, creating it on first sight. Two calls with the same name return
// the same id and leave exactly one row; the UNIQUE index on name makes
// this hold even across concurrent processes.
func (s *Store) ResolveFilename(ctx context.Context, name string) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("resolve filename: begin tx: %w", err)
	}
	defer tx.Rollback()

	id, err := resolveFilename(ctx, tx, name)
	if err != nil {
		return 0, fmt.Errorf("resolve filename: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("resolve filename: commit: %w", err)
	}

	return id, nil
}

// resolveFilename is the insert-if-absent identity operation. It tries
// to insert the (name, basename) pair; on conflict the row already
// exists and its id is selected instead. Runs inside the caller's
// transaction so the id it returns is the id the enclosing unit commits
// against.
func resolveFilename(ctx context.Context, tx *sql.Tx, name string) (int64, error) {
	name = canonicalName(name)

	result, err := tx.ExecContext(ctx, `
		INSERT INTO filenames (name, basename)
		VALUES (?, ?)
		ON CONFLICT(name) DO NOTHING
	`, name, path.Base(name))
	if err != nil {
		return 0, fmt.Errorf("insert filename: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("filename rows affected: %w", err)
	}

	if rowsAffected > 0 {
		id, err := result.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("filename last insert id: %w", err)
		}
		return id, nil
	}

	// Conflict - the name is already known, fetch its existing id.
	var id int64
	err = tx.QueryRowContext(ctx, `
		SELECT rowid FROM filenames WHERE name = ?
	`, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("select existing filename: %w", err)
	}
	return id, nil
}

// canonicalName puts a stored path into its canonical form: forward
// slashes and NFC-normalized Unicode. Lookups apply the same form, so a
// path observed under different byte encodings maps to one identity.
func canonicalName(name string) string {
	return norm.NFC.String(filepath.ToSlash(name))
}
