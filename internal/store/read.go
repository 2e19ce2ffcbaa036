package store

import (
	"context"
	"database/sql"
	"fmt"
	"path"
	"sort"

	"golang.org/x/text/unicode/norm"
)

// BuildCommand is one recorded compiler invocation as read back from
// the log. InputFileName and OutputFileName are "" where the stored
// row holds NULL.
type BuildCommand struct {
	ID             int64
	InputFileName  string
	OutputFileName string
	Cwd            string
	Command        string
	ExitCode       int
	Duration       float64
}

// DirectoryDuration aggregates recorded compile time under one source
// directory. Dir is "." for files at the source root.
type DirectoryDuration struct {
	Dir      string
	Duration float64
	Count    int
}

// CommandsForName returns every recorded invocation whose input resolved
// to the given root-relative path. Results are ordered by insertion
// (rowid ASC) so repeated queries replay the log in recording order.
//
// Returns an empty slice (not nil) when the name is unknown.
func (s *Store) CommandsForName(ctx context.Context, name string) ([]BuildCommand, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.rowid, f.name, b.cwd, b.command, b.output_file_name, b.exit_code, b.duration
		FROM gcc_build_commands b
		JOIN filenames f ON b.filename_input_id = f.rowid
		WHERE f.name = ?
		ORDER BY b.rowid ASC
	`, canonicalName(name))
	if err != nil {
		return nil, fmt.Errorf("query commands for name: %w", err)
	}
	defer rows.Close()

	return collectBuildCommands(rows)
}

// CommandsForBasename returns every recorded invocation whose input's
// bare file name matches, regardless of directory. Results are ordered
// by input path then insertion so same-named files group together.
//
// Returns an empty slice (not nil) when no input matches.
func (s *Store) CommandsForBasename(ctx context.Context, basename string) ([]BuildCommand, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.rowid, f.name, b.cwd, b.command, b.output_file_name, b.exit_code, b.duration
		FROM gcc_build_commands b
		JOIN filenames f ON b.filename_input_id = f.rowid
		WHERE f.basename = ?
		ORDER BY f.name ASC, b.rowid ASC
	`, norm.NFC.String(basename))
	if err != nil {
		return nil, fmt.Errorf("query commands for basename: %w", err)
	}
	defer rows.Close()

	return collectBuildCommands(rows)
}

// Slowest returns the n longest-running recorded invocations, longest
// first, ties broken by rowid ASC so the result is deterministic.
// Records with no classified input are included with InputFileName "".
//
// Returns an empty slice (not nil) when the log is empty.
func (s *Store) Slowest(ctx context.Context, n int) ([]BuildCommand, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.rowid, f.name, b.cwd, b.command, b.output_file_name, b.exit_code, b.duration
		FROM gcc_build_commands b
		LEFT JOIN filenames f ON b.filename_input_id = f.rowid
		ORDER BY b.duration DESC, b.rowid ASC
		LIMIT ?
	`, n)
	if err != nil {
		return nil, fmt.Errorf("query slowest commands: %w", err)
	}
	defer rows.Close()

	return collectBuildCommands(rows)
}

// DirectoryDurations sums recorded compile time per source directory.
// Only invocations with a resolved input contribute; a record with no
// input has no directory to charge. Results are sorted by directory
// name for deterministic output.
//
// Returns an empty slice (not nil) when the log is empty.
func (s *Store) DirectoryDurations(ctx context.Context) ([]DirectoryDuration, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT f.name, SUM(b.duration), COUNT(*)
		FROM gcc_build_commands b
		JOIN filenames f ON b.filename_input_id = f.rowid
		GROUP BY f.name
	`)
	if err != nil {
		return nil, fmt.Errorf("query directory durations: %w", err)
	}
	defer rows.Close()

	// Fold per-file sums into per-directory sums. path.Dir on the
	// slash-form stored name yields "." for root-level files.
	byDir := make(map[string]*DirectoryDuration)
	for rows.Next() {
		var name string
		var duration float64
		var count int
		if err := rows.Scan(&name, &duration, &count); err != nil {
			return nil, fmt.Errorf("scan directory duration: %w", err)
		}

		dir := path.Dir(name)
		agg, ok := byDir[dir]
		if !ok {
			agg = &DirectoryDuration{Dir: dir}
			byDir[dir] = agg
		}
		agg.Duration += duration
		agg.Count += count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate directory durations: %w", err)
	}

	durations := make([]DirectoryDuration, 0, len(byDir))
	for _, agg := range byDir {
		durations = append(durations, *agg)
	}
	sort.Slice(durations, func(i, j int) bool {
		return durations[i].Dir < durations[j].Dir
	})

	return durations, nil
}

// CountCommands returns the total number of recorded invocations.
func (s *Store) CountCommands(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM gcc_build_commands
	`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count commands: %w", err)
	}
	return count, nil
}

// CountFilenames returns the number of distinct filename identities.
func (s *Store) CountFilenames(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM filenames
	`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count filenames: %w", err)
	}
	return count, nil
}

// collectBuildCommands drains rows into a slice, mapping NULL input and
// output to "".
func collectBuildCommands(rows *sql.Rows) ([]BuildCommand, error) {
	var commands []BuildCommand
	for rows.Next() {
		cmd, err := scanBuildCommand(rows)
		if err != nil {
			return nil, err
		}
		commands = append(commands, cmd)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate build commands: %w", err)
	}

	// Return empty slice instead of nil
	if commands == nil {
		commands = []BuildCommand{}
	}

	return commands, nil
}

// scanBuildCommand scans one joined row into a BuildCommand struct.
func scanBuildCommand(rows *sql.Rows) (BuildCommand, error) {
	var cmd BuildCommand
	var input, output sql.NullString

	if err := rows.Scan(
		&cmd.ID, &input, &cmd.Cwd, &cmd.Command, &output, &cmd.ExitCode, &cmd.Duration,
	); err != nil {
		return BuildCommand{}, fmt.Errorf("scan build command: %w", err)
	}

	cmd.InputFileName = input.String
	cmd.OutputFileName = output.String

	return cmd, nil
}
