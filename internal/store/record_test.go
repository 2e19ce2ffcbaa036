package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
)

func TestRecordInvocation_InsertsOneRow(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	inv := Invocation{
		InputFileName:  "src/main.cc",
		OutputFileName: "src/main.o",
		Cwd:            "src",
		Command:        "-c main.cc -o main.o",
		ExitCode:       0,
		Duration:       1.5,
	}

	if err := s.RecordInvocation(ctx, inv); err != nil {
		t.Fatalf("RecordInvocation() failed: %v", err)
	}

	var cwd, command, output string
	var exitCode int
	var duration float64
	err := s.db.QueryRow(`
		SELECT cwd, command, output_file_name, exit_code, duration
		FROM gcc_build_commands
	`).Scan(&cwd, &command, &output, &exitCode, &duration)
	if err != nil {
		t.Fatalf("failed to read back record: %v", err)
	}

	if cwd != "src" {
		t.Errorf("cwd = %q, want %q", cwd, "src")
	}
	if command != "-c main.cc -o main.o" {
		t.Errorf("command = %q, want %q", command, "-c main.cc -o main.o")
	}
	if output != "src/main.o" {
		t.Errorf("output_file_name = %q, want %q", output, "src/main.o")
	}
	if exitCode != 0 {
		t.Errorf("exit_code = %d, want 0", exitCode)
	}
	if duration != 1.5 {
		t.Errorf("duration = %v, want 1.5", duration)
	}
}

func TestRecordInvocation_SameInputReusesIdentity(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := s.RecordInvocation(ctx, createTestInvocation("src/main.cc")); err != nil {
			t.Fatalf("RecordInvocation() iteration %d failed: %v", i, err)
		}
	}

	var filenameCount int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM filenames").Scan(&filenameCount); err != nil {
		t.Fatalf("failed to count filenames: %v", err)
	}
	if filenameCount != 1 {
		t.Errorf("filenames count = %d, want 1", filenameCount)
	}

	var distinctIDs int
	err := s.db.QueryRow(`
		SELECT COUNT(DISTINCT filename_input_id) FROM gcc_build_commands
	`).Scan(&distinctIDs)
	if err != nil {
		t.Fatalf("failed to count distinct input ids: %v", err)
	}
	if distinctIDs != 1 {
		t.Errorf("distinct filename_input_id count = %d, want 1", distinctIDs)
	}
}

func TestRecordInvocation_DistinctInputsGetDistinctIdentities(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	inputs := []string{"src/a.cc", "src/b.cc", "lib/a.cc"}
	for _, input := range inputs {
		if err := s.RecordInvocation(ctx, createTestInvocation(input)); err != nil {
			t.Fatalf("RecordInvocation(%q) failed: %v", input, err)
		}
	}

	var filenameCount int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM filenames").Scan(&filenameCount); err != nil {
		t.Fatalf("failed to count filenames: %v", err)
	}
	if filenameCount != len(inputs) {
		t.Errorf("filenames count = %d, want %d", filenameCount, len(inputs))
	}
}

func TestRecordInvocation_AbsentInputStoredAsNull(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	inv := Invocation{
		InputFileName:  "",
		OutputFileName: "",
		Cwd:            ".",
		Command:        "--version",
		ExitCode:       0,
		Duration:       0.01,
	}
	if err := s.RecordInvocation(ctx, inv); err != nil {
		t.Fatalf("RecordInvocation() failed: %v", err)
	}

	var inputID sql.NullInt64
	var output sql.NullString
	err := s.db.QueryRow(`
		SELECT filename_input_id, output_file_name FROM gcc_build_commands
	`).Scan(&inputID, &output)
	if err != nil {
		t.Fatalf("failed to read back record: %v", err)
	}

	if inputID.Valid {
		t.Errorf("filename_input_id = %v, want NULL", inputID.Int64)
	}
	if output.Valid {
		t.Errorf("output_file_name = %q, want NULL", output.String)
	}

	// No input means no identity row either
	var filenameCount int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM filenames").Scan(&filenameCount); err != nil {
		t.Fatalf("failed to count filenames: %v", err)
	}
	if filenameCount != 0 {
		t.Errorf("filenames count = %d, want 0", filenameCount)
	}
}

func TestRecordInvocation_FailedCompileStillRecorded(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	inv := createTestInvocation("src/broken.cc")
	inv.ExitCode = 1
	if err := s.RecordInvocation(ctx, inv); err != nil {
		t.Fatalf("RecordInvocation() failed: %v", err)
	}

	var exitCode int
	if err := s.db.QueryRow("SELECT exit_code FROM gcc_build_commands").Scan(&exitCode); err != nil {
		t.Fatalf("failed to read back record: %v", err)
	}
	if exitCode != 1 {
		t.Errorf("exit_code = %d, want 1", exitCode)
	}
}

func TestRecordInvocation_SequentialUnits(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	const n = 10
	for i := 0; i < n; i++ {
		inv := createTestInvocation(fmt.Sprintf("src/file%d.cc", i))
		inv.Duration = float64(i)
		if err := s.RecordInvocation(ctx, inv); err != nil {
			t.Fatalf("RecordInvocation() iteration %d failed: %v", i, err)
		}
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM gcc_build_commands").Scan(&count); err != nil {
		t.Fatalf("failed to count records: %v", err)
	}
	if count != n {
		t.Errorf("record count = %d, want %d", count, n)
	}
}

func TestRecordInvocation_BasenameDerived(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if err := s.RecordInvocation(ctx, createTestInvocation("deep/nested/dir/util.cc")); err != nil {
		t.Fatalf("RecordInvocation() failed: %v", err)
	}

	var basename string
	err := s.db.QueryRow("SELECT basename FROM filenames WHERE name = ?", "deep/nested/dir/util.cc").Scan(&basename)
	if err != nil {
		t.Fatalf("failed to read filename row: %v", err)
	}
	if basename != "util.cc" {
		t.Errorf("basename = %q, want %q", basename, "util.cc")
	}
}

func TestRecordInvocation_UnicodeNameNormalized(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	// Same path, decomposed and precomposed. Both must map to one
	// identity row stored in NFC form.
	nfd := "src/café.cc" // e + combining acute
	nfc := "src/café.cc"  // precomposed é

	if err := s.RecordInvocation(ctx, createTestInvocation(nfd)); err != nil {
		t.Fatalf("RecordInvocation(NFD) failed: %v", err)
	}
	if err := s.RecordInvocation(ctx, createTestInvocation(nfc)); err != nil {
		t.Fatalf("RecordInvocation(NFC) failed: %v", err)
	}

	var filenameCount int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM filenames").Scan(&filenameCount); err != nil {
		t.Fatalf("failed to count filenames: %v", err)
	}
	if filenameCount != 1 {
		t.Errorf("filenames count = %d, want 1", filenameCount)
	}

	var stored string
	if err := s.db.QueryRow("SELECT name FROM filenames").Scan(&stored); err != nil {
		t.Fatalf("failed to read filename row: %v", err)
	}
	if stored != nfc {
		t.Errorf("stored name = %q, want NFC form %q", stored, nfc)
	}
}

func TestRecordInvocation_CanceledContext(t *testing.T) {
	s := createTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.RecordInvocation(ctx, createTestInvocation("src/main.cc"))
	if err == nil {
		t.Error("expected error recording with canceled context, got nil")
	}

	// Nothing was written
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM gcc_build_commands").Scan(&count); err != nil {
		t.Fatalf("failed to count records: %v", err)
	}
	if count != 0 {
		t.Errorf("record count = %d, want 0 after canceled unit", count)
	}
}

func TestResolveFilename_CreatesOnFirstSight(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	id, err := s.ResolveFilename(ctx, "src/main.cc")
	if err != nil {
		t.Fatalf("ResolveFilename() failed: %v", err)
	}
	if id <= 0 {
		t.Errorf("id = %d, want positive", id)
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM filenames").Scan(&count); err != nil {
		t.Fatalf("failed to count filenames: %v", err)
	}
	if count != 1 {
		t.Errorf("filenames count = %d, want 1", count)
	}
}

func TestResolveFilename_StableAcrossCalls(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first, err := s.ResolveFilename(ctx, "src/main.cc")
	if err != nil {
		t.Fatalf("first ResolveFilename() failed: %v", err)
	}

	second, err := s.ResolveFilename(ctx, "src/main.cc")
	if err != nil {
		t.Fatalf("second ResolveFilename() failed: %v", err)
	}

	if first != second {
		t.Errorf("ids differ across calls: %d vs %d", first, second)
	}
}

func TestResolveFilename_StableAcrossHandles(t *testing.T) {
	// Two stores on the same file, as two wrapper processes would be.
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	s1, err := Open(path, Options{})
	if err != nil {
		t.Fatalf("first Open() failed: %v", err)
	}
	defer s1.Close()

	s2, err := Open(path, Options{})
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer s2.Close()

	id1, err := s1.ResolveFilename(ctx, "src/main.cc")
	if err != nil {
		t.Fatalf("ResolveFilename() on first handle failed: %v", err)
	}
	id2, err := s2.ResolveFilename(ctx, "src/main.cc")
	if err != nil {
		t.Fatalf("ResolveFilename() on second handle failed: %v", err)
	}

	if id1 != id2 {
		t.Errorf("ids differ across handles: %d vs %d", id1, id2)
	}

	var count int
	if err := s1.db.QueryRow("SELECT COUNT(*) FROM filenames").Scan(&count); err != nil {
		t.Fatalf("failed to count filenames: %v", err)
	}
	if count != 1 {
		t.Errorf("filenames count = %d, want 1", count)
	}
}

func TestRecordInvocation_ConcurrentUnits(t *testing.T) {
	// Concurrent units racing on the same new input. The exclusive
	// transaction plus the unique name index must leave exactly one
	// identity row and one record per unit.
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	const workers = 4
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := Open(path, Options{})
			if err != nil {
				errs <- fmt.Errorf("open: %w", err)
				return
			}
			defer s.Close()
			if err := s.RecordInvocation(ctx, createTestInvocation("src/hot.cc")); err != nil {
				errs <- fmt.Errorf("record: %w", err)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent unit failed: %v", err)
	}

	s, err := Open(path, Options{})
	if err != nil {
		t.Fatalf("Open() for verification failed: %v", err)
	}
	defer s.Close()

	var filenameCount, recordCount int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM filenames").Scan(&filenameCount); err != nil {
		t.Fatalf("failed to count filenames: %v", err)
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM gcc_build_commands").Scan(&recordCount); err != nil {
		t.Fatalf("failed to count records: %v", err)
	}

	if filenameCount != 1 {
		t.Errorf("filenames count = %d, want 1", filenameCount)
	}
	if recordCount != workers {
		t.Errorf("record count = %d, want %d", recordCount, workers)
	}
}
