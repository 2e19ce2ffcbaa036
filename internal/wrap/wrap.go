// Package wrap runs the wrapped compiler and records provenance.
//
// A Runner stands in for the compiler: it forwards the argument vector
// untouched (plus plugin-loading flags when configured), passes stdio
// through, measures wall-clock duration, and appends one record to the
// provenance store. Recording is best-effort; the exit code returned to
// the build orchestrator is always the compiler's own.
package wrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/kballard/go-shellquote"

	"github.com/roach88/ccprov/internal/classify"
	"github.com/roach88/ccprov/internal/config"
	"github.com/roach88/ccprov/internal/store"
)

// Clock abstracts wall-clock measurement so tests can step time
// deterministically.
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
}

// systemClock is the production clock.
type systemClock struct{}

func (systemClock) Now() time.Time                  { return time.Now() }
func (systemClock) Since(t time.Time) time.Duration { return time.Since(t) }

// Runner executes one wrapped compiler invocation end to end.
type Runner struct {
	cfg        *config.Config
	classifier *classify.Classifier
	cwd        string
	clock      Clock
	idGen      CorrelationGenerator
	logger     *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithClock replaces the wall clock. Used by tests.
func WithClock(c Clock) Option {
	return func(r *Runner) { r.clock = c }
}

// WithCorrelationGenerator replaces the correlation id source. Used by
// tests for deterministic log output.
func WithCorrelationGenerator(g CorrelationGenerator) Option {
	return func(r *Runner) { r.idGen = g }
}

// WithLogger replaces the default stderr logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// New builds a Runner for invocations issued from cwd under the given
// configuration and toolchain profile.
func New(cfg *config.Config, prof classify.Profile, cwd string, opts ...Option) (*Runner, error) {
	classifier, err := classify.New(cfg.SourceRoot, cwd, prof)
	if err != nil {
		return nil, fmt.Errorf("build classifier: %w", err)
	}

	r := &Runner{
		cfg:        cfg,
		classifier: classifier,
		cwd:        filepath.Clean(cwd),
		clock:      systemClock{},
		idGen:      UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = newLogger(cfg.Verbose)
	}

	return r, nil
}

// newLogger builds the wrapper's stderr logger. Warn by default: a
// healthy build must stay quiet apart from the compiler's own output.
func newLogger(verbose bool) *slog.Logger {
	logLevel := slog.LevelWarn
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	return slog.New(handler)
}

// Run forwards argv to the configured compiler and records the
// invocation. The returned exit code always reflects the compiler's own
// result: recording failures are logged, never propagated.
func (r *Runner) Run(ctx context.Context, argv []string) int {
	logger := r.logger.With("invocation", r.idGen.Generate())

	args := append(r.pluginArgs(), argv...)
	logger.Debug("running compiler", "compiler", r.cfg.Compiler, "argc", len(args))

	start := r.clock.Now()
	runErr := runCommand(ctx, r.cfg.Compiler, args)
	duration := r.clock.Since(start)

	code, signaled := exitStatus(runErr)
	if signaled {
		// A killed invocation leaves no record; the absence is the
		// intended signal for downstream consumers.
		logger.Warn("compiler died by signal, not recording", "exit_code", code)
		return code
	}
	if code == 127 {
		logger.Error("compiler failed to start", "compiler", r.cfg.Compiler, "error", runErr)
	}

	cls := r.classifier.Classify(argv)

	inv := store.Invocation{
		InputFileName:  cls.Input,
		OutputFileName: cls.Output,
		Cwd:            r.relCwd(),
		Command:        shellquote.Join(append([]string{r.cfg.Compiler}, argv...)...),
		ExitCode:       code,
		Duration:       duration.Seconds(),
	}

	if err := r.record(ctx, inv); err != nil {
		logger.Error("recording invocation failed", "error", err)
	} else {
		logger.Debug("recorded invocation",
			"input", cls.Input,
			"output", cls.Output,
			"exit_code", code,
			"duration", duration.Seconds(),
		)
	}

	return code
}

// record opens the store for the duration of one recording unit. The
// store stays closed while the compiler runs so a wrapper never holds
// the database across a long compile.
func (r *Runner) record(ctx context.Context, inv store.Invocation) error {
	st, err := store.Open(r.cfg.Database, store.Options{Durable: r.cfg.Durable})
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			r.logger.Error("error closing database", "error", closeErr)
		}
	}()

	return st.RecordInvocation(ctx, inv)
}

// relCwd expresses the working directory relative to the source root,
// the same relation every recorded path uses.
func (r *Runner) relCwd() string {
	rel, err := filepath.Rel(r.cfg.SourceRoot, r.cwd)
	if err != nil {
		return r.cwd
	}
	return filepath.ToSlash(rel)
}
