// Package store provides SQLite-backed durable storage for compiler
// invocation provenance.
//
// The store holds two tables:
//   - filenames: one row per distinct root-relative source path, giving
//     each path a stable integer identity (the rowid)
//   - gcc_build_commands: one append-only row per wrapped compiler
//     invocation, referencing the input's filename identity
//
// # Write discipline
//
// Every recording unit runs as one exclusive transaction: resolve the
// input's filename identity (insert-if-absent), insert the command
// record, commit. Concurrent wrapper processes coordinate only through
// this transaction; there is no in-process locking. A UNIQUE index on
// filenames.name makes identity creation safe even for callers that
// bypass the transaction discipline.
//
// # Durability
//
// The synchronous pragma is an explicit configuration point. The default
// favors throughput: a crash between commit and flush may lose the most
// recent record, which is acceptable for a best-effort build log. Durable
// mode trades that throughput back for synchronous=FULL.
//
// # Database configuration
//
//   - WAL mode: concurrent reads during writes
//   - _txlock=exclusive: write transactions never interleave
//   - busy_timeout=5000: wait for the writer lock up to 5 seconds
//   - synchronous=OFF (relaxed, default) or FULL (durable)
package store
