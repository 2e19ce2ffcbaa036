// Package classify infers the output object and input source of a compiler
// invocation from its raw argument vector.
//
// The argument vector comes from an external build driver and follows no
// fixed grammar, so classification is a deliberate heuristic, not a parser:
//
//   - Output: the value after the first occurrence of the output flag,
//     symlink-resolved and expressed relative to the source root.
//   - Input: attempted only when the output ends in the object suffix.
//     The first argument containing the output's stem that either follows
//     the compile-only flag (resolved like the output) or carries a
//     recognized source extension (taken verbatim) wins.
//
// Scan order and first-match tie-breaks are behavioral contract: downstream
// analyses assume them, and an unintended substring match (a flag value that
// happens to contain the stem) is accepted silently. Missing output or input
// is a normal result, not an error.
//
// The toolchain literals (flags, suffixes) live in Profile so alternate
// toolchains can be described without touching the scan logic.
package classify
