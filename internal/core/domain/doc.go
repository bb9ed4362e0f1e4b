// Package domain defines the core business entities for vaultscribe.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ChangeEvent: A raw filesystem change notification
//   - SectionSpec: How an analysis block is merged into a note
//   - MergeResult: Outcome of a section merge
//   - ProcessResult: Terminal outcome of one processing run
//   - Settings: Immutable runtime configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
