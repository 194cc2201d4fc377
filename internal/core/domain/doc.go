// Package domain defines the core types for ragbot.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - TextBlock: A unit of text extracted from one source file
//   - IndexSnapshot: The persisted form of the semantic index
//   - Directive: The persona-prefixed system instruction
//   - Answer: The result of one retrieval-augmented query
//   - PipelineConfig: The single configuration value threaded through the pipeline
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
