// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML (or YAML) configuration storage
//   - InstructionStore: the instruction document read into the system directive
//   - CorpusStore: the corpus snapshot, replaced atomically on every write
package file
