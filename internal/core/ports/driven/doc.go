// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - Extractor: Turns one source file into text blocks
//   - InstructionStore: Reads the instruction file
//   - CorpusStore: Persists the corpus snapshot
//   - IndexStore: Persists and loads the semantic index
//   - VectorIndex: Nearest-neighbour search over the loaded index
//   - EmbeddingService: Generates vector embeddings
//   - LLMService: Generates answers from chat messages
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven
