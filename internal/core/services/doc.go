// Package services holds the pipeline components: instruction loading,
// document ingestion, the corpus cache, the index manager, the retrieval
// chain and the query session. They depend only on the driven ports.
package services
