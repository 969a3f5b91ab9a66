// Package vectorstore defines the embedding-index contract used by the movie
// pipeline and the retrieval-augmented endpoints.
//
// The Store interface treats "embed text, store it" as a single operation:
// implementations own both the embedding call and the persistence of the
// resulting vector. The Badger-backed implementation lives in
// vectorstore/badger.
package vectorstore
