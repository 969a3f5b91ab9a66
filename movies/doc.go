// Package movies ingests a tab-separated movie dataset into the vector store
// and builds generation features on top of it.
//
// The Loader parses the source record by record and offloads each accepted
// record to the worker pool, where the registered processors run in order.
// Parsing is strict: the dataset is assumed well-formed, so a malformed line
// aborts the run, while a record without an overview is merely skipped.
// Processor failures are isolated per record and per processor.
//
// StoreProcessor is the standard processor: it flattens a movie into a text
// document and upserts it into the vector store keyed by movie id. Mashup
// retrieves stored movies by title and asks the model to invent a new movie
// blending them.
package movies
