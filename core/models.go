package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ContentHash computes a deterministic 64-bit digest of text content using
// BLAKE2b. Identical content always produces the same hash, which lets the
// vector store detect unchanged documents and skip re-embedding them.
func ContentHash(text string) uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}

// Movie is one record parsed from the bulk movie dataset.
// A movie without an overview carries nothing to index and is dropped
// before it reaches any processor.
type Movie struct {
	ID          string
	Title       string
	Genres      []string
	ReleaseDate time.Time
	Overview    string
	Credits     []string // optional; empty when the dataset row has none
}

// Document is a unit of indexed content. Once upserted, the vector store
// owns it; re-upserting the same ID overwrites the previous version.
type Document struct {
	ID       string
	Content  string
	Metadata map[string]any
}

// Match is a document returned from a similarity query, with its score.
type Match struct {
	Document Document
	Score    float32
}

// Weather holds current conditions for a city. Temperature is in Celsius.
type Weather struct {
	City        string  `json:"city"`
	Temperature float32 `json:"temperature"`
}
