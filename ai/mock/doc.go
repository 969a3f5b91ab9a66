// Package mock provides test doubles for the ai package interfaces.
//
// The embedder produces deterministic vectors (same text, same vector), so
// similarity-based assertions are stable across runs. The chat model replays
// scripted replies and records every prompt it receives.
package mock
