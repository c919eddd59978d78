// Package extract implements the extraction-orchestration engine: the
// per-email streaming request/retry state machine and the parallel batch
// scheduler that fans a collection of emails out across a bounded worker
// pool and collects ordered results.
//
// A Session is the per-email unit of work. It builds the two-message prompt,
// issues the streaming call through a shared ai.ModelClient, and applies a
// bounded retry policy with exponential backoff. Two modes are offered:
// streaming (fragments forwarded as they arrive, for live display) and
// blocking (the drained, concatenated text, for batch use).
//
// ExtractBatch runs many sessions concurrently over a fixed-size worker
// pool. Results always come back in input order with exactly one entry per
// request; a request whose retries are exhausted yields an error-tagged
// entry in place rather than aborting the batch.
package extract
