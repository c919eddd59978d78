// Package timing compares sequential and batched extraction throughput
// across a sweep of concurrency levels and renders a plain-text report.
//
// Each sweep level produces one report block:
//
//	SMT = <n>
//	Non Batch: <m>min <s>sec
//	Batch: <m>min <s>sec
//
// The harness exercises the same scheduling contract as production batch
// callers; it adds no retry or error handling of its own.
package timing
