// Package mock provides test doubles for the ai package interfaces.
//
// The mocks support behavior injection via function fields and record call
// statistics, enabling unit tests of the extraction engine without a live
// model endpoint: failure injection, latency shaping, and concurrency
// measurement.
package mock
