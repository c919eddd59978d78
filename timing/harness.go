// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package timing

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/mailextract/extract"
)

// DefaultLevels is the standard concurrency sweep.
var DefaultLevels = []int{2, 4, 8}

// Harness measures wall-clock durations of sequential versus batched
// extraction across a sweep of concurrency levels. It is purely a
// measurement instrument: failures during a run propagate rather than being
// retried at this layer.
type Harness struct {
	session *extract.Session
	levels  []int
	now     func() time.Time
	logger  *slog.Logger
}

// Option configures a Harness.
type Option func(*Harness)

// WithLevels sets the concurrency levels to sweep.
// Default is DefaultLevels (2, 4, 8).
func WithLevels(levels []int) Option {
	return func(h *Harness) {
		if len(levels) > 0 {
			h.levels = levels
		}
	}
}

// WithClock sets the time source, injectable for tests.
// Default is time.Now.
func WithClock(now func() time.Time) Option {
	return func(h *Harness) {
		if now != nil {
			h.now = now
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHarness creates a timing harness driving the given session.
func NewHarness(session *extract.Session, opts ...Option) (*Harness, error) {
	if session == nil {
		return nil, ErrSessionRequired
	}

	h := &Harness{
		session: session,
		levels:  DefaultLevels,
		now:     time.Now,
		logger:  slog.Default().With("component", "timing-harness"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Run executes the sweep and returns the report. For each level n it times
// (a) the first n requests run sequentially in blocking mode and (b) the
// same requests run through the batch scheduler with n workers. When fewer
// than n requests are available the run covers what exists; the report
// block still carries the level label.
func (h *Harness) Run(ctx context.Context, reqs []extract.Request) (string, error) {
	var report strings.Builder

	for _, level := range h.levels {
		h.logger.Debug("measuring times", "smt", level)
		fmt.Fprintf(&report, "SMT = %d\n", level)

		n := level
		if n > len(reqs) {
			n = len(reqs)
		}
		subset := reqs[:n]

		start := h.now()
		for _, req := range subset {
			if _, err := h.session.Extract(ctx, req); err != nil {
				return "", fmt.Errorf("sequential run failed at level %d: %w", level, err)
			}
		}
		nonBatch := h.now().Sub(start)
		fmt.Fprintf(&report, "Non Batch: %s\n", formatSeconds(nonBatch))
		h.logger.Debug("non-batch duration", "smt", level, "duration", formatSeconds(nonBatch))

		start = h.now()
		if _, err := h.session.ExtractBatch(ctx, subset, level, nil); err != nil {
			return "", fmt.Errorf("batch run failed at level %d: %w", level, err)
		}
		batch := h.now().Sub(start)
		fmt.Fprintf(&report, "Batch: %s\n\n", formatSeconds(batch))
		h.logger.Debug("batch duration", "smt", level, "duration", formatSeconds(batch))
	}

	return report.String(), nil
}

// WriteReport executes the sweep and persists the report as plain text to
// the given path, returning the report as well.
func (h *Harness) WriteReport(ctx context.Context, reqs []extract.Request, path string) (string, error) {
	report, err := h.Run(ctx, reqs)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(report), 0o644); err != nil {
		return "", fmt.Errorf("failed to write timing report: %w", err)
	}
	return report, nil
}

// formatSeconds renders a duration as whole minutes and seconds,
// e.g. "1min 5sec".
func formatSeconds(d time.Duration) string {
	secs := int(d.Seconds())
	return fmt.Sprintf("%dmin %dsec", secs/60, secs%60)
}
