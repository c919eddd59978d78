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


package extract

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
)

// Result is one batch entry. Index is the request's origin position in the
// input; Text is the concatenated model output, or a human-readable error
// description when the request's retries were exhausted. Text is not
// guaranteed to be valid JSON; parsing is the consumer's concern.
type Result struct {
	Index int
	Text  string
}

// ProgressFunc observes batch completion. It is invoked once per finished
// request with the advancing completed count and the fixed total. Calls
// arrive in completion order, which is unrelated to input order.
type ProgressFunc func(completed, total int)

// ExtractBatch runs one blocking extraction per request over a worker pool
// of the given size, so at most workers requests are in flight at any
// instant. Results come back in input order with exactly one entry per
// request: a request whose retries are exhausted yields an "Error: ..."
// entry in place and never aborts or cancels its siblings. There is no
// batch-level timeout; per-request deadlines live in the model client.
func (s *Session) ExtractBatch(ctx context.Context, reqs []Request, workers int, progress ProgressFunc) ([]Result, error) {
	results := make([]Result, len(reqs))
	if len(reqs) == 0 {
		return results, nil
	}
	if workers < 1 {
		workers = 1
	}

	s.logger.Debug("starting batch extraction", "emails", len(reqs), "workers", workers)

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	var (
		wg        sync.WaitGroup
		completed atomic.Int64
	)
	total := len(reqs)

	record := func(i int, text string) {
		// Slot-indexed write keeps output in input order without sorting
		results[i] = Result{Index: i, Text: text}
		done := int(completed.Add(1))
		if progress != nil {
			progress(done, total)
		}
	}

	for i := range reqs {
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			text, err := s.Extract(ctx, reqs[i])
			if err != nil {
				s.logger.Error("batch extraction failed", "index", i, "err", err)
				text = "Error: " + err.Error()
			}
			record(i, text)
		})
		if submitErr != nil {
			wg.Done()
			record(i, "Error: "+submitErr.Error())
		}
	}

	wg.Wait()
	s.logger.Debug("batch extraction completed", "emails", total)
	return results, nil
}
