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


package openai

import (
	"context"
	"io"
	"sync"
)

// tokenStream is a channel-backed ai.TokenStream fed by the request
// goroutine in Client.StreamChat. The producer stores the terminal error
// before closing the fragment channel, so Recv observes it safely once the
// channel is drained.
type tokenStream struct {
	fragments chan string
	cancel    context.CancelFunc
	err       error
	closeOnce sync.Once
}

func newTokenStream(cancel context.CancelFunc) *tokenStream {
	return &tokenStream{
		fragments: make(chan string),
		cancel:    cancel,
	}
}

// send forwards one fragment to the consumer, honoring cancellation so an
// abandoned stream never blocks the request goroutine.
func (s *tokenStream) send(ctx context.Context, fragment string) error {
	select {
	case s.fragments <- fragment:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// finish records the request outcome and ends the sequence.
// Must be called exactly once, after the last send.
func (s *tokenStream) finish(err error) {
	s.err = err
	close(s.fragments)
}

// Recv returns the next fragment, io.EOF after a completed response, or the
// terminal error if the request failed partway through.
func (s *tokenStream) Recv() (string, error) {
	fragment, ok := <-s.fragments
	if !ok {
		if s.err != nil {
			return "", s.err
		}
		return "", io.EOF
	}
	return fragment, nil
}

// Close abandons the stream. The underlying request is canceled and the
// producer goroutine unblocks via send's cancellation path.
func (s *tokenStream) Close() error {
	s.closeOnce.Do(s.cancel)
	return nil
}
