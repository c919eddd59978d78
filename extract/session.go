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
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/mailextract/ai"
)

// FragmentFunc receives one token fragment as it arrives from the model.
// Returning an error aborts the current attempt.
type FragmentFunc func(ctx context.Context, fragment string) error

// Session runs single-email extractions through a shared model client with
// a bounded retry policy. A Session holds no per-request state and is safe
// for concurrent use; the batch scheduler runs many extractions through one
// Session simultaneously.
type Session struct {
	client     ai.ModelClient
	maxRetries int
	retryDelay time.Duration
	maxTokens  int
	sleep      SleepFunc
	logger     *slog.Logger
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithMaxRetries sets the maximum number of attempts per extraction.
// Default is 3.
func WithMaxRetries(max int) SessionOption {
	return func(s *Session) {
		if max > 0 {
			s.maxRetries = max
		}
	}
}

// WithRetryDelay sets the base delay for exponential backoff between
// attempts. Default is 1 second, giving the 1s, 2s, 4s... progression.
func WithRetryDelay(delay time.Duration) SessionOption {
	return func(s *Session) {
		if delay > 0 {
			s.retryDelay = delay
		}
	}
}

// WithMaxTokens sets the per-request output token budget. Default is 512.
func WithMaxTokens(max int) SessionOption {
	return func(s *Session) {
		if max > 0 {
			s.maxTokens = max
		}
	}
}

// WithSleep sets the wait function used between retry attempts.
// Tests inject a recording sleep to verify backoff without real delays.
func WithSleep(sleep SleepFunc) SessionOption {
	return func(s *Session) {
		if sleep != nil {
			s.sleep = sleep
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSession creates an extraction session bound to the given model client.
func NewSession(client ai.ModelClient, opts ...SessionOption) (*Session, error) {
	if client == nil {
		return nil, ErrModelClientRequired
	}

	s := &Session{
		client:     client,
		maxRetries: 3,
		retryDelay: 1 * time.Second,
		maxTokens:  512,
		sleep:      ContextSleep,
		logger:     slog.Default().With("component", "extract-session"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Extract runs one extraction in blocking mode: the stream is drained
// internally and the concatenated text returned. Each retry restarts the
// entire request; partial text from a failed attempt is discarded. After
// the final attempt fails, the failure propagates to the caller.
func (s *Session) Extract(ctx context.Context, req Request) (string, error) {
	var out string
	err := RetryWithBackoff(ctx, func() error {
		// Fresh accumulator per attempt
		var b strings.Builder
		if err := s.streamOnce(ctx, req, func(_ context.Context, fragment string) error {
			b.WriteString(fragment)
			return nil
		}); err != nil {
			return err
		}
		out = b.String()
		return nil
	}, s.maxRetries, s.retryDelay, s.sleep)
	if err != nil {
		return "", err
	}
	return out, nil
}

// ExtractStream runs one extraction in streaming mode, forwarding fragments
// to fn as they arrive. A mid-stream failure before the retry budget is
// exhausted restarts the request; fragments of the fresh attempt then flow
// to fn from the beginning of the new response.
func (s *Session) ExtractStream(ctx context.Context, req Request, fn FragmentFunc) error {
	return RetryWithBackoff(ctx, func() error {
		return s.streamOnce(ctx, req, fn)
	}, s.maxRetries, s.retryDelay, s.sleep)
}

// streamOnce performs a single attempt: open the stream, forward every
// fragment, and surface any connection or mid-stream failure.
func (s *Session) streamOnce(ctx context.Context, req Request, fn FragmentFunc) error {
	s.logger.Debug("starting streaming extraction")

	stream, err := s.client.StreamChat(ctx, buildMessages(req), s.maxTokens)
	if err != nil {
		return err
	}
	defer stream.Close()

	for {
		fragment, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			s.logger.Debug("streaming extraction completed")
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(ctx, fragment); err != nil {
			return err
		}
	}
}
