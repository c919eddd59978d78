package mock

import (
	"context"
	"io"
	"sync"

	"github.com/poiesic/mailextract/ai"
)

// MockModelClient is a test double for ai.ModelClient.
// It allows custom behavior injection via function fields and records call
// and concurrency statistics for assertions.
type MockModelClient struct {
	// StreamChatFunc is called by StreamChat if set.
	// If nil, a canned empty-extraction stream is returned.
	StreamChatFunc func(ctx context.Context, messages []ai.Message, maxTokens int) (ai.TokenStream, error)

	mu          sync.Mutex
	callCount   int
	inFlight    int
	maxInFlight int
}

// NewMockModelClient creates a mock model client with default behavior.
// Note: Returns concrete type to allow test assertions via CallCount,
// MaxInFlight, and behavior injection.
func NewMockModelClient() *MockModelClient {
	return &MockModelClient{}
}

// StreamChat records the call, tracks concurrent in-flight requests for the
// duration of the injected function, and delegates to StreamChatFunc.
// Default behavior: a two-fragment stream forming an empty entities document.
func (m *MockModelClient) StreamChat(ctx context.Context, messages []ai.Message, maxTokens int) (ai.TokenStream, error) {
	m.mu.Lock()
	m.callCount++
	m.inFlight++
	if m.inFlight > m.maxInFlight {
		m.maxInFlight = m.inFlight
	}
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight--
		m.mu.Unlock()
	}()

	if m.StreamChatFunc != nil {
		return m.StreamChatFunc(ctx, messages, maxTokens)
	}

	return NewTokenStream([]string{`{"entities": `, `[]}`}, nil), nil
}

// CallCount returns the number of times StreamChat was called.
func (m *MockModelClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// MaxInFlight returns the peak number of simultaneous StreamChat calls
// observed. The in-flight window covers the injected function's execution,
// so a StreamChatFunc that blocks simulates the network-call phase.
func (m *MockModelClient) MaxInFlight() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxInFlight
}

// Reset clears recorded statistics and the custom function.
func (m *MockModelClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.inFlight = 0
	m.maxInFlight = 0
	m.StreamChatFunc = nil
}

// TokenStream is a scripted ai.TokenStream that yields a fixed fragment
// sequence and then terminates with the configured error (io.EOF when nil).
type TokenStream struct {
	fragments []string
	err       error
	pos       int
	closed    bool
	mu        sync.Mutex
}

// NewTokenStream creates a scripted stream. A nil err means the stream
// completes cleanly; a non-nil err simulates a mid-stream failure after the
// final fragment.
func NewTokenStream(fragments []string, err error) *TokenStream {
	return &TokenStream{fragments: fragments, err: err}
}

// Recv yields the next scripted fragment.
func (s *TokenStream) Recv() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", io.ErrClosedPipe
	}
	if s.pos >= len(s.fragments) {
		if s.err != nil {
			return "", s.err
		}
		return "", io.EOF
	}
	fragment := s.fragments[s.pos]
	s.pos++
	return fragment, nil
}

// Close marks the stream abandoned; further Recv calls fail.
func (s *TokenStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
