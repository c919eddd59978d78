package ai

import "context"

// Role identifies the author of a chat message.
type Role string

const (
	// RoleSystem carries the extraction instruction fixing the output shape.
	RoleSystem Role = "system"

	// RoleUser carries the entity request and the verbatim email body.
	RoleUser Role = "user"
)

// Message is a single entry in a chat-completion exchange.
type Message struct {
	Role    Role
	Content string
}

// TokenStream is a finite, single-pass sequence of incremental model output
// fragments. A fragment carries no semantic structure; it may split mid-word
// or mid-JSON-token. Consumers must either drain the stream to completion or
// call Close to abandon the underlying connection.
type TokenStream interface {
	// Recv returns the next fragment. It returns io.EOF after the final
	// fragment of a completed response, or the terminal error if the
	// stream failed partway through.
	Recv() (string, error)

	// Close abandons the stream and releases the underlying connection.
	// Safe to call at any point, including after exhaustion.
	Close() error
}

// ModelClient is a reusable handle to a chat-completion endpoint.
// One network connection is opened per StreamChat call; the client holds no
// per-request state and must be safe for concurrent use by multiple callers.
// Retry policy is the caller's responsibility, not the client's.
type ModelClient interface {
	// StreamChat issues a streaming chat-completion request and returns
	// the lazily produced token sequence. maxTokens bounds the model's
	// output length.
	StreamChat(ctx context.Context, messages []Message, maxTokens int) (TokenStream, error)
}
