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
	"log/slog"
	"time"

	"github.com/poiesic/mailextract/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Client implements ai.ModelClient against OpenAI-compatible chat APIs.
// A Client holds connection configuration only; it carries no per-request
// state and is safe for concurrent use. Construct one per process and share
// it across sessions.
type Client struct {
	llm     llms.Model
	timeout time.Duration
	logger  *slog.Logger
}

// newClient is an internal constructor that returns the concrete type.
func newClient(config *ai.Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Local OpenAI-compatible services accept any token but require one
	llm, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken(config.Token),
		openai.WithModel(config.Model),
	)
	if err != nil {
		return nil, err
	}

	return &Client{
		llm:     llm,
		timeout: config.Timeout,
		logger:  slog.Default().With("component", "openai-client"),
	}, nil
}

// NewClient creates a new model client using the provided configuration.
//
// Returns ai.ModelClient interface (not *Client) to enforce abstraction
// and prevent coupling to OpenAI-specific implementation details.
func NewClient(config *ai.Config) (ai.ModelClient, error) {
	return newClient(config)
}

// StreamChat issues one streaming chat-completion request. The returned
// stream produces fragments as the server emits them; the per-request
// timeout covers connection setup and the full streaming read. Connection
// or mid-stream failures surface through TokenStream.Recv, not here.
func (c *Client) StreamChat(ctx context.Context, messages []ai.Message, maxTokens int) (ai.TokenStream, error) {
	content := toContent(messages)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	stream := newTokenStream(cancel)

	go func() {
		defer cancel()
		_, err := c.llm.GenerateContent(ctx, content,
			llms.WithMaxTokens(maxTokens),
			llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
				// Chunks with no delta content are skipped silently
				if len(chunk) == 0 {
					return nil
				}
				return stream.send(ctx, string(chunk))
			}))
		if err != nil {
			c.logger.Debug("streaming request failed", "err", err)
		}
		stream.finish(err)
	}()

	return stream, nil
}

// toContent converts the exchange into langchaingo message content.
func toContent(messages []ai.Message) []llms.MessageContent {
	content := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		role := llms.ChatMessageTypeHuman
		if m.Role == ai.RoleSystem {
			role = llms.ChatMessageTypeSystem
		}
		content = append(content, llms.MessageContent{
			Role:  role,
			Parts: []llms.ContentPart{llms.TextPart(m.Content)},
		})
	}
	return content
}
