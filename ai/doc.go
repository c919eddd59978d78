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


// Package ai provides abstractions for the model services used by
// mailextract.
//
// This package defines the contract between the extraction engine and the
// chat-completion endpoint. The engine depends only on these abstractions,
// never on a concrete client implementation.
//
// # Design Principles
//
// The package is designed around two key interfaces:
//
//   - ModelClient: Issues streaming chat-completion requests
//   - TokenStream: A lazy, single-pass sequence of output fragments
//
// # Implementation Packages
//
// The ai package includes two implementation sub-packages:
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Usage Example
//
//	config := ai.DefaultConfig()
//	client, err := openai.NewClient(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	stream, err := client.StreamChat(ctx, messages, config.MaxTokens)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer stream.Close()
//
//	for {
//	    fragment, err := stream.Recv()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Print(fragment)
//	}
//
// A ModelClient is intended to be constructed once at process start and
// shared by reference across all concurrent sessions; connection
// configuration is immutable after construction, so the client is safe for
// concurrent use.
package ai
