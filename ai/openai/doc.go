// Package openai implements the ai interfaces using OpenAI-compatible
// chat-completion APIs via langchaingo.
//
// The implementation targets locally hosted servers (Ollama, LocalAI, vLLM)
// but works against any endpoint speaking the OpenAI wire protocol. Token
// streaming is exposed as a lazy ai.TokenStream backed by the server's
// incremental delta chunks.
package openai
