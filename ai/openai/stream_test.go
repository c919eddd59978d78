package openai

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/poiesic/mailextract/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

func TestTokenStream_YieldsFragmentsThenEOF(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := newTokenStream(cancel)
	go func() {
		_ = s.send(ctx, "hello ")
		_ = s.send(ctx, "world")
		s.finish(nil)
	}()

	frag, err := s.Recv()
	require.NoError(t, err)
	assert.Equal(t, "hello ", frag)

	frag, err = s.Recv()
	require.NoError(t, err)
	assert.Equal(t, "world", frag)

	_, err = s.Recv()
	assert.ErrorIs(t, err, io.EOF)

	// Exhausted streams keep reporting EOF
	_, err = s.Recv()
	assert.ErrorIs(t, err, io.EOF)
}

func TestTokenStream_SurfacesTerminalError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	streamErr := errors.New("connection reset")
	s := newTokenStream(cancel)
	go func() {
		_ = s.send(ctx, "partial")
		s.finish(streamErr)
	}()

	frag, err := s.Recv()
	require.NoError(t, err)
	assert.Equal(t, "partial", frag)

	_, err = s.Recv()
	assert.ErrorIs(t, err, streamErr)
}

func TestTokenStream_CloseUnblocksProducer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newTokenStream(cancel)
	produced := make(chan error, 1)
	go func() {
		// No consumer ever reads; send must unblock via cancellation
		err := s.send(ctx, "abandoned")
		produced <- err
		s.finish(err)
	}()

	require.NoError(t, s.Close())

	err := <-produced
	assert.ErrorIs(t, err, context.Canceled)

	_, err = s.Recv()
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTokenStream_CloseIsIdempotent(t *testing.T) {
	_, cancel := context.WithCancel(context.Background())

	s := newTokenStream(cancel)
	s.finish(nil)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}

func TestToContent(t *testing.T) {
	messages := []ai.Message{
		{Role: ai.RoleSystem, Content: "instructions"},
		{Role: ai.RoleUser, Content: "email body"},
	}

	content := toContent(messages)
	require.Len(t, content, 2)

	assert.Equal(t, llms.ChatMessageTypeSystem, content[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, content[1].Role)

	require.Len(t, content[0].Parts, 1)
	assert.Equal(t, llms.TextPart("instructions"), content[0].Parts[0])
}

func TestNewClient_RejectsInvalidConfig(t *testing.T) {
	cfg := ai.DefaultConfig()
	cfg.Model = ""

	_, err := NewClient(cfg)
	require.Error(t, err)
}
