package extract

import (
	"strings"
	"testing"

	"github.com/poiesic/mailextract/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityInstruction(t *testing.T) {
	t.Run("empty list requests all entities", func(t *testing.T) {
		got := entityInstruction(nil)
		assert.Equal(t, "Extract all entities you can identify (names, dates, organizations, amounts, etc.).", got)
	})

	t.Run("requested types listed verbatim comma-separated", func(t *testing.T) {
		got := entityInstruction([]string{"Person", "Date", "Money"})
		assert.Equal(t, "Extract the following entity types: Person, Date, Money.", got)
	})

	t.Run("single type", func(t *testing.T) {
		got := entityInstruction([]string{"Organization"})
		assert.Equal(t, "Extract the following entity types: Organization.", got)
	})
}

func TestBuildMessages(t *testing.T) {
	req := Request{
		MailText:    "Meeting with Acme Corp on Friday.",
		EntityTypes: []string{"Organization", "Date"},
	}

	messages := buildMessages(req)
	require.Len(t, messages, 2)

	assert.Equal(t, ai.RoleSystem, messages[0].Role)
	assert.Contains(t, messages[0].Content, `"entities"`)
	assert.Contains(t, messages[0].Content, `"type"`)
	assert.Contains(t, messages[0].Content, `"text"`)
	assert.Contains(t, messages[0].Content, `"context"`)

	assert.Equal(t, ai.RoleUser, messages[1].Role)
	assert.True(t, strings.HasPrefix(messages[1].Content, "Extract the following entity types: Organization, Date."))
	assert.Contains(t, messages[1].Content, "\n\nEMAIL:\nMeeting with Acme Corp on Friday.")
}

func TestBuildMessages_EmailBodyVerbatim(t *testing.T) {
	body := "  raw body\nwith   spacing\tpreserved  "
	messages := buildMessages(Request{MailText: body})

	require.Len(t, messages, 2)
	assert.True(t, strings.HasSuffix(messages[1].Content, "EMAIL:\n"+body))
}
