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
	"fmt"
	"strings"

	"github.com/poiesic/mailextract/ai"
)

const systemPrompt = `You are an expert information extraction assistant.

You will receive an email text. Identify and extract entities according to the user request.
Output in valid JSON format with the structure:

{
  "entities": [
    {
      "type": "<entity type>",
      "text": "<exact phrase>",
      "context": "<short explanation or sentence context>"
    }
  ]
}

Be accurate, concise, and preserve the wording of the original text.`

// entityInstruction builds the user-facing instruction line. Requested
// types are listed verbatim, comma-separated; an empty list asks for all
// identifiable entities.
func entityInstruction(entityTypes []string) string {
	if len(entityTypes) == 0 {
		return "Extract all entities you can identify (names, dates, organizations, amounts, etc.)."
	}
	return fmt.Sprintf("Extract the following entity types: %s.", strings.Join(entityTypes, ", "))
}

// buildMessages composes the two-message exchange: the static system
// instruction fixing the output shape, and the user message carrying the
// entity instruction plus the verbatim email body.
func buildMessages(req Request) []ai.Message {
	return []ai.Message{
		{
			Role:    ai.RoleSystem,
			Content: systemPrompt,
		},
		{
			Role:    ai.RoleUser,
			Content: fmt.Sprintf("%s\n\nEMAIL:\n%s", entityInstruction(req.EntityTypes), req.MailText),
		},
	}
}
