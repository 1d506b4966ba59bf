package service

import (
	"encoding/json"
	"fmt"
)

// systemTemplate is the instructional prompt wrapped around the retrieved
// context and the literal question text.
const systemTemplate = `You are an AI assistant who knows everything about cricket.
Use the below context to augment what you know about the game of cricket.
The context provides the most recent page data from Wikipedia, the ICC website and
other cricket references.
If the context doesn't include the information you need, answer based on your
existing knowledge and don't mention the source of your information or what the
context does or doesn't include.
Format responses using markdown where applicable and don't return images.
---------------
START CONTEXT
%s
END CONTEXT
---------------
Question: %s
`

// buildSystemPrompt serializes the retrieved chunk texts as a JSON array and
// interpolates them with the question into the system template. A nil or empty
// context serializes to [] so the model falls back to its own knowledge.
func buildSystemPrompt(contextTexts []string, question string) string {
	if contextTexts == nil {
		contextTexts = []string{}
	}
	serialized, err := json.Marshal(contextTexts)
	if err != nil {
		serialized = []byte("[]")
	}
	return fmt.Sprintf(systemTemplate, serialized, question)
}
