package openai

import (
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/kailas-cloud/topicd/internal/domain"
)

// renderMessages turns a structured request into a system + user message pair.
// The system message carries the instruction and the output contract, the user
// message carries one labelled section per input field.
func renderMessages(gr domain.GenerationRequest) []openai.ChatCompletionMessage {
	var sys strings.Builder
	sys.WriteString(gr.Instruction)
	sys.WriteString("\n\n")
	fmt.Fprintf(&sys, "Respond with a JSON object containing exactly one key %q ", gr.Output)
	sys.WriteString("whose value is a JSON array of strings.")
	if gr.OutputDescription != "" {
		fmt.Fprintf(&sys, " %s: %s", gr.Output, gr.OutputDescription)
	}

	var user strings.Builder
	for i, f := range gr.Inputs {
		if i > 0 {
			user.WriteString("\n\n")
		}
		fmt.Fprintf(&user, "[[ %s ]]\n%s", f.Name, f.Value)
	}

	return []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: sys.String()},
		{Role: openai.ChatMessageRoleUser, Content: user.String()},
	}
}
