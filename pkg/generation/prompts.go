package generation

import (
	"fmt"
	"strings"

	"github.com/toneelevate/tonesmith/pkg/tones"
)

const generationPersona = `You are ToneSmith, an expert communication assistant. You transform a user's raw input into a complete, polished message that is structurally and stylistically appropriate for its context.`

const contextRules = `Use the context to guide the message structure:
- For 'Email' or 'Documentation', include greetings and closings where they are implied or necessary.
- For 'Teams Chat' or 'Text Message', keep it brief and omit formal greetings and closings unless the input asks for them.
- For 'GitHub Comment' or 'LinkedIn Post', follow the common conventions of those platforms.
- For 'General Text', add as little structure as possible.`

const outputRules = `Rules:
- Do not open with filler or cliches ("I hope this email finds you well", "Just wanted to reach out", "Hey there!").
- Output ONLY the final message. No preamble such as "Here is the message:", no explanations, labels or meta-commentary.`

// buildParserPrompt asks for {intent, tone, message} with tones limited to the registry
func buildParserPrompt(registry *tones.Registry) string {
	var b strings.Builder
	b.WriteString("You analyze a user's raw request for a message rewriting tool.\n")
	b.WriteString("Extract three things and answer with a single JSON object with exactly these keys:\n")
	b.WriteString(`- "intent": one sentence describing what the user wants the message to achieve.` + "\n")
	b.WriteString(`- "tone": the tone the user asked for, chosen from the list below, or null if none was requested.` + "\n")
	b.WriteString(`- "message": the core content to be rewritten. Use the user's text verbatim when there is no separate instruction.` + "\n\n")
	b.WriteString("Allowed tones:\n")
	for _, id := range registry.IDs() {
		fmt.Fprintf(&b, "- %s\n", id)
	}
	b.WriteString("\nRespond with JSON only.")
	return b.String()
}

// buildGenerationPrompt assembles the system and user prompts for the final message
func buildGenerationPrompt(intent ParsedIntent, toneInstructions string, req GenerationRequest) (system, user string) {
	var b strings.Builder
	b.WriteString(generationPersona)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Communication intent: %s\n\n", intent.Intent)
	fmt.Fprintf(&b, "Tone: %s. Adhere strictly to this tone.", intent.Tone)
	if toneInstructions != "" {
		fmt.Fprintf(&b, " Tone instructions: %s", toneInstructions)
	}
	b.WriteString("\n\n")
	b.WriteString(contextRules)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Length: %s.\n", LengthGuidance(req.OutputLength))
	fmt.Fprintf(&b, "Format: %s\n\n", formatGuidance(req.OutputFormat))
	b.WriteString(outputRules)
	system = b.String()

	user = fmt.Sprintf("Context: %s\nOutput Format: %s\n\nRaw input:\n\"\"\"\n%s\n\"\"\"",
		req.Context, req.OutputFormat, intent.Message)
	return system, user
}

// buildRefinePrompt asks for a follow-up rewrite of an earlier message
func buildRefinePrompt(originalMessage, followUp, tone, toneInstructions, context string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Original message (Tone: %s, Context: %s):\n\"\"\"\n%s\n\"\"\"\n\n", tone, context, originalMessage)
	fmt.Fprintf(&b, "User refinement request:\n\"\"\"\n%s\n\"\"\"\n\n", followUp)
	fmt.Fprintf(&b, "Refine the original message according to the user's request, keeping the tone (%s) and context (%s) unless the request asks to change them.", tone, context)
	if toneInstructions != "" {
		fmt.Fprintf(&b, " Tone instructions: %s", toneInstructions)
	}
	b.WriteString(" Output only the refined message text.")
	return b.String()
}

// LengthGuidance maps an output length to prompt text. Unknown values read as medium.
func LengthGuidance(length string) string {
	switch length {
	case LengthShort:
		return "very concise, 1-2 sentences"
	case LengthLong:
		return "comprehensive, multi-paragraph"
	default:
		return "standard length paragraph(s)"
	}
}

func formatGuidance(format string) string {
	if format == FormatMarkdown {
		return "Markdown. Use Markdown formatting where it helps readability."
	}
	return "Raw Text. Plain text only, no Markdown syntax."
}
