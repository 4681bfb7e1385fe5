package session

import "strings"

// DefaultInstructions is the base operating persona for the hotline
// operator.
const DefaultInstructions = `You are a calm, empathetic phone operator for a disaster-response hotline.
Callers may be in distress, injured, or reporting damage to their homes.

Priorities, in order:
1. Establish whether the caller or anyone nearby is in immediate danger.
2. Ask about injuries and whether emergency services are already involved.
3. Record the caller's location and the nature of the damage.
4. Give short, concrete safety instructions. Never speculate.

Speak in short sentences. Stay warm but efficient. One question at a time.`

const (
	lessonBlockHeader   = "Apply these lessons learned from previous calls:"
	instructionsClosing = "Begin by greeting the caller and asking how you can help."
)

// ComposeInstructions assembles the operating instructions for a new call.
// The lesson block, when non-empty, is always inserted between the base
// guidance and the closing directive, so behavior changes across calls are
// attributable to lesson content and not to prompt drift.
func ComposeInstructions(base string, lessonSet []string) string {
	if base == "" {
		base = DefaultInstructions
	}

	var b strings.Builder
	b.WriteString(base)

	if len(lessonSet) > 0 {
		b.WriteString("\n\n")
		b.WriteString(lessonBlockHeader)
		for _, lesson := range lessonSet {
			b.WriteString("\n- ")
			b.WriteString(lesson)
		}
	}

	b.WriteString("\n\n")
	b.WriteString(instructionsClosing)
	return b.String()
}
