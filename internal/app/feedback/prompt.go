package feedback

import (
	"fmt"
	"strings"
)

const promptTemplate = `You are an English speaking coach. Analyze the user's speech transcript and respond concisely with:
1) Key mistakes (grammar, word choice, sentence structure; mention examples)
2) Corrected sentences (succinct)
3) Improvement tips (short, actionable)

Rules:
- Plain text only
- Keep it concise (120-160 words)
- No markdown, no bullet symbols like "-", just short paragraphs
- If the transcript is unclear, note that briefly then give general tips

Transcript:
%q`

// BuildPrompt embeds the transcript into the coaching instructions. The
// transcript is quoted so it cannot close the instruction block.
func BuildPrompt(transcript string) string {
	return fmt.Sprintf(promptTemplate, strings.TrimSpace(transcript))
}
