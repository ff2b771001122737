package llm

import (
	"fmt"
	"strings"
)

const systemPrompt = `You condense technical blog articles into short abstracts.

Rules:
- Keep only the core ideas, tools and conclusions.
- Neutral tone, no lists, no headings, no links.
- Output plain prose in the same language as the input.`

func userPrompt(text string, maxLen, minLen int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Summarize the following text in %d to %d words.\n\n", minLen, maxLen)
	b.WriteString("Text:\n")
	b.WriteString(strings.TrimSpace(text))
	return b.String()
}

// tokenBudget caps output tokens at roughly two tokens per requested word.
func tokenBudget(maxTokens, maxLen int) int {
	want := maxLen * 2
	if maxTokens > 0 && want > maxTokens {
		return maxTokens
	}
	if want <= 0 {
		return maxTokens
	}
	return want
}
