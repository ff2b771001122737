package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserPrompt(t *testing.T) {
	p := userPrompt("  some article text \n", 100, 30)
	assert.Contains(t, p, "in 30 to 100 words")
	assert.Contains(t, p, "Text:\nsome article text")
}

func TestTokenBudget(t *testing.T) {
	assert.Equal(t, 200, tokenBudget(512, 100))
	assert.Equal(t, 512, tokenBudget(512, 1000))
	assert.Equal(t, 512, tokenBudget(512, 0))
	assert.Equal(t, 60, tokenBudget(0, 30))
}
