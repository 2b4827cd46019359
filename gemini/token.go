package gemini

import (
	"context"
	"strings"

	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

// TokenCounter counts tokens using the Gemini tokenizer.
type TokenCounter struct {
	tok *tokenizer.LocalTokenizer
}

// NewTokenCounter creates a new TokenCounter for the given model.
func NewTokenCounter(model string) (*TokenCounter, error) {
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, err
	}
	return &TokenCounter{tok: tok}, nil
}

// CountTokens counts the number of tokens in the given text.
func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if text == "" {
		return 0, nil
	}

	contents := []*genai.Content{
		genai.NewContentFromText(text, "user"),
	}

	result, err := tc.tok.CountTokens(contents, nil)
	if err != nil {
		return 0, err
	}

	return int(result.TotalTokens), nil
}

// Truncate returns a word-boundary prefix of text that fits in max tokens.
// Text already within the budget is returned unchanged.
func (tc *TokenCounter) Truncate(ctx context.Context, text string, max int) (string, error) {
	count, err := tc.CountTokens(ctx, text)
	if err != nil {
		return "", err
	}
	if count <= max {
		return text, nil
	}

	words := strings.Fields(text)
	// Shrink proportionally until the prefix fits; tokens per word vary.
	n := len(words) * max / count
	for n > 0 {
		prefix := strings.Join(words[:n], " ")
		count, err := tc.CountTokens(ctx, prefix)
		if err != nil {
			return "", err
		}
		if count <= max {
			return prefix, nil
		}
		n = n * 9 / 10
	}
	return "", nil
}
