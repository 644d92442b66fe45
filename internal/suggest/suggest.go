package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
)

// MaxSuggestions caps how many suggestions are returned.
const MaxSuggestions = 5

var (
	ErrNotConfigured = errors.New("AI service not configured")
	ErrUnavailable   = errors.New("Failed to get AI suggestions")
	ErrUnparseable   = errors.New("Failed to parse AI response")

	// ErrRateLimited marks a provider error that should move on to the next provider.
	ErrRateLimited = errors.New("rate limited")
)

type Suggestion struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Provider turns a prompt into free text.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Chain asks providers in order and stops at the first one that is not rate limited.
type Chain struct {
	providers []Provider
}

func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: providers}
}

// Suggest returns up to MaxSuggestions Pokemon for interest. An empty
// interest asks for a random mix.
func (c *Chain) Suggest(ctx context.Context, interest string) ([]Suggestion, error) {
	if c == nil || len(c.providers) == 0 {
		return []Suggestion{}, ErrNotConfigured
	}

	prompt := Prompt(interest)
	for _, p := range c.providers {
		text, err := p.Generate(ctx, prompt)
		if err == nil {
			return Parse(text)
		}
		if isRateLimited(err) {
			log.Printf("AI provider %s rate limited, trying next: %v", p.Name(), err)
			continue
		}
		log.Printf("AI suggestion error from %s: %v", p.Name(), err)
		return []Suggestion{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return []Suggestion{}, ErrUnavailable
}

// Parse pulls the JSON array out of a model reply. Anything before the first
// '[' or after the last ']' is ignored.
func Parse(text string) ([]Suggestion, error) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end < start {
		return []Suggestion{}, ErrUnparseable
	}

	var out []Suggestion
	if err := json.Unmarshal([]byte(text[start:end+1]), &out); err != nil {
		return []Suggestion{}, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}

	kept := make([]Suggestion, 0, MaxSuggestions)
	for _, s := range out {
		s.Name = strings.ToLower(strings.TrimSpace(s.Name))
		if s.Name == "" {
			continue
		}
		kept = append(kept, s)
		if len(kept) == MaxSuggestions {
			break
		}
	}
	return kept, nil
}

func Prompt(interest string) string {
	interest = strings.TrimSpace(interest)
	if interest != "" {
		return fmt.Sprintf(`You are a Pokemon expert. Based on the user's interest: %q, suggest %d Pokemon names they might want to search for.
Return ONLY a valid JSON array with objects containing "name" (the exact Pokemon name, lowercase) and "reason" (a brief 10-15 word explanation of why this Pokemon matches their interest).
Example format: [{"name": "pikachu", "reason": "Electric type mascot, beloved for its cute appearance and powerful thunderbolt"}]
Only include real Pokemon from the official games. Return nothing but the JSON array.`, interest, MaxSuggestions)
	}
	return fmt.Sprintf(`You are a Pokemon expert. Suggest %d random interesting Pokemon for someone to discover and review.
Return ONLY a valid JSON array with objects containing "name" (the exact Pokemon name, lowercase) and "reason" (a brief 10-15 word explanation of what makes this Pokemon interesting).
Example format: [{"name": "gengar", "reason": "Ghost/Poison type with mischievous personality and powerful shadow abilities"}]
Include a mix of popular and lesser-known Pokemon from different generations. Return nothing but the JSON array.`, MaxSuggestions)
}

func isRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}
