package suggest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	name  string
	text  string
	err   error
	calls int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	return f.text, f.err
}

func TestParse(t *testing.T) {
	t.Run("extracts array from surrounding text", func(t *testing.T) {
		out, err := Parse("Sure!\n```json\n[{\"name\": \"Gengar\", \"reason\": \"spooky\"}]\n```")
		require.NoError(t, err)
		assert.Equal(t, []Suggestion{{Name: "gengar", Reason: "spooky"}}, out)
	})

	t.Run("caps at five", func(t *testing.T) {
		out, err := Parse(`[{"name":"a"},{"name":"b"},{"name":"c"},{"name":"d"},{"name":"e"},{"name":"f"},{"name":"g"}]`)
		require.NoError(t, err)
		assert.Len(t, out, MaxSuggestions)
		assert.Equal(t, "e", out[4].Name)
	})

	t.Run("no array", func(t *testing.T) {
		out, err := Parse("I cannot help with that")
		assert.ErrorIs(t, err, ErrUnparseable)
		assert.Empty(t, out)
	})

	t.Run("invalid json", func(t *testing.T) {
		out, err := Parse(`[{"name": }]`)
		assert.ErrorIs(t, err, ErrUnparseable)
		assert.NotNil(t, out)
		assert.Empty(t, out)
	})
}

func TestChainFallsBackOnRateLimit(t *testing.T) {
	primary := &fakeProvider{name: "primary", err: errors.New("Error 429, Message: quota, Status: RESOURCE_EXHAUSTED")}
	secondary := &fakeProvider{name: "secondary", text: `[{"name":"eevee","reason":"many evolutions"}]`}

	out, err := NewChain(primary, secondary).Suggest(context.Background(), "cute")
	require.NoError(t, err)
	assert.Equal(t, []Suggestion{{Name: "eevee", Reason: "many evolutions"}}, out)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

func TestChainStopsOnOtherErrors(t *testing.T) {
	primary := &fakeProvider{name: "primary", err: errors.New("invalid api key")}
	secondary := &fakeProvider{name: "secondary", text: `[]`}

	out, err := NewChain(primary, secondary).Suggest(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Empty(t, out)
	assert.Equal(t, 0, secondary.calls)
}

func TestChainExhausted(t *testing.T) {
	a := &fakeProvider{name: "a", err: ErrRateLimited}
	b := &fakeProvider{name: "b", err: ErrRateLimited}

	_, err := NewChain(a, b).Suggest(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestChainNotConfigured(t *testing.T) {
	var c *Chain
	_, err := c.Suggest(context.Background(), "fire")
	assert.ErrorIs(t, err, ErrNotConfigured)

	c, err = NewGemini(context.Background(), "", []string{"gemini-2.0-flash"})
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestPrompt(t *testing.T) {
	assert.Contains(t, Prompt("water types"), `"water types"`)
	assert.Contains(t, Prompt("  "), "random interesting Pokemon")
}
