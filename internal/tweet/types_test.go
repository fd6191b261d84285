package tweet_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tweetsched/tweetsched/internal/tweet"
)

func TestTextLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "ascii", text: "Hello", want: 5},
		{name: "empty", text: "", want: 0},
		{name: "accented characters count once", text: "café", want: 4},
		{name: "cjk counts once", text: "こんにちは", want: 5},
		{name: "emoji counts twice", text: "🎉", want: 2},
		{name: "mixed", text: "hi 🎉", want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tweet.TextLength(tt.text))
		})
	}
}

func TestValidateText(t *testing.T) {
	t.Parallel()

	t.Run("valid text", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, tweet.ValidateText("Hello"))
	})

	t.Run("exactly at limit", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, tweet.ValidateText(strings.Repeat("a", 280)))
	})

	t.Run("empty text", func(t *testing.T) {
		t.Parallel()
		assert.ErrorIs(t, tweet.ValidateText(""), tweet.ErrEmptyText)
	})

	t.Run("one over the limit", func(t *testing.T) {
		t.Parallel()
		assert.ErrorIs(t, tweet.ValidateText(strings.Repeat("a", 281)), tweet.ErrTextTooLong)
	})

	t.Run("emoji pushes text over the limit", func(t *testing.T) {
		t.Parallel()
		// 279 ASCII units plus a two-unit emoji is 281.
		assert.ErrorIs(t, tweet.ValidateText(strings.Repeat("a", 279)+"🎉"), tweet.ErrTextTooLong)
	})
}

func TestStatusTerminal(t *testing.T) {
	t.Parallel()

	assert.False(t, tweet.StatusPending.Terminal())
	assert.False(t, tweet.StatusPublishing.Terminal())
	assert.True(t, tweet.StatusSent.Terminal())
	assert.True(t, tweet.StatusFailed.Terminal())
}
