package index

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunkText(t *testing.T) {
	t.Run("short text is one chunk", func(t *testing.T) {
		chunks := ChunkText("kratak tekst o putovanju", 1000, 200)
		assert.Equal(t, []string{"kratak tekst o putovanju"}, chunks)
	})

	t.Run("blank text yields nothing", func(t *testing.T) {
		assert.Nil(t, ChunkText("   \n  ", 1000, 200))
	})

	t.Run("long text splits with overlap", func(t *testing.T) {
		text := strings.Repeat("a", 250)
		chunks := ChunkText(text, 100, 20)

		assert.Greater(t, len(chunks), 2)
		for _, c := range chunks {
			assert.LessOrEqual(t, len([]rune(c)), 100)
		}
		// Consecutive windows share the overlap region.
		first := []rune(chunks[0])
		second := []rune(chunks[1])
		assert.Equal(t, string(first[len(first)-20:]), string(second[:20]))
	})

	t.Run("prefers newline boundary", func(t *testing.T) {
		line := strings.Repeat("x", 70)
		text := line + "\n" + line + "\n" + line
		chunks := ChunkText(text, 100, 10)

		assert.Equal(t, line, chunks[0])
	})

	t.Run("full text is covered", func(t *testing.T) {
		var b strings.Builder
		for i := 0; i < 50; i++ {
			b.WriteString("red broj ")
			b.WriteString(strings.Repeat("y", 30))
			b.WriteString("\n")
		}
		text := b.String()
		chunks := ChunkText(text, 200, 40)

		joined := strings.Join(chunks, "")
		assert.Contains(t, joined, "red broj")
		// The last chunk must contain the tail of the input.
		tail := strings.TrimSpace(text[len(text)-30:])
		assert.Contains(t, chunks[len(chunks)-1], tail)
	})

	t.Run("degenerate parameters still terminate", func(t *testing.T) {
		chunks := ChunkText(strings.Repeat("z", 50), 10, 10)
		assert.NotEmpty(t, chunks)
	})

	t.Run("multibyte runes are not split", func(t *testing.T) {
		text := strings.Repeat("šđčćž", 60)
		chunks := ChunkText(text, 100, 20)
		for _, c := range chunks {
			assert.True(t, strings.ContainsAny(c, "šđčćž"))
			assert.Equal(t, c, strings.ToValidUTF8(c, ""))
		}
	})
}
