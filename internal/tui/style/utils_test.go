package style

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderChatText(t *testing.T) {
	base := lipgloss.NewStyle()

	t.Run("長行內代碼折行後不殘留反引號", func(t *testing.T) {
		reply := "Try `systemctl restart my-long-service-name.service --no-block` then check the unit status again."
		out := ansi.Strip(RenderChatText(reply, base, 40))

		assert.NotContains(t, out, "`")
		assert.Contains(t, out, "systemctl")
		assert.Contains(t, out, "block")
		assert.Greater(t, strings.Count(out, "\n"), 0)
	})

	t.Run("代碼塊不折行", func(t *testing.T) {
		code := "print('" + strings.Repeat("x", 60) + "')"
		out := ansi.Strip(RenderChatText("Example:\n```python\n"+code+"\n```\ndone", base, 40))

		var codeLines []string
		for _, l := range strings.Split(out, "\n") {
			if strings.Contains(l, "print(") {
				codeLines = append(codeLines, l)
			}
		}
		require.Len(t, codeLines, 1)
		assert.Contains(t, codeLines[0], "…")
		assert.LessOrEqual(t, ansi.StringWidth(codeLines[0]), 40)
		assert.Contains(t, out, "python")
		assert.Contains(t, out, "done")
	})

	t.Run("寬度為零不折行", func(t *testing.T) {
		reply := strings.Repeat("word ", 30)
		out := ansi.Strip(RenderChatText(reply, base, 0))
		assert.NotContains(t, out, "\n")
	})
}
