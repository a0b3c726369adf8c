package style

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestFill(t *testing.T) {
	tests := []struct {
		name                string
		count, total, width int
		want                int
	}{
		{"零計數", 0, 10, 20, 0},
		{"總數為零", 3, 0, 20, 0},
		{"按比例", 5, 10, 20, 10},
		{"極小值至少一格", 1, 1000, 20, 1},
		{"不超過寬度", 30, 10, 20, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fill(tt.count, tt.total, tt.width))
		})
	}
}

func TestRenderBar(t *testing.T) {
	plain := ansi.Strip(RenderBar(5, 10, 10, Error))
	assert.Equal(t, "█████░░░░░ 5", plain)
}

func TestRenderProgressBar(t *testing.T) {
	t.Run("截斷到100", func(t *testing.T) {
		plain := ansi.Strip(RenderProgressBar(150, 10))
		assert.Equal(t, strings.Repeat("█", 10)+" 100.0%", plain)
	})

	t.Run("負數視為0", func(t *testing.T) {
		plain := ansi.Strip(RenderProgressBar(-5, 4))
		assert.Equal(t, "░░░░   0.0%", plain)
	})
}

func TestRenderBadge(t *testing.T) {
	assert.Contains(t, ansi.Strip(RenderBadge("ERROR", "error")), "ERROR")
	assert.Equal(t, "plain", RenderBadge("plain", "unknown"))
}
