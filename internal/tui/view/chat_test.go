package view

import (
	"errors"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"

	"github.com/Yat-Muk/logsight/internal/application"
	"github.com/Yat-Muk/logsight/internal/domain/session"
)

func TestBuildTranscript(t *testing.T) {
	turns := []application.ChatTurn{
		{Prompt: application.SummaryPrompt, Auto: true, Reply: &session.ChatReply{
			Text: "Run `systemctl restart my-long-service-name.service --no-block` to recover.",
		}},
		{Prompt: "why?", Err: errors.New("timeout")},
		{Prompt: "and now?", Pending: true},
	}

	out := ansi.Strip(BuildTranscript("歡迎", turns, 44, "..."))

	t.Run("自動摘要不顯示提問", func(t *testing.T) {
		assert.NotContains(t, out, application.SummaryPrompt)
		assert.Contains(t, out, "自動摘要")
	})

	t.Run("行內代碼折行後仍被解析", func(t *testing.T) {
		assert.NotContains(t, out, "`")
		assert.Contains(t, out, "systemctl")
	})

	t.Run("失敗與等待中的輪次", func(t *testing.T) {
		assert.Contains(t, out, "why?")
		assert.Contains(t, out, "✗")
		assert.Contains(t, out, "...")
	})
}
