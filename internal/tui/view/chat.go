package view

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/Yat-Muk/logsight/internal/application"
	"github.com/Yat-Muk/logsight/internal/domain/session"
	"github.com/Yat-Muk/logsight/internal/tui/constants"
	"github.com/Yat-Muk/logsight/internal/tui/style"
)

// BuildTranscript 把對話渲染為視口內容，pending 為等待中輪次的佔位
func BuildTranscript(welcome string, turns []application.ChatTurn, width int, pending string) string {
	if width < 30 {
		width = 80
	}
	wrap := width - 4

	userLabel := lipgloss.NewStyle().Foreground(style.UserColor).Bold(true)
	botLabel := lipgloss.NewStyle().Foreground(style.AssistantColor).Bold(true)
	text := lipgloss.NewStyle().Foreground(style.Snow1)

	var blocks []string
	if welcome != "" {
		blocks = append(blocks, botLabel.Render("助手")+"\n"+indent(wordwrap.String(welcome, wrap)))
	}

	for _, t := range turns {
		if !t.Auto {
			blocks = append(blocks, userLabel.Render("你")+"\n"+indent(text.Render(wordwrap.String(t.Prompt, wrap))))
		}

		var body string
		switch {
		case t.Pending:
			body = pending
		case t.Err != nil:
			body = style.ErrorText("✗ " + application.Notice(t.Err, "發送失敗"))
		default:
			body = style.RenderChatText(ReplyText(t.Reply), text, wrap)
		}
		label := botLabel.Render("助手")
		if t.Auto {
			label += style.MutedText(" · 自動摘要")
		}
		blocks = append(blocks, label+"\n"+indent(body))
	}

	return strings.Join(blocks, "\n\n")
}

// ReplyText 把結構化回覆拼接為純文本
func ReplyText(r *session.ChatReply) string {
	if r == nil {
		return ""
	}
	parts := []string{}
	if r.Text != "" {
		parts = append(parts, r.Text)
	}
	add := func(label, v string) {
		if v != "" && v != r.Text {
			parts = append(parts, label+": "+v)
		}
	}
	add("摘要", r.Summary)
	add("可能原因", r.ProbableCause)
	add("修復建議", r.SuggestedFix)
	add("補充", r.AdditionalContext)
	return strings.Join(parts, "\n\n")
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n")
}

// RenderChat 渲染對話頁
func RenderChat(vp viewport.Model, available bool, ti textinput.Model, statusMsg string) string {
	header := renderSubpageHeader("分析助手")

	var offline string
	if !available {
		offline = " " + style.WarningText("⚠️ "+application.NoticeOffline)
	}

	hints := renderHints(
		constants.KeyChat_Summary, "重新摘要",
		constants.KeyChat_Analysis, "單行分析",
		constants.KeyChat_Status, "檢查狀態",
		"Esc", "返回",
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		vp.View(),
		separator(),
		offline,
		hints,
		RenderStatusMessage(statusMsg),
		RenderTextInput(ti),
	)
}

// PendingIndicator 等待回覆時的佔位文本
func PendingIndicator(sp spinner.Model) string {
	return sp.View() + " " + style.MutedText("思考中...")
}
