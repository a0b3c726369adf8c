package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Yat-Muk/logsight/internal/domain/session"
	"github.com/Yat-Muk/logsight/internal/pkg/chatfmt"
	"github.com/Yat-Muk/logsight/internal/tui/style"
)

// RenderCriticalLines 渲染關鍵行列表
func RenderCriticalLines(sess *session.Session, ti textinput.Model, statusMsg string) string {
	header := renderSubpageHeader("關鍵行")

	var body string
	switch {
	case !sess.Loaded():
		body = " " + style.MutedText("尚未加載日誌")
	case len(sess.Critical) == 0:
		body = " " + style.MutedText("未發現關鍵行")
	default:
		rows := make([]string, 0, len(sess.Critical))
		for i, c := range sess.Critical {
			rows = append(rows, renderCriticalRow(i+1, c, 56))
		}
		body = lipgloss.JoinVertical(lipgloss.Left, rows...)
	}

	help := lipgloss.JoinVertical(lipgloss.Left,
		" "+style.MutedText("輸入序號跳轉到該行，a<序號> 分析該行"),
		renderHints("Esc", "返回", "Enter", "確認"),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		body,
		separator(),
		help,
		RenderStatusMessage(statusMsg),
		RenderTextInput(ti),
	)
}

// renderCriticalRow 單條關鍵行，行號按 1 起算展示
func renderCriticalRow(idx int, c session.CriticalLine, width int) string {
	badge := style.RenderBadge("WARN", "warning")
	if c.Severity == session.SeverityError {
		badge = style.RenderBadge("ERROR", "error")
	}

	content := strings.TrimSpace(strings.ReplaceAll(chatfmt.Clean(c.Content), "\n", " "))
	content = runewidth.Truncate(content, width, "…")

	meta := fmt.Sprintf("第 %d 行", c.Line+1)
	if c.Timestamp != "" {
		meta += " · " + c.Timestamp
	}

	return fmt.Sprintf(" %s %s %s\n     %s",
		lipgloss.NewStyle().Foreground(style.Aurora3).Render(fmt.Sprintf("%2d.", idx)),
		badge,
		style.MutedText(meta),
		lipgloss.NewStyle().Foreground(style.SeverityColor(c.Severity)).Render(content),
	)
}
