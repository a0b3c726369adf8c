package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/Yat-Muk/logsight/internal/application"
	"github.com/Yat-Muk/logsight/internal/domain/session"
	"github.com/Yat-Muk/logsight/internal/tui/style"
)

// LogViewerData 日誌查看器所需數據
type LogViewerData struct {
	Session *session.Session
	Window  *application.Window
	Loading bool
	Err     string
	Width   int
}

// RenderLogViewer 渲染當前窗口
func RenderLogViewer(data LogViewerData, sp spinner.Model, ti textinput.Model, statusMsg string) string {
	header := renderSubpageHeader("日誌查看器")

	var content string
	switch {
	case !data.Session.Loaded():
		content = " " + style.MutedText("尚未加載日誌")
	case data.Window == nil && data.Loading:
		content = " " + sp.View() + " " + style.InfoText("加載中...")
	case data.Window == nil || len(data.Window.Lines) == 0:
		content = lipgloss.NewStyle().
			Foreground(style.Muted).
			Padding(1, 1).
			Render("暫無日誌數據")
	default:
		content = style.BuildColoredLogContent(data.Window.Lines, data.Window.Highlight, data.Width)
	}

	statusStyle := lipgloss.NewStyle().Foreground(style.Snow3)
	var position string
	if w := data.Window; w != nil && len(w.Lines) > 0 {
		first := w.Lines[0].Number()
		last := w.Lines[len(w.Lines)-1].Number()
		position = fmt.Sprintf(" 第 %d-%d 行 / 共 %d 行", first, last, w.Total)
		if w.Total > 0 {
			position += fmt.Sprintf("  %s", style.RenderProgressBar(float64(last)*100/float64(w.Total), 12))
		}
	}
	if data.Loading && data.Window != nil {
		position += " " + sp.View()
	}

	var errLine string
	if data.Err != "" {
		errLine = " " + style.ErrorText("✗ "+data.Err)
	}

	hints := renderHints("n/PgDn", "下一頁", "p/PgUp", "上一頁", "g", "開頭", "a", "分析選中行", "Esc", "返回")

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		content,
		separator(),
		statusStyle.Render(position),
		errLine,
		" "+style.MutedText("輸入行號並回車跳轉"),
		hints,
		RenderStatusMessage(statusMsg),
		RenderTextInput(ti),
	)
}
