package view

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/Yat-Muk/logsight/internal/tui/constants"
	"github.com/Yat-Muk/logsight/internal/tui/style"
)

// RenderAnalyzeFile 渲染本地文件輸入頁
func RenderAnalyzeFile(submitting bool, pending string, sp spinner.Model, ti textinput.Model, statusMsg string) string {
	header := renderSubpageHeader("分析本地日誌文件")

	tips := lipgloss.JoinVertical(lipgloss.Left,
		" "+style.SnowText("請輸入日誌文件路徑"),
		" "+style.MutedText("支持 .log / .txt，大小不超過 50MB"),
	)

	body := tips
	if submitting {
		body = lipgloss.JoinVertical(lipgloss.Left, tips, "", renderSubmitting(pending, sp))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		body,
		separator(),
		RenderStatusMessage(statusMsg),
		RenderInputFooter(ti),
	)
}

// RenderAnalyzeURL 渲染遠程 URL 輸入頁
func RenderAnalyzeURL(skipTLS, submitting bool, pending string, sp spinner.Model, ti textinput.Model, statusMsg string) string {
	header := renderSubpageHeader("分析遠程日誌 URL")

	tlsState := style.SuccessText("校驗")
	if skipTLS {
		tlsState = style.WarningText("跳過 (不安全)")
	}

	items := []MenuItem{
		{Num: constants.KeyURL_ToggleTLS, Text: "切換證書校驗", Desc: "[" + tlsState + "]", TextColor: style.Snow1},
	}

	tips := lipgloss.JoinVertical(lipgloss.Left,
		" "+style.SnowText("請輸入 http(s) 日誌地址"),
		" "+style.MutedText("例如 https://logs.example.com/app.log"),
		"",
		renderMenu(items, false),
	)

	body := tips
	if submitting {
		body = lipgloss.JoinVertical(lipgloss.Left, tips, "", renderSubmitting(pending, sp))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		body,
		RenderStatusMessage(statusMsg),
		RenderInputFooter(ti),
	)
}

func renderSubmitting(name string, sp spinner.Model) string {
	return " " + sp.View() + " " + style.InfoText("正在分析 "+name+" ...")
}
