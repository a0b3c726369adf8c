package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/Yat-Muk/logsight/internal/domain/session"
	"github.com/Yat-Muk/logsight/internal/tui/constants"
	"github.com/Yat-Muk/logsight/internal/tui/style"
)

// RenderLineAnalysis 渲染單行分析面板
func RenderLineAnalysis(a *session.LineAnalysis, loading bool, errMsg string, sp spinner.Model, ti textinput.Model, statusMsg string) string {
	header := renderSubpageHeader("單行分析")

	var body string
	switch {
	case loading:
		body = " " + sp.View() + " " + style.InfoText("正在分析...")
	case errMsg != "":
		body = " " + style.ErrorText("✗ "+errMsg)
	case a == nil:
		body = " " + style.MutedText("尚未分析任何行，可在日誌查看器中按 a 分析選中行")
	default:
		body = renderAnalysisFields(*a)
	}

	menu := renderMenu([]MenuItem{
		{Num: constants.KeyAnalysis_Refresh, Text: "重新分析", TextColor: style.Snow1},
		{Num: constants.KeyAnalysis_Chat, Text: "繼續詢問助手", TextColor: style.Snow1},
		{Num: constants.KeyCommon_Back, Text: "返回", TextColor: style.Snow2},
	}, false)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		body,
		"",
		menu,
		RenderStatusMessage(statusMsg),
		RenderInputFooter(ti),
	)
}

func renderAnalysisFields(a session.LineAnalysis) string {
	label := lipgloss.NewStyle().Foreground(style.Aurora2).Bold(true)
	text := lipgloss.NewStyle().Foreground(style.Snow1)

	field := func(name, v string) string {
		return " " + label.Render(name) + "\n" + indent(style.RenderChatText(v, text, 46))
	}

	rows := []string{
		" " + style.RenderBadge(fmt.Sprintf("第 %d 行", a.Line+1), "info"),
		"",
		field("摘要", a.Summary),
		field("可能原因", a.ProbableCause),
		field("修復建議", a.SuggestedFix),
	}
	if a.AdditionalContext != "" {
		box := style.RenderBox("補充信息", style.RenderChatText(a.AdditionalContext, text, 42), 46)
		rows = append(rows, "", indent(box))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
