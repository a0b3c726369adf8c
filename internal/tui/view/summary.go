package view

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Yat-Muk/logsight/internal/domain/session"
	"github.com/Yat-Muk/logsight/internal/tui/constants"
	"github.com/Yat-Muk/logsight/internal/tui/style"
)

const summaryTopCritical = 5

// RenderSummary 渲染分析概要：計數、分佈與前幾條關鍵行
func RenderSummary(sess *session.Session, ti textinput.Model, statusMsg string) string {
	header := renderSubpageHeader("分析概要")
	if !sess.Loaded() {
		return lipgloss.JoinVertical(lipgloss.Left,
			header, "", " "+style.MutedText("尚未加載日誌"),
			RenderStatusMessage(statusMsg), RenderInputFooter(ti))
	}

	sections := []string{
		header,
		RenderSessionLine(sess.DisplayName, sess.TotalLines, sess.ErrorCount, sess.WarningCount),
		"",
		renderBreakdown(sess.Breakdown),
		"",
		renderCriticalPreview(sess.Critical),
		"",
		renderMenu([]MenuItem{
			{Num: constants.KeyMain_Viewer, Text: "查看日誌", TextColor: style.Snow1},
			{Num: constants.KeyMain_Critical, Text: "全部關鍵行", Desc: fmt.Sprintf("(%d)", len(sess.Critical)), TextColor: style.Snow1},
			{Num: constants.KeyMain_Chat, Text: "詢問分析助手", TextColor: style.Snow1},
			{Num: constants.KeyCommon_Back, Text: "返回主菜單", TextColor: style.Snow2},
		}, false),
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinVertical(lipgloss.Left, sections...),
		RenderStatusMessage(statusMsg),
		RenderInputFooter(ti),
	)
}

func renderBreakdown(entries []session.CountEntry) string {
	title := " " + lipgloss.NewStyle().Foreground(style.Aurora2).Bold(true).Render("問題分佈")
	if len(entries) == 0 {
		return title + "\n " + style.MutedText("後端未返回分類計數")
	}

	sorted := make([]session.CountEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Count > sorted[j].Count })

	max := sorted[0].Count
	labelWidth := 0
	for _, e := range sorted {
		if w := runewidth.StringWidth(e.Label); w > labelWidth {
			labelWidth = w
		}
	}

	rows := []string{title}
	for _, e := range sorted {
		label := runewidth.FillRight(e.Label, labelWidth)
		rows = append(rows, fmt.Sprintf(" %s  %s",
			style.SnowText(label),
			style.RenderBar(e.Count, max, 24, labelColor(e.Label)),
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderCriticalPreview(lines []session.CriticalLine) string {
	title := " " + lipgloss.NewStyle().Foreground(style.Aurora2).Bold(true).Render("關鍵行")
	if len(lines) == 0 {
		return title + "\n " + style.MutedText("未發現關鍵行")
	}
	rows := []string{title}
	for i, c := range lines {
		if i == summaryTopCritical {
			rows = append(rows, " "+style.MutedText(fmt.Sprintf("… 另有 %d 條", len(lines)-i)))
			break
		}
		rows = append(rows, renderCriticalRow(i+1, c, 40))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// labelColor 分類名稱對應的顏色，Errors/Warnings 以外的分類用強調色
func labelColor(label string) lipgloss.Color {
	l := strings.ToLower(label)
	switch {
	case strings.HasPrefix(l, "error"):
		return style.Error
	case strings.HasPrefix(l, "warn"):
		return style.Warning
	}
	return style.Aurora3
}
