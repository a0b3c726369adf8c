package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Yat-Muk/logsight/internal/domain/session"
	"github.com/Yat-Muk/logsight/internal/tui/constants"
	"github.com/Yat-Muk/logsight/internal/tui/style"
)

// RenderHistory 渲染歷史會話列表
func RenderHistory(entries []session.HistoryEntry, loading bool, errMsg string, sp spinner.Model, ti textinput.Model, statusMsg string) string {
	header := renderSubpageHeader("歷史記錄")

	var body string
	switch {
	case loading && len(entries) == 0:
		body = " " + sp.View() + " " + style.InfoText("加載中...")
	case errMsg != "":
		body = " " + style.ErrorText("✗ "+errMsg)
	case len(entries) == 0:
		body = " " + style.MutedText("暫無歷史記錄")
	default:
		items := make([]MenuItem, 0, len(entries))
		for i, e := range entries {
			items = append(items, MenuItem{
				Num:       fmt.Sprint(i + 1),
				Text:      runewidth.Truncate(e.Name, 24, "…"),
				Desc:      historyDesc(e),
				TextColor: style.Snow1,
			})
		}
		body = renderMenu(items, true)
	}

	help := renderMenu([]MenuItem{
		{Num: constants.KeyHistory_Refresh, Text: "刷新", TextColor: style.Snow1},
		{Num: constants.KeyCommon_Back, Text: "返回", TextColor: style.Snow2},
	}, false)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		body,
		" "+style.MutedText("輸入序號打開歷史會話"),
		help,
		RenderStatusMessage(statusMsg),
		RenderInputFooter(ti),
	)
}

func historyDesc(e session.HistoryEntry) string {
	when := e.RawTime
	if !e.Timestamp.IsZero() {
		when = e.Timestamp.Local().Format("2006-01-02 15:04")
	}
	return fmt.Sprintf("(%s) [✗%d ⚠%d]", when, e.ErrorCount, e.WarningCount)
}
