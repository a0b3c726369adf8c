package view

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/Yat-Muk/logsight/internal/domain/session"
	"github.com/Yat-Muk/logsight/internal/tui/constants"
	"github.com/Yat-Muk/logsight/internal/tui/style"
)

// MainViewData 主視圖所需數據
type MainViewData struct {
	Session    *session.Session // nil 表示未加載
	BackendURL string
	Version    string
	Available  bool
	Width      int
}

// RenderMainView 渲染主視圖
func RenderMainView(data MainViewData, ti textinput.Model, statusMsg string) string {
	var sections []string

	// 1. Logo 和標題
	sections = append(sections, renderHeader(data.Version, data.BackendURL, data.Available))

	// 2. 會話面板
	sections = append(sections, renderSessionPanel(data.Session))

	// 3. 菜單選項
	sections = append(sections, renderMainMenu(data.Session.Loaded()))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		strings.Join(sections, "\n"),
		RenderStatusMessage(statusMsg),
		RenderTextInput(ti),
	)
}

func renderHeader(version, backendURL string, available bool) string {
	labelStyle := lipgloss.NewStyle().Foreground(style.Snow3)
	valueStyle := lipgloss.NewStyle().Foreground(style.Snow2)

	subtitle := lipgloss.NewStyle().
		Foreground(style.Aurora3).
		Width(50).
		AlignHorizontal(lipgloss.Center).
		Render(Subtitle)

	if version == "" {
		version = "dev"
	} else if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}

	info := lipgloss.NewStyle().
		Width(49).
		AlignHorizontal(lipgloss.Center).
		Render(lipgloss.JoinHorizontal(lipgloss.Left,
			labelStyle.Render("版本: "),
			valueStyle.Render(version),
		))

	status, label := "online", "● 在線"
	if !available {
		status, label = "offline", "● 離線"
	}
	statusText := lipgloss.NewStyle().Foreground(style.GetStatusColor(status)).Render(label)
	backend := lipgloss.NewStyle().
		Width(49).
		AlignHorizontal(lipgloss.Center).
		Render(lipgloss.JoinHorizontal(lipgloss.Left,
			labelStyle.Render("分析服務: "),
			valueStyle.Render(backendURL+" "),
			statusText,
		))

	return lipgloss.JoinVertical(lipgloss.Left,
		RenderLogo(),
		"",
		subtitle,
		"",
		info,
		backend,
		separator(),
	)
}

func renderSessionPanel(sess *session.Session) string {
	if !sess.Loaded() {
		return RenderSessionLine("", 0, 0, 0) + "\n" + separator()
	}
	return RenderSessionLine(sess.DisplayName, sess.TotalLines, sess.ErrorCount, sess.WarningCount) +
		"\n" + separator()
}

func renderMainMenu(loaded bool) string {
	need := ""
	sessionColor := style.Snow1
	if !loaded {
		need = "(需先加載日誌)"
		sessionColor = style.Snow3
	}

	items := []MenuItem{
		{Num: constants.KeyMain_AnalyzeFile, Text: "分析本地日誌文件", TextColor: style.Snow1},
		{Num: constants.KeyMain_AnalyzeURL, Text: "分析遠程日誌 URL", TextColor: style.Snow1},
		Divider,
		{Num: constants.KeyMain_Summary, Text: "分析概要", Desc: need, TextColor: sessionColor},
		{Num: constants.KeyMain_Viewer, Text: "查看日誌", Desc: need, TextColor: sessionColor},
		{Num: constants.KeyMain_Critical, Text: "關鍵行列表", Desc: need, TextColor: sessionColor},
		{Num: constants.KeyMain_Chat, Text: "詢問分析助手", Desc: need, TextColor: sessionColor},
		Divider,
		{Num: constants.KeyMain_History, Text: "歷史記錄", TextColor: style.Snow1},
		{Num: constants.KeyMain_Settings, Text: "設置", TextColor: style.Snow1},
		{Num: constants.KeyMain_Export, Text: "導出 HTML 報告", Desc: need, TextColor: sessionColor},
		Divider,
		{Num: constants.KeyMain_Quit, Text: "退出", TextColor: style.Snow2},
	}

	return renderMenu(items, false)
}
