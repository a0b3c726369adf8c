package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	domainConfig "github.com/Yat-Muk/logsight/internal/domain/config"
	"github.com/Yat-Muk/logsight/internal/tui/constants"
	"github.com/Yat-Muk/logsight/internal/tui/style"
)

// SettingsPrompt 正在編輯的字段提示，空表示未編輯
type SettingsPrompt string

// RenderSettings 渲染設置頁
func RenderSettings(cfg *domainConfig.Config, prompt SettingsPrompt, ti textinput.Model, statusMsg string) string {
	header := renderSubpageHeader("設置")

	onOff := func(b bool) string {
		if b {
			return "[" + style.SuccessText("開啟") + "]"
		}
		return "[" + style.MutedText("關閉") + "]"
	}
	value := func(v int, unit string) string {
		return "[" + style.InfoText(fmt.Sprintf("%d %s", v, unit)) + "]"
	}
	rpm := "[" + style.InfoText("不限") + "]"
	if cfg.Assistant.RequestsPerMinute > 0 {
		rpm = value(cfg.Assistant.RequestsPerMinute, "次/分")
	}

	items := []MenuItem{
		{Num: constants.KeySettings_AutoSummary, Text: "加載後自動摘要", Desc: onOff(cfg.Assistant.AutoSummary), TextColor: style.Snow1},
		{Num: constants.KeySettings_AutoAnalyze, Text: "自動分析首個錯誤", Desc: onOff(cfg.Assistant.AutoAnalyzeFirstError), TextColor: style.Snow1},
		{Num: constants.KeySettings_ScrollStep, Text: "翻頁步長", Desc: value(cfg.Viewer.ScrollStep, "行"), TextColor: style.Snow1},
		{Num: constants.KeySettings_JumpMargin, Text: "跳轉上下文", Desc: value(cfg.Viewer.JumpMargin, "行"), TextColor: style.Snow1},
		{Num: constants.KeySettings_RPM, Text: "助手請求上限", Desc: rpm, TextColor: style.Snow1},
		Divider,
		{Num: constants.KeyCommon_Back, Text: "返回", TextColor: style.Snow2},
	}

	info := lipgloss.JoinVertical(lipgloss.Left,
		" "+style.MutedText("分析服務: "+cfg.Backend.BaseURL),
		" "+style.MutedText(fmt.Sprintf("窗口大小: %d 行", cfg.Viewer.WindowSize)),
	)

	var editing string
	if prompt != "" {
		editing = " " + style.WarningText(string(prompt))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		renderMenu(items, true),
		info,
		editing,
		RenderStatusMessage(statusMsg),
		RenderInputFooter(ti),
	)
}
