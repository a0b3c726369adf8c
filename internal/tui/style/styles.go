package style

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Yat-Muk/logsight/internal/domain/session"
)

var (
	// 標題樣式
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary)

	// 錯誤樣式
	ErrorStyle = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	// 成功樣式
	SuccessStyle = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	// 警告樣式
	WarningStyle = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	// 信息樣式
	InfoStyle = lipgloss.NewStyle().
			Foreground(Info)

	// 面板樣式
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Polar4).
			Padding(0, 1)

	// 行號列
	LineNumberStyle = lipgloss.NewStyle().
			Foreground(Snow3)

	// 選中或跳轉目標行
	HighlightLineStyle = lipgloss.NewStyle().
				Foreground(Polar1).
				Background(Aurora2).
				Bold(true)

	// 代碼塊
	CodeBlockStyle = lipgloss.NewStyle().
			Foreground(CodeColor).
			Background(Polar2).
			Padding(0, 1)

	InlineCodeStyle = lipgloss.NewStyle().
			Foreground(CodeColor)
)

// SeverityColor 根據行級別返回前景色
func SeverityColor(sev session.Severity) lipgloss.Color {
	switch sev {
	case session.SeverityError:
		return Error
	case session.SeverityWarning:
		return Warning
	default:
		return Snow1
	}
}

// SeverityStyle 行級別對應的整行樣式
func SeverityStyle(sev session.Severity) lipgloss.Style {
	s := lipgloss.NewStyle().Foreground(SeverityColor(sev))
	switch sev {
	case session.SeverityError:
		return s.Background(BgError)
	case session.SeverityWarning:
		return s.Background(BgWarn)
	}
	return s
}

// GetStatusColor 根據助手狀態返回顏色
func GetStatusColor(status string) lipgloss.Color {
	switch status {
	case "online", "available", "ok":
		return Success
	case "offline", "unavailable", "error":
		return Error
	case "checking", "degraded":
		return Warning
	default:
		return Muted
	}
}
