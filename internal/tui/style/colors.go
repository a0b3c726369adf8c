package style

import "github.com/charmbracelet/lipgloss"

// 基礎色板
var (
	FutureGreen = lipgloss.Color("#B2FF00") // 螢光綠
	SkyBlue     = lipgloss.Color("#1AAEFC") // 天藍
	Violet      = lipgloss.Color("#DDAAFF") // 紫羅蘭
	Yellow      = lipgloss.Color("#FFDC65") // 明黃
	Orange      = lipgloss.Color("#FC7B00") // 橙色
	Red         = lipgloss.Color("#FF007F") // 紅色

	White    = lipgloss.Color("#F3F3F0")
	Gray     = lipgloss.Color("#C0C0C0")
	DarkGray = lipgloss.Color("#8A8783")

	BgDark   = lipgloss.Color("#1a1a1a")
	BgMedium = lipgloss.Color("#2a2a2a")
	BgLight  = lipgloss.Color("#3a3a3a")
	BgError  = lipgloss.Color("#3a1020") // 錯誤行底色
	BgWarn   = lipgloss.Color("#3a3010") // 警告行底色
)

// 功能顏色映射
var (
	Primary   = SkyBlue
	Secondary = Violet
	Text      = White

	StatusGreen  = FutureGreen
	StatusYellow = Yellow
	StatusOrange = Orange
	StatusRed    = Red

	Aurora1 = FutureGreen
	Aurora2 = SkyBlue
	Aurora3 = Violet
	Aurora4 = Orange

	Snow1 = White
	Snow2 = Gray
	Snow3 = DarkGray

	Polar1 = BgDark
	Polar2 = BgMedium
	Polar3 = BgLight
	Polar4 = DarkGray

	Muted   = DarkGray
	Success = FutureGreen
	Error   = Red
	Warning = Yellow
	Info    = SkyBlue

	// 對話角色
	UserColor      = SkyBlue
	AssistantColor = FutureGreen
	CodeColor      = Orange
)
