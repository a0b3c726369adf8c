package style

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	ProgressBarStyle      = lipgloss.NewStyle().Foreground(Aurora2)
	ProgressBarEmptyStyle = lipgloss.NewStyle().Foreground(Polar4)
)

func badge(fg, bg lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(fg).Background(bg).Padding(0, 1).Bold(true)
}

// 徽章樣式，按類型索引
var badgeStyles = map[string]lipgloss.Style{
	"success": badge(Polar1, StatusGreen),
	"error":   badge(Snow1, StatusRed),
	"warning": badge(Polar1, StatusYellow),
	"info":    badge(Snow1, Aurora3),
}

// fill 返回 [0, width] 內的實心格數，非零計數至少佔一格
func fill(count, total, width int) int {
	if total <= 0 || count <= 0 {
		return 0
	}
	return min(width, max(1, count*width/total))
}

// RenderBar 按比例填充的計數條，用於分類分佈
func RenderBar(count, total, width int, c lipgloss.Color) string {
	if width < 2 {
		width = 20
	}
	n := fill(count, total, width)
	return lipgloss.NewStyle().Foreground(c).Render(strings.Repeat("█", n)) +
		ProgressBarEmptyStyle.Render(strings.Repeat("░", width-n)) +
		fmt.Sprintf(" %d", count)
}

// RenderProgressBar 百分比進度條，超出範圍時截斷
func RenderProgressBar(percent float64, width int) string {
	if width < 2 {
		width = 20
	}
	percent = min(100, max(0, percent))
	n := int(float64(width) * percent / 100)
	return ProgressBarStyle.Render(strings.Repeat("█", n)+strings.Repeat("░", width-n)) +
		fmt.Sprintf(" %5.1f%%", percent)
}

// RenderBadge 徽章，未知類型原樣返回
func RenderBadge(text, kind string) string {
	if s, ok := badgeStyles[kind]; ok {
		return s.Render(text)
	}
	return text
}

// RenderBox 帶標題的圓角框
func RenderBox(title, content string, width int) string {
	if width < 10 {
		width = 40
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Aurora3).
		Width(width).
		Padding(0, 1)
	return box.Render(lipgloss.NewStyle().Bold(true).Foreground(Aurora1).Render(title) + "\n" + content)
}
