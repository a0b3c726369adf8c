package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Yat-Muk/logsight/internal/tui/style"
)

const pageWidth = 50

// MenuItem 菜單項
type MenuItem struct {
	Num       string         // 序號 (如 "1", "n")
	Text      string         // 選項名稱
	Desc      string         // 描述，圓括號灰色、方括號黃色
	TextColor lipgloss.Color // Text 的顏色
}

// Divider 菜單中的細分隔線
var Divider = MenuItem{}

func (m MenuItem) isDivider() bool { return m.Num == "" && m.Text == "" }

// 帶括號的描述參與列對齊
func (m MenuItem) bracketed() bool {
	return strings.ContainsAny(m.Desc, "(（")
}

// renderMenu 渲染序號菜單
//
// table 為真時所有行的描述對齊到同一列（設置頁、列表），否則只有帶括號描述的行對齊。
func renderMenu(items []MenuItem, table bool) string {
	numWidth, textWidth := 0, 0
	for _, it := range items {
		if it.isDivider() {
			continue
		}
		numWidth = max(numWidth, len(it.Num))
		if table || it.bracketed() {
			textWidth = max(textWidth, runewidth.StringWidth(it.Text))
		}
	}

	numStyle := lipgloss.NewStyle().Foreground(style.Aurora3)
	dot := lipgloss.NewStyle().Foreground(style.Snow3).Render(".")
	thin := lipgloss.NewStyle().Foreground(style.Snow2).Render(" " + strings.Repeat("┄", pageWidth-2))

	rows := make([]string, 0, len(items)+1)
	for _, it := range items {
		if it.isDivider() {
			rows = append(rows, thin)
			continue
		}
		pad := " "
		if textWidth > 0 && (table || it.bracketed()) {
			pad = strings.Repeat(" ", max(1, textWidth+2-runewidth.StringWidth(it.Text)))
		}
		desc := it.Desc
		if !strings.Contains(desc, "\x1b") {
			desc = colorizeDescription(desc)
		}
		rows = append(rows, fmt.Sprintf(" %s%s %s%s",
			numStyle.Render(fmt.Sprintf("%*s", numWidth, it.Num)),
			dot,
			lipgloss.NewStyle().Foreground(it.TextColor).Render(it.Text)+pad,
			desc,
		))
	}
	rows = append(rows, separator())
	return strings.Join(rows, "\n")
}

// colorizeDescription [..] 黃色，其餘灰色
func colorizeDescription(desc string) string {
	if desc == "" {
		return ""
	}
	yellow := lipgloss.NewStyle().Foreground(style.StatusYellow)
	grey := lipgloss.NewStyle().Foreground(style.Snow3)

	var b strings.Builder
	rest := desc
	for rest != "" {
		open := strings.IndexByte(rest, '[')
		if open < 0 {
			b.WriteString(grey.Render(rest))
			break
		}
		if open > 0 {
			b.WriteString(grey.Render(rest[:open]))
		}
		end := strings.IndexByte(rest[open:], ']')
		if end < 0 {
			b.WriteString(grey.Render(rest[open:]))
			break
		}
		b.WriteString(yellow.Render(rest[open : open+end+1]))
		rest = rest[open+end+1:]
	}
	return b.String()
}

// RenderLogo 渲染 LOGSIGHT 字標
func RenderLogo() string {
	lines := []struct {
		text  string
		color lipgloss.Color
	}{
		{"█░░ █▀█ █▀▀ █▀ █ █▀▀ █░█ ▀█▀", lipgloss.Color("#DDAAFF")},
		{"█▄▄ █▄█ █▄█ ▄█ █ █▄█ █▀█ ░█░", lipgloss.Color("#1AAEFC")},
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = lipgloss.NewStyle().
			Foreground(l.color).
			Bold(true).
			Width(pageWidth).
			AlignHorizontal(lipgloss.Center).
			Render(l.text)
	}
	return lipgloss.JoinVertical(lipgloss.Left, out...)
}

// Subtitle 副標題
const Subtitle = ":: 日誌分析助手 ::"

// renderSubpageHeader 子頁面頭部：字標、副標題、頁名
func renderSubpageHeader(title string) string {
	subtitle := lipgloss.NewStyle().
		Foreground(style.Aurora3).
		Width(pageWidth).
		AlignHorizontal(lipgloss.Center).
		Render(Subtitle)
	titleLine := lipgloss.NewStyle().
		Foreground(style.Aurora2).
		Render(fmt.Sprintf(" »»» %s «««", title))

	return lipgloss.JoinVertical(lipgloss.Left, RenderLogo(), "", subtitle, "", titleLine, separator())
}

var (
	warnKeywords    = []string{"⚠️", "頻繁", "末尾", "警告", "超出"}
	errorKeywords   = []string{"失敗", "錯誤", "無效", "無法", "不可用", "✗"}
	successKeywords = []string{"成功", "完成", "已導出", "✓"}
)

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func statusColor(msg string) lipgloss.Color {
	switch {
	case containsAny(msg, warnKeywords):
		return style.StatusYellow
	case containsAny(msg, errorKeywords):
		return style.StatusRed
	case containsAny(msg, successKeywords):
		return style.StatusGreen
	}
	return style.Aurora3
}

// RenderStatusMessage 狀態提示，顏色由關鍵字決定，"Esc" 單獨高亮
func RenderStatusMessage(msg string) string {
	if msg == "" {
		return ""
	}
	base := lipgloss.NewStyle().Foreground(statusColor(msg))
	key := lipgloss.NewStyle().Foreground(style.StatusRed)

	lines := strings.Split(msg, "\n")
	for i, line := range lines {
		parts := strings.Split(line, "Esc")
		for j, p := range parts {
			parts[j] = base.Render(p)
		}
		lines[i] = strings.Join(parts, key.Render("Esc"))
	}

	return lipgloss.NewStyle().
		Padding(1, 1).
		Width(pageWidth + 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// RenderTextInput 只渲染輸入行
func RenderTextInput(ti textinput.Model) string {
	prompt := lipgloss.NewStyle().Foreground(style.Snow2).Render(" ❯ 請輸入: ")
	return lipgloss.JoinHorizontal(lipgloss.Left, prompt, ti.View())
}

// RenderInputFooter 輸入行加底部按鍵提示
func RenderInputFooter(ti textinput.Model) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		RenderTextInput(ti),
		"\n",
		renderHints("Esc", "返回", "Enter", "確認"),
	)
}

// RenderError 錯誤頁
func RenderError(errMsg string, ti textinput.Model) string {
	text := lipgloss.NewStyle().Foreground(style.StatusRed).Bold(true).Render("✗ " + errMsg)
	return lipgloss.JoinVertical(lipgloss.Left, renderSubpageHeader("錯誤"), "", text, "", RenderInputFooter(ti))
}

// RenderLoading 加載頁
func RenderLoading(message string) string {
	text := lipgloss.NewStyle().Foreground(style.Aurora2).Render(fmt.Sprintf("⏳ %s...", message))
	return lipgloss.JoinVertical(lipgloss.Left, renderSubpageHeader("加載中"), "", text)
}

// RenderSessionLine 會話概要行，未加載時提示
func RenderSessionLine(name string, total, errors, warnings int) string {
	labelStyle := lipgloss.NewStyle().Foreground(style.Snow3)
	if name == "" {
		return " " + labelStyle.Render("當前會話: ") + style.MutedText("未加載")
	}
	nameText := runewidth.Truncate(name, 28, "…")
	return fmt.Sprintf(" %s%s  %s  %s  %s",
		labelStyle.Render("當前會話: "),
		lipgloss.NewStyle().Foreground(style.Snow1).Bold(true).Render(nameText),
		style.MutedText(fmt.Sprintf("%d 行", total)),
		style.ErrorText(fmt.Sprintf("✗ %d", errors)),
		style.WarningText(fmt.Sprintf("⚠ %d", warnings)),
	)
}

// renderHints 渲染按鍵提示，參數為 鍵, 說明, 鍵, 說明...
func renderHints(pairs ...string) string {
	snow3 := lipgloss.NewStyle().Foreground(style.Snow3)
	polar4 := lipgloss.NewStyle().Foreground(style.Polar4)

	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, snow3.Render(pairs[i]+" ")+polar4.Render(pairs[i+1]))
	}
	return lipgloss.NewStyle().PaddingLeft(1).Render(strings.Join(parts, polar4.Render(" • ")))
}

func separator() string {
	return lipgloss.NewStyle().
		Foreground(style.Snow2).
		Render(strings.Repeat("═", pageWidth))
}
