package style

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"

	"github.com/Yat-Muk/logsight/internal/domain/session"
	"github.com/Yat-Muk/logsight/internal/pkg/chatfmt"
)

// BuildColoredLogContent 按級別著色窗口內的行，highlight 為絕對索引，-1 表示不高亮
//
// 行文本先剝離 ANSI 與控制字符，再按寬度截斷。
func BuildColoredLogContent(lines []session.TaggedLine, highlight, width int) string {
	if len(lines) == 0 {
		return ""
	}
	if width < 20 {
		width = 80
	}

	numWidth := len(fmt.Sprint(lines[len(lines)-1].Number()))

	var sb strings.Builder
	for _, l := range lines {
		text := strings.ReplaceAll(chatfmt.Clean(l.Text), "\t", "    ")
		text = strings.ReplaceAll(text, "\n", " ")

		num := fmt.Sprintf("%*d", numWidth, l.Number())
		avail := width - numWidth - 3
		if avail < 10 {
			avail = 10
		}
		text = runewidth.Truncate(text, avail, "…")

		var row string
		if l.Index == highlight {
			row = HighlightLineStyle.Render(fmt.Sprintf("%s │ %s", num, text))
		} else {
			row = LineNumberStyle.Render(num+" │ ") + SeverityStyle(l.Severity).Render(text)
		}
		sb.WriteString(row)
		sb.WriteString("\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// RenderChatText 把助手回覆渲染為終端文本，代碼塊與行內代碼單獨著色
//
// width > 0 時正文在著色後折行；代碼塊不折行，超寬的行截斷。
func RenderChatText(text string, base lipgloss.Style, width int) string {
	var sb, para strings.Builder
	flush := func() {
		if para.Len() == 0 {
			return
		}
		s := para.String()
		if width > 0 {
			s = wordwrap.String(s, width)
		}
		sb.WriteString(s)
		para.Reset()
	}

	for _, seg := range chatfmt.Parse(text) {
		switch seg.Kind {
		case chatfmt.KindCodeBlock:
			flush()
			if seg.Lang != "" {
				sb.WriteString(MutedText(seg.Lang) + "\n")
			}
			code := truncateLines(strings.TrimRight(seg.Text, "\n"), width-2)
			sb.WriteString(CodeBlockStyle.Render(code))
			sb.WriteString("\n")
		case chatfmt.KindInlineCode:
			para.WriteString(InlineCodeStyle.Render(seg.Text))
		default:
			para.WriteString(base.Render(seg.Text))
		}
	}
	flush()
	return sb.String()
}

func truncateLines(s string, width int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = runewidth.Truncate(l, width, "…")
	}
	return strings.Join(lines, "\n")
}
