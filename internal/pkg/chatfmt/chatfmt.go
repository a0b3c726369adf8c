// Package chatfmt 處理助手回覆中受限的 Markdown 子集：圍欄代碼塊與行內代碼。
//
// 兩條管線都先中和標記，再解析格式：HTML 先轉義，終端先剝離 ANSI 與控制字符。
package chatfmt

import (
	"html"
	"regexp"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Kind 片段類型
type Kind int

const (
	KindText Kind = iota
	KindInlineCode
	KindCodeBlock
)

// Segment 解析後的片段
type Segment struct {
	Kind Kind
	Lang string // 僅代碼塊
	Text string
}

var (
	fenceRegex  = regexp.MustCompile("(?s)```([A-Za-z0-9_+-]*)[ \t]*\n?(.*?)```")
	inlineRegex = regexp.MustCompile("`([^`\n]+)`")
)

// Clean 剝離 ANSI 轉義序列及除換行、製表符外的控制字符
func Clean(s string) string {
	s = ansi.Strip(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n' || r == '\t':
			b.WriteRune(r)
		case r < 32 || r == 127 || (r >= 0x80 && r < 0xa0):
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Parse 清理後切分為文本、行內代碼與代碼塊
func Parse(s string) []Segment {
	return split(Clean(s))
}

func split(s string) []Segment {
	var out []Segment
	pos := 0
	for _, m := range fenceRegex.FindAllStringSubmatchIndex(s, -1) {
		out = appendInline(out, s[pos:m[0]])
		out = append(out, Segment{
			Kind: KindCodeBlock,
			Lang: s[m[2]:m[3]],
			Text: strings.TrimRight(s[m[4]:m[5]], "\n"),
		})
		pos = m[1]
	}
	return appendInline(out, s[pos:])
}

func appendInline(out []Segment, s string) []Segment {
	if s == "" {
		return out
	}
	pos := 0
	for _, m := range inlineRegex.FindAllStringSubmatchIndex(s, -1) {
		if m[0] > pos {
			out = append(out, Segment{Kind: KindText, Text: s[pos:m[0]]})
		}
		out = append(out, Segment{Kind: KindInlineCode, Text: s[m[2]:m[3]]})
		pos = m[1]
	}
	if pos < len(s) {
		out = append(out, Segment{Kind: KindText, Text: s[pos:]})
	}
	return out
}

// FormatHTML 將回覆渲染為 HTML 片段
//
// 先整體轉義，因此回覆中的任何標籤都只會以文本出現。
func FormatHTML(s string) string {
	escaped := html.EscapeString(strings.ReplaceAll(s, "\r\n", "\n"))

	var b strings.Builder
	for _, seg := range split(escaped) {
		switch seg.Kind {
		case KindCodeBlock:
			b.WriteString(`<pre><code`)
			if seg.Lang != "" {
				b.WriteString(` class="language-` + seg.Lang + `"`)
			}
			b.WriteString(`>` + seg.Text + `</code></pre>`)
		case KindInlineCode:
			b.WriteString(`<code>` + seg.Text + `</code>`)
		default:
			b.WriteString(strings.ReplaceAll(seg.Text, "\n", "<br>"))
		}
	}
	return b.String()
}
