package session

import "sort"

// Severity 行級別
type Severity string

const (
	SeverityPlain   Severity = ""
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// ParseSeverity 解析後端的 type 字段，大小寫不敏感
func ParseSeverity(s string) Severity {
	switch normalizeKey(s) {
	case "error", "failure", "critical", "fatal":
		return SeverityError
	case "warning", "warn":
		return SeverityWarning
	}
	return SeverityPlain
}

type lineSet map[int]struct{}

func (s lineSet) has(line int) bool {
	_, ok := s[line]
	return ok
}

func (s lineSet) sorted() []int {
	out := make([]int, 0, len(s))
	for l := range s {
		out = append(out, l)
	}
	sort.Ints(out)
	return out
}

// FlaggedLines 被標記的絕對行索引（從 0 開始）
//
// 錯誤集合與警告集合互斥；同一行同時出現時只保留為錯誤。
type FlaggedLines struct {
	errors   lineSet
	warnings lineSet
}

// NewFlaggedLines 構建標記集合，負數索引被忽略
func NewFlaggedLines(errorLines, warningLines []int) FlaggedLines {
	f := FlaggedLines{
		errors:   make(lineSet, len(errorLines)),
		warnings: make(lineSet, len(warningLines)),
	}
	for _, l := range errorLines {
		if l >= 0 {
			f.errors[l] = struct{}{}
		}
	}
	for _, l := range warningLines {
		if l >= 0 && !f.errors.has(l) {
			f.warnings[l] = struct{}{}
		}
	}
	return f
}

// SeverityOf 返回指定行的級別
func (f FlaggedLines) SeverityOf(line int) Severity {
	switch {
	case f.errors.has(line):
		return SeverityError
	case f.warnings.has(line):
		return SeverityWarning
	}
	return SeverityPlain
}

// Union 合併兩個集合，錯誤優先
func (f FlaggedLines) Union(o FlaggedLines) FlaggedLines {
	return NewFlaggedLines(
		append(f.errors.sorted(), o.errors.sorted()...),
		append(f.warnings.sorted(), o.warnings.sorted()...),
	)
}

// Errors 升序的錯誤行
func (f FlaggedLines) Errors() []int { return f.errors.sorted() }

// Warnings 升序的警告行
func (f FlaggedLines) Warnings() []int { return f.warnings.sorted() }

// FirstError 第一個錯誤行
func (f FlaggedLines) FirstError() (int, bool) {
	if len(f.errors) == 0 {
		return 0, false
	}
	return f.errors.sorted()[0], true
}

// Len 標記行總數
func (f FlaggedLines) Len() int { return len(f.errors) + len(f.warnings) }

// LineWindow 一次取回的原始行切片，只用於當前渲染
type LineWindow struct {
	Start   int
	Total   int
	Lines   []string
	Flagged FlaggedLines
}

// End 窗口末尾（不含）
func (w *LineWindow) End() int {
	return w.Start + len(w.Lines)
}

// Contains 窗口是否包含指定絕對行
func (w *LineWindow) Contains(line int) bool {
	return line >= w.Start && line < w.End()
}

// TaggedLine 帶級別的行
type TaggedLine struct {
	Index    int // 絕對索引，從 0 開始
	Text     string
	Severity Severity
}

// Number 從 1 開始的行號
func (l TaggedLine) Number() int { return l.Index + 1 }

// Tag 按絕對索引為窗口內每一行標註級別，使用會話標記與窗口自帶標記的並集
func (w *LineWindow) Tag(session FlaggedLines) []TaggedLine {
	flags := session.Union(w.Flagged)
	out := make([]TaggedLine, len(w.Lines))
	for i, text := range w.Lines {
		idx := w.Start + i
		out[i] = TaggedLine{Index: idx, Text: text, Severity: flags.SeverityOf(idx)}
	}
	return out
}
