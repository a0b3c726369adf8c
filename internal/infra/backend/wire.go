package backend

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/Yat-Muk/logsight/internal/domain/session"
)

// flexID 兼容字符串與數字形式的 id
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

type wireCritical struct {
	Line          int      `json:"line"` // 從 1 開始
	Type          string   `json:"type"`
	Content       string   `json:"content"`
	Timestamp     *string  `json:"timestamp"`
	ContextBefore []string `json:"context_before"`
	ContextAfter  []string `json:"context_after"`
	Context       []string `json:"context"`
	ContextRange  []int    `json:"context_range"`
}

type wireAnalysisBody struct {
	ErrorCounts   map[string]int `json:"error_counts"`
	CriticalLines []wireCritical `json:"critical_lines"`
	ErrorLines    []int          `json:"error_lines"`
	WarningLines  []int          `json:"warning_lines"`
}

// wireAnalysis /analyze 與 /log/{id} 的響應，字段可能平鋪也可能嵌套在 analysis 下
type wireAnalysis struct {
	FileID    flexID `json:"file_id"`
	ID        flexID `json:"id"`
	Name      string `json:"name"`
	FileName  string `json:"file_name"`
	LineCount *int   `json:"line_count"`
	Total     *int   `json:"total_lines"`

	wireAnalysisBody
	Analysis *wireAnalysisBody `json:"analysis"`
}

func (w *wireAnalysis) toDomain(fallbackName string) *session.AnalysisResult {
	body := w.wireAnalysisBody
	if w.Analysis != nil {
		body = mergeBody(body, *w.Analysis)
	}

	res := &session.AnalysisResult{
		FileID:       firstNonEmpty(string(w.FileID), string(w.ID)),
		Name:         firstNonEmpty(w.Name, w.FileName, fallbackName),
		Counts:       body.ErrorCounts,
		ErrorLines:   body.ErrorLines,
		WarningLines: body.WarningLines,
	}
	switch {
	case w.LineCount != nil:
		res.TotalLines = *w.LineCount
	case w.Total != nil:
		res.TotalLines = *w.Total
	}
	if res.TotalLines < 0 {
		res.TotalLines = 0
	}

	res.Critical = make([]session.CriticalLine, 0, len(body.CriticalLines))
	for _, c := range body.CriticalLines {
		res.Critical = append(res.Critical, c.toDomain())
	}
	return res
}

// mergeBody 平鋪字段優先，缺失時取嵌套字段
func mergeBody(flat, nested wireAnalysisBody) wireAnalysisBody {
	if flat.ErrorCounts == nil {
		flat.ErrorCounts = nested.ErrorCounts
	}
	if flat.CriticalLines == nil {
		flat.CriticalLines = nested.CriticalLines
	}
	if flat.ErrorLines == nil {
		flat.ErrorLines = nested.ErrorLines
	}
	if flat.WarningLines == nil {
		flat.WarningLines = nested.WarningLines
	}
	return flat
}

func (c wireCritical) toDomain() session.CriticalLine {
	line := c.Line - 1
	if line < 0 {
		line = 0
	}
	sev := session.ParseSeverity(c.Type)
	if sev == session.SeverityPlain {
		// 未標註類型的關鍵行按錯誤處理
		sev = session.SeverityError
	}

	out := session.CriticalLine{
		Line:          line,
		Severity:      sev,
		Content:       c.Content,
		ContextBefore: c.ContextBefore,
		ContextAfter:  c.ContextAfter,
	}
	if c.Timestamp != nil {
		out.Timestamp = *c.Timestamp
	}
	if out.ContextBefore == nil && out.ContextAfter == nil && len(c.Context) > 0 {
		out.ContextBefore, out.ContextAfter = splitContext(c)
	}
	return out
}

// splitContext 把平鋪的 context 按關鍵行位置切成前後兩段
func splitContext(c wireCritical) (before, after []string) {
	pos := -1
	if len(c.ContextRange) == 2 && c.ContextRange[0] > 0 {
		pos = c.Line - c.ContextRange[0]
	}
	if pos < 0 || pos >= len(c.Context) {
		pos = -1
		want := strings.TrimSpace(c.Content)
		for i, l := range c.Context {
			if strings.TrimSpace(l) == want {
				pos = i
				break
			}
		}
	}
	if pos < 0 {
		return c.Context, nil
	}
	return c.Context[:pos], c.Context[pos+1:]
}

// wireWindow /log-context 的響應
type wireWindow struct {
	Lines        []string `json:"lines"`
	Start        *int     `json:"start"`
	StartLine    *int     `json:"start_line"`
	End          int      `json:"end"`
	TotalLines   int      `json:"total_lines"`
	ErrorLines   []int    `json:"error_lines"`
	WarningLines []int    `json:"warning_lines"`
}

func (w *wireWindow) toDomain(requestedStart int) *session.LineWindow {
	start := requestedStart
	switch {
	case w.Start != nil:
		start = *w.Start
	case w.StartLine != nil:
		start = *w.StartLine
	}
	lines := w.Lines
	if lines == nil {
		lines = []string{}
	}
	return &session.LineWindow{
		Start:   start,
		Total:   w.TotalLines,
		Lines:   lines,
		Flagged: session.NewFlaggedLines(w.ErrorLines, w.WarningLines),
	}
}

type wireHistoryEntry struct {
	ID           flexID `json:"id"`
	Name         string `json:"name"`
	FileName     string `json:"file_name"`
	Source       string `json:"source"`
	SourceType   string `json:"source_type"`
	ErrorCount   int    `json:"error_count"`
	WarningCount int    `json:"warning_count"`
	Timestamp    string `json:"timestamp"`
	UploadTime   string `json:"upload_time"`
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	time.RFC1123,
	time.RFC1123Z,
}

func parseTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	if secs, err := strconv.ParseFloat(raw, 64); err == nil {
		return time.Unix(int64(secs), 0).UTC(), true
	}
	return time.Time{}, false
}

func (w wireHistoryEntry) toDomain() session.HistoryEntry {
	raw := firstNonEmpty(w.Timestamp, w.UploadTime)
	ts, _ := parseTime(raw)
	return session.HistoryEntry{
		ID:           string(w.ID),
		Name:         firstNonEmpty(w.Name, w.FileName, string(w.ID)),
		Source:       firstNonEmpty(w.Source, w.SourceType),
		ErrorCount:   w.ErrorCount,
		WarningCount: w.WarningCount,
		Timestamp:    ts,
		RawTime:      raw,
	}
}

type wireChatRequest struct {
	Message string `json:"message"`
	FileID  string `json:"fileId"`
}

type wireChatReply struct {
	Response          string `json:"response"`
	Summary           string `json:"summary"`
	ProbableCause     string `json:"probable_cause"`
	SuggestedFix      string `json:"suggested_fix"`
	AdditionalContext string `json:"additional_context"`
}

type wireLineAnalysis struct {
	Result *struct {
		ErrorSummary      string `json:"error_summary"`
		ProbableCause     string `json:"probable_cause"`
		SuggestedFix      string `json:"suggested_fix"`
		AdditionalContext string `json:"additional_context"`
	} `json:"result"`
}

type wireStatus struct {
	Available bool   `json:"available"`
	Status    string `json:"status"`
	Message   string `json:"message"`
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
