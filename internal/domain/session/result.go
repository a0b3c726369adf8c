package session

import "time"

// CriticalLine 後端挑出的關鍵行
type CriticalLine struct {
	Line          int // 絕對索引，從 0 開始
	Severity      Severity
	Content       string
	Timestamp     string
	ContextBefore []string
	ContextAfter  []string
}

// AnalysisResult 分析後端返回的結果，已在邊界處完成歸一化
type AnalysisResult struct {
	FileID     string
	Name       string
	TotalLines int
	Counts     map[string]int
	Critical   []CriticalLine

	// nil 表示後端未提供，此時從 Critical 推導
	ErrorLines   []int
	WarningLines []int
}

// HistoryEntry 歷史記錄條目
type HistoryEntry struct {
	ID           string
	Name         string
	Source       string
	ErrorCount   int
	WarningCount int
	Timestamp    time.Time
	RawTime      string // 無法解析時保留原文
}

// ChatReply 助手回覆
type ChatReply struct {
	Text              string
	Summary           string
	ProbableCause     string
	SuggestedFix      string
	AdditionalContext string
}

// LineAnalysis 單行錯誤分析
type LineAnalysis struct {
	Line              int
	Summary           string
	ProbableCause     string
	SuggestedFix      string
	AdditionalContext string
}

// 缺省文案
const (
	NoSummary = "No summary available"
	NoCause   = "No probable cause identified"
	NoFix     = "No fix suggested"
)

// WithDefaults 填充缺省字段
func (a LineAnalysis) WithDefaults() LineAnalysis {
	if a.Summary == "" {
		a.Summary = NoSummary
	}
	if a.ProbableCause == "" {
		a.ProbableCause = NoCause
	}
	if a.SuggestedFix == "" {
		a.SuggestedFix = NoFix
	}
	return a
}

// AssistantStatus 助手可用性
type AssistantStatus struct {
	Available bool
	Status    string
	Message   string
}
