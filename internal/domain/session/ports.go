package session

import (
	"context"
	"io"
)

// AnalyzeRequest 提交分析的請求
//
// 文件來源時 Content 為文件內容，URL 來源時為 nil。
type AnalyzeRequest struct {
	Source   Source
	FileName string
	Content  io.Reader
}

// Analyzer 分析後端
type Analyzer interface {
	Analyze(ctx context.Context, req AnalyzeRequest) (*AnalysisResult, error)
	Fetch(ctx context.Context, id string) (*AnalysisResult, error)
}

// LineSource 行窗口後端，end 不含
type LineSource interface {
	Window(ctx context.Context, id string, start, end int) (*LineWindow, error)
}

// HistoryStore 歷史記錄
type HistoryStore interface {
	History(ctx context.Context) ([]HistoryEntry, error)
}

// Assistant 聊天與分析助手
type Assistant interface {
	Chat(ctx context.Context, id, message string) (*ChatReply, error)
	AnalyzeLine(ctx context.Context, id string, line int) (*LineAnalysis, error)
	Status(ctx context.Context) (*AssistantStatus, error)
}
