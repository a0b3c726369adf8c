// Package sessiontest 提供會話端口的內存實現，供上層測試使用。
package sessiontest

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/Yat-Muk/logsight/internal/domain/session"
)

// Backend 同時實現 Analyzer、LineSource、HistoryStore 與 Assistant
//
// 行內容固定為 "line N"（N 從 1 開始），便於斷言窗口位置。
type Backend struct {
	mu sync.Mutex

	Result     *session.AnalysisResult
	AnalyzeErr error
	WindowErr  error
	ChatErr    error
	LineErr    error
	HistoryErr error
	StatusErr  error

	Entries   []session.HistoryEntry
	Assistant session.AssistantStatus

	Uploads  []session.AnalyzeRequest
	Windows  [][2]int
	Messages []string
	Analyzed []int
	Fetched  []string
	Contents []string
}

// New 返回一個 100 行、三個錯誤一個警告的後端
func New() *Backend {
	return &Backend{
		Result:    Result("f-1", "app.log", 100),
		Assistant: session.AssistantStatus{Available: true, Status: "online"},
	}
}

// Result 構造分析結果，錯誤位於 40/41/90 行，警告位於 12 行（從 0 開始）
func Result(id, name string, total int) *session.AnalysisResult {
	return &session.AnalysisResult{
		FileID:     id,
		Name:       name,
		TotalLines: total,
		Counts:     map[string]int{"Error": 3, "Warning": 1},
		Critical: []session.CriticalLine{
			{Line: 40, Severity: session.SeverityError, Content: "connection refused"},
			{Line: 12, Severity: session.SeverityWarning, Content: "slow query"},
		},
		ErrorLines:   []int{40, 41, 90},
		WarningLines: []int{12},
	}
}

func (b *Backend) Analyze(ctx context.Context, req session.AnalyzeRequest) (*session.AnalysisResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Uploads = append(b.Uploads, req)
	if req.Content != nil {
		data, _ := io.ReadAll(req.Content)
		b.Contents = append(b.Contents, string(data))
	}
	if b.AnalyzeErr != nil {
		return nil, b.AnalyzeErr
	}
	res := *b.Result
	return &res, nil
}

func (b *Backend) Fetch(ctx context.Context, id string) (*session.AnalysisResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Fetched = append(b.Fetched, id)
	if b.AnalyzeErr != nil {
		return nil, b.AnalyzeErr
	}
	res := *b.Result
	res.FileID = id
	return &res, nil
}

func (b *Backend) Window(ctx context.Context, id string, start, end int) (*session.LineWindow, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Windows = append(b.Windows, [2]int{start, end})
	if b.WindowErr != nil {
		return nil, b.WindowErr
	}
	total := b.Result.TotalLines
	var lines []string
	for i := start; i < end && i < total; i++ {
		lines = append(lines, fmt.Sprintf("line %d", i+1))
	}
	return &session.LineWindow{Start: start, Total: total, Lines: lines}, nil
}

func (b *Backend) History(ctx context.Context) ([]session.HistoryEntry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.HistoryErr != nil {
		return nil, b.HistoryErr
	}
	return append([]session.HistoryEntry(nil), b.Entries...), nil
}

func (b *Backend) Chat(ctx context.Context, id, message string) (*session.ChatReply, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Messages = append(b.Messages, message)
	if b.ChatErr != nil {
		return nil, b.ChatErr
	}
	return &session.ChatReply{Text: "reply: " + message}, nil
}

func (b *Backend) AnalyzeLine(ctx context.Context, id string, line int) (*session.LineAnalysis, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Analyzed = append(b.Analyzed, line)
	if b.LineErr != nil {
		return nil, b.LineErr
	}
	return &session.LineAnalysis{Line: line, Summary: fmt.Sprintf("line %d failed", line+1)}, nil
}

func (b *Backend) Status(ctx context.Context) (*session.AssistantStatus, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.StatusErr != nil {
		return nil, b.StatusErr
	}
	st := b.Assistant
	return &st, nil
}

// Calls 返回調用記錄的快照
func (b *Backend) Calls() (uploads int, windows [][2]int, messages []string, analyzed []int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.Uploads),
		append([][2]int(nil), b.Windows...),
		append([]string(nil), b.Messages...),
		append([]int(nil), b.Analyzed...)
}
