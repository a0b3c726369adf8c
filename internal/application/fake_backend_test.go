package application

import (
	"context"
	"io"
	"sync"

	"github.com/Yat-Muk/logsight/internal/domain/session"
)

// fakeBackend 記錄調用並返回預設結果
type fakeBackend struct {
	mu sync.Mutex

	analyzeResult *session.AnalysisResult
	analyzeErr    error
	analyzeCalls  int
	lastUpload    session.AnalyzeRequest
	lastContent   string

	fetchCalls int

	windowErr   error
	windowCalls [][2]int
	windowFlags session.FlaggedLines

	history    []session.HistoryEntry
	historyErr error

	chatCalls int
	chatErr   error

	lineCalls []int
	status    *session.AssistantStatus
	statusErr error
}

func (f *fakeBackend) Analyze(ctx context.Context, req session.AnalyzeRequest) (*session.AnalysisResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.analyzeCalls++
	f.lastUpload = req
	if req.Content != nil {
		b, _ := io.ReadAll(req.Content)
		f.lastContent = string(b)
	}
	if f.analyzeErr != nil {
		return nil, f.analyzeErr
	}
	return f.analyzeResult, nil
}

func (f *fakeBackend) Fetch(ctx context.Context, id string) (*session.AnalysisResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	if f.analyzeErr != nil {
		return nil, f.analyzeErr
	}
	res := *f.analyzeResult
	res.FileID = id
	return &res, nil
}

func (f *fakeBackend) Window(ctx context.Context, id string, start, end int) (*session.LineWindow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.windowCalls = append(f.windowCalls, [2]int{start, end})
	if f.windowErr != nil {
		return nil, f.windowErr
	}
	lines := make([]string, 0, end-start)
	for i := start; i < end && i < 100; i++ {
		lines = append(lines, "line")
	}
	return &session.LineWindow{Start: start, Total: 100, Lines: lines, Flagged: f.windowFlags}, nil
}

func (f *fakeBackend) History(ctx context.Context) ([]session.HistoryEntry, error) {
	return f.history, f.historyErr
}

func (f *fakeBackend) Chat(ctx context.Context, id, message string) (*session.ChatReply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chatCalls++
	if f.chatErr != nil {
		return nil, f.chatErr
	}
	return &session.ChatReply{Text: "re: " + message}, nil
}

func (f *fakeBackend) AnalyzeLine(ctx context.Context, id string, line int) (*session.LineAnalysis, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lineCalls = append(f.lineCalls, line)
	return &session.LineAnalysis{Line: line, Summary: "bad thing"}, nil
}

func (f *fakeBackend) Status(ctx context.Context) (*session.AssistantStatus, error) {
	return f.status, f.statusErr
}

func sampleResult() *session.AnalysisResult {
	return &session.AnalysisResult{
		FileID:     "f-1",
		Name:       "app.log",
		TotalLines: 100,
		Counts:     map[string]int{"Error": 3, "warning": 7},
		Critical: []session.CriticalLine{
			{Line: 40, Severity: session.SeverityError, Content: "boom"},
			{Line: 12, Severity: session.SeverityWarning, Content: "slow"},
		},
		ErrorLines:   []int{40, 41, 90},
		WarningLines: []int{12},
	}
}

// loadedState 直接放入一個 100 行的會話
func loadedState(id string) *SessionState {
	st := NewSessionState()
	res := sampleResult()
	st.replace(session.New(id, "app.log", session.SourceFile, res.TotalLines, session.Project(res)))
	return st
}
