package state

import (
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/Yat-Muk/logsight/internal/domain/session"
)

// ChatState 助手相關狀態，對話本身由 ChatOrchestrator 持有
type ChatState struct {
	// 對話滾動視口
	Viewport      viewport.Model
	ViewportReady bool

	// 加載後的歡迎語，會話切換時替換
	Welcome string

	// 單行分析
	Analysis        *session.LineAnalysis
	AnalysisLoading bool
	AnalysisErr     string
}

func NewChatState() *ChatState {
	return &ChatState{
		Viewport: viewport.New(80, 12),
	}
}

// Reset 會話切換時清空
func (s *ChatState) Reset(welcome string) {
	s.Welcome = welcome
	s.Analysis = nil
	s.AnalysisLoading = false
	s.AnalysisErr = ""
	s.Viewport.GotoTop()
}

// SetContent 更新對話內容並滾動到底部
func (s *ChatState) SetContent(content string) {
	s.Viewport.SetContent(content)
	s.Viewport.GotoBottom()
	s.ViewportReady = true
}

// Resize 調整視口大小
func (s *ChatState) Resize(w, h int) {
	if h < 5 {
		h = 5
	}
	s.Viewport.Width = w
	s.Viewport.Height = h
}
