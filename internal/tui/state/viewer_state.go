package state

import "github.com/Yat-Muk/logsight/internal/application"

// ViewerState 日誌查看器狀態
type ViewerState struct {
	// 最近一次被接受的窗口，只用於渲染
	Window *application.Window

	Loading bool
	Err     string
}

func NewViewerState() *ViewerState {
	return &ViewerState{}
}

// Reset 會話切換時清空
func (s *ViewerState) Reset() {
	s.Window = nil
	s.Loading = false
	s.Err = ""
}

// SetWindow 更新窗口並清除錯誤
func (s *ViewerState) SetWindow(w *application.Window) {
	s.Window = w
	s.Loading = false
	s.Err = ""
}

// Fail 記錄錯誤，保留舊窗口
func (s *ViewerState) Fail(msg string) {
	s.Loading = false
	s.Err = msg
}
