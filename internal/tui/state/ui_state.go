package state

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Yat-Muk/logsight/internal/tui/style"
)

// View 視圖枚舉
type View int

const (
	MainMenuView View = iota

	// 加載日誌
	AnalyzeFileView
	AnalyzeURLView

	// 會話
	SummaryView
	LogViewerView
	CriticalLinesView

	// 助手
	ChatView
	LineAnalysisView

	HistoryView
	SettingsView
)

// StatusType 狀態類型
type StatusType int

const (
	StatusReady StatusType = iota
	StatusSuccess
	StatusError
	StatusFatal
	StatusInfo
	StatusWarn
)

// StatusMsg 狀態欄消息，Detail 顯示在第二行
type StatusMsg struct {
	Type    StatusType
	Message string
	Detail  string
}

// 錯誤在切換視圖後仍保留
func (s StatusMsg) sticky() bool {
	return s.Type == StatusError || s.Type == StatusFatal
}

// UIState 輸入框、尺寸與狀態欄
type UIState struct {
	CurrentView  View
	PreviousView View
	TextInput    textinput.Model
	Spinner      spinner.Model
	Width        int
	Height       int
	Status       StatusMsg

	// 首次配置加載完成前只渲染加載頁
	ConfigReady bool
}

const inputCharLimit = 4000

// NewUIState 創建 UI 狀態
func NewUIState() *UIState {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = inputCharLimit
	ti.Width = 50
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(style.Info)

	return &UIState{
		CurrentView: MainMenuView,
		TextInput:   ti,
		Spinner:     sp,
		Width:       80,
		Height:      24,
	}
}

// SwitchView 切換視圖並清空輸入
func (s *UIState) SwitchView(v View) tea.Cmd {
	s.PreviousView = s.CurrentView
	s.CurrentView = v
	s.TextInput.Reset()
	if !s.Status.sticky() {
		s.Status = StatusMsg{}
	}
	return s.TextInput.Focus()
}

// SetStatus 設置狀態欄消息
func (s *UIState) SetStatus(t StatusType, msg, detail string) {
	s.Status = StatusMsg{Type: t, Message: msg, Detail: detail}
}

// UpdateInput 把按鍵交給輸入框
func (s *UIState) UpdateInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	s.TextInput, cmd = s.TextInput.Update(msg)
	return cmd
}

func (s *UIState) GetInputBuffer() string {
	return s.TextInput.Value()
}

func (s *UIState) ClearInput() {
	s.TextInput.Reset()
}

func (s *UIState) UpdateSize(w, h int) {
	s.Width = w
	s.Height = h
}
