package state

import (
	"fmt"

	"github.com/Yat-Muk/logsight/internal/domain/session"
	"github.com/Yat-Muk/logsight/internal/tui/view"
)

// Render - 安全渲染視圖
func (m *Manager) Render() string {
	if !m.ui.ConfigReady {
		return view.RenderLoading("初始化配置中")
	}

	width := m.ui.Width
	if width == 0 {
		width = 80
	}

	// 獲取全局狀態消息
	statusMsg := m.ui.Status.Message
	if m.ui.Status.Detail != "" {
		statusMsg = fmt.Sprintf("%s\n%s", statusMsg, m.ui.Status.Detail)
	}

	ti := m.ui.TextInput
	sp := m.ui.Spinner
	sess := m.sessionPtr()

	switch m.ui.CurrentView {
	case MainMenuView:
		return view.RenderMainView(view.MainViewData{
			Session:    sess,
			BackendURL: m.backendURL,
			Version:    m.version,
			Available:  m.Available(),
			Width:      width,
		}, ti, statusMsg)

	case AnalyzeFileView:
		return view.RenderAnalyzeFile(m.analyze.Submitting, m.analyze.Pending, sp, ti, statusMsg)

	case AnalyzeURLView:
		return view.RenderAnalyzeURL(m.analyze.SkipTLSVerify, m.analyze.Submitting, m.analyze.Pending, sp, ti, statusMsg)

	case SummaryView:
		return view.RenderSummary(sess, ti, statusMsg)

	case LogViewerView:
		return view.RenderLogViewer(view.LogViewerData{
			Session: sess,
			Window:  m.viewer.Window,
			Loading: m.viewer.Loading,
			Err:     m.viewer.Err,
			Width:   width,
		}, sp, ti, statusMsg)

	case CriticalLinesView:
		return view.RenderCriticalLines(sess, ti, statusMsg)

	case ChatView:
		return view.RenderChat(m.chat.Viewport, m.Available(), ti, statusMsg)

	case LineAnalysisView:
		return view.RenderLineAnalysis(m.chat.Analysis, m.chat.AnalysisLoading, m.chat.AnalysisErr, sp, ti, statusMsg)

	case HistoryView:
		return view.RenderHistory(m.history.Entries, m.history.Loading, m.history.Err, sp, ti, statusMsg)

	case SettingsView:
		return view.RenderSettings(m.config.GetConfig(), settingsPrompt(m.config.Editing), ti, statusMsg)

	default:
		return view.RenderError("未知視圖", ti)
	}
}

// RefreshTranscript 按當前對話重建對話視口內容
func (m *Manager) RefreshTranscript() {
	content := view.BuildTranscript(
		m.chat.Welcome,
		m.Transcript(),
		m.chat.Viewport.Width,
		view.PendingIndicator(m.ui.Spinner),
	)
	m.chat.SetContent(content)
}

// Available 助手是否可用
func (m *Manager) Available() bool {
	if m.orchestrator == nil {
		return false
	}
	return m.orchestrator.Available()
}

func (m *Manager) sessionPtr() *session.Session {
	sess, ok := m.session.Current()
	if !ok {
		return nil
	}
	return &sess
}

func settingsPrompt(f SettingsField) view.SettingsPrompt {
	switch f {
	case SettingsScrollStep:
		return "請輸入翻頁步長 (1-500)"
	case SettingsJumpMargin:
		return "請輸入跳轉上下文行數 (0-200)"
	case SettingsRPM:
		return "請輸入每分鐘請求上限 (0 表示不限)"
	}
	return ""
}
