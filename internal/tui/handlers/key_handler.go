package handlers

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Yat-Muk/logsight/internal/application"
	domainConfig "github.com/Yat-Muk/logsight/internal/domain/config"
	"github.com/Yat-Muk/logsight/internal/domain/session"
	"github.com/Yat-Muk/logsight/internal/pkg/inputvalidator"
	"github.com/Yat-Muk/logsight/internal/tui/constants"
	"github.com/Yat-Muk/logsight/internal/tui/state"
)

// KeyHandler 核心處理器：負責全局導航和請求分發
type KeyHandler struct {
	stateMgr   *state.Manager
	cmdBuilder *CommandBuilder
	pager      *application.Pager
	lifecycle  *application.LifecycleManager
	chat       *application.ChatOrchestrator
}

func NewKeyHandler(stateMgr *state.Manager, cmdBuilder *CommandBuilder) *KeyHandler {
	return &KeyHandler{
		stateMgr:   stateMgr,
		cmdBuilder: cmdBuilder,
		pager:      cmdBuilder.pager,
		lifecycle:  cmdBuilder.lifecycle,
		chat:       cmdBuilder.chat,
	}
}

// Handle 處理全局按鍵
func (h *KeyHandler) Handle(msg tea.KeyMsg, m *state.Manager) (*state.Manager, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	currentView := m.UI().CurrentView

	// === 日誌查看器翻頁鍵 ===
	if currentView == state.LogViewerView {
		switch msg.Type {
		case tea.KeyPgDown:
			req, err := h.pager.ScrollDown()
			return m, h.cmdBuilder.RequestWindow(m, req, err)
		case tea.KeyPgUp:
			req, err := h.pager.ScrollUp()
			return m, h.cmdBuilder.RequestWindow(m, req, err)
		case tea.KeyDown:
			req, err := h.pager.Scroll(1)
			return m, h.cmdBuilder.RequestWindow(m, req, err)
		case tea.KeyUp:
			req, err := h.pager.Scroll(-1)
			return m, h.cmdBuilder.RequestWindow(m, req, err)
		}
	}

	// === 對話視口滾動 ===
	if currentView == state.ChatView {
		switch msg.Type {
		case tea.KeyPgUp, tea.KeyPgDown, tea.KeyUp, tea.KeyDown:
			var cmd tea.Cmd
			m.Chat().Viewport, cmd = m.Chat().Viewport.Update(msg)
			return m, cmd
		}
	}

	switch msg.Type {
	case tea.KeyEnter:
		return h.handleInputSubmit(m, currentView)

	case tea.KeyEsc:
		return h.handleInputEscape(m, currentView)

	default:
		// 所有輸入交給組件，UpdateInput 會返回閃爍計時器的 Cmd
		return m, m.UI().UpdateInput(msg)
	}
}

// ========================================
// 核心分發邏輯 (Enter 觸發)
// ========================================

func (h *KeyHandler) handleInputSubmit(m *state.Manager, view state.View) (*state.Manager, tea.Cmd) {
	input := strings.TrimSpace(m.UI().GetInputBuffer())
	m.UI().ClearInput()

	if input == "" {
		return m, nil
	}

	switch view {
	case state.MainMenuView:
		return h.submitMainMenu(m, input)
	case state.AnalyzeFileView:
		return h.submitAnalyzeFile(m, input)
	case state.AnalyzeURLView:
		return h.submitAnalyzeURL(m, input)
	case state.SummaryView:
		return h.submitSummary(m, input)
	case state.LogViewerView:
		return h.submitLogViewer(m, input)
	case state.CriticalLinesView:
		return h.submitCriticalLines(m, input)
	case state.ChatView:
		return h.submitChat(m, input)
	case state.LineAnalysisView:
		return h.submitLineAnalysis(m, input)
	case state.HistoryView:
		return h.submitHistory(m, input)
	case state.SettingsView:
		return h.submitSettings(m, input)
	}
	return m, nil
}

func invalidOption(m *state.Manager) (*state.Manager, tea.Cmd) {
	m.UI().SetStatus(state.StatusError, "無效選項，請重新輸入", "")
	return m, nil
}

// requireSession 未加載日誌時提示並留在原頁
func requireSession(m *state.Manager) bool {
	if _, ok := m.Session(); ok {
		return true
	}
	m.UI().SetStatus(state.StatusWarn, application.NoticeNoSession, "")
	return false
}

// ========================================
// 主菜單
// ========================================

func (h *KeyHandler) submitMainMenu(m *state.Manager, input string) (*state.Manager, tea.Cmd) {
	switch input {
	case constants.KeyMain_AnalyzeFile:
		return m, m.UI().SwitchView(state.AnalyzeFileView)

	case constants.KeyMain_AnalyzeURL:
		return m, m.UI().SwitchView(state.AnalyzeURLView)

	case constants.KeyMain_Summary, constants.KeyMain_Viewer, constants.KeyMain_Critical, constants.KeyMain_Chat:
		return h.openSessionView(m, input)

	case constants.KeyMain_History:
		return m, tea.Batch(m.UI().SwitchView(state.HistoryView), h.cmdBuilder.RefreshHistory(m))

	case constants.KeyMain_Settings:
		return m, m.UI().SwitchView(state.SettingsView)

	case constants.KeyMain_Export:
		if !requireSession(m) {
			return m, nil
		}
		return m, h.cmdBuilder.ExportReport(m)

	case constants.KeyMain_Quit:
		return m, tea.Quit
	}
	return invalidOption(m)
}

// openSessionView 進入依賴會話的頁面
func (h *KeyHandler) openSessionView(m *state.Manager, key string) (*state.Manager, tea.Cmd) {
	if !requireSession(m) {
		return m, nil
	}

	switch key {
	case constants.KeyMain_Summary:
		return m, m.UI().SwitchView(state.SummaryView)

	case constants.KeyMain_Viewer:
		cmd := m.UI().SwitchView(state.LogViewerView)
		if m.Viewer().Window == nil && !m.Viewer().Loading {
			req, err := h.pager.Reload()
			return m, tea.Batch(cmd, h.cmdBuilder.RequestWindow(m, req, err))
		}
		return m, cmd

	case constants.KeyMain_Critical:
		return m, m.UI().SwitchView(state.CriticalLinesView)

	case constants.KeyMain_Chat:
		m.RefreshTranscript()
		return m, m.UI().SwitchView(state.ChatView)
	}
	return invalidOption(m)
}

// ========================================
// 加載日誌
// ========================================

func (h *KeyHandler) submitAnalyzeFile(m *state.Manager, input string) (*state.Manager, tea.Cmd) {
	if m.Analyze().Submitting {
		m.UI().SetStatus(state.StatusWarn, "正在分析，請稍候", "")
		return m, nil
	}
	return m, h.cmdBuilder.StartLoad(m, session.FileSource(expandHome(input)))
}

func (h *KeyHandler) submitAnalyzeURL(m *state.Manager, input string) (*state.Manager, tea.Cmd) {
	if input == constants.KeyURL_ToggleTLS {
		as := m.Analyze()
		as.SkipTLSVerify = !as.SkipTLSVerify
		if as.SkipTLSVerify {
			m.UI().SetStatus(state.StatusWarn, "⚠️ 已跳過證書校驗，僅用於自簽名證書", "")
		} else {
			m.UI().SetStatus(state.StatusSuccess, "已恢復證書校驗", "")
		}
		return m, nil
	}
	if m.Analyze().Submitting {
		m.UI().SetStatus(state.StatusWarn, "正在分析，請稍候", "")
		return m, nil
	}
	return m, h.cmdBuilder.StartLoad(m, session.URLSource(input, m.Analyze().SkipTLSVerify))
}

// ========================================
// 會話頁
// ========================================

func (h *KeyHandler) submitSummary(m *state.Manager, input string) (*state.Manager, tea.Cmd) {
	switch input {
	case constants.KeyMain_Viewer, constants.KeyMain_Critical, constants.KeyMain_Chat:
		return h.openSessionView(m, input)
	case constants.KeyCommon_Back:
		return m, m.UI().SwitchView(state.MainMenuView)
	}
	return invalidOption(m)
}

func (h *KeyHandler) submitLogViewer(m *state.Manager, input string) (*state.Manager, tea.Cmd) {
	var (
		req application.WindowRequest
		err error
	)

	switch input {
	case constants.KeyViewer_Next:
		req, err = h.pager.ScrollDown()
	case constants.KeyViewer_Prev:
		req, err = h.pager.ScrollUp()
	case constants.KeyViewer_Top:
		sess, _ := m.Session()
		req, err = h.pager.Scroll(-sess.ViewportStart)
	case constants.KeyViewer_Reload:
		req, err = h.pager.Reload()
	case constants.KeyViewer_Analyze:
		// 優先分析窗口中高亮的跳轉目標
		var cmd tea.Cmd
		if w := m.Viewer().Window; w != nil && w.Highlight != session.NoSelection {
			cmd = h.cmdBuilder.AnalyzeLine(m, w.Highlight)
		} else {
			cmd = h.cmdBuilder.RefreshAnalysis(m)
		}
		return m, tea.Batch(m.UI().SwitchView(state.LineAnalysisView), cmd)
	case constants.KeyCommon_Back:
		return m, m.UI().SwitchView(state.MainMenuView)
	default:
		sess, ok := m.Session()
		if !ok {
			requireSession(m)
			return m, nil
		}
		line, perr := inputvalidator.ParseLineNumber(input, sess.TotalLines)
		if perr != nil {
			m.UI().SetStatus(state.StatusError, application.Notice(perr, "行號無效"), "")
			return m, nil
		}
		req, err = h.pager.JumpToLine(line)
	}

	return m, h.cmdBuilder.RequestWindow(m, req, err)
}

func (h *KeyHandler) submitCriticalLines(m *state.Manager, input string) (*state.Manager, tea.Cmd) {
	if input == constants.KeyCommon_Back {
		return m, m.UI().SwitchView(state.MainMenuView)
	}

	sess, ok := m.Session()
	if !ok {
		requireSession(m)
		return m, nil
	}

	analyze := false
	if strings.HasPrefix(input, constants.KeyCritical_AnalyzePrefix) {
		analyze = true
		input = strings.TrimPrefix(input, constants.KeyCritical_AnalyzePrefix)
	}

	if len(sess.Critical) == 0 {
		m.UI().SetStatus(state.StatusWarn, "未發現關鍵行", "")
		return m, nil
	}
	if err := inputvalidator.ValidateMenuNumber(input, 1, len(sess.Critical)); err != nil {
		m.UI().SetStatus(state.StatusError, application.Notice(err, "序號無效"), "")
		return m, nil
	}
	idx, _ := strconv.Atoi(strings.TrimSpace(input))
	line := sess.Critical[idx-1].Line

	if analyze {
		return m, tea.Batch(m.UI().SwitchView(state.LineAnalysisView), h.cmdBuilder.AnalyzeLine(m, line))
	}

	req, err := h.pager.JumpToLine(line)
	if err != nil {
		return m, h.cmdBuilder.RequestWindow(m, req, err)
	}
	return m, tea.Batch(m.UI().SwitchView(state.LogViewerView), h.cmdBuilder.RequestWindow(m, req, nil))
}

// ========================================
// 助手
// ========================================

func (h *KeyHandler) submitChat(m *state.Manager, input string) (*state.Manager, tea.Cmd) {
	switch input {
	case constants.KeyChat_Summary:
		return m, h.cmdBuilder.SendSummary(m)
	case constants.KeyChat_Analysis:
		cmd := m.UI().SwitchView(state.LineAnalysisView)
		if m.Chat().Analysis == nil && !m.Chat().AnalysisLoading {
			return m, tea.Batch(cmd, h.cmdBuilder.RefreshAnalysis(m))
		}
		return m, cmd
	case constants.KeyChat_Status:
		m.UI().SetStatus(state.StatusInfo, "正在檢查助手狀態...", "")
		return m, h.cmdBuilder.CheckAssistant(false)
	}
	return m, h.cmdBuilder.SendChat(m, input)
}

func (h *KeyHandler) submitLineAnalysis(m *state.Manager, input string) (*state.Manager, tea.Cmd) {
	switch input {
	case constants.KeyAnalysis_Refresh:
		return m, h.cmdBuilder.RefreshAnalysis(m)
	case constants.KeyAnalysis_Chat:
		if !requireSession(m) {
			return m, nil
		}
		m.RefreshTranscript()
		return m, m.UI().SwitchView(state.ChatView)
	case constants.KeyCommon_Back:
		return h.goBack(m)
	}
	return invalidOption(m)
}

// ========================================
// 歷史與設置
// ========================================

func (h *KeyHandler) submitHistory(m *state.Manager, input string) (*state.Manager, tea.Cmd) {
	switch input {
	case constants.KeyHistory_Refresh:
		return m, h.cmdBuilder.RefreshHistory(m)
	case constants.KeyCommon_Back:
		return m, m.UI().SwitchView(state.MainMenuView)
	}

	if m.Analyze().Submitting {
		m.UI().SetStatus(state.StatusWarn, "正在加載，請稍候", "")
		return m, nil
	}
	entry, err := application.SelectHistory(m.History().Entries, input)
	if err != nil {
		m.UI().SetStatus(state.StatusError, application.Notice(err, "序號無效"), "")
		return m, nil
	}
	return m, h.cmdBuilder.OpenHistory(m, entry)
}

func (h *KeyHandler) submitSettings(m *state.Manager, input string) (*state.Manager, tea.Cmd) {
	cs := m.Config()
	if cs.Editing != state.SettingsNone {
		return h.submitSettingValue(m, input)
	}

	switch input {
	case constants.KeySettings_AutoSummary:
		next := !cs.GetConfig().Assistant.AutoSummary
		return m, h.cmdBuilder.UpdateConfigCmd(func(c *domainConfig.Config) error {
			c.Assistant.AutoSummary = next
			return nil
		}, "已更新自動摘要設置")

	case constants.KeySettings_AutoAnalyze:
		next := !cs.GetConfig().Assistant.AutoAnalyzeFirstError
		return m, h.cmdBuilder.UpdateConfigCmd(func(c *domainConfig.Config) error {
			c.Assistant.AutoAnalyzeFirstError = next
			return nil
		}, "已更新自動分析設置")

	case constants.KeySettings_ScrollStep:
		cs.Editing = state.SettingsScrollStep
		return m, nil
	case constants.KeySettings_JumpMargin:
		cs.Editing = state.SettingsJumpMargin
		return m, nil
	case constants.KeySettings_RPM:
		cs.Editing = state.SettingsRPM
		return m, nil

	case constants.KeyCommon_Back:
		return m, m.UI().SwitchView(state.MainMenuView)
	}
	return invalidOption(m)
}

// 設置項取值範圍
var settingRanges = map[state.SettingsField][2]int{
	state.SettingsScrollStep: {1, 500},
	state.SettingsJumpMargin: {0, 200},
	state.SettingsRPM:        {0, 600},
}

func (h *KeyHandler) submitSettingValue(m *state.Manager, input string) (*state.Manager, tea.Cmd) {
	cs := m.Config()
	field := cs.Editing
	bounds := settingRanges[field]

	if err := inputvalidator.ValidateMenuNumber(input, bounds[0], bounds[1]); err != nil {
		m.UI().SetStatus(state.StatusError, application.Notice(err, "數值無效"), "")
		return m, nil
	}
	v, _ := strconv.Atoi(strings.TrimSpace(input))
	cs.Editing = state.SettingsNone

	return m, h.cmdBuilder.UpdateConfigCmd(func(c *domainConfig.Config) error {
		switch field {
		case state.SettingsScrollStep:
			c.Viewer.ScrollStep = v
		case state.SettingsJumpMargin:
			c.Viewer.JumpMargin = v
		case state.SettingsRPM:
			c.Assistant.RequestsPerMinute = v
		}
		return nil
	}, "設置已保存")
}

// ========================================
// Esc 返回
// ========================================

func (h *KeyHandler) handleInputEscape(m *state.Manager, view state.View) (*state.Manager, tea.Cmd) {
	// 先清除輸入框
	if m.UI().GetInputBuffer() != "" {
		m.UI().ClearInput()
		return m, m.UI().TextInput.Focus()
	}

	if view == state.SettingsView && m.Config().Editing != state.SettingsNone {
		m.Config().Editing = state.SettingsNone
		m.UI().SetStatus(state.StatusInfo, "已取消", "")
		return m, m.UI().TextInput.Focus()
	}

	m.UI().SetStatus(state.StatusInfo, "", "")

	switch view {
	case state.MainMenuView:
		return m, nil
	case state.LineAnalysisView:
		return h.goBack(m)
	}
	return m, m.UI().SwitchView(state.MainMenuView)
}

// goBack 單行分析頁返回到進入它的頁面
func (h *KeyHandler) goBack(m *state.Manager) (*state.Manager, tea.Cmd) {
	switch prev := m.UI().PreviousView; prev {
	case state.LogViewerView, state.CriticalLinesView, state.ChatView, state.SummaryView:
		if prev == state.ChatView {
			m.RefreshTranscript()
		}
		return m, m.UI().SwitchView(prev)
	}
	return m, m.UI().SwitchView(state.MainMenuView)
}
