package model

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Yat-Muk/logsight/internal/application"
	domainConfig "github.com/Yat-Muk/logsight/internal/domain/config"
	"github.com/Yat-Muk/logsight/internal/domain/session"
	"github.com/Yat-Muk/logsight/internal/domain/session/sessiontest"
	infraConfig "github.com/Yat-Muk/logsight/internal/infra/config"
	"github.com/Yat-Muk/logsight/internal/tui/constants"
	"github.com/Yat-Muk/logsight/internal/tui/handlers"
	"github.com/Yat-Muk/logsight/internal/tui/msg"
	"github.com/Yat-Muk/logsight/internal/tui/state"
)

type testApp struct {
	r       *Router
	backend *sessiontest.Backend
	dir     string
}

// setupTestRouter 初始化測試用的 Router，後端為內存實現
func setupTestRouter(t *testing.T) *testApp {
	t.Helper()
	logger := zap.NewNop()
	dir := t.TempDir()
	backend := sessiontest.New()
	cfg := domainConfig.DefaultConfig()

	ss := application.NewSessionState()
	chat := application.NewChatOrchestrator(ss, backend, 0, logger)

	stateMgr := state.NewManager(&state.Config{
		Log:           logger,
		InitialConfig: cfg,
		Session:       ss,
		Chat:          chat,
	})

	r := NewRouter(&handlers.Config{
		Log:       logger,
		StateMgr:  stateMgr,
		ConfigSvc: application.NewConfigService(infraConfig.NewFileRepository(filepath.Join(dir, "config.yaml"), nil, logger), logger),
		Session:   ss,
		Pager:     application.NewPager(ss, backend, cfg.Viewer, logger),
		Lifecycle: application.NewLifecycleManager(ss, backend, backend, logger),
		Chat:      chat,
		Report:    application.NewReportService(dir, logger),
	})
	r.Update(msg.ConfigLoadedMsg{Config: cfg})

	return &testApp{r: r, backend: backend, dir: dir}
}

// isAppMsg 只把業務消息送回路由，計時器類消息忽略
func isAppMsg(m tea.Msg) bool {
	switch m.(type) {
	case msg.ConfigLoadedMsg, msg.ConfigUpdateMsg, msg.SessionLoadedMsg, msg.WindowLoadedMsg,
		msg.ChatReplyMsg, msg.LineAnalysisMsg, msg.HistoryLoadedMsg, msg.AssistantStatusMsg,
		msg.ReportExportedMsg:
		return true
	}
	return false
}

// collect 並發執行命令（展開 Batch），收集限定時間內返回的業務消息
func collect(cmd tea.Cmd, wait time.Duration) []tea.Msg {
	out := make(chan tea.Msg, 64)
	var run func(c tea.Cmd)
	run = func(c tea.Cmd) {
		go func() {
			m := c()
			if batch, ok := m.(tea.BatchMsg); ok {
				for _, bc := range batch {
					if bc != nil {
						run(bc)
					}
				}
				return
			}
			if isAppMsg(m) {
				select {
				case out <- m:
				default:
				}
			}
		}()
	}
	run(cmd)

	var msgs []tea.Msg
	deadline := time.After(wait)
	for {
		select {
		case m := <-out:
			msgs = append(msgs, m)
		case <-deadline:
			return msgs
		}
	}
}

// drain 反覆執行命令並把結果送回路由，直到沒有新的業務消息
func (a *testApp) drain(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	for depth := 0; cmd != nil && depth < 6; depth++ {
		var next []tea.Cmd
		for _, m := range collect(cmd, 300*time.Millisecond) {
			if _, c := a.r.Update(m); c != nil {
				next = append(next, c)
			}
		}
		cmd = tea.Batch(next...)
	}
}

func (a *testApp) send(t *testing.T, input string) {
	t.Helper()
	a.r.stateMgr.UI().TextInput.SetValue(input)
	_, cmd := a.r.Update(tea.KeyMsg{Type: tea.KeyEnter})
	a.drain(t, cmd)
}

func (a *testApp) current(t *testing.T) session.Session {
	t.Helper()
	sess, ok := a.r.stateMgr.Session()
	require.True(t, ok, "應已加載會話")
	return sess
}

// TestRouter_Init 測試初始化命令
func TestRouter_Init(t *testing.T) {
	a := setupTestRouter(t)
	assert.NotNil(t, a.r.InitModel())
}

// TestRouter_LoadFlow 從輸入路徑到概要頁的完整流程
func TestRouter_LoadFlow(t *testing.T) {
	a := setupTestRouter(t)
	m := a.r.stateMgr

	a.backend.Entries = []session.HistoryEntry{{ID: "f-1", Name: "app.log"}}

	path := filepath.Join(a.dir, "app.log")
	require.NoError(t, os.WriteFile(path, []byte("INFO start\nERROR boom\n"), 0600))

	a.send(t, constants.KeyMain_AnalyzeFile)
	require.Equal(t, state.AnalyzeFileView, m.UI().CurrentView)
	a.send(t, path)

	sess := a.current(t)
	assert.Equal(t, "f-1", sess.ID)
	assert.Equal(t, 100, sess.TotalLines)
	assert.Equal(t, 3, sess.ErrorCount)
	assert.Equal(t, 1, sess.WarningCount)
	assert.Equal(t, state.SummaryView, m.UI().CurrentView)
	assert.False(t, m.Analyze().Submitting)

	t.Run("首個窗口", func(t *testing.T) {
		w := m.Viewer().Window
		require.NotNil(t, w)
		assert.Equal(t, 0, w.Start)
		assert.Len(t, w.Lines, 50)
		assert.Equal(t, session.SeverityError, w.Lines[40].Severity)
		assert.False(t, m.Viewer().Loading)
	})

	t.Run("歷史列表已刷新", func(t *testing.T) {
		hs := m.History()
		assert.False(t, hs.Loading)
		require.Len(t, hs.Entries, 1)
		assert.Equal(t, "f-1", hs.Entries[0].ID)
	})

	t.Run("自動摘要", func(t *testing.T) {
		turns := m.Transcript()
		require.Len(t, turns, 1)
		assert.True(t, turns[0].Auto)
		assert.False(t, turns[0].Pending)
		require.NotNil(t, turns[0].Reply)
		assert.Equal(t, "reply: "+application.SummaryPrompt, turns[0].Reply.Text)
	})

	t.Run("自動分析首個錯誤", func(t *testing.T) {
		require.NotNil(t, m.Chat().Analysis)
		assert.Equal(t, 40, m.Chat().Analysis.Line)
		assert.Equal(t, session.NoCause, m.Chat().Analysis.ProbableCause)
	})

	t.Run("翻頁", func(t *testing.T) {
		a.send(t, constants.KeyMain_Viewer)
		a.send(t, constants.KeyViewer_Next)
		w := m.Viewer().Window
		require.NotNil(t, w)
		assert.Equal(t, 20, w.Start)
		assert.Equal(t, "line 21", w.Lines[0].Text)
	})
}

// TestRouter_LoadWhileOffline 助手離線時不發起自動摘要與單行分析
func TestRouter_LoadWhileOffline(t *testing.T) {
	a := setupTestRouter(t)
	a.backend.StatusErr = errors.New("dial tcp: refused")
	a.drain(t, a.r.cmdBuilder.CheckAssistant(true))
	require.False(t, a.r.stateMgr.Available())

	req, err := a.r.lifecycle.Prepare(session.URLSource("https://h.example/a.log", false))
	require.NoError(t, err)
	_, cmd := a.r.Update(msg.SessionLoadedMsg{Req: req, Result: sessiontest.Result("a", "a.log", 100)})
	a.drain(t, cmd)

	assert.Equal(t, "a", a.current(t).ID)
	_, windows, messages, analyzed := a.backend.Calls()
	assert.NotEmpty(t, windows)
	assert.Empty(t, messages)
	assert.Empty(t, analyzed)
	assert.Nil(t, a.r.stateMgr.Chat().Analysis)

	t.Run("恢復在線後的下一次加載", func(t *testing.T) {
		a.backend.StatusErr = nil
		next, err := a.r.lifecycle.Prepare(session.URLSource("https://h.example/b.log", false))
		require.NoError(t, err)
		_, cmd := a.r.Update(msg.SessionLoadedMsg{Req: next, Result: sessiontest.Result("b", "b.log", 100)})
		a.drain(t, cmd)

		_, _, messages, analyzed := a.backend.Calls()
		assert.Equal(t, []string{application.SummaryPrompt}, messages)
		assert.Equal(t, []int{40}, analyzed)
	})
}

// TestRouter_LoadFailureKeepsSession 加載失敗不影響原會話
func TestRouter_LoadFailureKeepsSession(t *testing.T) {
	a := setupTestRouter(t)
	lifecycle := a.r.lifecycle

	_, err := lifecycle.StartSession(t.Context(), session.URLSource("https://h.example/a.log", false))
	require.NoError(t, err)

	req, err := lifecycle.Prepare(session.URLSource("https://h.example/b.log", false))
	require.NoError(t, err)
	a.r.Update(msg.SessionLoadedMsg{Req: req, Err: errors.New("connection refused")})

	assert.Equal(t, "f-1", a.current(t).ID)
	assert.Equal(t, state.StatusError, a.r.stateMgr.UI().Status.Type)
}

// TestRouter_StaleResponses 過期結果被丟棄
func TestRouter_StaleResponses(t *testing.T) {
	a := setupTestRouter(t)
	lifecycle := a.r.lifecycle
	m := a.r.stateMgr

	t.Run("先發後至的加載", func(t *testing.T) {
		reqA, err := lifecycle.Prepare(session.URLSource("https://h.example/a.log", false))
		require.NoError(t, err)
		reqB, err := lifecycle.Prepare(session.URLSource("https://h.example/b.log", false))
		require.NoError(t, err)

		a.r.Update(msg.SessionLoadedMsg{Req: reqB, Result: sessiontest.Result("b", "b.log", 10)})
		a.r.Update(msg.SessionLoadedMsg{Req: reqA, Result: sessiontest.Result("a", "a.log", 10)})

		assert.Equal(t, "b", a.current(t).ID)
	})

	t.Run("舊會話的窗口", func(t *testing.T) {
		old, err := a.r.pager.Reload()
		require.NoError(t, err)

		req, err := lifecycle.Prepare(session.URLSource("https://h.example/c.log", false))
		require.NoError(t, err)
		a.r.Update(msg.SessionLoadedMsg{Req: req, Result: sessiontest.Result("c", "c.log", 100)})

		a.r.Update(msg.WindowLoadedMsg{Req: old, Window: &session.LineWindow{Start: 0, Total: 10, Lines: []string{"stale"}}})
		assert.Nil(t, m.Viewer().Window)
	})

	t.Run("舊會話的回覆", func(t *testing.T) {
		req, err := a.r.chat.Prepare("hello")
		require.NoError(t, err)

		next, err := lifecycle.Prepare(session.URLSource("https://h.example/d.log", false))
		require.NoError(t, err)
		a.r.Update(msg.SessionLoadedMsg{Req: next, Result: sessiontest.Result("d", "d.log", 100)})

		a.r.Update(msg.ChatReplyMsg{Req: req, Reply: &session.ChatReply{Text: "late"}})
		for _, turn := range m.Transcript() {
			assert.NotEqual(t, "hello", turn.Prompt)
		}
	})
}

// TestRouter_Update_WindowSize 測試窗口大小調整
func TestRouter_Update_WindowSize(t *testing.T) {
	a := setupTestRouter(t)

	a.r.Update(tea.WindowSizeMsg{Width: 100, Height: 50})

	assert.Equal(t, 100, a.r.stateMgr.UI().Width)
	assert.Equal(t, 50, a.r.stateMgr.UI().Height)
	assert.Equal(t, 100, a.r.stateMgr.Chat().Viewport.Width)
}

// TestRouter_AssistantStatus 狀態探測結果
func TestRouter_AssistantStatus(t *testing.T) {
	a := setupTestRouter(t)
	a.backend.StatusErr = errors.New("dial tcp: refused")

	a.send(t, constants.KeyMain_Settings)
	a.drain(t, a.r.cmdBuilder.CheckAssistant(false))

	assert.False(t, a.r.stateMgr.Available())
	assert.Equal(t, application.NoticeOffline, a.r.stateMgr.UI().Status.Message)
}

// TestRouter_View 測試渲染函數防崩潰
func TestRouter_View(t *testing.T) {
	a := setupTestRouter(t)
	require.NotPanics(t, func() {
		assert.NotEmpty(t, a.r.View())
	})

	model := NewModel(a.r)
	assert.NotEmpty(t, model.View())
}
