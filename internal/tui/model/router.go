package model

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Yat-Muk/logsight/internal/application"
	domainConfig "github.com/Yat-Muk/logsight/internal/domain/config"
	"github.com/Yat-Muk/logsight/internal/domain/session"
	"github.com/Yat-Muk/logsight/internal/pkg/logger"
	"github.com/Yat-Muk/logsight/internal/tui/handlers"
	"github.com/Yat-Muk/logsight/internal/tui/msg"
	"github.com/Yat-Muk/logsight/internal/tui/state"
)

// 助手狀態探測間隔
const statusInterval = time.Minute

type TickMsg time.Time

// Router 事件路由器
type Router struct {
	stateMgr   *state.Manager
	keyHandler *handlers.KeyHandler
	cmdBuilder *handlers.CommandBuilder
	log        *zap.Logger

	session   *application.SessionState
	pager     *application.Pager
	lifecycle *application.LifecycleManager
	chat      *application.ChatOrchestrator
	initial   *session.Source

	// 等待加載後探測結果的會話代數，0 表示沒有
	autoGen uint64
}

// NewRouter 創建路由器
func NewRouter(cfg *handlers.Config) *Router {
	cmdBuilder := handlers.NewCommandBuilder(cfg)
	keyHandler := handlers.NewKeyHandler(cfg.StateMgr, cmdBuilder)

	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}

	return &Router{
		stateMgr:   cfg.StateMgr,
		keyHandler: keyHandler,
		cmdBuilder: cmdBuilder,
		log:        log.Named("router"),
		session:    cfg.Session,
		pager:      cfg.Pager,
		lifecycle:  cfg.Lifecycle,
		chat:       cfg.Chat,
		initial:    cfg.Initial,
	}
}

// InitModel 用於 Model.Init 調用
func (r *Router) InitModel() tea.Cmd {
	cmds := []tea.Cmd{
		r.stateMgr.UI().TextInput.Focus(),
		r.cmdBuilder.LoadConfigCmd(),
		r.cmdBuilder.CheckAssistant(true),
		TickCmd(),
	}
	if r.initial != nil {
		view := state.AnalyzeFileView
		if r.initial.Kind == session.SourceURL {
			view = state.AnalyzeURLView
			r.stateMgr.Analyze().SkipTLSVerify = r.initial.SkipTLSVerify
		}
		cmds = append(cmds,
			r.stateMgr.UI().SwitchView(view),
			r.cmdBuilder.StartLoad(r.stateMgr, *r.initial),
		)
	}
	return tea.Batch(cmds...)
}

// Update 適配 bubbletea 的 Update 簽名
func (r *Router) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	if cmd := r.routeMessage(message); cmd != nil {
		return nil, cmd
	}
	return nil, nil
}

// View 適配 bubbletea 的 View 簽名
func (r *Router) View() string {
	return r.stateMgr.Render()
}

// routeMessage 內部路由邏輯
func (r *Router) routeMessage(message tea.Msg) tea.Cmd {
	m := r.stateMgr

	switch msgType := message.(type) {

	case tea.WindowSizeMsg:
		m.UI().UpdateSize(msgType.Width, msgType.Height)
		m.Chat().Resize(msgType.Width, msgType.Height-16)
		m.RefreshTranscript()
		return nil

	case tea.KeyMsg:
		_, cmd := r.keyHandler.Handle(msgType, m)
		return cmd

	case spinner.TickMsg:
		if !r.busy() {
			return nil
		}
		var cmd tea.Cmd
		m.UI().Spinner, cmd = m.UI().Spinner.Update(msgType)
		if m.UI().CurrentView == state.ChatView && r.chat.Pending() {
			m.RefreshTranscript()
		}
		return cmd

	case TickMsg:
		return tea.Batch(r.cmdBuilder.CheckAssistant(true), TickCmd())

	case msg.ConfigLoadedMsg:
		return r.onConfigLoaded(msgType)

	case msg.ConfigUpdateMsg:
		if msgType.Err != nil {
			m.UI().SetStatus(state.StatusError, application.Notice(msgType.Err, "保存設置失敗"), "")
			return nil
		}
		m.Config().UpdateConfig(msgType.Config)
		r.cmdBuilder.ApplyRuntime(msgType.Config)
		m.UI().SetStatus(state.StatusSuccess, msgType.Message, "")
		return nil

	case msg.SessionLoadedMsg:
		return r.onSessionLoaded(msgType)

	case msg.WindowLoadedMsg:
		r.onWindowLoaded(msgType)
		return nil

	case msg.ChatReplyMsg:
		if err := r.chat.Accept(msgType.Req, msgType.Reply, msgType.Err); err != nil {
			r.log.Debug("丟棄過期回覆", logger.Int("slot", msgType.Req.Slot))
			return nil
		}
		m.RefreshTranscript()
		if msgType.Err != nil {
			m.UI().SetStatus(state.StatusWarn, application.Notice(msgType.Err, "發送失敗"), "")
		}
		return nil

	case msg.LineAnalysisMsg:
		r.onLineAnalysis(msgType)
		return nil

	case msg.HistoryLoadedMsg:
		if r.lifecycle.AcceptHistory(msgType.Ticket) != nil {
			return nil
		}
		hs := m.History()
		if msgType.Err != nil {
			hs.Loading = false
			hs.Err = application.Notice(msgType.Err, "無法加載歷史記錄")
			return nil
		}
		hs.SetEntries(msgType.Entries)
		return nil

	case msg.AssistantStatusMsg:
		if r.chat.AcceptStatus(msgType.Ticket, msgType.Status, msgType.Err) != nil {
			return nil
		}
		cmd := r.autoAnalyze()
		if !msgType.Silent {
			if r.chat.Available() {
				m.UI().SetStatus(state.StatusSuccess, "分析助手在線", "")
			} else {
				m.UI().SetStatus(state.StatusWarn, application.NoticeOffline, "")
			}
		}
		return cmd

	case msg.ReportExportedMsg:
		if msgType.Err != nil {
			m.UI().SetStatus(state.StatusError, application.Notice(msgType.Err, "導出報告失敗"), "")
			return nil
		}
		m.UI().SetStatus(state.StatusSuccess, "報告已導出", msgType.Path)
		return nil
	}

	return nil
}

func (r *Router) onConfigLoaded(message msg.ConfigLoadedMsg) tea.Cmd {
	ui := r.stateMgr.UI()
	ui.ConfigReady = true

	if message.Err != nil {
		ui.SetStatus(state.StatusError, application.Notice(message.Err, "配置加載失敗"), "已使用默認配置")
		r.stateMgr.Config().UpdateConfig(domainConfig.DefaultConfig())
		return nil
	}

	r.stateMgr.Config().UpdateConfig(message.Config)
	r.cmdBuilder.ApplyRuntime(message.Config)
	return nil
}

// onSessionLoaded 提交加載結果；失敗時保留原會話
func (r *Router) onSessionLoaded(message msg.SessionLoadedMsg) tea.Cmd {
	m := r.stateMgr

	if !r.session.IsLatest(message.Req.Ticket) {
		r.log.Debug("丟棄過期的加載結果", logger.String("op", message.Req.Class.String()))
		return nil
	}
	m.Analyze().Submitting = false

	if message.Err != nil {
		m.UI().SetStatus(state.StatusError, application.Notice(message.Err, "分析失敗"), "")
		return nil
	}

	sess, err := r.lifecycle.Commit(message.Req, message.Result)
	if err != nil {
		if !application.IsStale(err) {
			m.UI().SetStatus(state.StatusError, application.Notice(err, "分析失敗"), "")
		}
		return nil
	}

	m.Viewer().Reset()
	m.Chat().Reset(application.Welcome(*sess))
	m.RefreshTranscript()
	m.UI().SetStatus(state.StatusSuccess, "分析完成: "+sess.DisplayName, "")

	cmds := []tea.Cmd{m.UI().SwitchView(state.SummaryView)}

	req, err := r.pager.Reload()
	cmds = append(cmds,
		r.cmdBuilder.RequestWindow(m, req, err),
		r.cmdBuilder.RefreshHistory(m),
	)

	// 自動摘要等待探測結果
	r.autoGen = r.session.Generation()
	cmds = append(cmds, r.cmdBuilder.CheckAssistant(true))
	return tea.Batch(cmds...)
}

// autoAnalyze 助手在線時對剛加載的會話發起自動摘要與首個錯誤分析
func (r *Router) autoAnalyze() tea.Cmd {
	gen := r.autoGen
	r.autoGen = 0
	if gen == 0 || gen != r.session.Generation() || !r.chat.Available() {
		return nil
	}

	m := r.stateMgr
	sess, ok := m.Session()
	if !ok {
		return nil
	}

	var cmds []tea.Cmd
	cfg := m.Config().GetConfig()
	if cfg.Assistant.AutoSummary {
		cmds = append(cmds, r.cmdBuilder.SendSummary(m))
	}
	if cfg.Assistant.AutoAnalyzeFirstError {
		if line, ok := sess.Flagged.FirstError(); ok {
			cmds = append(cmds, r.cmdBuilder.AnalyzeLine(m, line))
		}
	}
	return tea.Batch(cmds...)
}

func (r *Router) onWindowLoaded(message msg.WindowLoadedMsg) {
	vs := r.stateMgr.Viewer()

	if message.Err != nil {
		if !r.session.IsCurrent(message.Req.Ticket) {
			return
		}
		vs.Fail(application.Notice(message.Err, "加載日誌行失敗"))
		return
	}

	win, err := r.pager.Accept(message.Req, message.Window)
	if err != nil {
		if !application.IsStale(err) {
			vs.Fail(application.Notice(err, "加載日誌行失敗"))
		}
		return
	}
	vs.SetWindow(win)
}

func (r *Router) onLineAnalysis(message msg.LineAnalysisMsg) {
	cs := r.stateMgr.Chat()

	if message.Err != nil {
		if !r.session.IsCurrent(message.Req.Ticket) {
			return
		}
		cs.AnalysisLoading = false
		cs.AnalysisErr = application.Notice(message.Err, "單行分析失敗")
		return
	}

	a, err := r.chat.AcceptLineAnalysis(message.Req, message.Analysis)
	if err != nil {
		if !application.IsStale(err) {
			cs.AnalysisLoading = false
			cs.AnalysisErr = application.Notice(err, "單行分析失敗")
		}
		return
	}
	cs.AnalysisLoading = false
	cs.AnalysisErr = ""
	cs.Analysis = a
}

// busy 是否有等待中的請求，決定 spinner 是否繼續轉動
func (r *Router) busy() bool {
	m := r.stateMgr
	return m.Analyze().Submitting ||
		m.Viewer().Loading ||
		m.Chat().AnalysisLoading ||
		m.History().Loading ||
		r.chat.Pending()
}

func TickCmd() tea.Cmd {
	return tea.Tick(statusInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
