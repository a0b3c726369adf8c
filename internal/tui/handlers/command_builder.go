package handlers

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Yat-Muk/logsight/internal/application"
	domainConfig "github.com/Yat-Muk/logsight/internal/domain/config"
	"github.com/Yat-Muk/logsight/internal/domain/session"
	"github.com/Yat-Muk/logsight/internal/pkg/appctx"
	"github.com/Yat-Muk/logsight/internal/tui/msg"
	"github.com/Yat-Muk/logsight/internal/tui/state"
)

// 命令超時，後端客戶端自身也有超時，這裡只是兜底
const (
	configTimeout   = 5 * time.Second
	requestTimeout  = 60 * time.Second
	analysisTimeout = 10 * time.Minute
)

// CommandBuilder 構建異步命令
//
// Prepare/Accept 一類方法只在 UI 協程調用；返回的 tea.Cmd 只做 I/O。
type CommandBuilder struct {
	log       *zap.Logger
	stateMgr  *state.Manager
	configSvc *application.ConfigService
	session   *application.SessionState
	pager     *application.Pager
	lifecycle *application.LifecycleManager
	chat      *application.ChatOrchestrator
	report    *application.ReportService
	paths     *appctx.Paths
}

// NewCommandBuilder 構造函數
func NewCommandBuilder(cfg *Config) *CommandBuilder {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &CommandBuilder{
		log:       log,
		stateMgr:  cfg.StateMgr,
		configSvc: cfg.ConfigSvc,
		session:   cfg.Session,
		pager:     cfg.Pager,
		lifecycle: cfg.Lifecycle,
		chat:      cfg.Chat,
		report:    cfg.Report,
		paths:     cfg.Paths,
	}
}

// requestContext 為命令附加請求 ID，便於在日誌中串聯一次操作
func requestContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx := appctx.WithRequestID(context.Background(), uuid.NewString())
	return context.WithTimeout(ctx, timeout)
}

// ========================================
// 配置
// ========================================

// LoadConfigCmd 加載配置
func (b *CommandBuilder) LoadConfigCmd() tea.Cmd {
	return func() tea.Msg {
		if b.configSvc == nil {
			return msg.ConfigLoadedMsg{Err: fmt.Errorf("ConfigService 未初始化")}
		}

		ctx, cancel := context.WithTimeout(context.Background(), configTimeout)
		defer cancel()

		cfg, err := b.configSvc.GetConfig(ctx)
		return msg.ConfigLoadedMsg{Config: cfg, Err: err}
	}
}

// UpdateConfigCmd 修改並保存配置
func (b *CommandBuilder) UpdateConfigCmd(modifier func(*domainConfig.Config) error, message string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), configTimeout)
		defer cancel()

		cfg, err := b.configSvc.UpdateConfig(ctx, modifier)
		if err != nil {
			return msg.ConfigUpdateMsg{Err: err}
		}
		return msg.ConfigUpdateMsg{Config: cfg, Message: message}
	}
}

// ========================================
// 會話
// ========================================

// LoadSessionCmd 執行已準備好的加載請求（上傳分析或打開歷史）
func (b *CommandBuilder) LoadSessionCmd(req application.LoadRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(analysisTimeout)
		defer cancel()

		res, err := b.lifecycle.Run(ctx, req)
		return msg.SessionLoadedMsg{Req: req, Result: res, Err: err}
	}
}

// FetchWindowCmd 取回日誌窗口
func (b *CommandBuilder) FetchWindowCmd(req application.WindowRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(requestTimeout)
		defer cancel()

		win, err := b.pager.Fetch(ctx, req)
		return msg.WindowLoadedMsg{Req: req, Window: win, Err: err}
	}
}

// LoadHistoryCmd 拉取歷史列表
func (b *CommandBuilder) LoadHistoryCmd(t application.Ticket) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(requestTimeout)
		defer cancel()

		entries, err := b.lifecycle.History(ctx)
		return msg.HistoryLoadedMsg{Ticket: t, Entries: entries, Err: err}
	}
}

// ========================================
// 助手
// ========================================

// SendChatCmd 發送一條已落位的消息
func (b *CommandBuilder) SendChatCmd(req application.ChatRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(requestTimeout)
		defer cancel()

		reply, err := b.chat.Send(ctx, req)
		return msg.ChatReplyMsg{Req: req, Reply: reply, Err: err}
	}
}

// AnalyzeLineCmd 請求單行分析
func (b *CommandBuilder) AnalyzeLineCmd(req application.LineRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(requestTimeout)
		defer cancel()

		a, err := b.chat.AnalyzeLine(ctx, req)
		return msg.LineAnalysisMsg{Req: req, Analysis: a, Err: err}
	}
}

// CheckAssistantCmd 探測助手狀態
func (b *CommandBuilder) CheckAssistantCmd(t application.Ticket, silent bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), configTimeout)
		defer cancel()

		st, err := b.chat.Status(ctx)
		return msg.AssistantStatusMsg{Ticket: t, Status: st, Err: err, Silent: silent}
	}
}

// ========================================
// 報告
// ========================================

// ExportReportCmd 導出當前會話報告，快照在 UI 協程上取得
func (b *CommandBuilder) ExportReportCmd(sess session.Session, turns []application.ChatTurn, analysis *session.LineAnalysis) tea.Cmd {
	return func() tea.Msg {
		path, err := b.report.Export(sess, turns, analysis)
		return msg.ReportExportedMsg{Path: path, Err: err}
	}
}

// ========================================
// UI 協程上的組合操作
// ========================================

// StartLoad 校驗來源並發起分析
func (b *CommandBuilder) StartLoad(m *state.Manager, src session.Source) tea.Cmd {
	req, err := b.lifecycle.Prepare(src)
	if err != nil {
		m.UI().SetStatus(state.StatusError, application.Notice(err, "輸入無效"), "")
		return nil
	}
	m.Analyze().Submitting = true
	m.Analyze().Pending = src.Label()
	m.UI().SetStatus(state.StatusInfo, "正在上傳並分析 "+src.Label(), "")
	return tea.Batch(m.UI().Spinner.Tick, b.LoadSessionCmd(req))
}

// OpenHistory 打開歷史會話
func (b *CommandBuilder) OpenHistory(m *state.Manager, entry session.HistoryEntry) tea.Cmd {
	req, err := b.lifecycle.PrepareOpen(entry.ID)
	if err != nil {
		m.UI().SetStatus(state.StatusError, application.Notice(err, "無法打開歷史記錄"), "")
		return nil
	}
	m.Analyze().Submitting = true
	m.Analyze().Pending = entry.Name
	m.UI().SetStatus(state.StatusInfo, "正在打開 "+entry.Name, "")
	return tea.Batch(m.UI().Spinner.Tick, b.LoadSessionCmd(req))
}

// RequestWindow 處理分頁操作的結果，拒絕時不發請求
func (b *CommandBuilder) RequestWindow(m *state.Manager, req application.WindowRequest, err error) tea.Cmd {
	if err != nil {
		m.UI().SetStatus(state.StatusWarn, application.Notice(err, "無法翻頁"), "")
		return nil
	}
	m.Viewer().Loading = true
	return tea.Batch(m.UI().Spinner.Tick, b.FetchWindowCmd(req))
}

// SendChat 落位並發送一條消息
func (b *CommandBuilder) SendChat(m *state.Manager, text string) tea.Cmd {
	req, err := b.chat.Prepare(text)
	return b.dispatchChat(m, req, err)
}

// SendSummary 請求摘要
func (b *CommandBuilder) SendSummary(m *state.Manager) tea.Cmd {
	req, err := b.chat.PrepareSummary()
	return b.dispatchChat(m, req, err)
}

func (b *CommandBuilder) dispatchChat(m *state.Manager, req application.ChatRequest, err error) tea.Cmd {
	if err != nil {
		m.UI().SetStatus(state.StatusWarn, application.Notice(err, "發送失敗"), "")
		return nil
	}
	m.RefreshTranscript()
	return tea.Batch(m.UI().Spinner.Tick, b.SendChatCmd(req))
}

// AnalyzeLine 分析指定絕對行
func (b *CommandBuilder) AnalyzeLine(m *state.Manager, line int) tea.Cmd {
	req, err := b.chat.PrepareLineAnalysis(line)
	if err != nil {
		m.UI().SetStatus(state.StatusError, application.Notice(err, "無法分析該行"), "")
		return nil
	}
	cs := m.Chat()
	cs.AnalysisLoading = true
	cs.AnalysisErr = ""
	return tea.Batch(m.UI().Spinner.Tick, b.AnalyzeLineCmd(req))
}

// RefreshAnalysis 重新分析選中行或首個錯誤行
func (b *CommandBuilder) RefreshAnalysis(m *state.Manager) tea.Cmd {
	line, err := b.chat.RefreshTarget()
	if err != nil {
		m.UI().SetStatus(state.StatusWarn, application.Notice(err, "沒有可分析的錯誤行"), "")
		return nil
	}
	return b.AnalyzeLine(m, line)
}

// RefreshHistory 重新拉取歷史
func (b *CommandBuilder) RefreshHistory(m *state.Manager) tea.Cmd {
	m.History().Loading = true
	m.History().Err = ""
	return tea.Batch(m.UI().Spinner.Tick, b.LoadHistoryCmd(b.lifecycle.PrepareHistory()))
}

// CheckAssistant 探測助手狀態
func (b *CommandBuilder) CheckAssistant(silent bool) tea.Cmd {
	return b.CheckAssistantCmd(b.chat.PrepareStatus(), silent)
}

// ExportReport 導出當前會話
func (b *CommandBuilder) ExportReport(m *state.Manager) tea.Cmd {
	sess, ok := m.Session()
	if !ok {
		m.UI().SetStatus(state.StatusWarn, application.NoticeNoSession, "")
		return nil
	}
	m.UI().SetStatus(state.StatusInfo, "正在導出報告...", "")
	return b.ExportReportCmd(sess, m.Transcript(), m.Chat().Analysis)
}

// ApplyRuntime 把配置同步到分頁與限速
func (b *CommandBuilder) ApplyRuntime(cfg *domainConfig.Config) {
	if cfg == nil {
		return
	}
	b.pager.Configure(cfg.Viewer)
	b.chat.SetRate(cfg.Assistant.RequestsPerMinute)
}
