package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Yat-Muk/logsight/internal/domain/session"
	apperrors "github.com/Yat-Muk/logsight/internal/pkg/errors"
	"github.com/Yat-Muk/logsight/internal/pkg/inputvalidator"
	"github.com/Yat-Muk/logsight/internal/pkg/logger"
)

// SummaryPrompt 加載後自動發送的摘要請求
const SummaryPrompt = "Please analyze the log file and provide a summary of the main issues found"

// ChatTurn 對話中的一輪
type ChatTurn struct {
	Prompt  string
	Auto    bool // 自動摘要，界面上不顯示提問
	Pending bool
	Reply   *session.ChatReply
	Err     error
	At      time.Time
}

// ChatRequest 一次聊天請求，Slot 為其在對話中的位置
type ChatRequest struct {
	Ticket
	SessionID string
	Message   string
	Slot      int
}

// LineRequest 一次單行分析請求
type LineRequest struct {
	Ticket
	SessionID string
	Line      int
}

// ChatOrchestrator 管理與助手的對話和單行分析
//
// 回覆按發起順序落位；會話切換後遲到的回覆一律丟棄。
type ChatOrchestrator struct {
	state     *SessionState
	assistant session.Assistant
	limiter   *rate.Limiter
	logger    *zap.Logger

	turns     []ChatTurn
	turnsGen  uint64
	available bool
}

// NewChatOrchestrator 創建對話編排器，rpm <= 0 表示不限速
func NewChatOrchestrator(state *SessionState, assistant session.Assistant, rpm int, log *zap.Logger) *ChatOrchestrator {
	return &ChatOrchestrator{
		state:     state,
		assistant: assistant,
		limiter:   newLimiter(rpm),
		logger:    log.Named("chat"),
		available: true,
	}
}

func newLimiter(rpm int) *rate.Limiter {
	if rpm <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := rpm / 10
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), burst)
}

// SetRate 調整每分鐘請求上限
func (c *ChatOrchestrator) SetRate(rpm int) {
	c.limiter = newLimiter(rpm)
}

// Prepare 為一條用戶消息佔位並發放憑證
//
// 沒有會話時直接返回提示，不發起任何請求。
func (c *ChatOrchestrator) Prepare(text string) (ChatRequest, error) {
	return c.prepare(text, false)
}

// PrepareSummary 準備加載後的自動摘要請求
func (c *ChatOrchestrator) PrepareSummary() (ChatRequest, error) {
	return c.prepare(SummaryPrompt, true)
}

func (c *ChatOrchestrator) prepare(text string, auto bool) (ChatRequest, error) {
	if !c.state.Loaded() {
		return ChatRequest{}, errNoSession
	}
	text = strings.TrimSpace(inputvalidator.SanitizeInput(text))
	if err := inputvalidator.ValidateChatMessage(text); err != nil {
		return ChatRequest{}, err
	}
	if !c.limiter.Allow() {
		return ChatRequest{}, apperrors.ErrRateLimited
	}

	c.sync()
	c.turns = append(c.turns, ChatTurn{Prompt: text, Auto: auto, Pending: true, At: time.Now()})
	return ChatRequest{
		Ticket:    c.state.Issue(OpChat),
		SessionID: c.state.current.ID,
		Message:   text,
		Slot:      len(c.turns) - 1,
	}, nil
}

// Send 發送消息
func (c *ChatOrchestrator) Send(ctx context.Context, req ChatRequest) (*session.ChatReply, error) {
	started := time.Now()
	reply, err := c.assistant.Chat(ctx, req.SessionID, req.Message)
	if err != nil {
		c.logger.Warn("聊天請求失敗", logger.Error(err))
		return nil, err
	}
	c.logger.Debug("收到助手回覆",
		logger.Int("slot", req.Slot),
		logger.Preview("reply", reply.Text),
		logger.Duration("took", time.Since(started)),
	)
	return reply, nil
}

// Accept 把回覆或錯誤填入對應位置
//
// 會話已切換時返回 ErrStaleResponse，對話不變。
func (c *ChatOrchestrator) Accept(req ChatRequest, reply *session.ChatReply, sendErr error) error {
	if !c.state.SameSession(req.Ticket) || req.Generation != c.turnsGen {
		c.logger.Debug("丟棄屬於舊會話的回覆", logger.Int("slot", req.Slot))
		return errStale
	}
	if req.Slot < 0 || req.Slot >= len(c.turns) {
		return errStale
	}

	turn := &c.turns[req.Slot]
	turn.Pending = false
	turn.Reply = reply
	turn.Err = sendErr
	return nil
}

// SendMessage 同步完成一輪對話
func (c *ChatOrchestrator) SendMessage(ctx context.Context, text string) (*session.ChatReply, error) {
	req, err := c.Prepare(text)
	if err != nil {
		return nil, err
	}
	reply, err := c.Send(ctx, req)
	if acceptErr := c.Accept(req, reply, err); acceptErr != nil {
		return nil, acceptErr
	}
	return reply, err
}

// Transcript 當前會話的對話副本，按發起順序排列
func (c *ChatOrchestrator) Transcript() []ChatTurn {
	c.sync()
	out := make([]ChatTurn, len(c.turns))
	copy(out, c.turns)
	return out
}

// Pending 是否有未返回的請求
func (c *ChatOrchestrator) Pending() bool {
	c.sync()
	for _, t := range c.turns {
		if t.Pending {
			return true
		}
	}
	return false
}

// 會話切換後清空對話
func (c *ChatOrchestrator) sync() {
	if c.turnsGen != c.state.Generation() {
		c.turns = nil
		c.turnsGen = c.state.Generation()
	}
}

// PrepareLineAnalysis 為指定行（從 0 開始）發放分析憑證，並將其設為選中行
func (c *ChatOrchestrator) PrepareLineAnalysis(line int) (LineRequest, error) {
	sess := c.state.current
	if !sess.Loaded() {
		return LineRequest{}, errNoSession
	}
	if line < 0 || line >= sess.TotalLines {
		return LineRequest{}, apperrors.Wrap(apperrors.ErrLineOutOfRange, apperrors.CodeInput, "行號超出範圍")
	}
	c.state.setSelectedLine(line)
	return LineRequest{
		Ticket:    c.state.Issue(OpLineAnalysis),
		SessionID: sess.ID,
		Line:      line,
	}, nil
}

// RefreshTarget 刷新分析的目標行：選中行，否則第一個錯誤行
func (c *ChatOrchestrator) RefreshTarget() (int, error) {
	sess := c.state.current
	if !sess.Loaded() {
		return 0, errNoSession
	}
	if sess.SelectedLine != session.NoSelection {
		return sess.SelectedLine, nil
	}
	if line, ok := sess.Flagged.FirstError(); ok {
		return line, nil
	}
	if len(sess.Critical) > 0 {
		return sess.Critical[0].Line, nil
	}
	return 0, apperrors.Invalid("沒有可分析的錯誤行")
}

// AnalyzeLine 請求單行分析
func (c *ChatOrchestrator) AnalyzeLine(ctx context.Context, req LineRequest) (*session.LineAnalysis, error) {
	a, err := c.assistant.AnalyzeLine(ctx, req.SessionID, req.Line)
	if err != nil {
		c.logger.Warn("單行分析失敗", logger.Int("line", req.Line), logger.Error(err))
		return nil, err
	}
	return a, nil
}

// AcceptLineAnalysis 只接受最近一次單行分析
func (c *ChatOrchestrator) AcceptLineAnalysis(req LineRequest, a *session.LineAnalysis) (*session.LineAnalysis, error) {
	if !c.state.IsCurrent(req.Ticket) {
		return nil, errStale
	}
	if a == nil {
		return nil, apperrors.ErrMalformedResponse
	}
	out := a.WithDefaults()
	return &out, nil
}

// PrepareStatus 發放助手狀態探測憑證
func (c *ChatOrchestrator) PrepareStatus() Ticket {
	return c.state.Issue(OpStatus)
}

// Status 探測助手是否可用
func (c *ChatOrchestrator) Status(ctx context.Context) (*session.AssistantStatus, error) {
	st, err := c.assistant.Status(ctx)
	if err != nil {
		c.logger.Warn("助手狀態探測失敗", logger.Error(err))
		return nil, apperrors.Wrap(apperrors.ErrAssistantOffline, apperrors.CodeBackend, NoticeOffline)
	}
	return st, nil
}

// AcceptStatus 記錄最近一次探測結果
func (c *ChatOrchestrator) AcceptStatus(t Ticket, st *session.AssistantStatus, err error) error {
	if !c.state.IsLatest(t) {
		return errStale
	}
	c.available = err == nil && st != nil && st.Available
	return nil
}

// Available 最近一次探測的結果，未探測時為 true
func (c *ChatOrchestrator) Available() bool {
	return c.available
}

// Welcome 會話加載後的歡迎語
func Welcome(sess session.Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "已加載 %s，共 %d 行。", sess.DisplayName, sess.TotalLines)
	fmt.Fprintf(&b, "發現 %d 個錯誤、%d 個警告。", sess.ErrorCount, sess.WarningCount)
	b.WriteString("可以詢問錯誤原因、修復建議，或讓我總結主要問題。")
	return b.String()
}
