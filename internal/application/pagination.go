package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	domainConfig "github.com/Yat-Muk/logsight/internal/domain/config"
	"github.com/Yat-Muk/logsight/internal/domain/session"
	apperrors "github.com/Yat-Muk/logsight/internal/pkg/errors"
	"github.com/Yat-Muk/logsight/internal/pkg/logger"
)

// WindowRequest 一次窗口請求，Start/End 為絕對索引，End 不含
type WindowRequest struct {
	Ticket
	SessionID string
	Start     int
	End       int
	Highlight int // 需要高亮的行，session.NoSelection 表示無
}

// Window 已接受、可渲染的窗口
type Window struct {
	Start     int
	Total     int
	Highlight int
	Lines     []session.TaggedLine
}

// Pager 維護視口位置並發起窗口請求
//
// JumpToLine/Scroll/Reload/Accept 在 UI 協程上調用；Fetch 只做 I/O，可在命令協程中運行。
type Pager struct {
	state  *SessionState
	lines  session.LineSource
	viewer domainConfig.ViewerConfig
	logger *zap.Logger
}

// NewPager 創建分頁控制器
func NewPager(state *SessionState, lines session.LineSource, viewer domainConfig.ViewerConfig, log *zap.Logger) *Pager {
	p := &Pager{state: state, lines: lines, logger: log.Named("pager")}
	p.Configure(viewer)
	return p
}

// Configure 更新分頁參數，非正數使用默認值
func (p *Pager) Configure(v domainConfig.ViewerConfig) {
	if v.WindowSize <= 0 {
		v.WindowSize = domainConfig.DefaultWindowSize
	}
	if v.JumpMargin < 0 {
		v.JumpMargin = domainConfig.DefaultJumpMargin
	}
	if v.ScrollStep <= 0 {
		v.ScrollStep = domainConfig.DefaultScrollStep
	}
	p.viewer = v
}

// Viewer 當前分頁參數
func (p *Pager) Viewer() domainConfig.ViewerConfig {
	return p.viewer
}

// JumpToLine 跳轉到絕對行（從 0 開始），目標行前保留 JumpMargin 行上下文
//
// 目標行只作為窗口高亮，不改變 SelectedLine。
func (p *Pager) JumpToLine(line int) (WindowRequest, error) {
	sess := p.state.current
	if !sess.Loaded() {
		return WindowRequest{}, errNoSession
	}
	if line < 0 || line >= sess.TotalLines {
		return WindowRequest{}, apperrors.Wrap(apperrors.ErrLineOutOfRange, apperrors.CodeInput, "行號超出範圍")
	}

	start := line - p.viewer.JumpMargin
	if start < 0 {
		start = 0
	}
	p.state.setViewport(start)
	return p.request(line), nil
}

// Scroll 按偏移移動視口，越過末尾時拒絕且視口不變
func (p *Pager) Scroll(offset int) (WindowRequest, error) {
	sess := p.state.current
	if !sess.Loaded() {
		return WindowRequest{}, errNoSession
	}

	candidate := sess.ViewportStart + offset
	if candidate >= sess.TotalLines {
		return WindowRequest{}, errEndOfLog
	}
	if candidate < 0 {
		candidate = 0
	}
	p.state.setViewport(candidate)
	return p.request(session.NoSelection), nil
}

// ScrollDown 向下翻一步
func (p *Pager) ScrollDown() (WindowRequest, error) {
	return p.Scroll(p.viewer.ScrollStep)
}

// ScrollUp 向上翻一步
func (p *Pager) ScrollUp() (WindowRequest, error) {
	return p.Scroll(-p.viewer.ScrollStep)
}

// Reload 按當前視口重新請求
func (p *Pager) Reload() (WindowRequest, error) {
	if !p.state.Loaded() {
		return WindowRequest{}, errNoSession
	}
	return p.request(session.NoSelection), nil
}

func (p *Pager) request(highlight int) WindowRequest {
	start := p.state.current.ViewportStart
	return WindowRequest{
		Ticket:    p.state.Issue(OpWindow),
		SessionID: p.state.current.ID,
		Start:     start,
		End:       start + p.viewer.WindowSize,
		Highlight: highlight,
	}
}

// Fetch 取回窗口
func (p *Pager) Fetch(ctx context.Context, req WindowRequest) (*session.LineWindow, error) {
	started := time.Now()
	win, err := p.lines.Window(ctx, req.SessionID, req.Start, req.End)
	if err != nil {
		p.logger.Warn("加載日誌窗口失敗",
			logger.Int("start", req.Start),
			logger.Int("end", req.End),
			logger.Error(err),
		)
		return nil, err
	}
	p.logger.Debug("日誌窗口已加載",
		logger.Int("start", win.Start),
		logger.Int("lines", len(win.Lines)),
		logger.Duration("took", time.Since(started)),
	)
	return win, nil
}

// Accept 接受窗口響應，過期響應返回 ErrStaleResponse
func (p *Pager) Accept(req WindowRequest, win *session.LineWindow) (*Window, error) {
	if !p.state.IsCurrent(req.Ticket) {
		p.logger.Debug("丟棄過期窗口", logger.Int("start", req.Start))
		return nil, errStale
	}
	if win == nil {
		return nil, apperrors.ErrMalformedResponse
	}

	total := win.Total
	if total <= 0 {
		total = p.state.current.TotalLines
	}
	return &Window{
		Start:     win.Start,
		Total:     total,
		Highlight: req.Highlight,
		Lines:     win.Tag(p.state.current.Flagged),
	}, nil
}

// Load 同步完成 請求->取回->接受，供非交互模式使用
func (p *Pager) Load(ctx context.Context, req WindowRequest) (*Window, error) {
	win, err := p.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}
	return p.Accept(req, win)
}
