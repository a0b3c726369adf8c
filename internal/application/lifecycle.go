package application

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Yat-Muk/logsight/internal/domain/session"
	apperrors "github.com/Yat-Muk/logsight/internal/pkg/errors"
	"github.com/Yat-Muk/logsight/internal/pkg/inputvalidator"
	"github.com/Yat-Muk/logsight/internal/pkg/logger"
)

// LoadRequest 一次加載請求：提交新日誌（Source）或打開歷史會話（ID）
type LoadRequest struct {
	Ticket
	Source session.Source
	ID     string
}

// LifecycleManager 負責創建與替換會話
//
// 只有 Commit 會替換當前會話；失敗時原會話保持不變。
type LifecycleManager struct {
	state    *SessionState
	analyzer session.Analyzer
	history  session.HistoryStore
	logger   *zap.Logger
}

// NewLifecycleManager 創建會話生命週期管理器
func NewLifecycleManager(state *SessionState, analyzer session.Analyzer, history session.HistoryStore, log *zap.Logger) *LifecycleManager {
	return &LifecycleManager{
		state:    state,
		analyzer: analyzer,
		history:  history,
		logger:   log.Named("lifecycle"),
	}
}

// Prepare 校驗來源並發放加載憑證，校驗失敗時不發起任何請求
func (m *LifecycleManager) Prepare(src session.Source) (LoadRequest, error) {
	if err := src.Validate(); err != nil {
		return LoadRequest{}, err
	}
	return LoadRequest{Ticket: m.state.Issue(OpLoad), Source: src}, nil
}

// PrepareOpen 為打開歷史會話發放憑證
func (m *LifecycleManager) PrepareOpen(id string) (LoadRequest, error) {
	if id == "" {
		return LoadRequest{}, apperrors.Invalid("會話 ID 為空")
	}
	return LoadRequest{Ticket: m.state.Issue(OpLoad), ID: id}, nil
}

// Run 執行加載請求的 I/O 部分
func (m *LifecycleManager) Run(ctx context.Context, req LoadRequest) (*session.AnalysisResult, error) {
	started := time.Now()

	var (
		res *session.AnalysisResult
		err error
	)
	if req.ID != "" {
		res, err = m.analyzer.Fetch(ctx, req.ID)
	} else {
		res, err = m.submit(ctx, req.Source)
	}
	if err != nil {
		m.logger.Warn("加載日誌失敗",
			logger.String("source", req.Source.Kind.String()),
			logger.Error(err),
		)
		return nil, err
	}

	m.logger.Info("日誌分析完成",
		logger.String("file_id", res.FileID),
		logger.Int("total_lines", res.TotalLines),
		logger.Int("critical", len(res.Critical)),
		logger.Duration("took", time.Since(started)),
	)
	return res, nil
}

func (m *LifecycleManager) submit(ctx context.Context, src session.Source) (*session.AnalysisResult, error) {
	req := session.AnalyzeRequest{Source: src}
	if src.Kind == session.SourceURL {
		m.logger.Info("提交遠程日誌", logger.SanitizedURL("url", src.URL))
		return m.analyzer.Analyze(ctx, req)
	}

	f, err := os.Open(src.Path)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeIO, fmt.Sprintf("無法打開文件: %s", filepath.Base(src.Path)))
	}
	defer f.Close()

	req.FileName = filepath.Base(src.Path)
	req.Content = f
	m.logger.Info("上傳日誌文件", logger.String("file", req.FileName))
	return m.analyzer.Analyze(ctx, req)
}

// Commit 用分析結果替換當前會話，過期結果返回 ErrStaleResponse
func (m *LifecycleManager) Commit(req LoadRequest, res *session.AnalysisResult) (*session.Session, error) {
	if !m.state.IsLatest(req.Ticket) {
		m.logger.Debug("丟棄過期的加載結果")
		return nil, errStale
	}
	if res == nil || res.FileID == "" {
		return nil, apperrors.Wrap(apperrors.ErrMalformedResponse, apperrors.CodeBackend, "分析結果缺少文件 ID")
	}

	name := res.Name
	if name == "" {
		if req.ID != "" {
			name = req.ID
		} else {
			name = req.Source.Label()
		}
	}

	next := session.New(res.FileID, name, req.Source.Kind, res.TotalLines, session.Project(res))
	m.state.replace(next)

	m.logger.Info("會話已切換",
		logger.String("file_id", next.ID),
		logger.Int("errors", next.ErrorCount),
		logger.Int("warnings", next.WarningCount),
	)
	snapshot := *next
	return &snapshot, nil
}

// StartSession 同步提交新日誌並切換會話
func (m *LifecycleManager) StartSession(ctx context.Context, src session.Source) (*session.Session, error) {
	req, err := m.Prepare(src)
	if err != nil {
		return nil, err
	}
	res, err := m.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	return m.Commit(req, res)
}

// LoadSession 同步打開歷史會話
func (m *LifecycleManager) LoadSession(ctx context.Context, id string) (*session.Session, error) {
	req, err := m.PrepareOpen(id)
	if err != nil {
		return nil, err
	}
	res, err := m.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	return m.Commit(req, res)
}

// PrepareHistory 發放歷史列表憑證
func (m *LifecycleManager) PrepareHistory() Ticket {
	return m.state.Issue(OpHistory)
}

// History 拉取歷史列表
func (m *LifecycleManager) History(ctx context.Context) ([]session.HistoryEntry, error) {
	entries, err := m.history.History(ctx)
	if err != nil {
		m.logger.Warn("加載歷史記錄失敗", logger.Error(err))
		return nil, err
	}
	return entries, nil
}

// AcceptHistory 只接受最近一次歷史請求
func (m *LifecycleManager) AcceptHistory(t Ticket) error {
	if !m.state.IsLatest(t) {
		return errStale
	}
	return nil
}

// SelectHistory 把用戶輸入的序號（從 1 開始）解析為歷史條目
func SelectHistory(entries []session.HistoryEntry, input string) (session.HistoryEntry, error) {
	if len(entries) == 0 {
		return session.HistoryEntry{}, apperrors.Invalid("暫無歷史記錄")
	}
	if err := inputvalidator.ValidateMenuNumber(input, 1, len(entries)); err != nil {
		return session.HistoryEntry{}, err
	}
	idx, _ := strconv.Atoi(strings.TrimSpace(input))
	return entries[idx-1], nil
}
