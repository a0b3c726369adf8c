package handlers

import (
	"go.uber.org/zap"

	"github.com/Yat-Muk/logsight/internal/application"
	"github.com/Yat-Muk/logsight/internal/domain/session"
	"github.com/Yat-Muk/logsight/internal/pkg/appctx"
	"github.com/Yat-Muk/logsight/internal/tui/state"
)

// Config 用於初始化 Handlers 的配置結構體
type Config struct {
	Log       *zap.Logger
	StateMgr  *state.Manager
	ConfigSvc *application.ConfigService
	Session   *application.SessionState
	Pager     *application.Pager
	Lifecycle *application.LifecycleManager
	Chat      *application.ChatOrchestrator
	Report    *application.ReportService
	Paths     *appctx.Paths

	// 啟動後立即分析的來源，可為空
	Initial *session.Source
}
