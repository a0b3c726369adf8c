package state

import (
	"go.uber.org/zap"

	"github.com/Yat-Muk/logsight/internal/application"
	domainConfig "github.com/Yat-Muk/logsight/internal/domain/config"
	"github.com/Yat-Muk/logsight/internal/domain/session"
	"github.com/Yat-Muk/logsight/internal/pkg/appctx"
	"github.com/Yat-Muk/logsight/internal/pkg/version"
)

// Config 初始化配置
type Config struct {
	Log           *zap.Logger
	InitialConfig *domainConfig.Config
	Session       *application.SessionState
	Chat          *application.ChatOrchestrator
	Paths         *appctx.Paths
	BackendURL    string
}

// Manager 狀態管理器 (State Container)
type Manager struct {
	log *zap.Logger

	// 各個子狀態模塊
	ui      *UIState
	config  *ConfigState
	analyze *AnalyzeState
	viewer  *ViewerState
	chat    *ChatState
	history *HistoryState

	// 只讀引用，修改經由 application 層
	session      *application.SessionState
	orchestrator *application.ChatOrchestrator

	paths      *appctx.Paths
	backendURL string
	version    string
}

// NewManager 創建狀態管理器
func NewManager(cfg *Config) *Manager {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	sess := cfg.Session
	if sess == nil {
		sess = application.NewSessionState()
	}

	return &Manager{
		log:          log,
		ui:           NewUIState(),
		config:       NewConfigState(cfg.InitialConfig),
		analyze:      NewAnalyzeState(),
		viewer:       NewViewerState(),
		chat:         NewChatState(),
		history:      NewHistoryState(),
		session:      sess,
		orchestrator: cfg.Chat,
		paths:        cfg.Paths,
		backendURL:   cfg.BackendURL,
		version:      version.Short(),
	}
}

// Getters 訪問器

func (m *Manager) UI() *UIState           { return m.ui }
func (m *Manager) Config() *ConfigState   { return m.config }
func (m *Manager) Analyze() *AnalyzeState { return m.analyze }
func (m *Manager) Viewer() *ViewerState   { return m.viewer }
func (m *Manager) Chat() *ChatState       { return m.chat }
func (m *Manager) History() *HistoryState { return m.history }

// Session 當前會話快照
func (m *Manager) Session() (session.Session, bool) {
	return m.session.Current()
}

// Transcript 當前會話的對話
func (m *Manager) Transcript() []application.ChatTurn {
	if m.orchestrator == nil {
		return nil
	}
	return m.orchestrator.Transcript()
}
