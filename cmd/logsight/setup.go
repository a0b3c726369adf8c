package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Yat-Muk/logsight/internal/application"
	domainConfig "github.com/Yat-Muk/logsight/internal/domain/config"
	"github.com/Yat-Muk/logsight/internal/domain/session"
	"github.com/Yat-Muk/logsight/internal/infra/backend"
	infraConfig "github.com/Yat-Muk/logsight/internal/infra/config"
	"github.com/Yat-Muk/logsight/internal/pkg/appctx"
	"github.com/Yat-Muk/logsight/internal/pkg/crypto"
	"github.com/Yat-Muk/logsight/internal/pkg/logger"
	"github.com/Yat-Muk/logsight/internal/tui/handlers"
	"github.com/Yat-Muk/logsight/internal/tui/state"
)

// Options 命令行帶入的運行時覆蓋
type Options struct {
	Server   string
	Insecure bool
	Initial  *session.Source
}

type AppDependencies struct {
	Log           *zap.Logger
	Paths         *appctx.Paths
	ConfigSvc     *application.ConfigService
	Backend       *backend.Client
	Lifecycle     *application.LifecycleManager
	Pager         *application.Pager
	Chat          *application.ChatOrchestrator
	HandlerConfig *handlers.Config
}

func initializeDependencies(log *zap.Logger, paths *appctx.Paths, opts Options) (*AppDependencies, error) {
	ctx := context.Background()

	// ==========================================
	// 1. 配置
	// ==========================================
	encryptor, err := crypto.NewEncryptor(paths.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("初始化加密器失敗: %w", err)
	}
	configRepo := infraConfig.NewFileRepository(paths.ConfigFile, encryptor, log)

	initialConfig, err := configRepo.Load(ctx)
	if err != nil {
		log.Warn("加載配置失敗，使用默認值", logger.Error(err))
		initialConfig = domainConfig.DefaultConfig()
	}

	configSvc := application.NewConfigService(configRepo, log)
	if err := configSvc.SaveWithDefaults(ctx, initialConfig); err != nil {
		log.Warn("初始化保存配置失敗", logger.Error(err))
	}
	if _, err := configSvc.Load(ctx); err != nil {
		log.Warn("配置校驗失敗，運行時使用默認值", logger.Error(err))
	}

	if err := configSvc.Override(func(c *domainConfig.Config) error {
		applyOverrides(c, opts)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("應用命令行參數失敗: %w", err)
	}
	runtime := configSvc.Current()

	// ==========================================
	// 2. 基礎設施層
	// ==========================================
	client, err := backend.NewClient(backend.OptionsFromConfig(runtime.Backend), log)
	if err != nil {
		return nil, fmt.Errorf("初始化後端客戶端失敗: %w", err)
	}

	// ==========================================
	// 3. 應用服務層
	// ==========================================
	sessState := application.NewSessionState()
	pager := application.NewPager(sessState, client, runtime.Viewer, log)
	lifecycle := application.NewLifecycleManager(sessState, client, client, log)
	chat := application.NewChatOrchestrator(sessState, client, runtime.Assistant.RequestsPerMinute, log)

	exportDir := runtime.Export.Dir
	if exportDir == "" {
		exportDir = paths.ExportDir
	}
	report := application.NewReportService(exportDir, log)

	// ==========================================
	// 4. 狀態管理
	// ==========================================
	stateMgr := state.NewManager(&state.Config{
		Log:           log,
		InitialConfig: runtime,
		Session:       sessState,
		Chat:          chat,
		Paths:         paths,
		BackendURL:    client.BaseURL(),
	})

	// ==========================================
	// 5. TUI Handler 配置
	// ==========================================
	handlerCfg := &handlers.Config{
		Log:       log,
		StateMgr:  stateMgr,
		ConfigSvc: configSvc,
		Session:   sessState,
		Pager:     pager,
		Lifecycle: lifecycle,
		Chat:      chat,
		Report:    report,
		Paths:     paths,
		Initial:   opts.Initial,
	}

	return &AppDependencies{
		Log:           log,
		Paths:         paths,
		ConfigSvc:     configSvc,
		Backend:       client,
		Lifecycle:     lifecycle,
		Pager:         pager,
		Chat:          chat,
		HandlerConfig: handlerCfg,
	}, nil
}

// applyOverrides 命令行參數只作用於運行時快照，不寫回磁盤
func applyOverrides(c *domainConfig.Config, opts Options) {
	if opts.Server != "" {
		c.Backend.BaseURL = opts.Server
	}
	if opts.Insecure {
		c.Backend.InsecureSkipVerify = true
	}
}

// bootstrapLogConfig 在日誌器創建前讀取配置中的 log 段，失敗時使用默認值
func bootstrapLogConfig(paths *appctx.Paths) domainConfig.LogConfig {
	cfg, err := infraConfig.NewFileRepository(paths.ConfigFile, nil, zap.NewNop()).Load(context.Background())
	if err != nil || cfg == nil {
		return domainConfig.DefaultConfig().Log
	}
	return cfg.Log
}

func loggerConfig(paths *appctx.Paths, lc domainConfig.LogConfig, debug bool) logger.Config {
	cfg := logger.DefaultConfig()
	cfg.OutputPath = paths.LogFile
	if lc.OutputPath != "" {
		cfg.OutputPath = lc.OutputPath
	}
	if lc.Level != "" {
		cfg.Level = lc.Level
	}
	if lc.MaxSize > 0 {
		cfg.MaxSize = lc.MaxSize
	}
	if lc.MaxBackups > 0 {
		cfg.MaxBackups = lc.MaxBackups
	}
	if lc.MaxAge > 0 {
		cfg.MaxAge = lc.MaxAge
	}
	cfg.Compress = lc.Compress
	cfg.Console = false
	if debug {
		cfg.Level = "debug"
	}
	return cfg
}
