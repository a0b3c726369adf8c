package application

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Yat-Muk/logsight/internal/domain/config"
)

// ConfigService 配置服務
//
// 磁盤上的配置由 repo 負責，運行時快照保存在 AtomicContainer 中。
type ConfigService struct {
	repo    config.Repository
	current *config.AtomicContainer
	logger  *zap.Logger
	mu      sync.Mutex
}

// NewConfigService 創建配置服務
func NewConfigService(repo config.Repository, logger *zap.Logger) *ConfigService {
	return &ConfigService{
		repo:    repo,
		current: config.NewAtomicContainer(config.DefaultConfig()),
		logger:  logger,
	}
}

// Load 從倉庫加載配置並刷新運行時快照
func (s *ConfigService) Load(ctx context.Context) (*config.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("加載配置失敗: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s.current.Set(cfg)
	return cfg, nil
}

// Current 運行時配置快照，只讀
func (s *ConfigService) Current() *config.Config {
	return s.current.Get()
}

// Override 只修改運行時快照，不落盤（命令行參數覆蓋）
func (s *ConfigService) Override(modifier func(*config.Config) error) error {
	return s.current.Update(modifier)
}

// GetConfig 獲取磁盤上的配置
func (s *ConfigService) GetConfig(ctx context.Context) (*config.Config, error) {
	return s.repo.Load(ctx)
}

// UpdateConfig 原子更新配置
// 邏輯：Lock -> Load -> DeepCopy -> Modify -> Validate -> Save -> 刷新快照
func (s *ConfigService) UpdateConfig(ctx context.Context, modifier func(*config.Config) error) (*config.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	currentCfg, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("加載配置失敗: %w", err)
	}

	newCfg := currentCfg.DeepCopy()
	if err := modifier(newCfg); err != nil {
		return nil, fmt.Errorf("應用配置修改失敗: %w", err)
	}
	if err := newCfg.Validate(); err != nil {
		return nil, fmt.Errorf("新配置驗證失敗: %w", err)
	}
	if err := s.repo.Save(ctx, newCfg); err != nil {
		return nil, fmt.Errorf("保存配置失敗: %w", err)
	}

	// 運行時的命令行覆蓋只作用於 Backend，其它字段跟隨磁盤
	_ = s.current.Update(func(c *config.Config) error {
		c.Viewer = newCfg.Viewer
		c.Assistant = newCfg.Assistant
		c.Export = newCfg.Export
		return nil
	})

	s.logger.Info("配置已更新並保存")
	return newCfg, nil
}

// SaveWithDefaults 保存配置並自動填充默認值
func (s *ConfigService) SaveWithDefaults(ctx context.Context, cfg *config.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg.FillDefaults()
	return s.repo.Save(ctx, cfg)
}
