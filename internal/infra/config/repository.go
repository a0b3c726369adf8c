package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	domainConfig "github.com/Yat-Muk/logsight/internal/domain/config"
	"github.com/Yat-Muk/logsight/internal/pkg/crypto"
	apperrors "github.com/Yat-Muk/logsight/internal/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// FileRepository 基於 YAML 文件的配置倉庫
//
// 加載結果按文件修改時間緩存，對外始終返回深拷貝。
type FileRepository struct {
	filePath  string
	encryptor *crypto.Encryptor
	migrator  *domainConfig.Migrator
	logger    *zap.Logger

	mu          sync.RWMutex
	fileMu      sync.Mutex
	cached      *domainConfig.Config
	lastModTime time.Time
}

func NewFileRepository(path string, encryptor *crypto.Encryptor, logger *zap.Logger) *FileRepository {
	return &FileRepository{
		filePath:  path,
		encryptor: encryptor,
		migrator:  domainConfig.NewMigrator(),
		logger:    logger,
	}
}

// Path 配置文件路徑
func (r *FileRepository) Path() string {
	return r.filePath
}

// Load 加載配置，文件不存在時返回默認配置
func (r *FileRepository) Load(ctx context.Context) (*domainConfig.Config, error) {
	stat, err := os.Stat(r.filePath)
	if os.IsNotExist(err) {
		r.logger.Info("配置文件不存在，使用默認配置", zap.String("path", r.filePath))
		return domainConfig.DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("檢查配置文件狀態失敗: %w", err)
	}

	r.mu.RLock()
	if r.cached != nil && !stat.ModTime().After(r.lastModTime) {
		cfg := r.cached.DeepCopy()
		r.mu.RUnlock()
		return cfg, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	// 雙重檢查
	if r.cached != nil && !stat.ModTime().After(r.lastModTime) {
		return r.cached.DeepCopy(), nil
	}

	r.fileMu.Lock()
	content, err := os.ReadFile(r.filePath)
	r.fileMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("讀取配置文件失敗: %w", err)
	}

	cfg := &domainConfig.Config{}
	if err := yaml.Unmarshal(content, cfg); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrConfigParseFailed, apperrors.CodeConfig,
			fmt.Sprintf("解析配置文件失敗: %v", err))
	}

	from := cfg.Version
	if cfg, err = r.migrator.MigrateToLatest(cfg); err != nil {
		return nil, err
	}
	if from != cfg.Version {
		r.logger.Info("配置已遷移", zap.Int("from", from), zap.Int("to", cfg.Version))
	}
	cfg.FillDefaults()

	if err := cfg.DecryptSensitiveFields(r.encryptor); err != nil {
		r.logger.Error("配置解密失敗", zap.Error(err))
		return nil, fmt.Errorf("解密敏感配置失敗: %w", err)
	}

	r.cached = cfg.DeepCopy()
	r.lastModTime = stat.ModTime()

	r.logger.Debug("配置文件已從磁盤加載",
		zap.String("path", r.filePath),
		zap.Time("mod_time", r.lastModTime),
	)
	return cfg, nil
}

// Save 原子寫入配置文件，權限 0600
func (r *FileRepository) Save(ctx context.Context, cfg *domainConfig.Config) error {
	if cfg == nil {
		return fmt.Errorf("配置對象為空")
	}

	r.fileMu.Lock()
	defer r.fileMu.Unlock()

	onDisk := cfg.DeepCopy()
	if err := onDisk.EncryptSensitiveFields(r.encryptor); err != nil {
		return fmt.Errorf("加密配置失敗: %w", err)
	}

	data, err := yaml.Marshal(onDisk)
	if err != nil {
		return fmt.Errorf("序列化配置失敗: %w", err)
	}

	if err := writeFileAtomic(r.filePath, data); err != nil {
		return err
	}

	r.mu.Lock()
	r.cached = cfg.DeepCopy()
	if stat, err := os.Stat(r.filePath); err == nil {
		r.lastModTime = stat.ModTime()
	}
	r.mu.Unlock()

	r.logger.Info("配置已保存", zap.String("path", r.filePath))
	return nil
}

func writeFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("創建配置目錄失敗: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, "config.*.yaml.tmp")
	if err != nil {
		return fmt.Errorf("創建臨時文件失敗: %w", err)
	}
	tmpName := tmpFile.Name()
	defer func() {
		if err != nil {
			tmpFile.Close()
			os.Remove(tmpName)
		}
	}()

	if err = tmpFile.Chmod(0600); err != nil {
		return fmt.Errorf("設置文件權限失敗: %w", err)
	}
	if _, err = tmpFile.Write(data); err != nil {
		return fmt.Errorf("寫入數據失敗: %w", err)
	}
	if err = tmpFile.Sync(); err != nil {
		return fmt.Errorf("同步磁盤失敗: %w", err)
	}
	if err = tmpFile.Close(); err != nil {
		return fmt.Errorf("關閉臨時文件失敗: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("替換配置文件失敗: %w", err)
	}
	return nil
}
