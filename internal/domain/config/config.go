package config

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Yat-Muk/logsight/internal/pkg/crypto"
	apperrors "github.com/Yat-Muk/logsight/internal/pkg/errors"
)

// Repository 配置倉庫接口
type Repository interface {
	// Load 加載配置
	Load(ctx context.Context) (*Config, error)

	// Save 保存配置
	Save(ctx context.Context, cfg *Config) error
}

// Config 主配置結構
type Config struct {
	Version   int             `yaml:"version"`
	Backend   BackendConfig   `yaml:"backend"`
	Viewer    ViewerConfig    `yaml:"viewer"`
	Assistant AssistantConfig `yaml:"assistant"`
	Export    ExportConfig    `yaml:"export"`
	Log       LogConfig       `yaml:"log"`

	// V1 遺留字段，僅用於遷移
	LegacyServerURL string `yaml:"server_url,omitempty"`
}

// BackendConfig 分析服務連接配置
type BackendConfig struct {
	BaseURL            string        `yaml:"base_url"`
	Timeout            time.Duration `yaml:"timeout"`
	UploadTimeout      time.Duration `yaml:"upload_timeout"`
	APIToken           string        `yaml:"api_token,omitempty"` // 落盤時加密
	CAFile             string        `yaml:"ca_file,omitempty"`
	InsecureSkipVerify bool          `yaml:"insecure_skip_verify"`
}

// ViewerConfig 日誌分頁配置
type ViewerConfig struct {
	WindowSize int `yaml:"window_size"`
	JumpMargin int `yaml:"jump_margin"`
	ScrollStep int `yaml:"scroll_step"`
}

// AssistantConfig 分析助手配置
type AssistantConfig struct {
	AutoSummary           bool `yaml:"auto_summary"`
	AutoAnalyzeFirstError bool `yaml:"auto_analyze_first_error"`
	RequestsPerMinute     int  `yaml:"requests_per_minute"`
}

// ExportConfig 報告導出配置
type ExportConfig struct {
	Dir string `yaml:"dir"`
}

// LogConfig 日誌配置
type LogConfig struct {
	Level      string `yaml:"level"`
	OutputPath string `yaml:"output_path"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
	Compress   bool   `yaml:"compress"`
}

// 默認值
const (
	DefaultBaseURL       = "http://127.0.0.1:5000"
	DefaultTimeout       = 30 * time.Second
	DefaultUploadTimeout = 5 * time.Minute
	DefaultWindowSize    = 50
	DefaultJumpMargin    = 10
	DefaultScrollStep    = 20
	DefaultAssistantRPM  = 30
)

// DefaultConfig 返回默認配置
func DefaultConfig() *Config {
	return &Config{
		Version: ConfigVersionLatest,
		Backend: BackendConfig{
			BaseURL:       DefaultBaseURL,
			Timeout:       DefaultTimeout,
			UploadTimeout: DefaultUploadTimeout,
		},
		Viewer: ViewerConfig{
			WindowSize: DefaultWindowSize,
			JumpMargin: DefaultJumpMargin,
			ScrollStep: DefaultScrollStep,
		},
		Assistant: AssistantConfig{
			AutoSummary:           true,
			AutoAnalyzeFirstError: true,
			RequestsPerMinute:     DefaultAssistantRPM,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     14,
			Compress:   true,
		},
	}
}

// FillDefaults 為缺省字段填充默認值，手寫的配置文件常常只有部分字段
func (c *Config) FillDefaults() {
	d := DefaultConfig()

	if c.Version == 0 {
		c.Version = d.Version
	}
	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = d.Backend.BaseURL
	}
	if c.Backend.Timeout <= 0 {
		c.Backend.Timeout = d.Backend.Timeout
	}
	if c.Backend.UploadTimeout <= 0 {
		c.Backend.UploadTimeout = d.Backend.UploadTimeout
	}
	if c.Viewer.WindowSize == 0 {
		c.Viewer.WindowSize = d.Viewer.WindowSize
	}
	if c.Viewer.ScrollStep == 0 {
		c.Viewer.ScrollStep = d.Viewer.ScrollStep
	}
	if c.Assistant.RequestsPerMinute == 0 {
		c.Assistant.RequestsPerMinute = d.Assistant.RequestsPerMinute
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.MaxSize == 0 {
		c.Log.MaxSize = d.Log.MaxSize
	}
	if c.Log.MaxAge == 0 {
		c.Log.MaxAge = d.Log.MaxAge
	}
}

// Validate 驗證配置
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return apperrors.Wrap(apperrors.ErrConfigInvalid, apperrors.CodeConfig, fmt.Sprintf(format, args...))
	}

	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return invalid("backend.base_url 無效: %q", c.Backend.BaseURL)
	}
	if c.Backend.Timeout <= 0 {
		return invalid("backend.timeout 必須大於 0")
	}
	if c.Viewer.WindowSize <= 0 {
		return invalid("viewer.window_size 必須大於 0")
	}
	if c.Viewer.JumpMargin < 0 {
		return invalid("viewer.jump_margin 不能為負數")
	}
	if c.Viewer.ScrollStep <= 0 {
		return invalid("viewer.scroll_step 必須大於 0")
	}
	if c.Assistant.RequestsPerMinute < 0 {
		return invalid("assistant.requests_per_minute 不能為負數")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return invalid("log.level 無效: %q", c.Log.Level)
	}
	return nil
}

// EncryptSensitiveFields 加密所有敏感字段
func (c *Config) EncryptSensitiveFields(encryptor *crypto.Encryptor) error {
	if encryptor == nil {
		return nil
	}
	if c.Backend.APIToken != "" && !crypto.IsEncrypted(c.Backend.APIToken) {
		encrypted, err := encryptor.Encrypt(c.Backend.APIToken)
		if err != nil {
			return fmt.Errorf("加密 API Token 失敗: %w", err)
		}
		c.Backend.APIToken = encrypted
	}
	return nil
}

// DecryptSensitiveFields 解密所有敏感字段
func (c *Config) DecryptSensitiveFields(encryptor *crypto.Encryptor) error {
	if encryptor == nil {
		return nil
	}
	if crypto.IsEncrypted(c.Backend.APIToken) {
		decrypted, err := encryptor.Decrypt(c.Backend.APIToken)
		if err != nil {
			return fmt.Errorf("解密 API Token 失敗: %w", err)
		}
		c.Backend.APIToken = decrypted
	}
	return nil
}

// DeepCopy 深拷貝配置 (序列化回環)
func (c *Config) DeepCopy() *Config {
	if c == nil {
		return nil
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		panic(fmt.Errorf("DeepCopy 序列化失敗 (這是一個 Bug): %w", err))
	}

	var newCfg Config
	if err := yaml.Unmarshal(data, &newCfg); err != nil {
		panic(fmt.Errorf("DeepCopy 反序列化失敗 (這是一個 Bug): %w", err))
	}

	return &newCfg
}
