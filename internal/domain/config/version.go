package config

import (
	"fmt"
	"strings"
)

const (
	// ConfigVersionLatest 最新配置版本
	ConfigVersionLatest = 2

	// ConfigVersionV1 頂層 server_url 的舊格式
	ConfigVersionV1 = 1
)

// migration 把 from 版本的配置原地升級到 from+1
type migration func(cfg *Config)

// 以起始版本為鍵，版本 0 視同 V1
var migrations = map[int]migration{
	ConfigVersionV1: migrateServerURL,
}

// Migrator 配置遷移器
type Migrator struct{}

func NewMigrator() *Migrator {
	return &Migrator{}
}

// MigrateToLatest 逐版本升級，返回新對象，不修改入參
func (m *Migrator) MigrateToLatest(cfg *Config) (*Config, error) {
	if cfg == nil {
		return nil, fmt.Errorf("配置為空，無法遷移")
	}
	if cfg.Version > ConfigVersionLatest {
		return nil, fmt.Errorf("配置版本過高 (v%d)，當前程序僅支持 v%d", cfg.Version, ConfigVersionLatest)
	}
	if !m.NeedsMigration(cfg) {
		return cfg, nil
	}

	out := cfg.DeepCopy()
	v := max(out.Version, ConfigVersionV1)
	for ; v < ConfigVersionLatest; v++ {
		step, ok := migrations[v]
		if !ok {
			return nil, fmt.Errorf("缺少 v%d -> v%d 的遷移", v, v+1)
		}
		step(out)
	}
	out.Version = ConfigVersionLatest
	out.FillDefaults()
	return out, nil
}

// NeedsMigration 檢查是否需要遷移
func (m *Migrator) NeedsMigration(cfg *Config) bool {
	return cfg != nil && cfg.Version < ConfigVersionLatest
}

// v1 -> v2：server_url 移入 backend.base_url
func migrateServerURL(cfg *Config) {
	legacy := strings.TrimRight(strings.TrimSpace(cfg.LegacyServerURL), "/")
	if legacy != "" && cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = legacy
	}
	cfg.LegacyServerURL = ""
}
