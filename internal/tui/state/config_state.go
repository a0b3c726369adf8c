package state

import (
	domainConfig "github.com/Yat-Muk/logsight/internal/domain/config"
)

// SettingsField 設置頁中正在編輯的字段
type SettingsField int

const (
	SettingsNone SettingsField = iota
	SettingsScrollStep
	SettingsJumpMargin
	SettingsRPM
)

// ConfigState 設置頁狀態
type ConfigState struct {
	Config  *domainConfig.Config
	Editing SettingsField
}

// NewConfigState 構造函數
func NewConfigState(cfg *domainConfig.Config) *ConfigState {
	if cfg == nil {
		cfg = domainConfig.DefaultConfig()
	}
	return &ConfigState{Config: cfg}
}

// GetConfig 獲取配置
func (s *ConfigState) GetConfig() *domainConfig.Config {
	if s.Config == nil {
		s.Config = domainConfig.DefaultConfig()
	}
	return s.Config
}

// UpdateConfig 更新配置 (從磁盤加載後調用)
func (s *ConfigState) UpdateConfig(cfg *domainConfig.Config) {
	if cfg == nil {
		cfg = domainConfig.DefaultConfig()
	}
	s.Config = cfg
	s.Editing = SettingsNone
}
