package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	domainConfig "github.com/Yat-Muk/logsight/internal/domain/config"
	"github.com/Yat-Muk/logsight/internal/pkg/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFileRepository_Load_NonExistent(t *testing.T) {
	repo := NewFileRepository(filepath.Join(t.TempDir(), "nonexistent.yaml"), nil, zap.NewNop())

	cfg, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domainConfig.DefaultConfig(), cfg)
}

func TestFileRepository_SaveAndLoad(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	repo := NewFileRepository(configPath, nil, zap.NewNop())
	ctx := context.Background()

	cfg := domainConfig.DefaultConfig()
	cfg.Backend.BaseURL = "https://analyzer.internal:8443"
	cfg.Backend.Timeout = 45 * time.Second
	cfg.Viewer.ScrollStep = 30

	require.NoError(t, repo.Save(ctx, cfg))
	assert.FileExists(t, configPath)

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// 新倉庫實例，避免命中緩存
	loaded, err := NewFileRepository(configPath, nil, zap.NewNop()).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://analyzer.internal:8443", loaded.Backend.BaseURL)
	assert.Equal(t, 45*time.Second, loaded.Backend.Timeout)
	assert.Equal(t, 30, loaded.Viewer.ScrollStep)
}

func TestFileRepository_Cache(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	repo := NewFileRepository(configPath, nil, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, domainConfig.DefaultConfig()))

	first, err := repo.Load(ctx)
	require.NoError(t, err)
	first.Viewer.WindowSize = 999

	second, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50, second.Viewer.WindowSize, "返回值必須是副本")
}

func TestFileRepository_PartialFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := "version: 2\nbackend:\n  base_url: https://logs.example.com\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0600))

	cfg, err := NewFileRepository(configPath, nil, zap.NewNop()).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://logs.example.com", cfg.Backend.BaseURL)
	assert.Equal(t, domainConfig.DefaultWindowSize, cfg.Viewer.WindowSize)
	assert.Equal(t, domainConfig.DefaultTimeout, cfg.Backend.Timeout)
}

func TestFileRepository_LegacyFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("server_url: http://10.1.1.1:5000\n"), 0600))

	cfg, err := NewFileRepository(configPath, nil, zap.NewNop()).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domainConfig.ConfigVersionLatest, cfg.Version)
	assert.Equal(t, "http://10.1.1.1:5000", cfg.Backend.BaseURL)
}

func TestFileRepository_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("backend: [unclosed"), 0600))

	_, err := NewFileRepository(configPath, nil, zap.NewNop()).Load(context.Background())
	assert.Error(t, err)
}

func TestFileRepository_EncryptedToken(t *testing.T) {
	t.Setenv(crypto.EnvMasterKey, "")
	dir := t.TempDir()
	enc, err := crypto.NewEncryptor(filepath.Join(dir, ".key"))
	require.NoError(t, err)

	configPath := filepath.Join(dir, "config.yaml")
	repo := NewFileRepository(configPath, enc, zap.NewNop())
	ctx := context.Background()

	cfg := domainConfig.DefaultConfig()
	cfg.Backend.APIToken = "tok_very_secret_value"
	require.NoError(t, repo.Save(ctx, cfg))

	raw, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(raw), "tok_very_secret_value"), "落盤內容不能有明文")
	assert.Contains(t, string(raw), crypto.EncryptedPrefix)

	loaded, err := NewFileRepository(configPath, enc, zap.NewNop()).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok_very_secret_value", loaded.Backend.APIToken)
	assert.Equal(t, "tok_very_secret_value", cfg.Backend.APIToken, "Save 不能修改調用方對象")
}
