package appctx

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvHome 覆蓋默認基礎目錄
const EnvHome = "LOGSIGHT_HOME"

// Paths 定義應用程序所有的關鍵路徑
type Paths struct {
	BaseDir   string
	LogDir    string
	ExportDir string

	ConfigFile string
	LogFile    string
	KeyFile    string
	StderrFile string
}

// NewPaths 解析並創建目錄，baseDir 為空時依次使用 LOGSIGHT_HOME 與 ~/.logsight
func NewPaths(baseDir string) (*Paths, error) {
	if baseDir == "" {
		baseDir = os.Getenv(EnvHome)
	}
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("無法獲取用戶主目錄: %w", err)
		}
		baseDir = filepath.Join(home, ".logsight")
	}

	absPath, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("無法解析絕對路徑: %w", err)
	}

	logDir := filepath.Join(absPath, "logs")
	paths := &Paths{
		BaseDir:    absPath,
		LogDir:     logDir,
		ExportDir:  filepath.Join(absPath, "reports"),
		ConfigFile: filepath.Join(absPath, "config.yaml"),
		LogFile:    filepath.Join(logDir, "logsight.log"),
		KeyFile:    filepath.Join(absPath, ".key"),
		StderrFile: filepath.Join(logDir, "stderr.log"),
	}

	for _, dir := range []string{paths.BaseDir, paths.LogDir, paths.ExportDir} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("無法創建目錄 %s: %w", dir, err)
		}
	}

	return paths, nil
}
