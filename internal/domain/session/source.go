package session

import (
	"path/filepath"

	"github.com/Yat-Muk/logsight/internal/pkg/inputvalidator"
	"github.com/Yat-Muk/logsight/internal/pkg/sanitizer"
)

// SourceKind 日誌來源類型
type SourceKind int

const (
	SourceFile SourceKind = iota
	SourceURL
)

func (k SourceKind) String() string {
	if k == SourceURL {
		return "url"
	}
	return "file"
}

// Source 待分析的日誌來源，文件路徑與 URL 二選一
type Source struct {
	Kind          SourceKind
	Path          string
	URL           string
	SkipTLSVerify bool
}

// FileSource 本地文件
func FileSource(path string) Source {
	return Source{Kind: SourceFile, Path: path}
}

// URLSource 遠程地址
func URLSource(url string, skipTLSVerify bool) Source {
	return Source{Kind: SourceURL, URL: url, SkipTLSVerify: skipTLSVerify}
}

// Validate 在發起任何請求前校驗輸入
func (s Source) Validate() error {
	if s.Kind == SourceURL {
		return inputvalidator.ValidateLogURL(s.URL)
	}
	return inputvalidator.ValidateLogFile(s.Path)
}

// Label 用於展示與日誌的名稱
func (s Source) Label() string {
	if s.Kind == SourceURL {
		return sanitizer.URL(s.URL)
	}
	return filepath.Base(s.Path)
}
