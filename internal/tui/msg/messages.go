package msg

import (
	"github.com/Yat-Muk/logsight/internal/application"
	domainConfig "github.com/Yat-Muk/logsight/internal/domain/config"
	"github.com/Yat-Muk/logsight/internal/domain/session"
)

// ConfigLoadedMsg 配置加載消息
type ConfigLoadedMsg struct {
	Config *domainConfig.Config
	Err    error
	Silent bool
}

// ConfigUpdateMsg 配置更新消息
type ConfigUpdateMsg struct {
	Config  *domainConfig.Config
	Message string
	Err     error
}

// SessionLoadedMsg 分析或打開歷史會話完成
type SessionLoadedMsg struct {
	Req    application.LoadRequest
	Result *session.AnalysisResult
	Err    error
}

// WindowLoadedMsg 日誌窗口返回
type WindowLoadedMsg struct {
	Req    application.WindowRequest
	Window *session.LineWindow
	Err    error
}

// ChatReplyMsg 助手回覆
type ChatReplyMsg struct {
	Req   application.ChatRequest
	Reply *session.ChatReply
	Err   error
}

// LineAnalysisMsg 單行分析結果
type LineAnalysisMsg struct {
	Req      application.LineRequest
	Analysis *session.LineAnalysis
	Err      error
}

// HistoryLoadedMsg 歷史列表
type HistoryLoadedMsg struct {
	Ticket  application.Ticket
	Entries []session.HistoryEntry
	Err     error
}

// AssistantStatusMsg 助手狀態
type AssistantStatusMsg struct {
	Ticket application.Ticket
	Status *session.AssistantStatus
	Err    error
	Silent bool
}

// ReportExportedMsg 報告導出結果
type ReportExportedMsg struct {
	Path string
	Err  error
}
