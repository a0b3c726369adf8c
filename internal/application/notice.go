package application

import (
	apperrors "github.com/Yat-Muk/logsight/internal/pkg/errors"
	"github.com/Yat-Muk/logsight/internal/pkg/inputvalidator"
)

// 用戶可見提示
const (
	NoticeNoSession   = "請先上傳並分析日誌文件"
	NoticeEndOfLog    = "已到達日誌末尾"
	NoticeRateLimited = "請求過於頻繁，請稍後再試"
	NoticeOffline     = "分析助手當前不可用"
)

var (
	errNoSession = apperrors.Wrap(apperrors.ErrNoSession, apperrors.CodePrecondition, NoticeNoSession)
	errEndOfLog  = apperrors.Wrap(apperrors.ErrEndOfLog, apperrors.CodeInput, NoticeEndOfLog)
	errStale     = apperrors.ErrStaleResponse
)

// Notice 把錯誤轉成狀態欄文字，無法識別時使用 fallback
func Notice(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var ve *inputvalidator.ValidationError
	if apperrors.As(err, &ve) {
		return ve.Message
	}
	switch {
	case apperrors.Is(err, apperrors.ErrRateLimited):
		return NoticeRateLimited
	case apperrors.Is(err, apperrors.ErrAssistantOffline):
		return NoticeOffline
	}
	return apperrors.UserMessage(err, fallback)
}

// IsStale 響應是否已被更新的請求取代
func IsStale(err error) bool {
	return apperrors.Is(err, apperrors.ErrStaleResponse)
}
