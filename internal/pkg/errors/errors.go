package errors

import (
	"errors"
	"fmt"
)

// 預定義錯誤類型
var (
	// 配置相關
	ErrConfigNotFound    = errors.New("configuration file not found")
	ErrConfigInvalid     = errors.New("configuration is invalid")
	ErrConfigParseFailed = errors.New("failed to parse configuration")

	// 會話相關
	ErrNoSession      = errors.New("no log session loaded")
	ErrInvalidInput   = errors.New("invalid input")
	ErrEndOfLog       = errors.New("end of log file reached")
	ErrLineOutOfRange = errors.New("line number out of range")

	// 後端相關
	ErrStaleResponse     = errors.New("response superseded by a newer request")
	ErrMalformedResponse = errors.New("malformed backend response")
	ErrAssistantOffline  = errors.New("analysis assistant unavailable")
	ErrRateLimited       = errors.New("too many assistant requests")
)

// 錯誤代碼
const (
	CodeInput        = "INPUT"
	CodePrecondition = "PRECONDITION"
	CodeBackend      = "BACKEND"
	CodeConfig       = "CONFIG"
	CodeIO           = "IO"
)

// Error 自定義錯誤類型
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap 包裝錯誤
func Wrap(err error, code, message string) error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Invalid 創建輸入校驗錯誤，可用 errors.Is(err, ErrInvalidInput) 判斷
func Invalid(message string) error {
	return &Error{
		Code:    CodeInput,
		Message: message,
		Err:     ErrInvalidInput,
	}
}

// UserMessage 取出適合直接顯示給用戶的文字
//
// 最外層的 *Error 提供 Message；否則返回 fallback。
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}

// Is 轉發標準庫，避免調用方同時導入兩個 errors 包
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As 轉發標準庫
func As(err error, target any) bool {
	return errors.As(err, target)
}
