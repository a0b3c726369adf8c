package inputvalidator

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	apperrors "github.com/Yat-Muk/logsight/internal/pkg/errors"
)

// 輸入長度限制常量
const (
	MaxInputBuffer = 4096 // 輸入緩衝區最大長度（4KB）
	MaxMenuInput   = 100  // 菜單輸入最大長度
	MaxURLLength   = 2048
	MaxChatLength  = 4000
	MaxLineInput   = 12

	// MaxLogFileSize 上傳文件上限（100MB）
	MaxLogFileSize = 100 << 20
)

var menuRegex = regexp.MustCompile(`^[0-9]+$`)

// ValidationError 驗證錯誤
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap 使 errors.Is(err, ErrInvalidInput) 成立
func (e *ValidationError) Unwrap() error {
	return apperrors.ErrInvalidInput
}

// ValidateLength 驗證字符串長度
func ValidateLength(input string, maxLen int, fieldName string) error {
	if len(input) > maxLen {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("長度超過限制（最大 %d 字符，當前 %d 字符）", maxLen, len(input)),
		}
	}
	return nil
}

// ValidateLogURL 驗證遠程日誌地址，只接受 http/https
func ValidateLogURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return &ValidationError{Field: "url", Message: "請輸入日誌 URL"}
	}
	if err := ValidateLength(raw, MaxURLLength, "url"); err != nil {
		return err
	}

	u, err := url.Parse(raw)
	if err != nil {
		return &ValidationError{Field: "url", Message: "URL 格式無效"}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return &ValidationError{Field: "url", Message: "只支持 http 或 https 地址"}
	}
	if u.Host == "" {
		return &ValidationError{Field: "url", Message: "URL 缺少主機名"}
	}
	return nil
}

// ValidateLogFile 驗證本地日誌文件可讀且大小合理
func ValidateLogFile(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return &ValidationError{Field: "file", Message: "請選擇要分析的日誌文件"}
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ValidationError{Field: "file", Message: "文件不存在: " + filepath.Base(path)}
		}
		return &ValidationError{Field: "file", Message: "無法讀取文件: " + err.Error()}
	}
	if info.IsDir() {
		return &ValidationError{Field: "file", Message: "不能選擇目錄"}
	}
	if info.Size() == 0 {
		return &ValidationError{Field: "file", Message: "文件為空"}
	}
	if info.Size() > MaxLogFileSize {
		return &ValidationError{
			Field:   "file",
			Message: fmt.Sprintf("文件過大（最大 %d MB）", MaxLogFileSize>>20),
		}
	}
	return nil
}

// ParseLineNumber 解析用戶輸入的行號（從 1 開始），返回從 0 開始的絕對索引
//
// total <= 0 時不做上界檢查。
func ParseLineNumber(input string, total int) (int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, &ValidationError{Field: "line", Message: "請輸入行號"}
	}
	if len(input) > MaxLineInput {
		return 0, &ValidationError{Field: "line", Message: "輸入過長"}
	}

	n, err := strconv.Atoi(input)
	if err != nil || n < 1 {
		return 0, &ValidationError{Field: "line", Message: "行號必須是正整數"}
	}
	if total > 0 && n > total {
		return 0, &ValidationError{
			Field:   "line",
			Message: fmt.Sprintf("行號超出範圍（1-%d）", total),
		}
	}
	return n - 1, nil
}

// ValidateMenuNumber 驗證菜單選項
func ValidateMenuNumber(input string, min, max int) error {
	input = strings.TrimSpace(input)

	if len(input) > 10 {
		return &ValidationError{Field: "menu", Message: "輸入過長"}
	}
	if !menuRegex.MatchString(input) {
		return &ValidationError{Field: "menu", Message: "只允許數字"}
	}
	n, _ := strconv.Atoi(input)
	if n < min || n > max {
		return &ValidationError{Field: "menu", Message: fmt.Sprintf("請輸入 %d-%d", min, max)}
	}
	return nil
}

// ValidateChatMessage 驗證聊天消息
func ValidateChatMessage(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return &ValidationError{Field: "message", Message: "消息不能為空"}
	}
	if utf8.RuneCountInString(text) > MaxChatLength {
		return &ValidationError{
			Field:   "message",
			Message: fmt.Sprintf("消息過長（最大 %d 字符）", MaxChatLength),
		}
	}
	return nil
}

// SanitizeInput 移除控制字符
func SanitizeInput(input string) string {
	var result strings.Builder
	for _, r := range input {
		if r >= 32 && r != 127 {
			result.WriteRune(r)
		}
	}
	return result.String()
}
