package sanitizer

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// 敏感關鍵詞 (Fast Path 過濾用)
var sensitiveKeywords = []string{
	"password", "passwd", "secret", "token", "key", "auth", "bearer", "signature",
}

// 查詢參數中需要遮蔽的鍵
var sensitiveParams = []string{
	"token", "access_token", "api_key", "apikey", "key", "sig", "signature",
	"x-amz-signature", "x-amz-credential", "password", "secret",
}

var (
	// Bearer / API Token 常見模式
	bearerRegex = regexp.MustCompile(`(?i)(bearer\s+)[a-z0-9._~+/=-]{8,}`)
	apiKeyRegex = regexp.MustCompile(`(?i)(sk|pk|api|ghp|gho|token)_[a-zA-Z0-9_-]{16,}`)
	// 內嵌在文本中的 URL
	urlRegex = regexp.MustCompile(`https?://[^\s"'<>]+`)
)

// Sanitize 對任意對象進行脫敏處理 (通常用於日誌輸出)
func Sanitize(v interface{}) interface{} {
	var s string
	switch val := v.(type) {
	case string:
		s = val
	case []byte:
		s = string(val)
	case error:
		s = val.Error()
	case fmt.Stringer:
		s = val.String()
	default:
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("sanitize_error: %v", err)
		}
		s = string(bytes)
	}

	if !mightContainSensitiveData(s) {
		return s
	}
	return sanitizeString(s)
}

func sanitizeString(s string) string {
	s = urlRegex.ReplaceAllStringFunc(s, URL)
	s = bearerRegex.ReplaceAllString(s, "${1}***MASKED***")
	s = apiKeyRegex.ReplaceAllStringFunc(s, APIKey)
	return s
}

func mightContainSensitiveData(s string) bool {
	sLower := strings.ToLower(s)
	for _, kw := range sensitiveKeywords {
		if strings.Contains(sLower, kw) {
			return true
		}
	}
	// URL 可能帶有 userinfo
	return strings.Contains(s, "://") && strings.Contains(s, "@")
}

// String 通用字符串脫敏 (保留首尾)
func String(s string, start, end int) string {
	if len(s) <= start+end {
		return "***"
	}
	return s[:start] + "***" + s[len(s)-end:]
}

// APIKey API Token 脫敏 (保留首尾)
func APIKey(s string) string {
	if len(s) < 8 {
		return "***"
	}
	return s[:4] + "***" + s[len(s)-4:]
}

// URL 遮蔽 userinfo 及敏感查詢參數
//
// 無法解析的輸入整體遮蔽。
func URL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "***"
	}
	if u.User != nil {
		u.User = url.User("***")
	}
	if u.RawQuery != "" {
		q := u.Query()
		for k := range q {
			if isSensitiveParam(k) {
				q.Set(k, "***")
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func isSensitiveParam(name string) bool {
	name = strings.ToLower(name)
	for _, p := range sensitiveParams {
		if name == p {
			return true
		}
	}
	return false
}

// Preview 截斷長文本，用於記錄聊天內容摘要
func Preview(s string, max int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= max {
		return string(r)
	}
	return string(r[:max]) + "…"
}
