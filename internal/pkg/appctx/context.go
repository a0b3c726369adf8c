package appctx

import "context"

type contextKey string

const requestIDKey contextKey = "requestID"

// WithRequestID 將請求 ID 附加到上下文
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID 取出請求 ID，未設置時返回空字符串
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}
