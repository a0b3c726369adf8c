package appctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestRequestID 測試請求ID
func TestRequestID(t *testing.T) {
	t.Run("設置和獲取請求ID", func(t *testing.T) {
		ctx := WithRequestID(context.Background(), "req-123")
		assert.Equal(t, "req-123", RequestID(ctx))
	})

	t.Run("無請求ID返回空", func(t *testing.T) {
		assert.Empty(t, RequestID(context.Background()))
	})
}
