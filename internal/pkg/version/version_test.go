package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestShort 測試簡短版本號
func TestShort(t *testing.T) {
	oldVersion, oldCommit := Version, GitCommit
	defer func() { Version, GitCommit = oldVersion, oldCommit }()

	t.Run("無提交哈希", func(t *testing.T) {
		Version, GitCommit = "1.2.0", ""
		assert.Equal(t, "v1.2.0", Short())
	})

	t.Run("帶提交哈希", func(t *testing.T) {
		Version, GitCommit = "1.2.0", "abcdef01"
		assert.Equal(t, "v1.2.0 (abcdef01)", Short())
	})
}

// TestInfo 測試完整構建信息
func TestInfo(t *testing.T) {
	info := Info()
	assert.True(t, strings.HasPrefix(info, "logsight v"))
	assert.Contains(t, info, "Go Version")
}

// TestUserAgent 測試 User-Agent
func TestUserAgent(t *testing.T) {
	assert.True(t, strings.HasPrefix(UserAgent(), "logsight/"))
}
