package inputvalidator

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/Yat-Muk/logsight/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateLogURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https地址", "https://logs.example.com/app.log", false},
		{"http地址帶端口", "http://10.0.0.2:8080/var/log/syslog", false},
		{"空輸入", "   ", true},
		{"缺少協議", "logs.example.com/app.log", true},
		{"不支持的協議", "ftp://logs.example.com/app.log", true},
		{"缺少主機", "https:///app.log", true},
		{"過長", "https://h/" + strings.Repeat("a", MaxURLLength), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLogURL(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateLogFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("正常文件", func(t *testing.T) {
		path := filepath.Join(dir, "app.log")
		require.NoError(t, os.WriteFile(path, []byte("INFO ok\n"), 0644))
		assert.NoError(t, ValidateLogFile(path))
	})

	t.Run("空路徑", func(t *testing.T) {
		assert.Error(t, ValidateLogFile(""))
	})

	t.Run("文件不存在", func(t *testing.T) {
		err := ValidateLogFile(filepath.Join(dir, "missing.log"))
		var ve *ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Contains(t, ve.Message, "missing.log")
	})

	t.Run("目錄", func(t *testing.T) {
		assert.Error(t, ValidateLogFile(dir))
	})

	t.Run("空文件", func(t *testing.T) {
		path := filepath.Join(dir, "empty.log")
		require.NoError(t, os.WriteFile(path, nil, 0644))
		assert.Error(t, ValidateLogFile(path))
	})
}

func TestParseLineNumber(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		total   int
		want    int
		wantErr bool
	}{
		{"第一行", "1", 100, 0, false},
		{"最後一行", "100", 100, 99, false},
		{"帶空白", " 56 ", 100, 55, false},
		{"無上界", "5000", 0, 4999, false},
		{"零", "0", 100, 0, true},
		{"負數", "-3", 100, 0, true},
		{"超出範圍", "101", 100, 0, true},
		{"非數字", "abc", 100, 0, true},
		{"空", "", 100, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLineNumber(tt.input, tt.total)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateMenuNumber(t *testing.T) {
	assert.NoError(t, ValidateMenuNumber("3", 0, 7))
	assert.Error(t, ValidateMenuNumber("8", 0, 7))
	assert.Error(t, ValidateMenuNumber("1,2", 0, 7))
	assert.Error(t, ValidateMenuNumber("", 0, 7))
}

func TestValidateChatMessage(t *testing.T) {
	assert.NoError(t, ValidateChatMessage("why did the job fail?"))
	assert.Error(t, ValidateChatMessage("   "))
	assert.Error(t, ValidateChatMessage(strings.Repeat("字", MaxChatLength+1)))
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "abc", SanitizeInput("a\x1bb\x00c"))
	assert.Equal(t, "日誌", SanitizeInput("日誌\x7f"))
}
