package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeKey(t *testing.T, path string) []byte {
	t.Helper()
	raw := make([]byte, KeySize)
	_, err := rand.Read(raw)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte(hex.EncodeToString(raw)), 0600))
	return raw
}

// TestNewEncryptor 測試密鑰加載與初始化
func TestNewEncryptor(t *testing.T) {
	t.Setenv(EnvMasterKey, "")
	tempDir := t.TempDir()

	t.Run("讀取已有密鑰文件", func(t *testing.T) {
		keyPath := filepath.Join(tempDir, "valid.key")
		writeKey(t, keyPath)

		enc, err := NewEncryptor(keyPath)
		require.NoError(t, err)
		assert.NotNil(t, enc)
	})

	t.Run("無效密鑰長度", func(t *testing.T) {
		keyPath := filepath.Join(tempDir, "bad.key")
		require.NoError(t, os.WriteFile(keyPath, []byte("short-key"), 0600))

		_, err := NewEncryptor(keyPath)
		assert.Error(t, err)
	})

	t.Run("首次運行自動生成", func(t *testing.T) {
		keyPath := filepath.Join(tempDir, "nested", "auto.key")

		enc, err := NewEncryptor(keyPath)
		require.NoError(t, err)
		assert.NotNil(t, enc)

		info, err := os.Stat(keyPath)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	})

	t.Run("環境變量優先", func(t *testing.T) {
		raw := make([]byte, KeySize)
		_, _ = rand.Read(raw)
		t.Setenv(EnvMasterKey, hex.EncodeToString(raw))

		enc, err := NewEncryptor(filepath.Join(tempDir, "unused.key"))
		require.NoError(t, err)
		assert.NotNil(t, enc)
		assert.NoFileExists(t, filepath.Join(tempDir, "unused.key"))
	})
}

// TestEncryptDecrypt 測試加密解密完整流程
func TestEncryptDecrypt(t *testing.T) {
	t.Setenv(EnvMasterKey, "")
	keyPath := filepath.Join(t.TempDir(), "enc.key")
	writeKey(t, keyPath)

	enc, err := NewEncryptor(keyPath)
	require.NoError(t, err)

	t.Run("往返", func(t *testing.T) {
		token := "sk_live_0123456789abcdef"
		ciphertext, err := enc.Encrypt(token)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(ciphertext, EncryptedPrefix))
		assert.NotContains(t, ciphertext, token)

		plain, err := enc.Decrypt(ciphertext)
		require.NoError(t, err)
		assert.Equal(t, token, plain)
	})

	t.Run("空字符串不加密", func(t *testing.T) {
		out, err := enc.Encrypt("")
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("未加密數據", func(t *testing.T) {
		_, err := enc.Decrypt("plain")
		assert.Error(t, err)
	})

	t.Run("密文被篡改", func(t *testing.T) {
		ciphertext, err := enc.Encrypt("value")
		require.NoError(t, err)
		tampered := ciphertext[:len(ciphertext)-2] + "AA"
		if tampered == ciphertext {
			tampered = ciphertext[:len(ciphertext)-2] + "BB"
		}
		_, err = enc.Decrypt(tampered)
		assert.Error(t, err)
	})

	t.Run("不同密鑰無法解密", func(t *testing.T) {
		otherPath := filepath.Join(t.TempDir(), "other.key")
		writeKey(t, otherPath)
		other, err := NewEncryptor(otherPath)
		require.NoError(t, err)

		ciphertext, err := enc.Encrypt("value")
		require.NoError(t, err)
		_, err = other.Decrypt(ciphertext)
		assert.Error(t, err)
	})
}
