package tlsconfig

import (
	"crypto/tls"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientConfig_Default(t *testing.T) {
	cfg, err := ClientConfig(false, "")
	require.NoError(t, err)

	assert.Equal(t, uint16(tls.VersionTLS12), cfg.MinVersion)
	assert.False(t, cfg.InsecureSkipVerify)
	assert.Nil(t, cfg.RootCAs)
}

func TestClientConfig_Insecure(t *testing.T) {
	cfg, err := ClientConfig(true, "")
	require.NoError(t, err)
	assert.True(t, cfg.InsecureSkipVerify)
}

func TestClientConfig_MissingCA(t *testing.T) {
	_, err := ClientConfig(false, "/nonexistent/ca.pem")
	assert.Error(t, err, "不存在的CA文件應該返回錯誤")
}

func TestParseCertFromFile_InvalidContent(t *testing.T) {
	certPath := filepath.Join(t.TempDir(), "invalid.crt")
	require.NoError(t, os.WriteFile(certPath, []byte("not a valid certificate"), 0644))

	_, err := ParseCertFromFile(certPath)
	assert.Error(t, err, "無效的證書內容應該驗證失敗")
}
