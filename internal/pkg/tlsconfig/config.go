package tlsconfig

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
)

// ClientConfig 返回訪問分析後端使用的 TLS 配置
//
// caFile 非空時追加到系統根證書池；insecure 只應用於自簽名的內網部署。
func ClientConfig(insecure bool, caFile string) (*tls.Config, error) {
	cfg := &tls.Config{
		MinVersion: tls.VersionTLS12,
		MaxVersion: tls.VersionTLS13,
		CurvePreferences: []tls.CurveID{
			tls.X25519,
			tls.CurveP256,
		},
		InsecureSkipVerify: insecure, //nolint:gosec // 由用戶顯式開啟
	}

	if caFile == "" {
		return cfg, nil
	}

	pool, err := x509.SystemCertPool()
	if err != nil || pool == nil {
		pool = x509.NewCertPool()
	}
	cert, err := ParseCertFromFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("加載 CA 證書失敗: %w", err)
	}
	pool.AddCert(cert)
	cfg.RootCAs = pool

	return cfg, nil
}

// ParseCertFromFile 解析 PEM 證書文件
func ParseCertFromFile(certPath string) (*x509.Certificate, error) {
	data, err := os.ReadFile(certPath)
	if err != nil {
		return nil, err
	}

	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("無效的 PEM 格式")
	}

	return x509.ParseCertificate(block.Bytes)
}
