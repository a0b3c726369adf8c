package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/hkdf"
)

const (
	// EncryptedPrefix 加密值的前綴標識
	EncryptedPrefix = "enc:"
	// KeySize AES-256 密鑰長度
	KeySize = 32
	// EnvMasterKey 主密鑰環境變量 (hex)
	EnvMasterKey = "LOGSIGHT_MASTER_KEY"

	secretsInfo = "logsight/config-secrets/v1"
)

// Encryptor 配置敏感字段加密器
//
// 主密鑰不直接用於加密，而是經 HKDF 派生出專用子密鑰。
type Encryptor struct {
	aead cipher.AEAD
}

// NewEncryptor 創建加密器，主密鑰依次取自環境變量、密鑰文件，都不存在時生成新密鑰
func NewEncryptor(keyPath string) (*Encryptor, error) {
	master, err := loadMasterKey(keyPath)
	if err != nil {
		return nil, err
	}
	return newFromMaster(master)
}

func newFromMaster(master []byte) (*Encryptor, error) {
	sub := make([]byte, KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, master, nil, []byte(secretsInfo)), sub); err != nil {
		return nil, fmt.Errorf("派生子密鑰失敗: %w", err)
	}
	block, err := aes.NewCipher(sub)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Encryptor{aead: aead}, nil
}

func loadMasterKey(keyPath string) ([]byte, error) {
	if keyHex := os.Getenv(EnvMasterKey); keyHex != "" {
		key, err := decodeKey(keyHex)
		if err != nil {
			return nil, fmt.Errorf("環境變量 %s 格式錯誤: %w", EnvMasterKey, err)
		}
		return key, nil
	}

	if content, err := os.ReadFile(keyPath); err == nil {
		key, err := decodeKey(strings.TrimSpace(string(content)))
		if err != nil {
			return nil, fmt.Errorf("密鑰文件內容無效: %w", err)
		}
		return key, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("無法讀取密鑰文件: %w", err)
	}

	// 首次運行
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("生成隨機密鑰失敗: %w", err)
	}
	if err := atomicWriteKey(keyPath, key); err != nil {
		return nil, fmt.Errorf("保存新密鑰失敗: %w", err)
	}
	return key, nil
}

// atomicWriteKey 以 0600 權限原子寫入 hex 編碼的密鑰
func atomicWriteKey(filename string, key []byte) (err error) {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".masterkey.*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = tmp.Chmod(0600); err != nil {
		return err
	}
	if _, err = tmp.WriteString(hex.EncodeToString(key)); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filename)
}

func decodeKey(input string) ([]byte, error) {
	key, err := hex.DecodeString(input)
	if err == nil && len(key) == KeySize {
		return key, nil
	}
	key, err = base64.StdEncoding.DecodeString(input)
	if err == nil && len(key) == KeySize {
		return key, nil
	}
	return nil, errors.New("無效的密鑰格式或長度")
}

// Encrypt 加密，空字符串原樣返回
func (e *Encryptor) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	nonce := make([]byte, e.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ciphertext := e.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return EncryptedPrefix + base64.RawURLEncoding.EncodeToString(ciphertext), nil
}

// Decrypt 解密
func (e *Encryptor) Decrypt(encrypted string) (string, error) {
	if !IsEncrypted(encrypted) {
		return "", errors.New("數據未加密")
	}

	data, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(encrypted, EncryptedPrefix))
	if err != nil {
		return "", err
	}

	n := e.aead.NonceSize()
	if len(data) < n {
		return "", errors.New("密文數據過短")
	}

	plaintext, err := e.aead.Open(nil, data[:n], data[n:], nil)
	if err != nil {
		return "", fmt.Errorf("解密失敗: %w", err)
	}
	return string(plaintext), nil
}

// IsEncrypted 檢查字符串是否已加密
func IsEncrypted(text string) bool {
	return strings.HasPrefix(text, EncryptedPrefix)
}
