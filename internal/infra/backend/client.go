// Package backend 實現分析服務的 HTTP 客戶端，並在邊界處把各種響應形態歸一化為領域類型。
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainConfig "github.com/Yat-Muk/logsight/internal/domain/config"
	"github.com/Yat-Muk/logsight/internal/domain/session"
	"github.com/Yat-Muk/logsight/internal/pkg/appctx"
	apperrors "github.com/Yat-Muk/logsight/internal/pkg/errors"
	"github.com/Yat-Muk/logsight/internal/pkg/logger"
	"github.com/Yat-Muk/logsight/internal/pkg/tlsconfig"
	"github.com/Yat-Muk/logsight/internal/pkg/version"
)

const (
	headerRequestID = "X-Request-ID"
	maxErrorBody    = 64 << 10
)

// APIError 後端返回的非 2xx 響應
type APIError struct {
	StatusCode int
	Message    string // 後端 error 字段原文，可能為空
	Path       string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: HTTP %d: %s", e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: HTTP %d", e.Path, e.StatusCode)
}

var (
	_ session.Analyzer     = (*Client)(nil)
	_ session.LineSource   = (*Client)(nil)
	_ session.HistoryStore = (*Client)(nil)
	_ session.Assistant    = (*Client)(nil)
)

// Client 分析服務客戶端，實現 session 包中的全部後端接口
type Client struct {
	baseURL       *url.URL
	http          *http.Client
	timeout       time.Duration
	uploadTimeout time.Duration
	apiToken      string
	log           *zap.Logger
}

// Options 客戶端選項
type Options struct {
	BaseURL       string
	Timeout       time.Duration
	UploadTimeout time.Duration
	APIToken      string
	CAFile        string
	Insecure      bool

	// HTTPClient 非空時直接使用（測試注入）
	HTTPClient *http.Client
}

// OptionsFromConfig 由配置構建選項
func OptionsFromConfig(cfg domainConfig.BackendConfig) Options {
	return Options{
		BaseURL:       cfg.BaseURL,
		Timeout:       cfg.Timeout,
		UploadTimeout: cfg.UploadTimeout,
		APIToken:      cfg.APIToken,
		CAFile:        cfg.CAFile,
		Insecure:      cfg.InsecureSkipVerify,
	}
}

// NewClient 創建客戶端
func NewClient(opts Options, log *zap.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil || base.Host == "" {
		return nil, apperrors.Wrap(apperrors.ErrConfigInvalid, apperrors.CodeConfig,
			fmt.Sprintf("後端地址無效: %q", opts.BaseURL))
	}
	if opts.Timeout <= 0 {
		opts.Timeout = domainConfig.DefaultTimeout
	}
	if opts.UploadTimeout <= 0 {
		opts.UploadTimeout = domainConfig.DefaultUploadTimeout
	}

	hc := opts.HTTPClient
	if hc == nil {
		tlsCfg, err := tlsconfig.ClientConfig(opts.Insecure, opts.CAFile)
		if err != nil {
			return nil, err
		}
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = tlsCfg
		// 超時由每個請求的 context 控制，上傳使用更長的期限
		hc = &http.Client{Transport: transport}
	}

	if opts.Insecure {
		log.Warn("已關閉後端 TLS 證書校驗", logger.SanitizedURL("base_url", base.String()))
	}

	return &Client{
		baseURL:       base,
		http:          hc,
		timeout:       opts.Timeout,
		uploadTimeout: opts.UploadTimeout,
		apiToken:      opts.APIToken,
		log:           log.Named("backend"),
	}, nil
}

// BaseURL 後端地址
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) endpoint(segments ...string) string {
	u := *c.baseURL
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.Join(escaped, "/")
	return u.String()
}

func (c *Client) newRequest(ctx context.Context, method, target string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	id := appctx.RequestID(ctx)
	if id == "" {
		id = uuid.NewString()
	}
	req.Header.Set(headerRequestID, id)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}
	return req, nil
}

// do 發送請求並把成功響應解碼到 out
func (c *Client) do(req *http.Request, out any) error {
	start := time.Now()
	path := req.URL.Path
	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("path", path),
		zap.String("request_id", req.Header.Get(headerRequestID)),
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("後端請求失敗", append(fields, logger.Duration("took", time.Since(start)), logger.Error(err))...)
		return fmt.Errorf("請求 %s 失敗: %w", path, err)
	}
	defer resp.Body.Close()

	fields = append(fields, zap.Int("status", resp.StatusCode), logger.Duration("took", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeError(resp, path)
		c.log.Warn("後端返回錯誤", append(fields, zap.String("message", apiErr.Message))...)
		if apiErr.Message != "" {
			return apperrors.Wrap(apiErr, apperrors.CodeBackend, apiErr.Message)
		}
		return apiErr
	}
	c.log.Debug("後端請求完成", fields...)

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s: %v", apperrors.ErrMalformedResponse, path, err)
	}
	return nil
}

func decodeError(resp *http.Response, path string) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode, Path: path}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(bytes.TrimSpace(data), &body) == nil {
		apiErr.Message = strings.TrimSpace(body.Error)
		if apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(body.Message)
		}
	}
	return apiErr
}

// getJSON 帶默認超時的 GET
func (c *Client) getJSON(ctx context.Context, target string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// postJSON 帶默認超時的 JSON POST
func (c *Client) postJSON(ctx context.Context, target string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}
