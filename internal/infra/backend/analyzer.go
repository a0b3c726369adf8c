package backend

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/Yat-Muk/logsight/internal/domain/session"
	apperrors "github.com/Yat-Muk/logsight/internal/pkg/errors"
	"github.com/Yat-Muk/logsight/internal/pkg/logger"
)

// Analyze 上傳文件或提交 URL 進行分析 (POST /analyze, multipart)
func (c *Client) Analyze(ctx context.Context, in session.AnalyzeRequest) (*session.AnalysisResult, error) {
	if in.Source.Kind == session.SourceFile && in.Content == nil {
		return nil, apperrors.Invalid("缺少文件內容")
	}

	ctx, cancel := context.WithTimeout(ctx, c.uploadTimeout)
	defer cancel()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeAnalyzeForm(mw, in))
	}()

	req, err := c.newRequest(ctx, http.MethodPost, c.endpoint("analyze"), pr)
	if err != nil {
		pr.Close()
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	if in.Source.Kind == session.SourceURL {
		c.log.Info("提交遠程日誌分析",
			logger.SanitizedURL("url", in.Source.URL),
			zap.Bool("skip_tls_verify", in.Source.SkipTLSVerify),
		)
	} else {
		c.log.Info("上傳日誌文件", zap.String("file", in.FileName))
	}

	var out wireAnalysis
	err = c.do(req, &out)
	// 請求提前失敗時讓寫入協程退出
	pr.Close()
	if err != nil {
		return nil, err
	}

	res := out.toDomain(firstNonEmpty(in.FileName, in.Source.Label()))
	if res.FileID == "" {
		return nil, fmt.Errorf("%w: 響應缺少 file_id", apperrors.ErrMalformedResponse)
	}
	return res, nil
}

func writeAnalyzeForm(mw *multipart.Writer, in session.AnalyzeRequest) error {
	if in.Source.Kind == session.SourceURL {
		if err := mw.WriteField("url", in.Source.URL); err != nil {
			return err
		}
		if err := mw.WriteField("skip_ssl_verify", strconv.FormatBool(in.Source.SkipTLSVerify)); err != nil {
			return err
		}
		return mw.Close()
	}

	part, err := mw.CreateFormFile("log", firstNonEmpty(in.FileName, "upload.log"))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, in.Content); err != nil {
		return fmt.Errorf("讀取文件內容失敗: %w", err)
	}
	return mw.Close()
}

// Fetch 按 id 取回歷史分析結果 (GET /log/{id})
func (c *Client) Fetch(ctx context.Context, id string) (*session.AnalysisResult, error) {
	if id == "" {
		return nil, apperrors.Invalid("缺少日誌 id")
	}

	var out wireAnalysis
	if err := c.getJSON(ctx, c.endpoint("log", id), &out); err != nil {
		return nil, err
	}

	res := out.toDomain(id)
	if res.FileID == "" {
		res.FileID = id
	}
	return res, nil
}
