package backend

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/Yat-Muk/logsight/internal/domain/session"
	apperrors "github.com/Yat-Muk/logsight/internal/pkg/errors"
	"github.com/Yat-Muk/logsight/internal/pkg/logger"
)

// Chat 發送聊天消息 (POST /chat)
func (c *Client) Chat(ctx context.Context, id, message string) (*session.ChatReply, error) {
	if id == "" {
		return nil, apperrors.ErrNoSession
	}

	c.log.Debug("發送聊天消息", zap.String("file_id", id), logger.Preview("message", message))

	var out wireChatReply
	if err := c.postJSON(ctx, c.endpoint("chat"), wireChatRequest{Message: message, FileID: id}, &out); err != nil {
		return nil, err
	}
	return &session.ChatReply{
		Text:              out.Response,
		Summary:           out.Summary,
		ProbableCause:     out.ProbableCause,
		SuggestedFix:      out.SuggestedFix,
		AdditionalContext: out.AdditionalContext,
	}, nil
}

// AnalyzeLine 請求助手分析單行 (GET /llm/analyze/{id}/{line})
//
// line 為從 0 開始的絕對索引，與行窗口一致。
func (c *Client) AnalyzeLine(ctx context.Context, id string, line int) (*session.LineAnalysis, error) {
	if id == "" {
		return nil, apperrors.ErrNoSession
	}

	var out wireLineAnalysis
	if err := c.getJSON(ctx, c.endpoint("llm", "analyze", id, strconv.Itoa(line)), &out); err != nil {
		return nil, err
	}

	a := session.LineAnalysis{Line: line}
	if out.Result != nil {
		a.Summary = out.Result.ErrorSummary
		a.ProbableCause = out.Result.ProbableCause
		a.SuggestedFix = out.Result.SuggestedFix
		a.AdditionalContext = out.Result.AdditionalContext
	}
	a = a.WithDefaults()
	return &a, nil
}

// Status 探測助手可用性 (GET /llm/status)
func (c *Client) Status(ctx context.Context) (*session.AssistantStatus, error) {
	var out wireStatus
	if err := c.getJSON(ctx, c.endpoint("llm", "status"), &out); err != nil {
		return nil, err
	}
	return &session.AssistantStatus{
		Available: out.Available,
		Status:    out.Status,
		Message:   out.Message,
	}, nil
}
