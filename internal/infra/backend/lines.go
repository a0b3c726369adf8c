package backend

import (
	"context"
	"strconv"

	"github.com/Yat-Muk/logsight/internal/domain/session"
	apperrors "github.com/Yat-Muk/logsight/internal/pkg/errors"
)

// Window 取回 [start, end) 的原始行 (GET /log-context/{id}/{start}/{end})
func (c *Client) Window(ctx context.Context, id string, start, end int) (*session.LineWindow, error) {
	if id == "" {
		return nil, apperrors.ErrNoSession
	}
	if start < 0 || end < start {
		return nil, apperrors.Invalid("行範圍無效")
	}

	var out wireWindow
	target := c.endpoint("log-context", id, strconv.Itoa(start), strconv.Itoa(end))
	if err := c.getJSON(ctx, target, &out); err != nil {
		return nil, err
	}
	return out.toDomain(start), nil
}

// History 最近的分析記錄，按時間倒序 (GET /history)
func (c *Client) History(ctx context.Context) ([]session.HistoryEntry, error) {
	var out []wireHistoryEntry
	if err := c.getJSON(ctx, c.endpoint("history"), &out); err != nil {
		return nil, err
	}

	entries := make([]session.HistoryEntry, 0, len(out))
	for _, w := range out {
		entries = append(entries, w.toDomain())
	}
	return entries, nil
}
