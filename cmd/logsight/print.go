package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Yat-Muk/logsight/internal/application"
	"github.com/Yat-Muk/logsight/internal/domain/session"
	"github.com/Yat-Muk/logsight/internal/pkg/chatfmt"
	apperrors "github.com/Yat-Muk/logsight/internal/pkg/errors"
	"github.com/Yat-Muk/logsight/internal/pkg/logger"
	"github.com/Yat-Muk/logsight/internal/tui/view"
)

// runPrint 無界面模式：分析一次，輸出摘要、關鍵行與助手總結
//
// 助手不可用時只輸出提示，不視為失敗。
func runPrint(ctx context.Context, deps *AppDependencies, src session.Source, w io.Writer) error {
	sess, err := deps.Lifecycle.StartSession(ctx, src)
	if err != nil {
		return err
	}
	printSummary(w, sess)

	reply, err := deps.Chat.SendMessage(ctx, application.SummaryPrompt)
	if err != nil {
		deps.Log.Warn("自動總結失敗", logger.Error(err))
		fmt.Fprintf(w, "\n助手總結不可用: %s\n", apperrors.UserMessage(err, "請求失敗"))
		return nil
	}
	fmt.Fprintf(w, "\n== 助手總結 ==\n%s\n", chatfmt.Clean(view.ReplyText(reply)))
	return nil
}

func printSummary(w io.Writer, s *session.Session) {
	fmt.Fprintf(w, "== %s ==\n", s.DisplayName)
	fmt.Fprintf(w, "會話 ID: %s\n", s.ID)
	fmt.Fprintf(w, "總行數: %d  錯誤: %d  警告: %d\n", s.TotalLines, s.ErrorCount, s.WarningCount)

	if len(s.Breakdown) > 0 {
		parts := make([]string, 0, len(s.Breakdown))
		for _, e := range s.Breakdown {
			parts = append(parts, fmt.Sprintf("%s=%d", e.Label, e.Count))
		}
		fmt.Fprintf(w, "分類: %s\n", strings.Join(parts, ", "))
	}

	if len(s.Critical) == 0 {
		fmt.Fprintln(w, "\n未發現關鍵行")
		return
	}
	fmt.Fprintf(w, "\n== 關鍵行 (%d) ==\n", len(s.Critical))
	for _, c := range s.Critical {
		fmt.Fprintf(w, "[%-7s] 第 %d 行: %s\n", severityLabel(c.Severity), c.Line+1, chatfmt.Clean(c.Content))
	}
}

func severityLabel(s session.Severity) string {
	if s == session.SeverityPlain {
		return "info"
	}
	return string(s)
}
