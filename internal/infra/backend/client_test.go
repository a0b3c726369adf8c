package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Yat-Muk/logsight/internal/domain/session"
	"github.com/Yat-Muk/logsight/internal/pkg/appctx"
	apperrors "github.com/Yat-Muk/logsight/internal/pkg/errors"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(Options{
		BaseURL:    srv.URL,
		Timeout:    2 * time.Second,
		APIToken:   "tok_test",
		HTTPClient: srv.Client(),
	}, zap.NewNop())
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	_, err := NewClient(Options{BaseURL: "not a url"}, zap.NewNop())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrConfigInvalid))
}

func TestClient_Headers(t *testing.T) {
	var gotID, gotAuth, gotUA string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Request-ID")
		gotAuth = r.Header.Get("Authorization")
		gotUA = r.Header.Get("User-Agent")
		writeJSON(w, 200, []any{})
	})

	t.Run("自動生成請求ID", func(t *testing.T) {
		_, err := c.History(context.Background())
		require.NoError(t, err)
		assert.Len(t, gotID, 36)
		assert.Equal(t, "Bearer tok_test", gotAuth)
		assert.True(t, strings.HasPrefix(gotUA, "logsight/"))
	})

	t.Run("沿用上下文中的請求ID", func(t *testing.T) {
		ctx := appctx.WithRequestID(context.Background(), "req-42")
		_, err := c.History(ctx)
		require.NoError(t, err)
		assert.Equal(t, "req-42", gotID)
	})
}

func TestClient_Errors(t *testing.T) {
	t.Run("後端錯誤消息原樣透出", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 404, map[string]string{"error": "Log session expired"})
		})
		_, err := c.Window(context.Background(), "abc", 0, 50)
		require.Error(t, err)

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, 404, apiErr.StatusCode)
		assert.Equal(t, "Log session expired", apperrors.UserMessage(err, "generic"))
	})

	t.Run("無消息時使用通用提示", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(500)
			_, _ = io.WriteString(w, "<html>Internal Server Error</html>")
		})
		_, err := c.History(context.Background())
		require.Error(t, err)
		assert.Equal(t, "generic", apperrors.UserMessage(err, "generic"))
	})

	t.Run("響應格式錯誤", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, "{not json")
		})
		_, err := c.History(context.Background())
		assert.True(t, errors.Is(err, apperrors.ErrMalformedResponse))
	})

	t.Run("連接失敗", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		c, err := NewClient(Options{BaseURL: srv.URL, Timeout: time.Second}, zap.NewNop())
		require.NoError(t, err)

		_, err = c.Status(context.Background())
		assert.Error(t, err)
	})
}

func TestClient_AnalyzeFile(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/analyze", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		f, hdr, err := r.FormFile("log")
		require.NoError(t, err)
		defer f.Close()
		body, _ := io.ReadAll(f)
		assert.Equal(t, "app.log", hdr.Filename)
		assert.Equal(t, "INFO start\nERROR boom\n", string(body))

		writeJSON(w, 200, map[string]any{
			"file_id":    "f-123",
			"line_count": 2,
			"analysis": map[string]any{
				"error_counts": map[string]int{"ERROR": 1},
				"critical_lines": []map[string]any{{
					"line":          2,
					"content":       "ERROR boom",
					"timestamp":     nil,
					"context":       []string{"INFO start", "ERROR boom"},
					"context_range": []int{1, 2},
				}},
			},
		})
	})

	res, err := c.Analyze(context.Background(), session.AnalyzeRequest{
		Source:   session.FileSource("/tmp/app.log"),
		FileName: "app.log",
		Content:  strings.NewReader("INFO start\nERROR boom\n"),
	})
	require.NoError(t, err)

	assert.Equal(t, "f-123", res.FileID)
	assert.Equal(t, "app.log", res.Name, "缺少 name 時使用文件名")
	assert.Equal(t, 2, res.TotalLines)
	assert.Equal(t, 1, res.Counts["ERROR"])
	require.Len(t, res.Critical, 1)

	crit := res.Critical[0]
	assert.Equal(t, 1, crit.Line, "行號轉換為從 0 開始")
	assert.Equal(t, session.SeverityError, crit.Severity)
	assert.Equal(t, []string{"INFO start"}, crit.ContextBefore)
	assert.Empty(t, crit.ContextAfter)
	assert.Nil(t, res.ErrorLines)
}

func TestClient_AnalyzeURL(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "https://logs.example.com/ci.log", r.FormValue("url"))
		assert.Equal(t, "true", r.FormValue("skip_ssl_verify"))

		writeJSON(w, 200, map[string]any{
			"file_id":       42,
			"name":          "ci.log",
			"line_count":    300,
			"error_counts":  map[string]int{"Error": 3, "Warning": 7},
			"error_lines":   []int{10, 20, 30},
			"warning_lines": []int{5},
			"critical_lines": []map[string]any{{
				"line":           11,
				"type":           "error",
				"content":        "E",
				"timestamp":      "2024-05-01 10:00:00",
				"context_before": []string{"a"},
				"context_after":  []string{"b"},
			}},
		})
	})

	res, err := c.Analyze(context.Background(), session.AnalyzeRequest{
		Source: session.URLSource("https://logs.example.com/ci.log", true),
	})
	require.NoError(t, err)

	assert.Equal(t, "42", res.FileID, "數字 id 轉為字符串")
	assert.Equal(t, "ci.log", res.Name)
	assert.Equal(t, []int{10, 20, 30}, res.ErrorLines)
	assert.Equal(t, "2024-05-01 10:00:00", res.Critical[0].Timestamp)
	assert.Equal(t, []string{"a"}, res.Critical[0].ContextBefore)
}

func TestClient_AnalyzeMissingID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{"line_count": 3})
	})
	_, err := c.Analyze(context.Background(), session.AnalyzeRequest{
		Source: session.URLSource("https://h/x.log", false),
	})
	assert.True(t, errors.Is(err, apperrors.ErrMalformedResponse))
}

func TestClient_AnalyzeFileWithoutContent(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})
	_, err := c.Analyze(context.Background(), session.AnalyzeRequest{Source: session.FileSource("x.log")})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestClient_Fetch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/log/7", r.URL.Path)
		writeJSON(w, 200, map[string]any{"name": "old.log", "line_count": 10})
	})

	res, err := c.Fetch(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, "7", res.FileID)
	assert.Equal(t, "old.log", res.Name)
	assert.Empty(t, res.Critical)
}

func TestClient_Window(t *testing.T) {
	t.Run("start字段", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/log-context/f-1/45/95", r.URL.Path)
			writeJSON(w, 200, map[string]any{
				"lines": []string{"x", "y"}, "start": 45, "end": 47, "total_lines": 47,
			})
		})
		win, err := c.Window(context.Background(), "f-1", 45, 95)
		require.NoError(t, err)
		assert.Equal(t, 45, win.Start)
		assert.Equal(t, 47, win.Total)
		assert.Equal(t, []string{"x", "y"}, win.Lines)
	})

	t.Run("start_line字段與窗口標記", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 200, map[string]any{
				"lines": []string{"x"}, "start_line": 20, "total_lines": 100,
				"error_lines": []int{20}, "warning_lines": []int{20, 21},
			})
		})
		win, err := c.Window(context.Background(), "f-1", 20, 70)
		require.NoError(t, err)
		assert.Equal(t, 20, win.Start)
		assert.Equal(t, session.SeverityError, win.Flagged.SeverityOf(20))
		assert.Equal(t, []int{21}, win.Flagged.Warnings())
	})

	t.Run("缺少start時使用請求值", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 200, map[string]any{"total_lines": 10})
		})
		win, err := c.Window(context.Background(), "f-1", 3, 53)
		require.NoError(t, err)
		assert.Equal(t, 3, win.Start)
		assert.NotNil(t, win.Lines)
	})

	t.Run("無會話不發請求", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("不應發出請求")
		})
		_, err := c.Window(context.Background(), "", 0, 50)
		assert.True(t, errors.Is(err, apperrors.ErrNoSession))
	})
}

func TestClient_History(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, []map[string]any{
			{"id": 3, "name": "b.log", "source": "upload", "error_count": 2, "warning_count": 1, "timestamp": "2024-05-02 08:30:00"},
			{"id": "a1", "file_name": "a.log", "source_type": "url", "upload_time": "yesterday"},
		})
	})

	entries, err := c.History(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "3", entries[0].ID)
	assert.Equal(t, "b.log", entries[0].Name)
	assert.Equal(t, 2, entries[0].ErrorCount)
	assert.Equal(t, 2024, entries[0].Timestamp.Year())

	assert.Equal(t, "a.log", entries[1].Name)
	assert.Equal(t, "url", entries[1].Source)
	assert.True(t, entries[1].Timestamp.IsZero())
	assert.Equal(t, "yesterday", entries[1].RawTime)
}

func TestClient_Chat(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "f-9", req["fileId"])
		assert.Equal(t, "why?", req["message"])
		writeJSON(w, 200, map[string]string{"response": "because `x` failed"})
	})

	reply, err := c.Chat(context.Background(), "f-9", "why?")
	require.NoError(t, err)
	assert.Equal(t, "because `x` failed", reply.Text)

	_, err = c.Chat(context.Background(), "", "why?")
	assert.True(t, errors.Is(err, apperrors.ErrNoSession))
}

func TestClient_AnalyzeLine(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/llm/analyze/f-1/12", r.URL.Path)
		writeJSON(w, 200, map[string]any{"result": map[string]string{"probable_cause": "disk full"}})
	})

	a, err := c.AnalyzeLine(context.Background(), "f-1", 12)
	require.NoError(t, err)
	assert.Equal(t, 12, a.Line)
	assert.Equal(t, "disk full", a.ProbableCause)
	assert.Equal(t, session.NoSummary, a.Summary)
	assert.Equal(t, session.NoFix, a.SuggestedFix)
}

func TestClient_Status(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{"available": false, "status": "down", "message": "ollama not running"})
	})

	st, err := c.Status(context.Background())
	require.NoError(t, err)
	assert.False(t, st.Available)
	assert.Equal(t, "ollama not running", st.Message)
}
