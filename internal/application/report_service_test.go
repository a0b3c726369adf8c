package application

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Yat-Muk/logsight/internal/domain/session"
)

func TestReportService_Render(t *testing.T) {
	sess, _ := loadedState("f-1").Current()
	svc := NewReportService(t.TempDir(), zap.NewNop())

	turns := []ChatTurn{
		{Prompt: SummaryPrompt, Auto: true, Reply: &session.ChatReply{Text: "Run `make` then:\n```sh\nrm -rf <tmp>\n```"}},
		{Prompt: "<b>why</b>", Reply: &session.ChatReply{Text: "because"}},
		{Prompt: "pending", Pending: true},
	}
	analysis := &session.LineAnalysis{Line: 40, Summary: "NPE", ProbableCause: "nil map", SuggestedFix: "init"}

	out, err := svc.Render(sess, turns, analysis)
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, "<h1>app.log</h1>")
	assert.Contains(t, html, "<td>Errors</td><td>3</td>")
	assert.Contains(t, html, "<td>41</td>")
	assert.Contains(t, html, "第 41 行分析")
	assert.Contains(t, html, "<code>make</code>")
	assert.Contains(t, html, `<pre><code class="language-sh">`)
	assert.Contains(t, html, "&lt;tmp&gt;")
	assert.Contains(t, html, "&lt;b&gt;why&lt;/b&gt;")
	assert.NotContains(t, html, SummaryPrompt, "自動摘要不顯示提問")
	assert.NotContains(t, html, "pending")
}

func TestReportService_Export(t *testing.T) {
	dir := t.TempDir()
	svc := NewReportService(dir, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC) }

	sess, _ := loadedState("f/1").Current()
	path, err := svc.Export(sess, nil, nil)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(path, dir))
	assert.True(t, strings.HasSuffix(path, "logsight-f_1-20260301-083000.html"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestReportService_NoSession(t *testing.T) {
	svc := NewReportService(t.TempDir(), zap.NewNop())
	_, err := svc.Export(session.Session{}, nil, nil)
	assert.Error(t, err)
}
