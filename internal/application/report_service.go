package application

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Yat-Muk/logsight/internal/domain/session"
	"github.com/Yat-Muk/logsight/internal/pkg/chatfmt"
	apperrors "github.com/Yat-Muk/logsight/internal/pkg/errors"
	"github.com/Yat-Muk/logsight/internal/pkg/logger"
)

const reportTemplate = `<!DOCTYPE html>
<html lang="zh-Hant">
<head>
<meta charset="utf-8">
<title>{{.Name}} - logsight</title>
<style>
body{font-family:sans-serif;max-width:960px;margin:2em auto;color:#222}
table{border-collapse:collapse}td,th{border:1px solid #ccc;padding:4px 8px;text-align:left}
.error{color:#c0392b}.warning{color:#b9770e}
pre{background:#f4f4f4;padding:8px;overflow-x:auto}
.turn{margin:1em 0}.prompt{font-weight:bold}
</style>
</head>
<body>
<h1>{{.Name}}</h1>
<p>文件 ID: {{.ID}} · 共 {{.TotalLines}} 行 · 生成於 {{.Generated}}</p>
<h2>統計</h2>
<table>
<tr><th>類別</th><th>數量</th></tr>
{{range .Breakdown}}<tr><td>{{.Label}}</td><td>{{.Count}}</td></tr>
{{end}}</table>
<h2>關鍵行</h2>
{{if .Critical}}<table>
<tr><th>行</th><th>級別</th><th>時間</th><th>內容</th></tr>
{{range .Critical}}<tr class="{{.Severity}}"><td>{{.Number}}</td><td>{{.Severity}}</td><td>{{.Timestamp}}</td><td><code>{{.Content}}</code></td></tr>
{{end}}</table>{{else}}<p>無</p>{{end}}
{{if .Analysis}}<h2>第 {{.Analysis.Number}} 行分析</h2>
<p><b>摘要:</b> {{.Analysis.Summary}}</p>
<p><b>可能原因:</b> {{.Analysis.ProbableCause}}</p>
<p><b>修復建議:</b> {{.Analysis.SuggestedFix}}</p>
{{end}}{{if .Turns}}<h2>對話</h2>
{{range .Turns}}<div class="turn">{{if .Prompt}}<p class="prompt">{{.Prompt}}</p>{{end}}<div>{{.Reply}}</div></div>
{{end}}{{end}}</body>
</html>
`

var reportTmpl = template.Must(template.New("report").Parse(reportTemplate))

type reportCritical struct {
	Number    int
	Severity  string
	Timestamp string
	Content   string
}

type reportAnalysis struct {
	Number        int
	Summary       string
	ProbableCause string
	SuggestedFix  string
}

type reportTurn struct {
	Prompt string
	Reply  template.HTML
}

type reportData struct {
	Name       string
	ID         string
	TotalLines int
	Generated  string
	Breakdown  []session.CountEntry
	Critical   []reportCritical
	Analysis   *reportAnalysis
	Turns      []reportTurn
}

// ReportService 把當前會話導出為 HTML 報告
type ReportService struct {
	dir    string
	logger *zap.Logger
	now    func() time.Time
}

// NewReportService 創建報告服務，dir 為導出目錄
func NewReportService(dir string, log *zap.Logger) *ReportService {
	return &ReportService{dir: dir, logger: log.Named("report"), now: time.Now}
}

// Render 生成報告內容
func (s *ReportService) Render(sess session.Session, turns []ChatTurn, analysis *session.LineAnalysis) ([]byte, error) {
	if !sess.Loaded() {
		return nil, errNoSession
	}

	data := reportData{
		Name:       sess.DisplayName,
		ID:         sess.ID,
		TotalLines: sess.TotalLines,
		Generated:  s.now().Format("2006-01-02 15:04:05"),
		Breakdown:  sess.Breakdown,
	}
	for _, c := range sess.Critical {
		data.Critical = append(data.Critical, reportCritical{
			Number:    c.Line + 1,
			Severity:  string(c.Severity),
			Timestamp: c.Timestamp,
			Content:   c.Content,
		})
	}
	if analysis != nil {
		data.Analysis = &reportAnalysis{
			Number:        analysis.Line + 1,
			Summary:       analysis.Summary,
			ProbableCause: analysis.ProbableCause,
			SuggestedFix:  analysis.SuggestedFix,
		}
	}
	for _, t := range turns {
		if t.Pending {
			continue
		}
		rt := reportTurn{}
		if !t.Auto {
			rt.Prompt = t.Prompt
		}
		switch {
		case t.Err != nil:
			rt.Reply = template.HTML(template.HTMLEscapeString(Notice(t.Err, "請求失敗")))
		case t.Reply != nil:
			// FormatHTML 已轉義全部輸入
			rt.Reply = template.HTML(chatfmt.FormatHTML(t.Reply.Text))
		}
		data.Turns = append(data.Turns, rt)
	}

	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("渲染報告失敗: %w", err)
	}
	return buf.Bytes(), nil
}

// Export 寫出報告並返回文件路徑
func (s *ReportService) Export(sess session.Session, turns []ChatTurn, analysis *session.LineAnalysis) (string, error) {
	content, err := s.Render(sess, turns, analysis)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeIO, "無法創建導出目錄")
	}

	name := fmt.Sprintf("logsight-%s-%s.html", safeName(sess.ID), s.now().Format("20060102-150405"))
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, content, 0600); err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeIO, "寫入報告失敗")
	}

	s.logger.Info("報告已導出", logger.String("path", path))
	return path, nil
}

func safeName(s string) string {
	out := []rune(s)
	for i, r := range out {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			out[i] = '_'
		}
	}
	if len(out) > 32 {
		out = out[:32]
	}
	return string(out)
}
