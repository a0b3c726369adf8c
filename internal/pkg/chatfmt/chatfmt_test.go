package chatfmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatHTML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"純文本換行", "line one\nline two", "line one<br>line two"},
		{"腳本標籤被轉義", "<script>alert(1)</script>", "&lt;script&gt;alert(1)&lt;/script&gt;"},
		{"行內代碼", "run `make test` now", "run <code>make test</code> now"},
		{"代碼塊帶語言", "see:\n```go\nfmt.Println(1)\n```", `see:<br><pre><code class="language-go">fmt.Println(1)</code></pre>`},
		{"代碼塊內標籤仍轉義", "```\n<b>x</b>\n```", "<pre><code>&lt;b&gt;x&lt;/b&gt;</code></pre>"},
		{"行內代碼內標籤轉義", "`<img src=x>`", "<code>&lt;img src=x&gt;</code>"},
		{"未閉合反引號保持原樣", "a ` b", "a ` b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatHTML(tt.input))
		})
	}
}

func TestFormatHTML_NoRawTags(t *testing.T) {
	out := FormatHTML(`<a href="javascript:x">click</a> and <iframe>`)
	assert.NotContains(t, out, "<a ")
	assert.NotContains(t, out, "<iframe")
}

func TestClean(t *testing.T) {
	t.Run("剝離ANSI顏色", func(t *testing.T) {
		assert.Equal(t, "red text", Clean("\x1b[31mred\x1b[0m text"))
	})

	t.Run("保留換行與製表符", func(t *testing.T) {
		assert.Equal(t, "a\n\tb", Clean("a\r\n\tb"))
	})

	t.Run("移除其他控制字符", func(t *testing.T) {
		assert.Equal(t, "ab", Clean("a\x07\x00b"))
	})
}

func TestParse(t *testing.T) {
	segs := Parse("Check `config.yaml`:\n```yaml\nlevel: debug\n```\ndone")
	require.Len(t, segs, 5)

	assert.Equal(t, Segment{Kind: KindText, Text: "Check "}, segs[0])
	assert.Equal(t, Segment{Kind: KindInlineCode, Text: "config.yaml"}, segs[1])
	assert.Equal(t, Segment{Kind: KindText, Text: ":\n"}, segs[2])
	assert.Equal(t, Segment{Kind: KindCodeBlock, Lang: "yaml", Text: "level: debug"}, segs[3])
	assert.Equal(t, Segment{Kind: KindText, Text: "\ndone"}, segs[4])
}

func TestParse_StripsEscapesInsideCode(t *testing.T) {
	segs := Parse("```\n\x1b[2Jwipe\n```")
	require.Len(t, segs, 1)
	assert.Equal(t, "wipe", segs[0].Text)
}
