package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject_Counts(t *testing.T) {
	t.Run("計數原樣傳遞", func(t *testing.T) {
		p := Project(&AnalysisResult{Counts: map[string]int{"Error": 3, "Warning": 7}})
		assert.Equal(t, 3, p.ErrorCount)
		assert.Equal(t, 7, p.WarningCount)
		require.Len(t, p.Breakdown, 2)
		assert.Equal(t, CountEntry{Label: "Errors", Count: 3}, p.Breakdown[0])
		assert.Equal(t, CountEntry{Label: "Warnings", Count: 7}, p.Breakdown[1])
	})

	t.Run("缺失計數為零", func(t *testing.T) {
		p := Project(&AnalysisResult{})
		assert.Equal(t, 0, p.ErrorCount)
		assert.Equal(t, 0, p.WarningCount)
	})

	t.Run("nil結果", func(t *testing.T) {
		p := Project(nil)
		assert.Equal(t, 0, p.ErrorCount)
		assert.Equal(t, 0, p.Flagged.Len())
	})

	t.Run("鍵大小寫不敏感", func(t *testing.T) {
		p := Project(&AnalysisResult{Counts: map[string]int{"ERROR": 2, "warning": 1, "FAILURE": 4}})
		assert.Equal(t, 2, p.ErrorCount)
		assert.Equal(t, 1, p.WarningCount)
		require.Len(t, p.Breakdown, 3)
		assert.Equal(t, CountEntry{Label: "FAILURE", Count: 4}, p.Breakdown[2])
	})

	t.Run("同義鍵合併", func(t *testing.T) {
		p := Project(&AnalysisResult{Counts: map[string]int{"Error": 2, "ERROR": 5}})
		assert.Equal(t, 7, p.ErrorCount)
	})
}

func TestProject_Flagged(t *testing.T) {
	critical := []CriticalLine{
		{Line: 40, Severity: SeverityWarning, Content: "slow query"},
		{Line: 12, Severity: SeverityError, Content: "panic"},
	}

	t.Run("優先使用行列表", func(t *testing.T) {
		p := Project(&AnalysisResult{
			Critical:     critical,
			ErrorLines:   []int{1, 2},
			WarningLines: []int{3},
		})
		assert.Equal(t, []int{1, 2}, p.Flagged.Errors())
		assert.Equal(t, []int{3}, p.Flagged.Warnings())
	})

	t.Run("從關鍵行推導", func(t *testing.T) {
		p := Project(&AnalysisResult{Critical: critical})
		assert.Equal(t, []int{12}, p.Flagged.Errors())
		assert.Equal(t, []int{40}, p.Flagged.Warnings())
	})

	t.Run("重疊行只保留為錯誤", func(t *testing.T) {
		p := Project(&AnalysisResult{ErrorLines: []int{5, 9}, WarningLines: []int{9, 10}})
		assert.Equal(t, SeverityError, p.Flagged.SeverityOf(9))
		assert.Equal(t, []int{10}, p.Flagged.Warnings())
	})

	t.Run("關鍵行按行號排序且不修改輸入", func(t *testing.T) {
		res := &AnalysisResult{Critical: critical}
		p := Project(res)
		assert.Equal(t, 12, p.Critical[0].Line)
		assert.Equal(t, 40, res.Critical[0].Line)
	})
}
