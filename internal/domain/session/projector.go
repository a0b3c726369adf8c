package session

import (
	"sort"
	"strings"
)

// CountEntry 分類計數，用於圖表
type CountEntry struct {
	Label string
	Count int
}

// Projection 分析結果投影出的摘要與標記
type Projection struct {
	ErrorCount   int
	WarningCount int
	Flagged      FlaggedLines
	Critical     []CriticalLine
	Breakdown    []CountEntry
}

func normalizeKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}

// Project 從分析結果推導摘要統計與標記行，純函數，不會失敗
//
// 計數鍵大小寫不敏感，缺失時為 0。標記行優先取結果中的 error_lines/warning_lines，
// 否則按關鍵行的級別推導。
func Project(res *AnalysisResult) Projection {
	if res == nil {
		return Projection{Flagged: NewFlaggedLines(nil, nil)}
	}

	var p Projection
	merged := make(map[string]int)
	labels := make(map[string]string)
	for k, v := range res.Counts {
		key := normalizeKey(k)
		if key == "" {
			continue
		}
		merged[key] += v
		if _, ok := labels[key]; !ok || k < labels[key] {
			labels[key] = k
		}
	}
	p.ErrorCount = merged["error"]
	p.WarningCount = merged["warning"]

	p.Breakdown = append(p.Breakdown,
		CountEntry{Label: "Errors", Count: p.ErrorCount},
		CountEntry{Label: "Warnings", Count: p.WarningCount},
	)
	var others []CountEntry
	for key, n := range merged {
		if key == "error" || key == "warning" {
			continue
		}
		others = append(others, CountEntry{Label: labels[key], Count: n})
	}
	sort.Slice(others, func(i, j int) bool {
		if others[i].Count != others[j].Count {
			return others[i].Count > others[j].Count
		}
		return others[i].Label < others[j].Label
	})
	p.Breakdown = append(p.Breakdown, others...)

	p.Critical = make([]CriticalLine, len(res.Critical))
	copy(p.Critical, res.Critical)
	sort.SliceStable(p.Critical, func(i, j int) bool { return p.Critical[i].Line < p.Critical[j].Line })

	if res.ErrorLines != nil || res.WarningLines != nil {
		p.Flagged = NewFlaggedLines(res.ErrorLines, res.WarningLines)
	} else {
		var errs, warns []int
		for _, c := range res.Critical {
			switch c.Severity {
			case SeverityError:
				errs = append(errs, c.Line)
			case SeverityWarning:
				warns = append(warns, c.Line)
			}
		}
		p.Flagged = NewFlaggedLines(errs, warns)
	}

	return p
}
