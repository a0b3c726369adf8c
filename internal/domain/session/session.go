// Package session 描述當前打開的日誌會話及其派生數據。
package session

import "time"

// NoSelection 未選中任何行
const NoSelection = -1

// Session 當前日誌會話
//
// ID 為空表示尚未加載日誌。TotalLines 在創建後不變；
// 存在會話時 0 <= ViewportStart < TotalLines（TotalLines 為 0 時 ViewportStart 固定為 0）。
type Session struct {
	ID            string
	DisplayName   string
	Source        SourceKind
	TotalLines    int
	ViewportStart int
	ErrorCount    int
	WarningCount  int
	Flagged       FlaggedLines
	Critical      []CriticalLine
	Breakdown     []CountEntry
	SelectedLine  int
	LoadedAt      time.Time
}

// Loaded 是否已有日誌
func (s *Session) Loaded() bool {
	return s != nil && s.ID != ""
}

// New 由投影結果創建會話，視口從 0 開始
func New(id, name string, kind SourceKind, totalLines int, p Projection) *Session {
	if totalLines < 0 {
		totalLines = 0
	}
	return &Session{
		ID:            id,
		DisplayName:   name,
		Source:        kind,
		TotalLines:    totalLines,
		ViewportStart: 0,
		ErrorCount:    p.ErrorCount,
		WarningCount:  p.WarningCount,
		Flagged:       p.Flagged,
		Critical:      p.Critical,
		Breakdown:     p.Breakdown,
		SelectedLine:  NoSelection,
		LoadedAt:      time.Now(),
	}
}
