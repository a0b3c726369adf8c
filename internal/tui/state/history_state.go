package state

import "github.com/Yat-Muk/logsight/internal/domain/session"

// HistoryState 歷史記錄狀態
type HistoryState struct {
	Entries []session.HistoryEntry
	Loading bool
	Err     string
}

func NewHistoryState() *HistoryState {
	return &HistoryState{}
}

// SetEntries 更新列表
func (s *HistoryState) SetEntries(entries []session.HistoryEntry) {
	s.Entries = entries
	s.Loading = false
	s.Err = ""
}
