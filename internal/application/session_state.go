package application

import (
	"github.com/Yat-Muk/logsight/internal/domain/session"
)

// OpClass 請求類別，每個類別獨立排序
type OpClass int

const (
	OpLoad OpClass = iota
	OpWindow
	OpLineAnalysis
	OpChat
	OpHistory
	OpStatus
)

func (c OpClass) String() string {
	switch c {
	case OpLoad:
		return "load"
	case OpWindow:
		return "window"
	case OpLineAnalysis:
		return "line_analysis"
	case OpChat:
		return "chat"
	case OpHistory:
		return "history"
	case OpStatus:
		return "status"
	}
	return "unknown"
}

// Ticket 請求憑證：類別內序號 + 發起時的會話代數
type Ticket struct {
	Class      OpClass
	Seq        uint64
	Generation uint64
}

// SessionState 持有唯一的當前會話
//
// 只在 UI 協程上訪問，不加鎖；命令協程只做 I/O，結果經由 Accept/Commit 回到 UI 協程。
// 修改入口只有本包內的 Pager、LifecycleManager 與 ChatOrchestrator。
type SessionState struct {
	current    *session.Session
	generation uint64
	latest     map[OpClass]uint64
}

// NewSessionState 創建空狀態
func NewSessionState() *SessionState {
	return &SessionState{latest: make(map[OpClass]uint64)}
}

// Loaded 是否已加載日誌
func (s *SessionState) Loaded() bool {
	return s.current.Loaded()
}

// Current 返回當前會話的副本
func (s *SessionState) Current() (session.Session, bool) {
	if !s.Loaded() {
		return session.Session{}, false
	}
	return *s.current, true
}

// Generation 當前會話代數，每次替換會話加一
func (s *SessionState) Generation() uint64 {
	return s.generation
}

// Issue 為一次請求發放憑證，使同類別的更早請求失效
func (s *SessionState) Issue(class OpClass) Ticket {
	s.latest[class]++
	return Ticket{Class: class, Seq: s.latest[class], Generation: s.generation}
}

// IsLatest 憑證是否為該類別最近一次發放
func (s *SessionState) IsLatest(t Ticket) bool {
	return s.latest[t.Class] == t.Seq
}

// IsCurrent 憑證是否最新且屬於當前會話
func (s *SessionState) IsCurrent(t Ticket) bool {
	return s.IsLatest(t) && t.Generation == s.generation
}

// SameSession 憑證是否屬於當前會話（不要求最新）
func (s *SessionState) SameSession(t Ticket) bool {
	return t.Generation == s.generation
}

func (s *SessionState) replace(next *session.Session) {
	s.current = next
	s.generation++
}

func (s *SessionState) setViewport(start int) {
	if s.current != nil {
		s.current.ViewportStart = start
	}
}

func (s *SessionState) setSelectedLine(line int) {
	if s.current != nil {
		s.current.SelectedLine = line
	}
}
