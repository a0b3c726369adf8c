package state

// AnalyzeState 提交日誌時的輸入狀態
type AnalyzeState struct {
	SkipTLSVerify bool
	Submitting    bool
	Pending       string // 正在分析的來源名稱
}

func NewAnalyzeState() *AnalyzeState {
	return &AnalyzeState{}
}
