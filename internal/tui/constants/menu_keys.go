package constants

const (
	// ==========================================
	// 主菜單 (Main Menu)
	// ==========================================
	KeyMain_AnalyzeFile = "1" // 分析本地日誌文件
	KeyMain_AnalyzeURL  = "2" // 分析遠程日誌
	KeyMain_Summary     = "3" // 分析摘要
	KeyMain_Viewer      = "4" // 日誌查看器
	KeyMain_Critical    = "5" // 關鍵行
	KeyMain_Chat        = "6" // 分析助手
	KeyMain_History     = "7" // 歷史記錄
	KeyMain_Settings    = "8" // 設置
	KeyMain_Export      = "9" // 導出報告
	KeyMain_Quit        = "q" // 退出程序

	// ==========================================
	// 遠程日誌 (Analyze URL)
	// ==========================================
	KeyURL_ToggleTLS = "k" // 切換跳過 TLS 校驗

	// ==========================================
	// 日誌查看器 (Log Viewer)
	// ==========================================
	KeyViewer_Next    = "n" // 下一頁
	KeyViewer_Prev    = "p" // 上一頁
	KeyViewer_Top     = "g" // 回到開頭
	KeyViewer_Analyze = "a" // 分析高亮行
	KeyViewer_Reload  = "r" // 重新加載

	// ==========================================
	// 關鍵行 (Critical Lines)
	// ==========================================
	KeyCritical_AnalyzePrefix = "a" // a<序號> 分析該行

	// ==========================================
	// 助手 (Chat / Line Analysis)
	// ==========================================
	KeyChat_Summary  = "/summary" // 重新生成摘要
	KeyChat_Analysis = "/line"    // 查看單行分析
	KeyChat_Status   = "/status"  // 探測助手狀態

	KeyAnalysis_Refresh = "r" // 刷新分析
	KeyAnalysis_Chat    = "c" // 進入對話

	// ==========================================
	// 歷史記錄 (History)
	// ==========================================
	KeyHistory_Refresh = "r"

	// ==========================================
	// 設置 (Settings)
	// ==========================================
	KeySettings_AutoSummary = "1" // 加載後自動摘要
	KeySettings_AutoAnalyze = "2" // 加載後自動分析首個錯誤
	KeySettings_ScrollStep  = "3" // 翻頁步長
	KeySettings_JumpMargin  = "4" // 跳轉上下文行數
	KeySettings_RPM         = "5" // 助手每分鐘請求上限

	// 通用
	KeyCommon_Back = "0"
)
