package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Yat-Muk/logsight/internal/domain/session"
	"github.com/Yat-Muk/logsight/internal/pkg/appctx"
	"github.com/Yat-Muk/logsight/internal/pkg/logger"
	"github.com/Yat-Muk/logsight/internal/pkg/version"
	"github.com/Yat-Muk/logsight/internal/tui/model"
)

// EnvServer 覆蓋配置文件中的後端地址
const EnvServer = "LOGSIGHT_SERVER"

func main() {
	// 1. 命令行參數解析
	var (
		workDir   = flag.String("dir", "", "指定工作目錄 (默認: $LOGSIGHT_HOME 或 ~/.logsight)")
		server    = flag.String("server", "", "分析服務地址，覆蓋配置文件")
		filePath  = flag.String("file", "", "啟動後立即分析的本地日誌文件")
		logURL    = flag.String("url", "", "啟動後立即分析的遠程日誌地址")
		insecure  = flag.Bool("insecure", false, "跳過 TLS 證書校驗")
		printMode = flag.Bool("print", false, "分析一次並輸出摘要後退出 (需配合 -file 或 -url)")
		showVer   = flag.Bool("version", false, "顯示版本信息")
		debugFlag = flag.Bool("debug", false, "開啟調試模式")
	)
	flag.Parse()

	if *showVer {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	initial, err := initialSource(*filePath, *logURL, *insecure)
	if err != nil {
		fmt.Fprintf(os.Stderr, "參數錯誤: %v\n", err)
		os.Exit(2)
	}
	if *printMode && initial == nil {
		fmt.Fprintln(os.Stderr, "參數錯誤: -print 需要 -file 或 -url")
		os.Exit(2)
	}

	// 2. 環境初始化
	paths, err := appctx.NewPaths(*workDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "致命錯誤: 無法初始化路徑: %v\n", err)
		os.Exit(1)
	}

	// TUI 佔用終端，錯誤輸出改寫到文件；打印模式保留 stderr
	if !*printMode {
		redirectStdErr(paths.StderrFile)
	}

	logConfig := loggerConfig(paths, bootstrapLogConfig(paths), *debugFlag)
	log, err := logger.New(logConfig)
	if err != nil {
		panic(fmt.Sprintf("日誌初始化失敗: %v", err))
	}
	defer log.Sync()

	log.Info("logsight 正在啟動",
		zap.String("version", version.Version),
		zap.String("commit", version.GitCommit),
		zap.Bool("print_mode", *printMode),
	)

	// 3. 依賴注入
	opts := Options{
		Server:   firstNonEmpty(*server, os.Getenv(EnvServer)),
		Insecure: *insecure,
		Initial:  initial,
	}
	deps, err := initializeDependencies(log, paths, opts)
	if err != nil {
		log.Error("依賴初始化失敗", logger.Error(err))
		fmt.Fprintf(os.Stderr, "初始化失敗: %v\n", err)
		os.Exit(1)
	}

	// 4. 模式分發
	if *printMode {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := runPrint(ctx, deps, *initial, os.Stdout); err != nil {
			log.Error("打印模式執行失敗", logger.Error(err))
			fmt.Fprintf(os.Stderr, "分析失敗: %v\n", err)
			os.Exit(1)
		}
		return
	}

	runTUI(deps)
}

func runTUI(deps *AppDependencies) {
	router := model.NewRouter(deps.HandlerConfig)
	mainModel := model.NewModel(router)

	p := tea.NewProgram(
		mainModel,
		tea.WithAltScreen(),
	)

	// 崩潰保護
	defer func() {
		if r := recover(); r != nil {
			p.ReleaseTerminal()
			fmt.Printf("\n\n❌ 程序崩潰: %v\n", r)
			deps.Log.Error("Panic", zap.Any("error", r), zap.String("stack", string(debug.Stack())))
			os.Exit(1)
		}
	}()

	if _, err := p.Run(); err != nil {
		fmt.Printf("程序運行錯誤: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("👋 Bye!")
}

// initialSource 由 -file / -url 構建啟動來源，兩者互斥
func initialSource(file, rawURL string, insecure bool) (*session.Source, error) {
	switch {
	case file != "" && rawURL != "":
		return nil, fmt.Errorf("-file 與 -url 不能同時使用")
	case file != "":
		src := session.FileSource(file)
		return &src, nil
	case rawURL != "":
		src := session.URLSource(rawURL, insecure)
		return &src, nil
	}
	return nil, nil
}

func redirectStdErr(filename string) {
	_ = os.MkdirAll(filepath.Dir(filename), 0700)
	f, err := os.OpenFile(filename, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err == nil {
		os.Stderr = f
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
