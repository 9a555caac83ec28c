// =============================================================================
// Conclave 主入口
// =============================================================================
// 多模型协作引擎的命令行前端，包含成本预估与演示运行
//
// 使用方法:
//
//	conclave run --prompt "..." --mode round_table    # 演示运行
//	conclave run --config conclave.yaml --prompt "..."
//	conclave estimate --prompt "..." --mode expert_panel
//	conclave modes                                    # 列出协作模式
//	conclave version                                  # 显示版本信息
// =============================================================================
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/BaSui01/conclave/collab"
	"github.com/BaSui01/conclave/config"
	"github.com/BaSui01/conclave/internal/metrics"
	"github.com/BaSui01/conclave/llm"
	"github.com/BaSui01/conclave/llm/tokenizer"
)

// =============================================================================
// 📦 版本信息（构建时注入）
// =============================================================================

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// =============================================================================
// 🎯 主函数
// =============================================================================

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "run":
		runCollab(os.Args[2:])
	case "estimate":
		runEstimate(os.Args[2:])
	case "modes":
		printModes()
	case "version":
		printVersion()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// =============================================================================
// 🖥️ run 命令
// =============================================================================

func runCollab(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	prompt := fs.String("prompt", "", "Question to collaborate on")
	mode := fs.String("mode", "", "Collaboration mode (overrides config)")
	agents := fs.String("agents", "", "Comma-separated agent list (overrides config)")
	budgetUSD := fs.Float64("budget", 0, "Budget cap in USD (overrides config)")
	fs.Parse(args)

	if *prompt == "" {
		fmt.Fprintln(os.Stderr, "run: --prompt is required")
		os.Exit(1)
	}

	cfg := loadConfig(*configPath)
	logger := initLogger(cfg.Log)
	defer logger.Sync()

	logger.Info("starting conclave",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
	)

	cfg.ApplyContextWindows()
	tokenizer.RegisterOpenAICounters()

	opts := cfg.RunOptions()
	opts.Prompt = *prompt
	if *mode != "" {
		opts.Mode = collab.Mode(*mode)
	}
	if *agents != "" {
		opts.Agents = splitList(*agents)
	}
	if *budgetUSD > 0 {
		opts.BudgetUSD = *budgetUSD
	}

	// 演示运行使用脚本化客户端。实际部署中由上层程序
	// 注入真实服务商的 llm.Client 实现。
	registry := llm.NewRegistry()
	for _, name := range opts.Agents {
		registry.Register(name, newDemoClient(name))
	}

	var collector *metrics.Collector
	if cfg.Engine.MetricsEnabled {
		collector = metrics.NewCollector("conclave", nil, logger)
	}

	engine, err := collab.NewEngine(collab.EngineConfig{
		Clients:        registry,
		Rates:          cfg.RateTable(),
		Multipliers:    cfg.MultiplierTable(),
		Tuning:         cfg.Tuning,
		Metrics:        collector,
		Logger:         logger,
		CallsPerSecond: cfg.Engine.CallsPerSecond,
	})
	if err != nil {
		logger.Fatal("failed to create engine", zap.Error(err))
	}

	// 订阅事件流打印进度
	opts.RunID = uuid.New().String()
	id, events := engine.Publisher().Subscribe(opts.RunID)
	defer engine.Publisher().Unsubscribe(opts.RunID, id)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range events {
			switch ev.Type {
			case collab.EventPhaseStart:
				fmt.Printf("— phase: %s\n", ev.Phase)
			case collab.EventAgentComplete:
				fmt.Printf("  %s done\n", ev.Agent)
			case collab.EventVoteCast:
				fmt.Printf("  %s votes for %q\n", ev.Agent, ev.Vote)
			case collab.EventCollaborationComplete:
				return
			}
		}
	}()

	result := engine.Run(context.Background(), opts)
	<-done

	fmt.Printf("\nstatus:    %s\n", result.Status)
	fmt.Printf("mode:      %s\n", result.Mode)
	fmt.Printf("spent:     $%.4f\n", result.SpentUSD)
	fmt.Printf("duration:  %s\n", result.Duration)
	if result.Winner != "" {
		fmt.Printf("winner:    %s\n", result.Winner)
	}
	fmt.Printf("\n%s\n", result.Final)
	if result.Rationale != "" {
		fmt.Printf("\nrationale: %s\n", result.Rationale)
	}
}

// =============================================================================
// 💰 estimate 命令
// =============================================================================

func runEstimate(args []string) {
	fs := flag.NewFlagSet("estimate", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	prompt := fs.String("prompt", "", "Question to estimate")
	mode := fs.String("mode", "", "Collaboration mode (overrides config)")
	agents := fs.String("agents", "", "Comma-separated agent list (overrides config)")
	fs.Parse(args)

	if *prompt == "" {
		fmt.Fprintln(os.Stderr, "estimate: --prompt is required")
		os.Exit(1)
	}

	cfg := loadConfig(*configPath)
	opts := cfg.RunOptions()
	if *mode != "" {
		opts.Mode = collab.Mode(*mode)
	}
	if *agents != "" {
		opts.Agents = splitList(*agents)
	}

	rates := cfg.RateTable()
	multipliers := cfg.MultiplierTable()
	tokens := tokenizer.Estimate("", *prompt)
	scaled := int(float64(tokens) * multipliers.For(string(opts.Mode)))

	total := 0.0
	fmt.Printf("mode: %s  prompt tokens: %d  multiplier: %.1f\n\n",
		opts.Mode, tokens, multipliers.For(string(opts.Mode)))
	for _, agent := range opts.Agents {
		cost := rates.InputCost(agent, scaled) + rates.OutputCost(agent, scaled)
		total += cost
		fmt.Printf("  %-10s $%.4f\n", agent, cost)
	}
	fmt.Printf("\nestimated total: $%.4f (budget $%.2f)\n", total, opts.BudgetUSD)
	if opts.BudgetUSD > 0 && total > opts.BudgetUSD {
		fmt.Println("estimate exceeds budget; a run would abort before calling any agent")
		os.Exit(2)
	}
}

// =============================================================================
// 📋 modes / version / help
// =============================================================================

func printModes() {
	for _, m := range collab.AllModes() {
		fmt.Printf("%-28s min agents: %d\n", m, m.MinAgents())
	}
}

func printVersion() {
	fmt.Printf("Conclave %s\n", Version)
	fmt.Printf("  Build Time: %s\n", BuildTime)
	fmt.Printf("  Git Commit: %s\n", GitCommit)
}

func printUsage() {
	fmt.Println(`Conclave - Multi-model collaboration engine

Usage:
  conclave <command> [options]

Commands:
  run       Run one collaboration (demo clients)
  estimate  Estimate collaboration cost without calling any model
  modes     List collaboration modes
  version   Show version information
  help      Show this help message

Options for 'run' and 'estimate':
  --config <path>   Path to configuration file (YAML)
  --prompt <text>   Question to collaborate on
  --mode <mode>     Collaboration mode
  --agents <list>   Comma-separated agent list

Examples:
  conclave run --prompt "Design a cache eviction policy" --mode round_table
  conclave estimate --prompt "..." --mode expert_panel --agents claude,gpt,gemini
  conclave modes`)
}

// =============================================================================
// 🔧 辅助函数
// =============================================================================

func loadConfig(path string) *config.Config {
	loader := config.NewLoader()
	if path != "" {
		loader = loader.WithConfigPath(path)
	}
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func initLogger(cfg config.LogConfig) *zap.Logger {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var encoderConfig zapcore.EncoderConfig
	encoding := "json"
	if cfg.Format == "console" {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoding = "console"
	} else {
		encoderConfig = zap.NewProductionEncoderConfig()
		encoderConfig.TimeKey = "timestamp"
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	zapConfig := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      cfg.Format == "console",
		Encoding:         encoding,
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := zapConfig.Build(
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	if err != nil {
		logger, _ = zap.NewProduction()
	}

	return logger
}
