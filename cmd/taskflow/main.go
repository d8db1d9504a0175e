// =============================================================================
// TaskFlow 主入口
// =============================================================================
// 运行一个任务流：解析配置，打开审计存储，注册工具，执行并输出最终报告
//
// 使用方法:
//
//	taskflow run                          # 运行内置演示流程
//	taskflow run --flow flow.yaml         # 运行 YAML 流程定义
//	taskflow run --config config.yaml     # 指定配置文件
//	taskflow version                      # 显示版本信息
// =============================================================================
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BaSui01/taskflow/agent"
	"github.com/BaSui01/taskflow/config"
	"github.com/BaSui01/taskflow/internal/metrics"
	"github.com/BaSui01/taskflow/llm"
	"github.com/BaSui01/taskflow/memory"
	"github.com/BaSui01/taskflow/tools"
	"github.com/BaSui01/taskflow/types"
	"github.com/BaSui01/taskflow/workflow"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "run":
		runFlow(os.Args[2:])
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

func runFlow(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	flowPath := fs.String("flow", "", "Path to a YAML flow definition")
	input := fs.String("input", "Research the AI market and summarize it", "Initial input for the run")
	fs.Parse(args)

	loader := config.NewLoader()
	if *configPath != "" {
		loader = loader.WithConfigPath(*configPath)
	}
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := buildLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := openDatabase(cfg.Database)
	if err != nil {
		logger.Error("failed to open audit database", zap.Error(err))
		os.Exit(1)
	}

	collector := metrics.NewCollector(cfg.Metrics.Namespace, nil, logger)

	store, err := memory.New(db, logger, collector)
	if err != nil {
		logger.Error("failed to open audit store", zap.Error(err))
		os.Exit(1)
	}

	client := &llm.MockClient{}
	registry := tools.NewRegistry(logger)
	if err := registerDemoTools(registry, client); err != nil {
		logger.Error("failed to register tools", zap.Error(err))
		os.Exit(1)
	}
	invoker := tools.NewInvoker(registry, logger, collector)

	controller := agent.NewController(
		store,
		invoker,
		agent.NewLLMPlanner(client, logger),
		agent.NewLLMSynthesizer(client, logger),
		logger,
		collector,
	)

	flow, err := resolveFlow(*flowPath)
	if err != nil {
		logger.Error("failed to load flow", zap.Error(err))
		os.Exit(1)
	}

	report, err := controller.Execute(context.Background(), flow, *input)
	if err != nil {
		logger.Error("workflow execution failed", zap.Error(err))
		os.Exit(1)
	}

	fmt.Printf("Session ID: %s\n", report.SessionID)
	fmt.Printf("Final Report:\n%s\n", report.Output)
}

// resolveFlow loads the YAML definition when given one, otherwise builds the
// built-in fetch → process → save demo flow.
func resolveFlow(path string) (*workflow.Flow, error) {
	if path != "" {
		def, err := workflow.LoadFlowFile(path)
		if err != nil {
			return nil, err
		}
		return def.ToFlow(), nil
	}

	return workflow.NewFlow("demo_research", types.ModeDAG).
		SetContext("user_id", "demo").
		AddTask(types.MustTask("fetch", "fetch_data", map[string]any{"source": "api.example.com"})).
		AddTask(types.MustTask("process", "process_data", nil, "fetch")).
		AddTask(types.MustTask("save", "save_result", map[string]any{"destination": "/tmp/output.json"}, "process")), nil
}

func registerDemoTools(registry *tools.Registry, client llm.Client) error {
	demos := []tools.Tool{
		{
			Name:         "fetch_data",
			Type:         tools.TypeWeb,
			Description:  "Fetches data from a source",
			RequiredArgs: []string{"source"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return map[string]any{"data": fmt.Sprintf("fetched from %v", args["source"])}, nil
			},
		},
		{
			Name:        "process_data",
			Type:        tools.TypeData,
			Description: "Processes upstream data",
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return map[string]any{"processed": args[workflow.DependencyOutputsKey]}, nil
			},
		},
		{
			Name:         "save_result",
			Type:         tools.TypeFile,
			Description:  "Saves the processed result",
			RequiredArgs: []string{"destination"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return map[string]any{"saved": true, "location": args["destination"]}, nil
			},
		},
		{
			Name:         "llm_tool",
			Type:         tools.TypeMLInference,
			Description:  "Runs a model query",
			RequiredArgs: []string{"query"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return client.Generate(ctx, fmt.Sprint(args["query"]))
			},
		},
		{
			Name:        "report_tool",
			Type:        tools.TypeMLInference,
			Description: "Summarizes upstream outputs",
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return client.Generate(ctx, fmt.Sprintf("Summarize: %v", args[workflow.DependencyOutputsKey]))
			},
		},
	}
	for _, tool := range demos {
		if err := registry.Register(tool); err != nil {
			return err
		}
	}
	return nil
}

func buildLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}

func openDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}
	switch cfg.Driver {
	case "postgres":
		return gorm.Open(postgres.Open(cfg.DSN), gormCfg)
	default:
		return gorm.Open(sqlite.Open(cfg.DSN), gormCfg)
	}
}

func printVersion() {
	fmt.Printf("TaskFlow %s\n", Version)
	fmt.Printf("  Build time: %s\n", BuildTime)
	fmt.Printf("  Git commit: %s\n", GitCommit)
}

func printUsage() {
	fmt.Println(`TaskFlow - workflow orchestration engine

Usage:
  taskflow run [--config config.yaml] [--flow flow.yaml] [--input TEXT]
  taskflow version
  taskflow help`)
}
