// Package main is the certify CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/voltcraft/certify/internal/agents"
	"github.com/voltcraft/certify/internal/config"
	"github.com/voltcraft/certify/internal/export"
	"github.com/voltcraft/certify/internal/intent"
	"github.com/voltcraft/certify/internal/knowledge"
	"github.com/voltcraft/certify/internal/llm"
	"github.com/voltcraft/certify/internal/models"
	"github.com/voltcraft/certify/internal/orchestrator"
	"github.com/voltcraft/certify/internal/server"
	"github.com/voltcraft/certify/internal/storage"
	"github.com/voltcraft/certify/internal/validation"
	"github.com/voltcraft/certify/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/certify/config.yaml"

// reportFile is the JSON shape accepted by the validate and export
// subcommands, matching the /api/v1/validate request body.
type reportFile struct {
	Form            *models.ReportForm      `json:"form"`
	InspectionItems []models.InspectionItem `json:"inspectionItems"`
	TestResults     []models.TestResult     `json:"testResults"`
}

// loadConfig loads config from path. When path is the default, a
// config.yaml in the current directory takes precedence (for development).
// Returns the config and the path actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// readReportFile parses a report JSON file for the validate and export
// subcommands.
func readReportFile(path string) (*reportFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report file: %w", err)
	}
	var rf reportFile
	if err := json.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parse report file: %w", err)
	}
	if rf.Form == nil {
		return nil, fmt.Errorf("report file has no form data")
	}
	return &rf, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "validate":
		runValidate()
	case "classify":
		runClassify()
	case "export":
		runExport()
	case "version", "--version", "-v":
		fmt.Printf("certify version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	store, err := storage.NewSQLiteStore(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Fatal("Failed to open report store", zap.Error(err))
	}
	defer store.Close()

	var guidance *knowledge.Index
	if cfg.Knowledge.GuidanceDir != "" {
		guidance, err = knowledge.NewIndex(cfg.Knowledge.IndexPath)
		if err != nil {
			logger.Fatal("Failed to open guidance index", zap.Error(err))
		}
		defer guidance.Close()
		n, err := guidance.IndexGuidance(context.Background(), cfg.Knowledge.GuidanceDir)
		if err != nil {
			logger.Warn("guidance indexing incomplete", zap.Error(err))
		}
		logger.Info("guidance indexed", zap.Int("files", n), zap.String("dir", cfg.Knowledge.GuidanceDir))
	}

	classifier := intent.NewClassifier(nil)
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if cfg.Intent.KeywordsPath != "" {
		kw, err := intent.LoadKeywords(cfg.Intent.KeywordsPath)
		if err != nil {
			logger.Warn("keyword load failed, using built-in lists",
				zap.String("path", cfg.Intent.KeywordsPath), zap.Error(err))
		} else {
			classifier.SetKeywords(kw)
		}
		if err := intent.Watch(watchCtx, cfg.Intent.KeywordsPath, classifier, logger); err != nil {
			logger.Warn("keyword watch unavailable", zap.Error(err))
		}
	}

	registry := agents.NewRegistry()
	agentTimeout := time.Duration(cfg.Agents.TimeoutSeconds) * time.Second
	registry.Register(agents.Designer, agents.NewHTTPSpecialist(agents.Designer, cfg.Agents.DesignerURL, agentTimeout, logger))
	registry.Register(agents.CostEngineer, agents.NewHTTPSpecialist(agents.CostEngineer, cfg.Agents.CostEngineerURL, agentTimeout, logger))
	registry.Register(agents.Installer, agents.NewHTTPSpecialist(agents.Installer, cfg.Agents.InstallerURL, agentTimeout, logger))
	registry.Register(agents.Commissioning, agents.NewHTTPSpecialist(agents.Commissioning, cfg.Agents.CommissioningURL, agentTimeout, logger))

	var orch *orchestrator.Engine
	merger, err := llm.NewOpenAIMerger(llm.Options{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
		Timeout: time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
	}, logger)
	if err != nil {
		logger.Warn("merge model not configured; orchestrate endpoint will report an error", zap.Error(err))
	} else {
		opts := []orchestrator.Option{orchestrator.WithStore(store)}
		if guidance != nil {
			opts = append(opts, orchestrator.WithGuidance(guidance, cfg.Knowledge.MaxCitations))
		}
		orch = orchestrator.NewEngine(classifier, registry, merger, logger, opts...)
	}

	srv := server.NewServer(orch, classifier, store, guidance, &cfg.Server, cfg, logger)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runValidate() {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	_ = fs.Parse(os.Args[2:])
	if fs.NArg() < 1 {
		fmt.Println("Usage: certify validate <report.json>")
		os.Exit(1)
	}
	rf, err := readReportFile(fs.Arg(0))
	if err != nil {
		fmt.Printf("Failed: %v\n", err)
		os.Exit(1)
	}
	v := validation.ValidateEICR(rf.Form, rf.InspectionItems, rf.TestResults)
	m := validation.QualityMetrics(rf.Form, rf.InspectionItems, rf.TestResults)
	fmt.Print(validation.CompletionReport(v, m))
	if !v.Valid {
		os.Exit(1)
	}
}

func runClassify() {
	fs := flag.NewFlagSet("classify", flag.ExitOnError)
	_ = fs.Parse(os.Args[2:])
	message := buildMessage(fs.Args())
	if message == "" {
		fmt.Println("Usage: certify classify <message>")
		os.Exit(1)
	}
	flags := intent.NewClassifier(nil).Classify(message)
	out, _ := json.MarshalIndent(flags, "", "  ")
	fmt.Println(string(out))
}

func runExport() {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	_ = fs.Parse(os.Args[2:])
	if fs.NArg() < 2 {
		fmt.Println("Usage: certify export <report.json> <out.xlsx>")
		os.Exit(1)
	}
	rf, err := readReportFile(fs.Arg(0))
	if err != nil {
		fmt.Printf("Failed: %v\n", err)
		os.Exit(1)
	}
	if err := export.TestSchedule(fs.Arg(1), rf.Form, rf.TestResults); err != nil {
		fmt.Printf("Export failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s (%d test results)\n", fs.Arg(1), len(rf.TestResults))
}

// buildMessage joins all positional args with spaces so multi-word
// messages work the same with or without shell quoting.
func buildMessage(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func printUsage() {
	fmt.Println(`certify - EICR validation and consultation service

Usage:
  certify server [--config path] [--debug]   start the HTTP API
  certify validate <report.json>             validate a report file and print the completion report
  certify classify <message>                 show intent flags for a message
  certify export <report.json> <out.xlsx>    export the test schedule to a spreadsheet
  certify version                            print version
  certify help                               show this help`)
}
