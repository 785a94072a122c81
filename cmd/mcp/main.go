package main

import (
	"flag"
	"os"

	"SqliteViewer/internal/mcp"
	"SqliteViewer/internal/repository"
	"SqliteViewer/internal/service"
	"SqliteViewer/pkg/config"
	"SqliteViewer/pkg/logger"

	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
)

const version = "0.1.0"

var (
	configPath = flag.String("config", "", "Config file path (.ini or .yaml)")
	dbPath     = flag.String("db", "", "SQLite database path, overrides config")
)

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logrus.SetOutput(os.Stderr)
		logrus.Fatalf("Failed to load config: %v", err)
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	// stdout 用于协议通信
	logger.SetupWithOutput(cfg.Server.Debug, cfg.Server.LogFile, os.Stderr)
	logrus.Infof("Database: %s", cfg.Database.Path)

	provider := repository.NewProvider(cfg.Database)
	svc := service.NewViewerService(provider, cfg.Database)

	s := server.NewMCPServer(
		"sqlite-viewer",
		version,
		server.WithToolCapabilities(false),
		server.WithLogging(),
	)
	mcp.RegisterTools(s, svc)
	logrus.Info("MCP tools registered, serving on stdio")

	if err := server.ServeStdio(s); err != nil {
		logrus.Fatalf("Server error: %v", err)
	}
}
