package main

import (
	"flag"
	"os"

	"SqliteViewer/internal/handler"
	"SqliteViewer/internal/repository"
	"SqliteViewer/internal/service"
	"SqliteViewer/pkg/config"
	"SqliteViewer/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var (
	configPath = flag.String("config", "", "Config file path (.ini or .yaml)")
	dbPath     = flag.String("db", "", "SQLite database path, overrides config")
)

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	logger.Setup(cfg.Server.Debug, cfg.Server.LogFile)

	logrus.Info("===========================================")
	logrus.Info("  SQLite Table Viewer")
	logrus.Info("===========================================")
	logrus.Infof("Database: %s", cfg.Database.Path)
	if info, err := os.Stat(cfg.Database.Path); err != nil {
		logrus.Warnf("Database file not found: %s", cfg.Database.Path)
	} else {
		logrus.Infof("Database size: %s", service.FormatFileSize(info.Size()))
	}
	logrus.Infof("Listen: %s", cfg.Server.Addr())
	logrus.Infof("Debug: %v", cfg.Server.Debug)

	// 设置Gin模式
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	provider := repository.NewProvider(cfg.Database)
	svc := service.NewViewerService(provider, cfg.Database)
	viewerHandler := handler.NewViewerHandler(svc)
	router := handler.SetupRouter(viewerHandler, cfg)
	logrus.Info("Router initialized")
	logrus.Info("===========================================")

	if err := router.Run(cfg.Server.Addr()); err != nil {
		logrus.Fatalf("Failed to start server: %v", err)
	}
}
